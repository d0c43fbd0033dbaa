package index

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/yashagw/clinicdb/internal/bucket"
	"github.com/yashagw/clinicdb/internal/logging"
	"github.com/yashagw/clinicdb/internal/slotstore"
)

const nilNode = -1

type treeNode[K cmp.Ordered] struct {
	key    K
	bucket bucket.Bucket
	height int
	left   int
	right  int
}

// OrderedIndex is an AVL tree keyed by K. Each node holds a bucket with every
// slot filed under its key, so one key may own many records. A node is
// removed as soon as its bucket empties.
//
// Nodes live in an arena and are linked by handle. Callbacks passed to the
// Traverse methods must not modify the index.
type OrderedIndex[K cmp.Ordered, R comparable] struct {
	name    string
	nodes   []treeNode[K]
	free    []int
	root    int
	arena   *bucket.Arena
	records int
	log     *slog.Logger
}

func NewOrderedIndex[K cmp.Ordered, R comparable](name string) *OrderedIndex[K, R] {
	return &OrderedIndex[K, R]{
		name:  name,
		root:  nilNode,
		arena: bucket.NewArena(),
		log:   logging.WithIndex(name),
	}
}

func (t *OrderedIndex[K, R]) Name() string {
	return t.name
}

// Len returns the number of slots filed across all keys.
func (t *OrderedIndex[K, R]) Len() int {
	return t.records
}

func (t *OrderedIndex[K, R]) IsEmpty() bool {
	return t.root == nilNode
}

// Clear drops every node. The store is not touched.
func (t *OrderedIndex[K, R]) Clear() {
	t.nodes = nil
	t.free = nil
	t.root = nilNode
	t.arena = bucket.NewArena()
	t.records = 0
	t.log.Debug("cleared")
}

func (t *OrderedIndex[K, R]) newNode(key K) int {
	n := treeNode[K]{
		key:    key,
		bucket: t.arena.NewBucket(),
		height: 1,
		left:   nilNode,
		right:  nilNode,
	}
	if l := len(t.free); l > 0 {
		h := t.free[l-1]
		t.free = t.free[:l-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// freeNode recycles h. Its bucket must already be empty or handed to
// another node.
func (t *OrderedIndex[K, R]) freeNode(h int) {
	t.nodes[h] = treeNode[K]{left: nilNode, right: nilNode}
	t.free = append(t.free, h)
}

func (t *OrderedIndex[K, R]) height(h int) int {
	if h == nilNode {
		return 0
	}
	return t.nodes[h].height
}

func (t *OrderedIndex[K, R]) updateHeight(h int) {
	if h != nilNode {
		t.nodes[h].height = 1 + max(t.height(t.nodes[h].left), t.height(t.nodes[h].right))
	}
}

func (t *OrderedIndex[K, R]) balanceFactor(h int) int {
	if h == nilNode {
		return 0
	}
	return t.height(t.nodes[h].left) - t.height(t.nodes[h].right)
}

func (t *OrderedIndex[K, R]) rotateLeft(x int) int {
	y := t.nodes[x].right
	t.nodes[x].right = t.nodes[y].left
	t.nodes[y].left = x

	t.updateHeight(x)
	t.updateHeight(y)

	t.log.Debug("rotate left", "key", t.nodes[x].key)
	return y
}

func (t *OrderedIndex[K, R]) rotateRight(y int) int {
	x := t.nodes[y].left
	t.nodes[y].left = t.nodes[x].right
	t.nodes[x].right = y

	t.updateHeight(y)
	t.updateHeight(x)

	t.log.Debug("rotate right", "key", t.nodes[y].key)
	return x
}

func (t *OrderedIndex[K, R]) rebalance(h int) int {
	t.updateHeight(h)
	bf := t.balanceFactor(h)

	if bf > 1 {
		if t.balanceFactor(t.nodes[h].left) < 0 {
			t.nodes[h].left = t.rotateLeft(t.nodes[h].left)
		}
		return t.rotateRight(h)
	}
	if bf < -1 {
		if t.balanceFactor(t.nodes[h].right) > 0 {
			t.nodes[h].right = t.rotateRight(t.nodes[h].right)
		}
		return t.rotateLeft(h)
	}
	return h
}

// insert files slot under key in the subtree rooted at h and returns the new
// subtree root. newNode may grow t.nodes, so children are assigned only after
// the recursive call returns.
func (t *OrderedIndex[K, R]) insert(h int, key K, slot int) int {
	if h == nilNode {
		n := t.newNode(key)
		t.nodes[n].bucket.Add(slot)
		t.log.Debug("new node", "key", key, "slot", slot)
		return n
	}

	switch c := cmp.Compare(key, t.nodes[h].key); {
	case c < 0:
		child := t.insert(t.nodes[h].left, key, slot)
		t.nodes[h].left = child
	case c > 0:
		child := t.insert(t.nodes[h].right, key, slot)
		t.nodes[h].right = child
	default:
		t.nodes[h].bucket.Add(slot)
		t.log.Debug("slot added to key", "key", key, "slot", slot, "count", t.nodes[h].bucket.Size())
		return h
	}
	return t.rebalance(h)
}

// removeNode deletes the node holding key from the subtree rooted at h.
func (t *OrderedIndex[K, R]) removeNode(h int, key K) int {
	if h == nilNode {
		return nilNode
	}

	switch c := cmp.Compare(key, t.nodes[h].key); {
	case c < 0:
		t.nodes[h].left = t.removeNode(t.nodes[h].left, key)
	case c > 0:
		t.nodes[h].right = t.removeNode(t.nodes[h].right, key)
	default:
		left, right := t.nodes[h].left, t.nodes[h].right
		if left == nilNode {
			t.log.Debug("node removed", "key", key)
			t.freeNode(h)
			return right
		}
		if right == nilNode {
			t.log.Debug("node removed", "key", key)
			t.freeNode(h)
			return left
		}

		succ := right
		for t.nodes[succ].left != nilNode {
			succ = t.nodes[succ].left
		}
		t.log.Debug("node replaced by successor", "key", key, "successor", t.nodes[succ].key)

		succKey := t.nodes[succ].key
		t.nodes[h].key = succKey
		t.nodes[h].bucket = t.nodes[succ].bucket
		t.nodes[h].right = t.removeNode(right, succKey)
	}
	return t.rebalance(h)
}

func (t *OrderedIndex[K, R]) findNode(key K) int {
	h := t.root
	for h != nilNode {
		switch c := cmp.Compare(key, t.nodes[h].key); {
		case c < 0:
			h = t.nodes[h].left
		case c > 0:
			h = t.nodes[h].right
		default:
			return h
		}
	}
	return nilNode
}

// Insert appends rec to store and files the new slot under key.
func (t *OrderedIndex[K, R]) Insert(key K, rec R, store *slotstore.Store[R]) error {
	slot, err := store.Append(rec)
	if err != nil {
		return fmt.Errorf("index %s: %w", t.name, err)
	}
	t.InsertSlot(key, slot)
	return nil
}

// InsertSlot files an existing slot under key. The caller guarantees slot is
// not already filed in this index.
func (t *OrderedIndex[K, R]) InsertSlot(key K, slot int) {
	t.root = t.insert(t.root, key, slot)
	t.records++
}

// Find returns the slot under key whose record equals target.
func (t *OrderedIndex[K, R]) Find(key K, target R, store *slotstore.Store[R]) (int, bool) {
	h := t.findNode(key)
	if h == nilNode {
		return -1, false
	}
	found := -1
	t.nodes[h].bucket.Each(func(_, slot int) bool {
		if store.At(slot) == target {
			found = slot
			return false
		}
		return true
	})
	return found, found != -1
}

// Unfile removes slot from the bucket of key, deleting the node when the
// bucket empties. The store is not touched.
func (t *OrderedIndex[K, R]) Unfile(key K, slot int) bool {
	h := t.findNode(key)
	if h == nilNode {
		return false
	}
	pos := t.nodes[h].bucket.IndexOf(slot)
	if pos < 0 {
		return false
	}
	t.nodes[h].bucket.RemoveAt(pos)
	t.records--
	t.log.Debug("slot unfiled", "key", key, "slot", slot, "position", pos)

	if t.nodes[h].bucket.IsEmpty() {
		t.root = t.removeNode(t.root, key)
	}
	return true
}

// Remove deletes the record under key that equals target, from both the
// index and store. It returns false if there is no such record.
func (t *OrderedIndex[K, R]) Remove(key K, target R, store *slotstore.Store[R]) bool {
	slot, found := t.Find(key, target, store)
	if !found {
		t.log.Debug("remove: no matching record", "key", key)
		return false
	}
	t.Unfile(key, slot)
	if err := store.RemoveAt(slot, t); err != nil {
		t.log.Error("remove: store rejected slot", "key", key, "slot", slot, "error", err)
	}
	return true
}

// DetachAll deletes the node for key and returns the slots it held in
// descending order. The store is not touched.
func (t *OrderedIndex[K, R]) DetachAll(key K) ([]int, bool) {
	h := t.findNode(key)
	if h == nilNode {
		return nil, false
	}
	slots := t.nodes[h].bucket.Slots()
	t.nodes[h].bucket.Release()
	t.records -= len(slots)
	t.root = t.removeNode(t.root, key)

	slices.Sort(slots)
	slices.Reverse(slots)
	return slots, true
}

// RemoveAllByKey deletes key and every record filed under it. Slots are
// removed from the store highest first, so none of the pending slots is moved
// by an earlier swap-remove.
func (t *OrderedIndex[K, R]) RemoveAllByKey(key K, store *slotstore.Store[R]) bool {
	slots, found := t.DetachAll(key)
	if !found {
		return false
	}
	for _, slot := range slots {
		if err := store.RemoveAt(slot, t); err != nil {
			t.log.Error("remove all: store rejected slot", "key", key, "slot", slot, "error", err)
		}
	}
	t.log.Debug("removed all", "key", key, "records", len(slots))
	return true
}

// FixIndex rewrites oldSlot to newSlot wherever it is filed. There is no
// reverse map from slot to node, so this walks the whole tree.
func (t *OrderedIndex[K, R]) FixIndex(oldSlot, newSlot int) {
	var fix func(h int) bool
	fix = func(h int) bool {
		if h == nilNode {
			return false
		}
		if t.nodes[h].bucket.FixIndex(oldSlot, newSlot) {
			t.log.Debug("fixed slot", "key", t.nodes[h].key, "old", oldSlot, "new", newSlot)
			return true
		}
		return fix(t.nodes[h].left) || fix(t.nodes[h].right)
	}
	if !fix(t.root) {
		t.log.Warn("fix index: no node holds slot", "old", oldSlot, "new", newSlot)
	}
}

func (t *OrderedIndex[K, R]) inOrder(h int, fn func(h int)) {
	if h == nilNode {
		return
	}
	t.inOrder(t.nodes[h].left, fn)
	fn(h)
	t.inOrder(t.nodes[h].right, fn)
}

func (t *OrderedIndex[K, R]) reverseOrder(h int, fn func(h int)) {
	if h == nilNode {
		return
	}
	t.reverseOrder(t.nodes[h].right, fn)
	fn(h)
	t.reverseOrder(t.nodes[h].left, fn)
}

// Traverse calls fn for every record in ascending key order.
func (t *OrderedIndex[K, R]) Traverse(store *slotstore.Store[R], fn func(rec R, key K)) {
	t.inOrder(t.root, func(h int) {
		key := t.nodes[h].key
		t.nodes[h].bucket.Each(func(_, slot int) bool {
			fn(store.At(slot), key)
			return true
		})
	})
}

// TraverseReverse calls fn for every record in descending key order.
func (t *OrderedIndex[K, R]) TraverseReverse(store *slotstore.Store[R], fn func(rec R, key K)) {
	t.reverseOrder(t.root, func(h int) {
		key := t.nodes[h].key
		t.nodes[h].bucket.Each(func(_, slot int) bool {
			fn(store.At(slot), key)
			return true
		})
	})
}

// TraverseFiltered calls accept for every record that satisfies filter.
func (t *OrderedIndex[K, R]) TraverseFiltered(store *slotstore.Store[R], filter func(R) bool, accept func(R)) {
	t.Traverse(store, func(rec R, _ K) {
		if filter(rec) {
			accept(rec)
		}
	})
}

// TraverseIndex calls fn with every filed slot and its key.
func (t *OrderedIndex[K, R]) TraverseIndex(fn func(slot int, key K)) {
	t.inOrder(t.root, func(h int) {
		key := t.nodes[h].key
		t.nodes[h].bucket.Each(func(_, slot int) bool {
			fn(slot, key)
			return true
		})
	})
}

// TraverseByKey calls fn for each slot filed under key. It returns false if
// key is absent.
func (t *OrderedIndex[K, R]) TraverseByKey(key K, fn func(slot int)) bool {
	h := t.findNode(key)
	if h == nilNode {
		return false
	}
	t.nodes[h].bucket.Each(func(_, slot int) bool {
		fn(slot)
		return true
	})
	return true
}

// TraverseRange calls fn for every slot whose key lies in [from, to], in
// ascending key order.
func (t *OrderedIndex[K, R]) TraverseRange(from, to K, fn func(slot int, key K)) {
	var walk func(h int)
	walk = func(h int) {
		if h == nilNode {
			return
		}
		key := t.nodes[h].key
		if cmp.Less(from, key) {
			walk(t.nodes[h].left)
		}
		if cmp.Compare(from, key) <= 0 && cmp.Compare(key, to) <= 0 {
			t.nodes[h].bucket.Each(func(_, slot int) bool {
				fn(slot, key)
				return true
			})
		}
		if cmp.Less(key, to) {
			walk(t.nodes[h].right)
		}
	}
	walk(t.root)
}

func (t *OrderedIndex[K, R]) KeyExists(key K) bool {
	return t.findNode(key) != nilNode
}

// CountForKey returns how many slots are filed under key.
func (t *OrderedIndex[K, R]) CountForKey(key K) int {
	h := t.findNode(key)
	if h == nilNode {
		return 0
	}
	return t.nodes[h].bucket.Size()
}

// AllKeys returns every key in ascending order.
func (t *OrderedIndex[K, R]) AllKeys() []K {
	var keys []K
	t.inOrder(t.root, func(h int) {
		if !t.nodes[h].bucket.IsEmpty() {
			keys = append(keys, t.nodes[h].key)
		}
	})
	return keys
}

// KeyForSlot returns the key slot is filed under.
func (t *OrderedIndex[K, R]) KeyForSlot(slot int) (K, bool) {
	var (
		key   K
		found bool
	)
	t.inOrder(t.root, func(h int) {
		if !found && t.nodes[h].bucket.IndexOf(slot) >= 0 {
			key, found = t.nodes[h].key, true
		}
	})
	return key, found
}

// Height returns the height of the tree; an empty tree has height 0.
func (t *OrderedIndex[K, R]) Height() int {
	return t.height(t.root)
}

func (t *OrderedIndex[K, R]) Statistics() TreeStats {
	var stats TreeStats
	var walk func(h, depth int)
	walk = func(h, depth int) {
		if h == nilNode {
			return
		}
		stats.NodeCount++
		size := t.nodes[h].bucket.Size()
		stats.RecordCount += size
		if size > 0 {
			stats.UniqueKeys++
		}
		stats.MaxDepth = max(stats.MaxDepth, depth)
		walk(t.nodes[h].left, depth+1)
		walk(t.nodes[h].right, depth+1)
	}
	walk(t.root, 1)
	return stats
}

// ValidateIntegrity reports whether every filed slot is inside store.
func (t *OrderedIndex[K, R]) ValidateIntegrity(store *slotstore.Store[R]) bool {
	size := store.Size()
	ok := true
	t.TraverseIndex(func(slot int, key K) {
		if slot < 0 || slot >= size {
			t.log.Warn("slot outside store", "key", key, "slot", slot, "size", size)
			ok = false
		}
	})
	return ok
}

// CheckBalance verifies the search tree order, the stored heights and the
// AVL balance of every node. It also checks that no bucket is empty, that no
// slot is filed twice and that no bucket node has leaked.
func (t *OrderedIndex[K, R]) CheckBalance() error {
	seen := make(map[int]K, t.records)
	records := 0

	var check func(h int, lo, hi *K) (int, error)
	check = func(h int, lo, hi *K) (int, error) {
		if h == nilNode {
			return 0, nil
		}
		n := t.nodes[h]
		if lo != nil && cmp.Compare(n.key, *lo) <= 0 {
			return 0, integrityErrorf(t.name, "key %v not greater than %v", n.key, *lo)
		}
		if hi != nil && cmp.Compare(n.key, *hi) >= 0 {
			return 0, integrityErrorf(t.name, "key %v not less than %v", n.key, *hi)
		}
		if n.bucket.IsEmpty() {
			return 0, integrityErrorf(t.name, "key %v has an empty bucket", n.key)
		}
		var dupErr error
		n.bucket.Each(func(_, slot int) bool {
			if other, dup := seen[slot]; dup {
				dupErr = integrityErrorf(t.name, "slot %d filed under %v and %v", slot, other, n.key)
				return false
			}
			seen[slot] = n.key
			records++
			return true
		})
		if dupErr != nil {
			return 0, dupErr
		}

		lh, err := check(n.left, lo, &n.key)
		if err != nil {
			return 0, err
		}
		rh, err := check(n.right, &n.key, hi)
		if err != nil {
			return 0, err
		}
		if d := lh - rh; d > 1 || d < -1 {
			return 0, integrityErrorf(t.name, "key %v unbalanced: left %d right %d", n.key, lh, rh)
		}
		h2 := 1 + max(lh, rh)
		if h2 != n.height {
			return 0, integrityErrorf(t.name, "key %v stores height %d, actual %d", n.key, n.height, h2)
		}
		return h2, nil
	}

	if _, err := check(t.root, nil, nil); err != nil {
		return err
	}
	if records != t.records {
		return integrityErrorf(t.name, "record count %d, filed slots %d", t.records, records)
	}
	if live := t.arena.Live(); live != records {
		return integrityErrorf(t.name, "%d bucket nodes live for %d filed slots", live, records)
	}
	return nil
}

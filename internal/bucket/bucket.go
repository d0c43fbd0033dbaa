// Package bucket implements the per-key list of slots used by the indexes:
// a circular singly linked list whose nodes live in a shared Arena and are
// addressed by integer handles.
package bucket

const nilHandle = -1

// Arena owns the nodes of every bucket created from it. Freed nodes are
// reused before the arena grows.
type Arena struct {
	slots []int
	next  []int
	free  int
	live  int
}

func NewArena() *Arena {
	return &Arena{free: nilHandle}
}

// Live returns the number of nodes currently linked into some bucket.
func (a *Arena) Live() int {
	return a.live
}

// NewBucket returns an empty bucket backed by a.
func (a *Arena) NewBucket() Bucket {
	return Bucket{arena: a, head: nilHandle, tail: nilHandle}
}

func (a *Arena) alloc(slot int) int {
	a.live++
	if a.free != nilHandle {
		h := a.free
		a.free = a.next[h]
		a.slots[h] = slot
		a.next[h] = nilHandle
		return h
	}
	a.slots = append(a.slots, slot)
	a.next = append(a.next, nilHandle)
	return len(a.slots) - 1
}

func (a *Arena) release(h int) {
	a.live--
	a.next[h] = a.free
	a.free = h
}

// Bucket is a circular list of slots. The tail links back to the head.
// Copying a Bucket value transfers the list, it does not clone it.
type Bucket struct {
	arena *Arena
	head  int
	tail  int
	size  int
}

func (b *Bucket) IsEmpty() bool {
	return b.head == nilHandle
}

func (b *Bucket) Size() int {
	return b.size
}

// Add prepends slot; it becomes the new head.
func (b *Bucket) Add(slot int) {
	h := b.arena.alloc(slot)
	if b.head == nilHandle {
		b.head, b.tail = h, h
		b.arena.next[h] = h
	} else {
		b.arena.next[h] = b.head
		b.head = h
		b.arena.next[b.tail] = b.head
	}
	b.size++
}

// RemoveAt unlinks the node at position (0 is the head) and returns the slot
// it held.
func (b *Bucket) RemoveAt(position int) (int, bool) {
	if b.head == nilHandle || position < 0 || position >= b.size {
		return 0, false
	}

	next := b.arena.next
	curr, prev := b.head, b.tail
	for i := 0; i < position; i++ {
		prev = curr
		curr = next[curr]
	}

	slot := b.arena.slots[curr]
	if curr == b.head {
		b.head = next[curr]
	}
	if curr == b.tail {
		b.tail = prev
	}
	next[prev] = next[curr]
	b.arena.release(curr)
	b.size--

	if b.size == 0 {
		b.head, b.tail = nilHandle, nilHandle
	} else {
		next[b.tail] = b.head
	}
	return slot, true
}

// Each calls fn for every slot starting at the head until fn returns false.
func (b *Bucket) Each(fn func(position, slot int) bool) {
	if b.head == nilHandle {
		return
	}
	h := b.head
	for pos := 0; ; pos++ {
		if !fn(pos, b.arena.slots[h]) {
			return
		}
		h = b.arena.next[h]
		if h == b.head {
			return
		}
	}
}

// Slots returns the slots head first.
func (b *Bucket) Slots() []int {
	out := make([]int, 0, b.size)
	b.Each(func(_, slot int) bool {
		out = append(out, slot)
		return true
	})
	return out
}

// IndexOf returns the position of slot, or -1.
func (b *Bucket) IndexOf(slot int) int {
	found := -1
	b.Each(func(pos, s int) bool {
		if s == slot {
			found = pos
			return false
		}
		return true
	})
	return found
}

// FixIndex rewrites the first occurrence of oldSlot to newSlot.
func (b *Bucket) FixIndex(oldSlot, newSlot int) bool {
	if b.head == nilHandle {
		return false
	}
	h := b.head
	for {
		if b.arena.slots[h] == oldSlot {
			b.arena.slots[h] = newSlot
			return true
		}
		h = b.arena.next[h]
		if h == b.head {
			return false
		}
	}
}

// Release returns every node to the arena and leaves the bucket empty.
func (b *Bucket) Release() {
	if b.head == nilHandle {
		return
	}
	h := b.head
	for {
		n := b.arena.next[h]
		b.arena.release(h)
		if h == b.tail {
			break
		}
		h = n
	}
	b.head, b.tail, b.size = nilHandle, nilHandle, 0
}

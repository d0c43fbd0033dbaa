package index

import (
	"fmt"
	"log/slog"

	"github.com/yashagw/clinicdb/internal/logging"
	"github.com/yashagw/clinicdb/internal/slotstore"
	"github.com/yashagw/clinicdb/internal/utils"
)

const stepSize = 1

type Status int

const (
	StatusEmpty Status = iota
	StatusActive
	StatusTombstone
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusActive:
		return "active"
	case StatusTombstone:
		return "tombstone"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// HashRecord is one position of the hash table.
type HashRecord struct {
	Key    uint64
	Slot   int
	Status Status
}

// HashIndex maps numeric keys to exactly one slot of its store using open
// addressing with linear probing and mid-square hashing. Deleted positions
// become tombstones so collision chains through them stay intact.
type HashIndex[R any] struct {
	name  string
	table []HashRecord
	count int
	store *slotstore.Store[R]
	log   *slog.Logger
}

// NewHashIndex creates an index with tableSize positions over store. The
// index expects to be the only index that adds to or removes from store.
func NewHashIndex[R any](name string, tableSize int, store *slotstore.Store[R]) *HashIndex[R] {
	if tableSize <= 0 {
		panic(fmt.Sprintf("hash index %s: table size %d", name, tableSize))
	}
	return &HashIndex[R]{
		name:  name,
		table: make([]HashRecord, tableSize),
		store: store,
		log:   logging.WithIndex(name),
	}
}

func (hi *HashIndex[R]) Name() string {
	return hi.name
}

// Len returns the number of active keys.
func (hi *HashIndex[R]) Len() int {
	return hi.count
}

func (hi *HashIndex[R]) TableSize() int {
	return len(hi.table)
}

// Hash returns the home position of key.
func (hi *HashIndex[R]) Hash(key uint64) int {
	h, square, mid := utils.MidSquareTrace(key, len(hi.table))
	if mid == "" {
		hi.log.Debug("hash fallback", "key", key, "square", square, "pos", h)
	} else {
		hi.log.Debug("hash", "key", key, "square", square, "mid", mid, "pos", h)
	}
	return h
}

// findSlot walks from the home position of key. When inserting it returns
// the first empty or tombstone position; when searching it returns the
// active position holding key and gives up at the first empty one.
func (hi *HashIndex[R]) findSlot(key uint64, forInsertion bool) (int, bool) {
	size := len(hi.table)
	start := hi.Hash(key)
	pos := start

	for i := 0; i < size; i++ {
		rec := hi.table[pos]
		hi.log.Debug("slot visited", "key", key, "step", i, "pos", pos, "status", rec.Status, "found_key", rec.Key)

		if forInsertion {
			if rec.Status != StatusActive {
				return pos, true
			}
		} else {
			if rec.Status == StatusActive && rec.Key == key {
				return pos, true
			}
			if rec.Status == StatusEmpty {
				return -1, false
			}
		}

		pos = (pos + stepSize) % size
		if pos == start {
			break
		}
	}
	return -1, false
}

// Insert appends rec to the store and files it under key. Nothing is
// modified when the table or store is full or key is already present.
func (hi *HashIndex[R]) Insert(key uint64, rec R) error {
	if hi.count >= len(hi.table) {
		return fmt.Errorf("index %s: %w (%d slots)", hi.name, ErrTableFull, len(hi.table))
	}
	if _, found := hi.findSlot(key, false); found {
		return fmt.Errorf("index %s: %w: %d", hi.name, ErrDuplicateKey, key)
	}
	if hi.store.Full() {
		return fmt.Errorf("index %s: %w: capacity %d", hi.name, slotstore.ErrCapacityExceeded, hi.store.Capacity())
	}

	pos, ok := hi.findSlot(key, true)
	if !ok {
		return fmt.Errorf("index %s: %w: no free position for %d", hi.name, ErrTableFull, key)
	}

	slot, err := hi.store.Append(rec)
	if err != nil {
		return fmt.Errorf("index %s: %w", hi.name, err)
	}

	hi.table[pos] = HashRecord{Key: key, Slot: slot, Status: StatusActive}
	hi.count++
	hi.log.Debug("inserted", "key", key, "pos", pos, "slot", slot, "count", hi.count)
	return nil
}

// Remove deletes key and its record. It returns false if key is absent.
func (hi *HashIndex[R]) Remove(key uint64) bool {
	pos, found := hi.findSlot(key, false)
	if !found {
		hi.log.Debug("remove: key not found", "key", key)
		return false
	}

	slot := hi.table[pos].Slot
	hi.table[pos] = HashRecord{Slot: -1, Status: StatusTombstone}
	hi.count--

	if err := hi.store.RemoveAt(slot, hi); err != nil {
		hi.log.Error("remove: store rejected slot", "key", key, "slot", slot, "error", err)
	}
	hi.log.Debug("removed", "key", key, "pos", pos, "slot", slot, "count", hi.count)
	return true
}

// FixIndex points the active record filed at oldSlot to newSlot.
func (hi *HashIndex[R]) FixIndex(oldSlot, newSlot int) {
	for i := range hi.table {
		if hi.table[i].Status == StatusActive && hi.table[i].Slot == oldSlot {
			hi.table[i].Slot = newSlot
			hi.log.Debug("fixed slot", "pos", i, "old", oldSlot, "new", newSlot)
			return
		}
	}
	hi.log.Warn("fix index: no record for slot", "old", oldSlot, "new", newSlot)
}

// Lookup returns the slot filed under key.
func (hi *HashIndex[R]) Lookup(key uint64) (int, bool) {
	pos, found := hi.findSlot(key, false)
	if !found {
		return -1, false
	}
	return hi.table[pos].Slot, true
}

// Get returns the record filed under key.
func (hi *HashIndex[R]) Get(key uint64) (R, bool) {
	slot, found := hi.Lookup(key)
	if !found {
		var zero R
		return zero, false
	}
	return hi.store.At(slot), true
}

func (hi *HashIndex[R]) Exists(key uint64) bool {
	_, found := hi.findSlot(key, false)
	return found
}

// AllKeys returns the active keys in table order.
func (hi *HashIndex[R]) AllKeys() []uint64 {
	keys := make([]uint64, 0, hi.count)
	for _, rec := range hi.table {
		if rec.Status == StatusActive {
			keys = append(keys, rec.Key)
		}
	}
	return keys
}

// KeyForSlot returns the key whose record lives in slot.
func (hi *HashIndex[R]) KeyForSlot(slot int) (uint64, bool) {
	for _, rec := range hi.table {
		if rec.Status == StatusActive && rec.Slot == slot {
			return rec.Key, true
		}
	}
	return 0, false
}

// Record returns the table entry at position pos.
func (hi *HashIndex[R]) Record(pos int) (HashRecord, error) {
	if pos < 0 || pos >= len(hi.table) {
		return HashRecord{}, fmt.Errorf("index %s: position %d: %w", hi.name, pos, slotstore.ErrSlotOutOfRange)
	}
	return hi.table[pos], nil
}

func (hi *HashIndex[R]) Statistics() HashStats {
	stats := HashStats{
		TotalSlots: len(hi.table),
		UsedSlots:  hi.count,
		EmptySlots: len(hi.table) - hi.count,
		LoadFactor: float64(hi.count) / float64(len(hi.table)),
	}
	for _, rec := range hi.table {
		if rec.Status == StatusTombstone {
			stats.Tombstones++
		}
	}
	return stats
}

// ValidateIntegrity checks that active keys are unique and reachable, that
// each store slot is referenced exactly once and that the index accounts for
// every record in the store.
func (hi *HashIndex[R]) ValidateIntegrity() error {
	size := hi.store.Size()
	seenKeys := make(map[uint64]int, hi.count)
	seenSlots := make(map[int]int, hi.count)
	active := 0

	for pos, rec := range hi.table {
		if rec.Status != StatusActive {
			continue
		}
		active++
		if rec.Slot < 0 || rec.Slot >= size {
			return integrityErrorf(hi.name, "position %d references slot %d, store size %d", pos, rec.Slot, size)
		}
		if prev, dup := seenKeys[rec.Key]; dup {
			return integrityErrorf(hi.name, "key %d at positions %d and %d", rec.Key, prev, pos)
		}
		if prev, dup := seenSlots[rec.Slot]; dup {
			return integrityErrorf(hi.name, "slot %d at positions %d and %d", rec.Slot, prev, pos)
		}
		seenKeys[rec.Key] = pos
		seenSlots[rec.Slot] = pos

		if found, ok := hi.findSlot(rec.Key, false); !ok || found != pos {
			return integrityErrorf(hi.name, "key %d at position %d is unreachable", rec.Key, pos)
		}
	}

	if active != hi.count {
		return integrityErrorf(hi.name, "count %d, active records %d", hi.count, active)
	}
	if active != size {
		return integrityErrorf(hi.name, "%d active records for %d stored", active, size)
	}
	return nil
}

// Package slotstore implements a fixed-capacity record array with O(1)
// swap-remove.
//
// A record's slot is its position in the array. Removing a slot that is not
// the last one moves the last record into the hole, so the store tells the
// index that owns it about the move through IndexFixup.
package slotstore

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded = errors.New("store capacity exceeded")
	ErrSlotOutOfRange   = errors.New("slot out of range")
)

// IndexFixup is implemented by every index that references slots of a Store.
// FixIndex is called after the record at oldSlot has been moved to newSlot.
type IndexFixup interface {
	FixIndex(oldSlot, newSlot int)
}

// Fixups fans a single fixup out to several indexes over the same store.
type Fixups []IndexFixup

func (f Fixups) FixIndex(oldSlot, newSlot int) {
	for _, ix := range f {
		ix.FixIndex(oldSlot, newSlot)
	}
}

// FixupFunc adapts a plain function to IndexFixup.
type FixupFunc func(oldSlot, newSlot int)

func (f FixupFunc) FixIndex(oldSlot, newSlot int) {
	f(oldSlot, newSlot)
}

// Store holds up to capacity records. It never grows.
type Store[R any] struct {
	data []R
	size int
}

// New creates an empty store that can hold capacity records.
func New[R any](capacity int) *Store[R] {
	if capacity < 0 {
		capacity = 0
	}
	return &Store[R]{
		data: make([]R, capacity),
	}
}

// Append stores rec in the next free slot and returns that slot.
func (s *Store[R]) Append(rec R) (int, error) {
	if s.size >= len(s.data) {
		return -1, fmt.Errorf("%w: capacity %d", ErrCapacityExceeded, len(s.data))
	}
	s.data[s.size] = rec
	s.size++
	return s.size - 1, nil
}

// RemoveAt deletes slot by moving the last record into it. When a record
// moves, fix.FixIndex(last, slot) is called after the store is consistent.
func (s *Store[R]) RemoveAt(slot int, fix IndexFixup) error {
	if err := s.check(slot); err != nil {
		return err
	}

	last := s.size - 1
	var zero R
	if slot == last {
		s.data[last] = zero
		s.size--
		return nil
	}

	s.data[slot] = s.data[last]
	s.data[last] = zero
	s.size--

	if fix != nil {
		fix.FixIndex(last, slot)
	}
	return nil
}

// Get returns the record in slot.
func (s *Store[R]) Get(slot int) (R, error) {
	if err := s.check(slot); err != nil {
		var zero R
		return zero, err
	}
	return s.data[slot], nil
}

// At returns the record in slot and panics if slot is out of range. Indexes
// use it where an out of range slot can only mean they are already corrupt.
func (s *Store[R]) At(slot int) R {
	if err := s.check(slot); err != nil {
		panic(err)
	}
	return s.data[slot]
}

// Size returns the number of records stored.
func (s *Store[R]) Size() int {
	return s.size
}

// Capacity returns the maximum number of records.
func (s *Store[R]) Capacity() int {
	return len(s.data)
}

// Full reports whether Append would fail.
func (s *Store[R]) Full() bool {
	return s.size >= len(s.data)
}

// All returns a copy of the live records in slot order.
func (s *Store[R]) All() []R {
	out := make([]R, s.size)
	copy(out, s.data[:s.size])
	return out
}

func (s *Store[R]) check(slot int) error {
	if slot < 0 || slot >= s.size {
		return fmt.Errorf("%w: slot %d, size %d", ErrSlotOutOfRange, slot, s.size)
	}
	return nil
}

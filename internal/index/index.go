// Package index provides the secondary indexes that sit on top of a
// slotstore.Store: HashIndex for unique numeric keys and OrderedIndex, an AVL
// tree that files any number of slots under one key.
//
// An index never owns records. It owns slot numbers, and because the store
// compacts by swap-remove every index implements slotstore.IndexFixup so a
// moved record's slot can be rewritten.
package index

import (
	"errors"
	"fmt"

	"github.com/yashagw/clinicdb/internal/slotstore"
)

var (
	ErrTableFull          = fmt.Errorf("hash table full: %w", slotstore.ErrCapacityExceeded)
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrKeyNotFound        = errors.New("key not found")
	ErrIntegrityViolation = errors.New("index integrity violation")
)

var (
	_ Index = (*HashIndex[int])(nil)
	_ Index = (*OrderedIndex[string, int])(nil)
)

type Index interface {
	slotstore.IndexFixup
	// Name returns the name the index was created with.
	Name() string
	// Len returns the number of slots filed in the index.
	Len() int
}

func integrityErrorf(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrIntegrityViolation, name, fmt.Sprintf(format, args...))
}

package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// MidSquareDigits is the number of digits taken from the middle of the
// squared key.
const MidSquareDigits = 4

var (
	ErrNoDigits    = errors.New("key has no digits")
	ErrKeyTooLarge = errors.New("key does not fit in 64 bits")
)

// MidSquare hashes key into [0, tableSize) by squaring it and taking the
// middle MidSquareDigits decimal digits. Squares shorter than
// MidSquareDigits+2 digits fall back to key % tableSize.
func MidSquare(key uint64, tableSize int) int {
	h, _, _ := MidSquareTrace(key, tableSize)
	return h
}

// MidSquareTrace is MidSquare that also returns the decimal square and the
// extracted middle digits (empty on fallback) for diagnostics.
func MidSquareTrace(key uint64, tableSize int) (hash int, square, mid string) {
	if tableSize <= 0 {
		panic(fmt.Sprintf("mid-square hash with table size %d", tableSize))
	}
	k := new(big.Int).SetUint64(key)
	square = new(big.Int).Mul(k, k).String()

	if len(square) < MidSquareDigits+2 {
		return int(key % uint64(tableSize)), square, ""
	}

	start := len(square)/2 - MidSquareDigits/2
	mid = square[start : start+MidSquareDigits]
	v, err := strconv.ParseUint(mid, 10, 64)
	if err != nil {
		// mid is always MidSquareDigits decimal digits
		panic(err)
	}
	return int(v % uint64(tableSize)), square, mid
}

// DigitsToKey builds a numeric key from the decimal digits of s, ignoring
// every other character, so "1234 5678" and "12345678" give the same key.
func DigitsToKey(s string) (uint64, error) {
	var key uint64
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			continue
		}
		d := uint64(c - '0')
		if key > (^uint64(0)-d)/10 {
			return 0, fmt.Errorf("%w: %q", ErrKeyTooLarge, s)
		}
		key = key*10 + d
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoDigits, s)
	}
	return key, nil
}

// Digits returns only the decimal digits of s.
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

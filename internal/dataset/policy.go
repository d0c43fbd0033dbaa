package dataset

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yashagw/clinicdb/internal/utils"
)

// PolicyDigits is the length of a medical policy number.
const PolicyDigits = 16

var ErrBadPolicy = errors.New("policy must have 16 digits")

// Policy is a normalized policy number: exactly PolicyDigits decimal digits.
type Policy string

// ParsePolicy keeps only the digits of s, so "1234 5678 9012 3456" and
// "1234567890123456" are the same policy.
func ParsePolicy(s string) (Policy, error) {
	d := utils.Digits(s)
	if len(d) != PolicyDigits {
		return "", fmt.Errorf("%w: %q", ErrBadPolicy, s)
	}
	return Policy(d), nil
}

func PolicyFromKey(key uint64) Policy {
	return Policy(fmt.Sprintf("%0*d", PolicyDigits, key))
}

// mustPolicy converts a key read back from an index, where only normalized
// policies are filed.
func mustPolicy(s string) Policy {
	return Policy(s)
}

// Key returns the hash index key.
func (p Policy) Key() uint64 {
	k, err := strconv.ParseUint(string(p), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("policy %q: %v", string(p), err))
	}
	return k
}

func (p Policy) String() string {
	return string(p)
}

// Grouped renders p in four groups of four digits.
func (p Policy) Grouped() string {
	s := string(p)
	if len(s) != PolicyDigits {
		return s
	}
	return s[0:4] + " " + s[4:8] + " " + s[8:12] + " " + s[12:16]
}

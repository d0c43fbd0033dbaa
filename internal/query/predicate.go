package query

import (
	"fmt"
	"strings"
)

// Predicate is a conjunction of terms.
type Predicate struct {
	terms []Term
}

func NewPredicate(term Term) *Predicate {
	return &Predicate{
		terms: []Term{term},
	}
}

// ConjunctWith adds all terms from other to p.
func (p *Predicate) ConjunctWith(other Predicate) {
	p.terms = append(p.terms, other.terms...)
}

// IsSatisfied reports whether every term holds for r. A nil predicate is
// always satisfied.
func (p *Predicate) IsSatisfied(r Row) (bool, error) {
	if p == nil {
		return true, nil
	}
	for _, t := range p.terms {
		satisfied, err := t.IsSatisfied(r)
		if err != nil {
			return false, err
		}
		if !satisfied {
			return false, nil
		}
	}
	return true, nil
}

// Validate returns an error naming the first term that refers to a field
// outside fields.
func (p *Predicate) Validate(fields []string) error {
	if p == nil {
		return nil
	}
	for _, t := range p.terms {
		if !t.AppliesTo(fields) {
			return fmt.Errorf("%w in %q; fields are %s", ErrUnknownField, t.String(), strings.Join(fields, ", "))
		}
	}
	return nil
}

// EquatesWithConstant returns the constant that a field is equated with, if any.
func (p *Predicate) EquatesWithConstant(fldname string) *Constant {
	if p == nil {
		return nil
	}
	for _, t := range p.terms {
		c := t.EquatesWithConstant(fldname)
		if c != nil {
			return c
		}
	}
	return nil
}

func (p *Predicate) String() string {
	if p == nil || len(p.terms) == 0 {
		return ""
	}
	var parts []string
	for _, t := range p.terms {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " and ")
}

// GetTerms returns a copy of the terms slice
func (p *Predicate) GetTerms() []Term {
	result := make([]Term, len(p.terms))
	copy(result, p.terms)
	return result
}

func (p *Predicate) IsEmpty() bool {
	return p == nil || len(p.terms) == 0
}

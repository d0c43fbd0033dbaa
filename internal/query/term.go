package query

import (
	"fmt"
)

// Term is an equality between two expressions, such as doctor = 'Surgeon'.
type Term struct {
	left  Expression
	right Expression
}

func NewTerm(left Expression, right Expression) *Term {
	return &Term{
		left:  left,
		right: right,
	}
}

func (t *Term) String() string {
	return fmt.Sprintf("%s = %s", t.left.String(), t.right.String())
}

func (t *Term) IsSatisfied(r Row) (bool, error) {
	lhsVal, err := t.left.Evaluate(r)
	if err != nil {
		return false, err
	}
	rhsVal, err := t.right.Evaluate(r)
	if err != nil {
		return false, err
	}
	return rhsVal.Equals(&lhsVal), nil
}

func (t *Term) AppliesTo(fields []string) bool {
	return t.left.AppliesTo(fields) && t.right.AppliesTo(fields)
}

// EquatesWithConstant returns the constant on the other side if the term is
// "field = constant" or "constant = field" for fieldName.
func (t *Term) EquatesWithConstant(fieldName string) *Constant {
	if t.left.IsFieldName() && t.left.AsFieldName() == fieldName && !t.right.IsFieldName() {
		constVal := t.right.AsConstant()
		return &constVal
	} else if t.right.IsFieldName() && t.right.AsFieldName() == fieldName && !t.left.IsFieldName() {
		constVal := t.left.AsConstant()
		return &constVal
	}
	return nil
}

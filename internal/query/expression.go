package query

import (
	"slices"
	"strings"
)

// Expression is either a constant or a field name.
type Expression struct {
	val     Constant
	fldName *string
}

func NewConstantExpression(val Constant) *Expression {
	return &Expression{
		val: val,
	}
}

func NewFieldNameExpression(fldName string) *Expression {
	fldName = strings.ToLower(fldName)
	return &Expression{
		fldName: &fldName,
	}
}

func (e *Expression) IsFieldName() bool {
	return e.fldName != nil
}

func (e *Expression) AsConstant() Constant {
	return e.val
}

func (e *Expression) AsFieldName() string {
	return *e.fldName
}

func (e *Expression) String() string {
	if e.IsFieldName() {
		return e.AsFieldName()
	}
	if e.val.IsString() {
		return "'" + e.val.String() + "'"
	}
	return e.val.String()
}

// Evaluate returns the value of the expression for r.
func (e *Expression) Evaluate(r Row) (Constant, error) {
	if !e.IsFieldName() {
		return e.val, nil
	}
	val, err := r.GetValue(e.AsFieldName())
	if err != nil {
		return Constant{}, err
	}
	return NewConstant(val)
}

// AppliesTo reports whether every field the expression names is in fields.
func (e *Expression) AppliesTo(fields []string) bool {
	if e.IsFieldName() {
		return slices.Contains(fields, e.AsFieldName())
	}
	return true
}

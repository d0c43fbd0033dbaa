package query

// createEqualsPredicate creates a predicate that checks if a field equals a value
func createEqualsPredicate(fieldName string, value interface{}) *Predicate {
	fieldExpr := NewFieldNameExpression(fieldName)
	var constExpr *Expression
	switch v := value.(type) {
	case int:
		constExpr = NewConstantExpression(*NewIntConstant(v))
	case string:
		constExpr = NewConstantExpression(*NewStringConstant(v))
	default:
		panic("unsupported value type")
	}
	term := NewTerm(*fieldExpr, *constExpr)
	return NewPredicate(*term)
}

type condition struct {
	fieldName string
	value     interface{}
}

// createCompoundPredicate creates a predicate that checks multiple conditions (AND)
func createCompoundPredicate(conditions ...condition) *Predicate {
	if len(conditions) == 0 {
		panic("no conditions provided")
	}

	predicate := createEqualsPredicate(conditions[0].fieldName, conditions[0].value)
	for _, cond := range conditions[1:] {
		predicate.ConjunctWith(*createEqualsPredicate(cond.fieldName, cond.value))
	}
	return predicate
}

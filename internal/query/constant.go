package query

import (
	"fmt"
	"strings"
)

// Constant is an integer or string value appearing in a filter.
type Constant struct {
	intVal *int
	strVal *string
}

func NewIntConstant(val int) *Constant {
	return &Constant{
		intVal: &val,
	}
}

func NewStringConstant(val string) *Constant {
	return &Constant{
		strVal: &val,
	}
}

// NewConstant wraps a field value returned by a Row.
func NewConstant(val any) (Constant, error) {
	switch v := val.(type) {
	case int:
		return *NewIntConstant(v), nil
	case string:
		return *NewStringConstant(v), nil
	case Constant:
		return v, nil
	}
	return Constant{}, fmt.Errorf("unsupported value type: %T", val)
}

func (c *Constant) String() string {
	if c.intVal != nil {
		return fmt.Sprintf("%d", *c.intVal)
	}
	if c.strVal == nil {
		return ""
	}
	return *c.strVal
}

func (c *Constant) AsInt() int {
	return *c.intVal
}

func (c *Constant) AsString() string {
	return *c.strVal
}

// Equals compares values of the same type. Strings compare without regard
// to case, since doctor and diagnosis names are typed by hand.
func (c *Constant) Equals(other *Constant) bool {
	if c.intVal != nil && other.intVal != nil {
		return *c.intVal == *other.intVal
	}
	if c.strVal != nil && other.strVal != nil {
		return strings.EqualFold(*c.strVal, *other.strVal)
	}
	return false
}

// CompareTo returns -1, 0, or 1 if c is less than, equal to, or greater than
// other. Returns -1 if the types do not match.
func (c *Constant) CompareTo(other *Constant) int {
	if c.intVal != nil && other.intVal != nil {
		switch {
		case *c.intVal < *other.intVal:
			return -1
		case *c.intVal > *other.intVal:
			return 1
		}
		return 0
	}
	if c.strVal != nil && other.strVal != nil {
		return strings.Compare(*c.strVal, *other.strVal)
	}
	return -1
}

func (c *Constant) IsInt() bool {
	return c.intVal != nil
}

func (c *Constant) IsString() bool {
	return c.strVal != nil
}

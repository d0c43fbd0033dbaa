package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantBasic(t *testing.T) {
	intConst := NewIntConstant(42)
	require.NotNil(t, intConst)
	assert.Equal(t, 42, intConst.AsInt())
	assert.Equal(t, "42", intConst.String())
	assert.True(t, intConst.IsInt())
	assert.False(t, intConst.IsString())

	strConst := NewStringConstant("Surgeon")
	require.NotNil(t, strConst)
	assert.Equal(t, "Surgeon", strConst.AsString())
	assert.Equal(t, "Surgeon", strConst.String())
	assert.True(t, strConst.IsString())

	intConst1 := NewIntConstant(10)
	intConst2 := NewIntConstant(20)
	assert.True(t, intConst1.Equals(intConst1))
	assert.False(t, intConst1.Equals(intConst2))

	// strings match regardless of case
	assert.True(t, strConst.Equals(NewStringConstant("surgeon")))
	assert.False(t, strConst.Equals(NewStringConstant("dentist")))

	assert.False(t, intConst1.Equals(strConst))

	assert.Equal(t, 0, intConst1.CompareTo(NewIntConstant(10)))
	assert.Equal(t, -1, NewIntConstant(5).CompareTo(intConst1))
	assert.Equal(t, 1, intConst2.CompareTo(intConst1))

	strConstA := NewStringConstant("apple")
	strConstB := NewStringConstant("banana")
	assert.Equal(t, -1, strConstA.CompareTo(strConstB))
	assert.Equal(t, 1, strConstB.CompareTo(strConstA))
	assert.Equal(t, 0, strConstA.CompareTo(NewStringConstant("apple")))

	assert.Equal(t, -1, intConst1.CompareTo(strConstA))
}

func TestNewConstant(t *testing.T) {
	c, err := NewConstant(7)
	require.NoError(t, err)
	assert.Equal(t, 7, c.AsInt())

	c, err = NewConstant("Flu")
	require.NoError(t, err)
	assert.Equal(t, "Flu", c.AsString())

	_, err = NewConstant(3.5)
	assert.Error(t, err)
}

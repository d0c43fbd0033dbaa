package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidSquareFallsBackForShortSquares(t *testing.T) {
	// 10^2 = 100 has fewer than six digits.
	h, square, mid := MidSquareTrace(10, 3)
	assert.Equal(t, 1, h)
	assert.Equal(t, "100", square)
	assert.Empty(t, mid)

	assert.Equal(t, 2, MidSquare(20, 3))
	assert.Equal(t, 0, MidSquare(30, 3))
	// 316^2 = 99856, still five digits.
	assert.Equal(t, 316%7, MidSquare(316, 7))
}

func TestMidSquareTakesMiddleDigits(t *testing.T) {
	// 1234^2 = 1522756, len 7, mid = 7/2 - 2 = 1 -> "5227".
	h, square, mid := MidSquareTrace(1234, 1000)
	assert.Equal(t, "1522756", square)
	assert.Equal(t, "5227", mid)
	assert.Equal(t, 227, h)

	// 999910^2 = 999820008100, len 12, start 4 -> "2000".
	h, square, mid = MidSquareTrace(999910, 1000)
	assert.Equal(t, "999820008100", square)
	assert.Equal(t, "2000", mid)
	assert.Equal(t, 0, h)
}

func TestMidSquareHandlesSixteenDigitKeys(t *testing.T) {
	key := uint64(9999999999999999)
	h, square, mid := MidSquareTrace(key, 1000)
	assert.Equal(t, "99999999999999980000000000000001", square)
	assert.Len(t, mid, MidSquareDigits)
	assert.GreaterOrEqual(t, h, 0)
	assert.Less(t, h, 1000)
	assert.Equal(t, h, MidSquare(key, 1000), "hash must be deterministic")
}

func TestMidSquarePanicsOnEmptyTable(t *testing.T) {
	assert.Panics(t, func() { MidSquare(1, 0) })
}

func TestDigitsToKey(t *testing.T) {
	k, err := DigitsToKey("0000 0000 0099 9910")
	require.NoError(t, err)
	assert.Equal(t, uint64(999910), k)

	k, err = DigitsToKey("1234567890123456")
	require.NoError(t, err)
	assert.Equal(t, uint64(1234567890123456), k)

	_, err = DigitsToKey("abc")
	assert.ErrorIs(t, err, ErrNoDigits)

	_, err = DigitsToKey("99999999999999999999")
	assert.ErrorIs(t, err, ErrKeyTooLarge)
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678", Digits(" 1234-5678 "))
	assert.Empty(t, Digits("none"))
}

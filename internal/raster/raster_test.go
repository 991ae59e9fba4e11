package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearAndGetPut(t *testing.T) {
	r := New(4, 3)
	r.Clear(7)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(7), r.Get(x, y))
		}
	}
	r.Put(1, 1, 3)
	assert.Equal(t, uint8(3), r.Get(1, 1))
}

func TestOutOfBoundsIsSilent(t *testing.T) {
	r := New(2, 2)
	r.Put(-1, 0, 5)
	r.Put(5, 5, 5)
	assert.Equal(t, uint8(0), r.Get(-1, 0))
	assert.Equal(t, uint8(0), r.Get(5, 5))
}

func TestRowAliasesBuffer(t *testing.T) {
	r := New(3, 2)
	row := r.Row(1)
	row[0] = 9
	assert.Equal(t, uint8(9), r.Get(0, 1))
}

func TestLineIncludesEndpoints(t *testing.T) {
	r := New(10, 10)
	r.Line(0, 0, 4, 0, 1)
	for x := 0; x <= 4; x++ {
		assert.Equal(t, uint8(1), r.Get(x, 0))
	}
	assert.Equal(t, uint8(0), r.Get(5, 0))
}

func TestLineDiagonal(t *testing.T) {
	r := New(10, 10)
	r.Line(0, 0, 3, 3, 2)
	for i := 0; i <= 3; i++ {
		assert.Equal(t, uint8(2), r.Get(i, i))
	}
}

func TestFloodWhereFillsConnectedBackground(t *testing.T) {
	r := New(5, 5)
	r.Clear(0x0F)
	// enclose a box border
	for x := 1; x <= 3; x++ {
		r.Put(x, 1, 1)
		r.Put(x, 3, 1)
	}
	for y := 1; y <= 3; y++ {
		r.Put(1, y, 1)
		r.Put(3, y, 1)
	}

	err := r.FloodWhere(2, 2, 0x0F, func(x, y int) bool { return true }, func(x, y int) uint8 { return 5 })
	require.NoError(t, err)
	assert.Equal(t, uint8(5), r.Get(2, 2))
	// border untouched
	assert.Equal(t, uint8(1), r.Get(1, 1))
	// outside box untouched
	assert.Equal(t, uint8(0x0F), r.Get(0, 0))
}

func TestFloodWhereAbortsAndRestoresOnPredicateFailure(t *testing.T) {
	r := New(5, 1)
	r.Clear(0x0F)
	original := append([]uint8(nil), r.Pix...)

	err := r.FloodWhere(2, 0, 0x0F, func(x, y int) bool { return x != 4 }, func(x, y int) uint8 { return 3 })
	require.Error(t, err)
	assert.Equal(t, original, r.Pix)
}

func TestFloodWhereOnlyTouchesBackgroundCells(t *testing.T) {
	r := New(3, 1)
	r.Put(0, 0, 9)
	r.Put(1, 0, 0x0F)
	r.Put(2, 0, 9)

	err := r.FloodWhere(1, 0, 0x0F, func(x, y int) bool { return true }, func(x, y int) uint8 { return 4 })
	require.NoError(t, err)
	assert.Equal(t, uint8(9), r.Get(0, 0))
	assert.Equal(t, uint8(4), r.Get(1, 0))
	assert.Equal(t, uint8(9), r.Get(2, 0))
}

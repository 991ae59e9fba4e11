package pic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scipic/internal/pen"
)

func TestEncodeAbsoluteRoundTrip(t *testing.T) {
	for _, pt := range []Point{{0, 0}, {319, 189}, {4095, 4095}, {17, 233}} {
		e := NewEncoder()
		require.NoError(t, e.EncodeAbsolute(pt.X, pt.Y))
		bs := e.Bytes()[2:]
		require.Len(t, bs, 3)

		x := int(bs[0]&0xF0)<<4 | int(bs[1])
		y := int(bs[0]&0x0F)<<8 | int(bs[2])
		assert.Equal(t, pt.X, x)
		assert.Equal(t, pt.Y, y)
	}
}

func TestEncodeAbsoluteRejectsOutOfRange(t *testing.T) {
	e := NewEncoder()
	err := e.EncodeAbsolute(4096, 0)
	assert.Error(t, err)
}

func TestEncodeShortByteRoundTrip(t *testing.T) {
	for dx := -7; dx <= 7; dx++ {
		for dy := -7; dy <= 7; dy++ {
			b, err := encodeShortByte(dx, dy)
			if dx == -7 {
				// sign bit plus magnitude 7 puts the byte at 0xF0 or above,
				// inside opcode space, so the encoder must refuse it.
				assert.Error(t, err)
				continue
			}
			require.NoError(t, err)
			assert.Less(t, int(b), CommandThreshold)

			var gx, gy int
			if b&0x80 != 0 {
				gx = -int((b & 0x70) >> 4)
			} else {
				gx = int(b >> 4)
			}
			if b&0x08 != 0 {
				gy = -int(b & 0x07)
			} else {
				gy = int(b & 0x07)
			}
			assert.Equal(t, dx, gx)
			assert.Equal(t, dy, gy)
		}
	}
}

func TestEncodeMediumBytesRoundTrip(t *testing.T) {
	for _, d := range [][2]int{{-127, -100}, {127, 100}, {8, -8}, {-100, 50}, {0, 0}} {
		by, bx, err := encodeMediumBytes(d[0], d[1])
		require.NoError(t, err)
		assert.Less(t, int(by), CommandThreshold)

		var gy int
		if by&0x80 != 0 {
			gy = -int(by & 0x7F)
		} else {
			gy = int(by)
		}
		gx := int(int8(bx))
		assert.Equal(t, d[0], gx)
		assert.Equal(t, d[1], gy)
	}
}

func TestEncodeMediumBytesRejectsOutOfRange(t *testing.T) {
	_, _, err := encodeMediumBytes(128, 0)
	assert.Error(t, err)
	_, _, err = encodeMediumBytes(0, 128)
	assert.Error(t, err)
}

func TestEncodeMultiLineNeverEmitsCommandByte(t *testing.T) {
	points := []Point{
		{10, 10}, {12, 11}, {300, 5}, {301, 6}, {4000, 4000},
	}
	e := NewEncoder()
	require.NoError(t, e.EncodeMultiLine(points))

	in := New(append(append([]byte(nil), Header[0], Header[1]), e.Bytes()[2:]...))
	in.data = append(in.data, byte(OpPictureEnd))
	require.NoError(t, in.Run())
}

func TestEncodeVisualRejectsOutOfByteRange(t *testing.T) {
	e := NewEncoder()
	assert.Error(t, e.EncodeVisual(256))
	assert.NoError(t, e.EncodeVisual(159))
}

func TestEncodeSolidCirclePatternRejectsBadSize(t *testing.T) {
	e := NewEncoder()
	assert.Error(t, e.EncodeSolidCirclePattern(8))
	assert.NoError(t, e.EncodeSolidCirclePattern(3))
}

// A multi-bank palette must load bank 0 through setEntirePalette, not
// the sparse setPaletteEntries form: the latter locks the touched
// bank-0 slots, and a later setVisualColor for an index >= BankSize
// would then coerce down onto the wrong, locked pen.
func TestEncodeColorsDoesNotLockBankZeroWhenMultiBank(t *testing.T) {
	colors := make([]pen.Pen, 45)
	for i := range colors {
		colors[i] = pen.Pen{A: uint8(i % 16), B: uint8((i + 7) % 16)}
	}
	p := pen.New(colors)

	e := NewEncoder()
	require.NoError(t, e.EncodeColors(p))
	require.NoError(t, e.EncodeVisual(41))
	e.End()

	in := New(e.Bytes())
	require.NoError(t, in.Run())
	assert.Equal(t, p.Get(41), in.color)
}

package pic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHeaderOnlyProducesBlankFramebuffer(t *testing.T) {
	in := New([]byte{0x81, 0x00, byte(OpPictureEnd)})
	require.NoError(t, in.Run())

	fb := in.Framebuffer()
	for i, v := range fb.Pix {
		assert.Equalf(t, uint8(0x0F), v, "pixel %d not background", i)
	}
}

func TestRunRejectsBadHeader(t *testing.T) {
	in := New([]byte{0x00, 0x00, byte(OpPictureEnd)})
	assert.Error(t, in.Run())
}

func TestRunSetVisualAndLongLinesDrawsLine(t *testing.T) {
	data := []byte{
		0x81, 0x00,
		byte(OpSetVisualColor), 0x00,
		byte(OpLongLines),
		0x00, 0x00, 0x00,
		0x00, 0x04, 0x00,
		byte(OpPictureEnd),
	}
	in := New(data)
	require.NoError(t, in.Run())

	fb := in.Framebuffer()
	for x := 0; x <= 4; x++ {
		assert.Equal(t, uint8(0), fb.Get(x, 0))
	}
	assert.Equal(t, uint8(0x0F), fb.Get(5, 0))
}

func TestRunFloodFillPaintsEnclosedInterior(t *testing.T) {
	data := []byte{0x81, 0x00, byte(OpSetVisualColor), 0x00}
	appendLine := func(x0, y0, x1, y1 int) {
		data = append(data, byte(OpLongLines))
		data = append(data, byte((x0>>4)&0xF0)|byte((y0>>8)&0x0F), byte(x0&0xFF), byte(y0&0xFF))
		data = append(data, byte((x1>>4)&0xF0)|byte((y1>>8)&0x0F), byte(x1&0xFF), byte(y1&0xFF))
	}
	appendLine(1, 1, 10, 1)
	appendLine(10, 1, 10, 10)
	appendLine(10, 10, 1, 10)
	appendLine(1, 10, 1, 1)

	data = append(data, byte(OpFloodFill), 0x00, 0x05, 0x05)
	data = append(data, byte(OpPictureEnd))

	in := New(data)
	require.NoError(t, in.Run())

	fb := in.Framebuffer()
	assert.Equal(t, uint8(0), fb.Get(5, 5))
	assert.Equal(t, uint8(0), fb.Get(1, 1))
	assert.Equal(t, uint8(0x0F), fb.Get(0, 0))
}

func TestRunSetEntirePaletteThenSelectBank(t *testing.T) {
	data := []byte{0x81, 0x00, byte(OpExtendedCommand), byte(ExtSetEntirePalette), 0x01}
	for i := 0; i < 40; i++ {
		data = append(data, 0x0F)
	}
	data = append(data, byte(OpSetVisualColor), 40, byte(OpPictureEnd))

	in := New(data)
	require.NoError(t, in.Run())
	assert.Equal(t, uint8(0x00), in.color.A)
	assert.Equal(t, uint8(0x0F), in.color.B)
}

func TestRunLockedPaletteEntryCoercesVisualColor(t *testing.T) {
	data := []byte{
		0x81, 0x00,
		byte(OpExtendedCommand), byte(ExtSetPaletteEntries),
		0x05, 0x12,
		byte(OpPictureEnd), // terminates the setPaletteEntries scan too soon on purpose below
	}
	// setPaletteEntries scans until the next command byte; 0xFF (pictureEnd)
	// qualifies as a command, so this single (i, colorByte) pair is the
	// whole payload.
	in := New(data)
	require.NoError(t, in.Run())
	assert.True(t, in.locked[5])

	data2 := []byte{
		0x81, 0x00,
		byte(OpExtendedCommand), byte(ExtSetPaletteEntries),
		0x05, 0x12,
		byte(OpSetVisualColor), 0x2D, // 45 = 1*40 + 5, should coerce to slot 5
		byte(OpPictureEnd),
	}
	in2 := New(data2)
	require.NoError(t, in2.Run())
	assert.Equal(t, uint8(0x1), in2.color.A)
	assert.Equal(t, uint8(0x2), in2.color.B)
}

func TestRunShortRelativeLinesSingleStep(t *testing.T) {
	data := []byte{
		0x81, 0x00,
		byte(OpSetVisualColor), 0x01,
		byte(OpShortRelativeLines),
		0x00, 0x0A, 0x00,
		0x33, // dx=+3, dy=+3
		byte(OpPictureEnd),
	}
	in := New(data)
	require.NoError(t, in.Run())
	fb := in.Framebuffer()
	assert.Equal(t, uint8(1), fb.Get(13, 3))
}

func TestRunDisableVisualSkipsDrawing(t *testing.T) {
	data := []byte{
		0x81, 0x00,
		byte(OpSetVisualColor), 0x01,
		byte(OpDisableVisual),
		byte(OpLongLines),
		0x00, 0x00, 0x00,
		0x00, 0x04, 0x00,
		byte(OpPictureEnd),
	}
	in := New(data)
	require.NoError(t, in.Run())
	fb := in.Framebuffer()
	assert.Equal(t, uint8(0x0F), fb.Get(2, 0))
}

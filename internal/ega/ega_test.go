package ega

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizeFixedPoint(t *testing.T) {
	for i, entry := range Palette {
		c := color.RGBA{R: entry.R, G: entry.G, B: entry.B, A: 0xFF}
		assert.Equalf(t, uint8(i), Quantize(c), "palette entry %d is not a fixed point", i)
	}
}

func TestQuantizeIgnoresAlpha(t *testing.T) {
	c := color.RGBA{R: 0, G: 0, B: 0, A: 0x10}
	assert.Equal(t, uint8(0), Quantize(c))
}

func TestQuantizeTieBreaksToLowestIndex(t *testing.T) {
	// (0x00,0x00,0x55) is 0x55 away from both black (0) and blue (1),
	// and farther from every other entry: a genuine tie.
	mid := color.RGBA{R: 0x00, G: 0x00, B: 0x55, A: 0xFF}
	got := Quantize(mid)
	assert.Equal(t, uint8(0), got)
}

func TestToRGBARoundTrip(t *testing.T) {
	for i := range Palette {
		c := ToRGBA(uint8(i))
		assert.Equal(t, uint8(i), Quantize(c))
	}
}

// Package ega implements the fixed 16-color IBM EGA palette and the
// nearest-color quantizer that maps arbitrary RGBA pixels onto it.
package ega

import "image/color"

// RGB is one entry of the fixed EGA palette.
type RGB struct {
	R, G, B uint8
}

// Palette is the standard IBM EGA 16-color RGB table. Channels are drawn
// from {0x00, 0x55, 0xAA, 0xFF}; index 6 is the brown exception
// (0xAA, 0x55, 0x00) rather than dark yellow.
var Palette = [16]RGB{
	{0x00, 0x00, 0x00}, // 0  black
	{0x00, 0x00, 0xAA}, // 1  blue
	{0x00, 0xAA, 0x00}, // 2  green
	{0x00, 0xAA, 0xAA}, // 3  cyan
	{0xAA, 0x00, 0x00}, // 4  red
	{0xAA, 0x00, 0xAA}, // 5  magenta
	{0xAA, 0x55, 0x00}, // 6  brown
	{0xAA, 0xAA, 0xAA}, // 7  light gray
	{0x55, 0x55, 0x55}, // 8  dark gray
	{0x55, 0x55, 0xFF}, // 9  light blue
	{0x55, 0xFF, 0x55}, // 10 light green
	{0x55, 0xFF, 0xFF}, // 11 light cyan
	{0xFF, 0x55, 0x55}, // 12 light red
	{0xFF, 0x55, 0xFF}, // 13 light magenta
	{0xFF, 0xFF, 0x55}, // 14 yellow
	{0xFF, 0xFF, 0xFF}, // 15 white
}

// Background is the SCI0 canvas clear color.
const Background uint8 = 0x0F

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// distance is the L1 (Manhattan) distance between two RGB triples.
func distance(a, b RGB) int {
	return abs(int(a.R)-int(b.R)) + abs(int(a.G)-int(b.G)) + abs(int(a.B)-int(b.B))
}

// Quantize picks the EGA index whose entry minimizes L1 distance to the
// given color. Alpha is ignored. Ties resolve to the lowest index.
func Quantize(c color.RGBA) uint8 {
	target := RGB{c.R, c.G, c.B}

	best := 0
	bestDist := distance(target, Palette[0])
	for i := 1; i < len(Palette); i++ {
		d := distance(target, Palette[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return uint8(best)
}

// ToRGBA converts an EGA index into its RGBA color, fully opaque.
func ToRGBA(index uint8) color.RGBA {
	c := Palette[index&0x0F]
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

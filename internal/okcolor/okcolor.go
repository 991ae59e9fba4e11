// Package okcolor implements the forward sRGB -> OKLab conversion,
// used only to compute a perceptual distance between a source pixel
// and its EGA reproduction. Unlike the color library this is trimmed
// from, no inverse (Lab -> RGB) or gamut-clipping machinery is kept:
// every color this package ever converts back out is a fixed EGA
// swatch that is always in-gamut, so nothing here ever needs to clip.
//
// based on:
// https://bottosson.github.io/posts/oklab/
package okcolor

import (
	"image/color"
	"math"
)

// Lab is a color in the OKLab perceptual color space.
type Lab struct {
	L float64 // perceived lightness
	A float64 // green/red
	B float64 // blue/yellow
}

// FromColor converts an arbitrary color.Color into OKLab via linear
// sRGB.
func FromColor(c color.Color) Lab {
	r, g, b := toLinear(c)

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return Lab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

func toLinear(c color.Color) (r, g, b float64) {
	c64 := color.RGBA64Model.Convert(c).(color.RGBA64)
	return srgbToLinear(float64(c64.R) / 65535), srgbToLinear(float64(c64.G) / 65535), srgbToLinear(float64(c64.B) / 65535)
}

func srgbToLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

// Distance returns the Euclidean distance between two OKLab colors,
// the perceptual-delta metric consumed by internal/imageio.
func Distance(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// Package imageio is the ImageDecoder external collaborator: it loads
// arbitrary raster images, prescales them, and renders EGA-quantized
// previews, using the same golang.org/x/image codec registry and
// resize/dither machinery a general-purpose image tool would.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"

	"scipic/internal/ega"
	"scipic/internal/okcolor"
	"scipic/internal/raster"
	"scipic/internal/scierr"
)

// Load opens and decodes an image file in any format the registered
// codecs understand (PNG, GIF, JPEG, BMP, TIFF, WEBP, VP8L).
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", scierr.Wrap(scierr.ErrIO, "imageio.Load", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", scierr.Wrap(scierr.ErrIO, "imageio.Load", fmt.Errorf("decoding %q: %w", path, err))
	}
	return img, format, nil
}

// Resize prescales img to width x height using a Catmull-Rom filter.
// When both dimensions are non-zero the result is exactly that size and
// the aspect ratio is not preserved. Passing 0 for either dimension
// derives it from the image's own aspect ratio.
func Resize(logger *slog.Logger, img image.Image, width, height int) image.Image {
	srcBounds := img.Bounds()
	srcW := float64(srcBounds.Dx())
	srcH := float64(srcBounds.Dy())

	destW := float64(width)
	if destW == 0 {
		destW = srcW * float64(height) / srcH
	}
	destH := float64(height)
	if destH == 0 {
		destH = srcH * float64(width) / srcW
	}

	if int(destW) == srcBounds.Dx() && int(destH) == srcBounds.Dy() {
		return img
	}

	dest := image.NewRGBA(image.Rect(0, 0, int(math.Round(destW)), int(math.Round(destH))))
	if logger != nil {
		logger.Debug("resizing", "width", dest.Bounds().Dx(), "height", dest.Bounds().Dy())
	}
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, srcBounds, draw.Over, nil)
	return dest
}

// ToEGA quantizes img directly into a raster.Raster of EGA indices,
// with no dithering: each pixel is independently mapped to its
// nearest EGA color via ega.Quantize. This is the raster a
// PaletteBuilder/Vectorizer pipeline consumes.
func ToEGA(img image.Image, width, height int) *raster.Raster {
	r := raster.New(width, height)
	bounds := img.Bounds()
	for y := 0; y < height; y++ {
		sy := bounds.Min.Y + y
		if sy >= bounds.Max.Y {
			sy = bounds.Max.Y - 1
		}
		for x := 0; x < width; x++ {
			sx := bounds.Min.X + x
			if sx >= bounds.Max.X {
				sx = bounds.Max.X - 1
			}
			c := color.RGBAModel.Convert(img.At(sx, sy)).(color.RGBA)
			r.Put(x, y, ega.Quantize(c))
		}
	}
	return r
}

// Preview renders an EGA-indexed raster back to a full-color image for
// visual inspection, applying Floyd-Steinberg dithering against the
// fixed EGA palette so gradients in the raster remain legible even
// though the raster itself only holds solid indices.
func Preview(r *raster.Raster) image.Image {
	dest := image.NewPaletted(image.Rect(0, 0, r.Width(), r.Height()), egaColorPalette())
	src := image.NewRGBA(dest.Bounds())
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			src.Set(x, y, ega.ToRGBA(r.Get(x, y)))
		}
	}
	draw.FloydSteinberg.Draw(dest, dest.Bounds(), src, image.Point{})
	return dest
}

func egaColorPalette() color.Palette {
	pal := make(color.Palette, 16)
	for i := range pal {
		pal[i] = ega.ToRGBA(uint8(i))
	}
	return pal
}

// PerceptualDelta reports the mean OKLab distance between the source
// image and its EGA reproduction, a diagnostic surfaced by `-show` and
// `-preview`; it never gates verification, which stays pixel-exact.
func PerceptualDelta(src image.Image, r *raster.Raster) float64 {
	bounds := src.Bounds()
	w, h := r.Width(), r.Height()
	if w == 0 || h == 0 {
		return 0
	}

	var total float64
	var n int
	for y := 0; y < h; y++ {
		sy := bounds.Min.Y + y*bounds.Dy()/h
		for x := 0; x < w; x++ {
			sx := bounds.Min.X + x*bounds.Dx()/w
			srcLab := okcolor.FromColor(src.At(sx, sy))
			egaLab := okcolor.FromColor(ega.ToRGBA(r.Get(x, y)))
			total += okcolor.Distance(srcLab, egaLab)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// SavePreview writes img in the given format ("png", "jpeg", "bmp",
// "tiff"; an empty format means "png") to path.
func SavePreview(img image.Image, format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return scierr.Wrap(scierr.ErrIO, "imageio.SavePreview", err)
	}
	defer f.Close()

	if err := encode(f, img, format); err != nil {
		return scierr.Wrap(scierr.ErrIO, "imageio.SavePreview", fmt.Errorf("encoding %q: %w", path, err))
	}
	return nil
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png", "":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported preview format: %s", format)
	}
}

// Package vector implements the Vectorizer: the multi-pass compiler
// that turns a quantized EGA raster into an SCI0 opcode stream. It is
// the largest component of the pipeline, composing the palette,
// raster, and pic packages built underneath it.
package vector

import (
	"fmt"
	"sort"

	"scipic/internal/ega"
	"scipic/internal/pen"
	"scipic/internal/pic"
	"scipic/internal/raster"
	"scipic/internal/scierr"
)

// Result is the outcome of a successful vectorization.
type Result struct {
	Bytes      []byte
	Palette    *pen.Palette
	OmittedEGA int
}

// Options controls optional post-encode checks.
type Options struct {
	NoVerify bool
}

// Vectorize runs the full V1-V8 pipeline over an EGA-quantized source
// raster and returns the emitted opcode stream.
func Vectorize(source *raster.Raster, opts Options) (Result, error) {
	build := pen.Build(source)
	palette := build.Palette

	idx := assignPalette(source, palette)
	areas := buildAreas(idx)
	absorbSingletons(areas, palette)

	canvas := raster.New(source.Width(), source.Height())
	canvas.Clear(ega.Background)
	work := raster.New(source.Width(), source.Height())

	ordered := orderedAreas(areas)
	var pixelAreas []*Area
	var drawn []*Area

	for _, a := range ordered {
		if a.IsPixel {
			pixelAreas = append(pixelAreas, a)
			continue
		}

		pn := palette.Get(a.Color)
		switch {
		case pn.A == ega.Background && pn.B == ega.Background:
			// pure background: nothing is drawn.
			continue
		case pn.A == ega.Background || pn.B == ega.Background:
			for _, r := range a.Runs {
				a.Contours = append(a.Contours, []pic.Point{{X: r.X0, Y: r.Y}, {X: r.X1, Y: r.Y}})
				for x := r.X0; x <= r.X1; x++ {
					canvas.Put(x, r.Y, pn.Effective(x, r.Y))
				}
			}
			a.LineOnly = true
		default:
			traceContours(a, work, idx)
			planFill(a, canvas, palette)
		}
		drawn = append(drawn, a)
	}

	groupPixelAreas(pixelAreas, canvas, palette)

	final := mergeEmissionOrder(drawn, pixelAreas)

	bytes, err := emit(palette, final)
	if err != nil {
		return Result{}, err
	}

	if !opts.NoVerify {
		if err := verify(bytes, source); err != nil {
			return Result{}, err
		}
	}

	return Result{Bytes: bytes, Palette: palette, OmittedEGA: build.OmittedEGA}, nil
}

// groupPixelAreas implements V7: singleton pixel-areas are grouped by
// colour in their existing order, the first of each colour absorbing
// the coordinates of the rest into its Pixels list. It also stamps
// each pixel onto canvas; it runs after every area's fill has been
// planned, so the stamps do not influence any fill decision.
func groupPixelAreas(pixelAreas []*Area, canvas *raster.Raster, palette *pen.Palette) []*Area {
	byColor := make(map[int]*Area)
	var reps []*Area

	for _, a := range pixelAreas {
		x, y := a.Runs[0].X0, a.Runs[0].Y
		rep, ok := byColor[a.Color]
		if !ok {
			rep = a
			byColor[a.Color] = rep
			reps = append(reps, rep)
		}
		rep.Pixels = append(rep.Pixels, pic.Point{X: x, Y: y})
		pn := palette.Get(rep.Color)
		canvas.Put(x, y, pn.Effective(x, y))
	}

	return reps
}

// mergeEmissionOrder interleaves grouped pixel-area representatives
// back into the drawn-area order by ascending colour, matching V5's
// stable sort so V8 can emit strictly by colour groups.
func mergeEmissionOrder(drawn []*Area, pixelReps []*Area) []*Area {
	all := append(append([]*Area(nil), drawn...), pixelReps...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Color < all[j].Color })
	return all
}

// emit implements V8: encode the palette, prime a solid zero-radius
// circle stamp, then walk the areas in order emitting colour changes,
// pixel stamps, polylines, and fills.
func emit(palette *pen.Palette, areas []*Area) ([]byte, error) {
	e := pic.NewEncoder()

	if err := e.EncodeColors(palette); err != nil {
		return nil, err
	}
	if err := e.EncodeSolidCirclePattern(0); err != nil {
		return nil, err
	}

	lastColor := -1
	for _, a := range areas {
		if a.Color != lastColor {
			if err := e.EncodeVisual(a.Color); err != nil {
				return nil, err
			}
			lastColor = a.Color
		}

		if len(a.Pixels) > 0 {
			if err := e.EncodePatterns(a.Pixels); err != nil {
				return nil, err
			}
		}

		for _, poly := range a.Contours {
			if err := e.EncodeMultiLine(poly); err != nil {
				return nil, err
			}
		}

		if len(a.FillSeeds) > 0 {
			if err := e.EncodeFills(a.FillSeeds); err != nil {
				return nil, err
			}
		}
	}

	e.End()
	return e.Bytes(), nil
}

// verify implements §4.8: decode the emitted bytes and require the
// reproduced EGA raster to equal the source pixel-exactly.
func verify(data []byte, source *raster.Raster) error {
	in := pic.New(data)
	if err := in.Run(); err != nil {
		return scierr.Wrap(scierr.ErrVerify, "vector.verify", fmt.Errorf("decoding emitted stream: %w", err))
	}

	fb := in.Framebuffer()
	if fb.Width() != source.Width() || fb.Height() != source.Height() {
		return scierr.Wrap(scierr.ErrVerify, "vector.verify", fmt.Errorf("dimension mismatch: got %dx%d, want %dx%d", fb.Width(), fb.Height(), source.Width(), source.Height()))
	}

	for y := 0; y < source.Height(); y++ {
		for x := 0; x < source.Width(); x++ {
			if fb.Get(x, y) != source.Get(x, y) {
				return scierr.Wrap(scierr.ErrVerify, "vector.verify", fmt.Errorf("pixel mismatch at (%d,%d): got %d, want %d", x, y, fb.Get(x, y), source.Get(x, y)))
			}
		}
	}

	return nil
}

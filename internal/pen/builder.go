package pen

import "sort"

// EGASource is the minimal raster interface PaletteBuilder mines dither
// pairs from: a quantized EGA-index image.
type EGASource interface {
	Width() int
	Height() int
	At(x, y int) uint8
}

// MaxPens is the number of pens a built palette is trimmed to (160 =
// 4 banks x 40 slots).
const MaxPens = MaxSize

// BuildResult is the outcome of building a palette from an EGA image:
// the trimmed, frequency-ordered palette and a diagnostic count of how
// many distinct EGA colors were dropped entirely because every pen that
// carried them fell in the truncated tail.
type BuildResult struct {
	Palette    *Palette
	OmittedEGA int
}

// Build mines horizontal dither pairs from img, ranks them by
// frequency, and returns an ordered palette trimmed to MaxPens entries.
//
// For each pixel (x, y) with x < width-1, the pair (a, b) = (get(x,y),
// get(x+1,y)) contributes a pen: the solid pen (a, a) by default, or,
// when a 3-pixel horizontal dither run is detected (a != b and the
// pixel at x+2 reverts to a), the phase-correct 2-color pen (a, b) or
// (b, a) depending on the parity of (x+y).
func Build(img EGASource) BuildResult {
	counts := make(map[Pen]int)
	order := make([]Pen, 0, 256)

	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w-1; x++ {
			a := img.At(x, y)
			b := img.At(x+1, y)

			p := Pen{a, a}
			if a != b && x < w-2 && img.At(x+2, y) == a {
				if (x+y)%2 != 0 {
					p = Pen{a, b}
				} else {
					p = Pen{b, a}
				}
			}

			if _, seen := counts[p]; !seen {
				order = append(order, p)
			}
			counts[p]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	omitted := 0
	if len(order) > MaxPens {
		kept := make(map[uint8]bool)
		for _, p := range order[:MaxPens] {
			kept[p.A] = true
			kept[p.B] = true
		}
		missing := make(map[uint8]bool)
		for _, p := range order[MaxPens:] {
			if !kept[p.A] {
				missing[p.A] = true
			}
			if !kept[p.B] {
				missing[p.B] = true
			}
		}
		omitted = len(missing)
		order = order[:MaxPens]
	}

	return BuildResult{Palette: New(order), OmittedEGA: omitted}
}

package vector

import (
	"scipic/internal/pen"
	"scipic/internal/raster"
)

// window is a pair of sample offsets relative to a centre pixel,
// used to synthesize a dither-pen candidate for pen assignment.
type window struct{ dx1, dy1, dx2, dy2 int }

// candidateWindows is the fixed twelve-window sampling set: four
// single-step neighbours through the centre pixel, four two-step
// windows offset by one pixel either side of centre along each of the
// four principal axes, and four three-step windows offset by two
// pixels either side along the same axes.
var candidateWindows = buildCandidateWindows()

func buildCandidateWindows() []window {
	var ws []window
	// four 1-step neighbours through the centre.
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		ws = append(ws, window{0, 0, d[0], d[1]})
	}
	axes := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	// four 2-step windows offset by +-1 along each axis.
	for _, a := range axes {
		ws = append(ws, window{-a[0], -a[1], a[0], a[1]})
	}
	// four 3-step windows offset by +-2 along each axis.
	for _, a := range axes {
		ws = append(ws, window{-2 * a[0], -2 * a[1], 2 * a[0], 2 * a[1]})
	}
	return ws
}

// pickColor assigns a palette index to (x, y), voting across the
// twelve candidate windows plus a bias toward the already-assigned
// left and upper neighbours, per spec's createPaletteImage. Only pens
// whose effective colour at (x, y) equals the source pixel receive
// votes: a window pen that would render another colour there is
// replaced by palette.Match, and a neighbour's pen gets no bias.
func pickColor(x, y int, source *raster.Raster, palette *pen.Palette, leftIndex int, upperRow []int) int {
	counts := make(map[int]int, 12)
	target := source.At(x, y)

	for _, w := range candidateWindows {
		x1, y1 := x+w.dx1, y+w.dy1
		x2, y2 := x+w.dx2, y+w.dy2
		c1 := source.At(clampX(x1, source), clampY(y1, source))
		c2 := source.At(clampX(x2, source), clampY(y2, source))

		var p pen.Pen
		if (x+y)%2 == 0 {
			p = pen.Pen{A: c2, B: c1}
		} else {
			p = pen.Pen{A: c1, B: c2}
		}

		idx := palette.Index(p)
		if idx == pen.NotFound || palette.Get(idx).Effective(x, y) != target {
			idx = palette.Match(x, y, target)
		}
		if idx != pen.NotFound {
			counts[idx]++
		}
	}

	if leftIndex >= 0 && palette.Get(leftIndex).Effective(x, y) == target {
		counts[leftIndex] += 2
	}
	if upperRow != nil && x < len(upperRow) && upperRow[x] >= 0 && palette.Get(upperRow[x]).Effective(x, y) == target {
		counts[upperRow[x]] += 2
	}

	best := pen.NotFound
	bestCount := -1
	for idx, count := range counts {
		if count > bestCount || (count == bestCount && idx < best) {
			best = idx
			bestCount = count
		}
	}
	if best == pen.NotFound {
		best = palette.Match(x, y, source.At(x, y))
	}
	return best
}

func clampX(x int, r *raster.Raster) int {
	if x < 0 {
		return 0
	}
	if x >= r.Width() {
		return r.Width() - 1
	}
	return x
}

func clampY(y int, r *raster.Raster) int {
	if y < 0 {
		return 0
	}
	if y >= r.Height() {
		return r.Height() - 1
	}
	return y
}

// assignPalette builds the palette-index raster by running pickColor
// over every pixel of source, feeding each row's assignments back in
// as bias for the next row.
func assignPalette(source *raster.Raster, palette *pen.Palette) *raster.Raster {
	out := raster.New(source.Width(), source.Height())
	upperRow := make([]int, source.Width())
	for i := range upperRow {
		upperRow[i] = -1
	}

	for y := 0; y < source.Height(); y++ {
		leftIndex := -1
		row := make([]int, source.Width())
		for x := 0; x < source.Width(); x++ {
			idx := pickColor(x, y, source, palette, leftIndex, upperRow)
			if idx == pen.NotFound {
				// The palette was mined from this same source, so every
				// pixel's solid color should already have a slot; treat
				// a miss as palette index 0 rather than let it wrap to
				// 255 in the uint8 raster.
				idx = 0
			}
			out.Put(x, y, uint8(idx))
			row[x] = idx
			leftIndex = idx
		}
		upperRow = row
	}

	return out
}

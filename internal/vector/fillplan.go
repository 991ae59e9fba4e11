package vector

import (
	"scipic/internal/ega"
	"scipic/internal/pen"
	"scipic/internal/pic"
	"scipic/internal/raster"
)

// planFill implements V6: it first tries painting the area purely via
// flood-fill seeds dropped into each run; if any seed's fill escapes
// the area, it falls back to rasterizing the traced polylines first
// and flood-filling what remains, and finally accepts a line-only
// rendering if even that leaks.
func planFill(a *Area, canvas *raster.Raster, palette *pen.Palette) {
	pn := palette.Get(a.Color)

	if seeds, ok := trySimpleFill(a, canvas, pn); ok {
		a.FillSeeds = seeds
		a.Contours = nil
		return
	}

	for _, poly := range a.Contours {
		rasterizePolyline(canvas, poly, pn)
	}

	if seeds, ok := trySimpleFill(a, canvas, pn); ok {
		a.FillSeeds = seeds
		return
	}

	a.LineOnly = true
	a.FillSeeds = nil
}

func trySimpleFill(a *Area, canvas *raster.Raster, pn pen.Pen) ([]pic.Point, bool) {
	scratch := raster.New(canvas.Width(), canvas.Height())
	copy(scratch.Pix, canvas.Pix)

	var seeds []pic.Point
	for _, r := range a.Runs {
		for x := r.X0; x <= r.X1; x++ {
			if scratch.Get(x, r.Y) != ega.Background {
				continue
			}
			err := scratch.FloodWhere(x, r.Y, ega.Background,
				func(px, py int) bool { return a.contains(px, py) },
				func(px, py int) uint8 { return pn.Effective(px, py) },
			)
			if err != nil {
				return nil, false
			}
			seeds = append(seeds, pic.Point{X: x, Y: r.Y})
		}
	}

	copy(canvas.Pix, scratch.Pix)
	return seeds, true
}

func rasterizePolyline(canvas *raster.Raster, poly []pic.Point, pn pen.Pen) {
	for i := 0; i+1 < len(poly); i++ {
		canvas.LineFunc(poly[i].X, poly[i].Y, poly[i+1].X, poly[i+1].Y, func(x, y int) {
			canvas.Put(x, y, pn.Effective(x, y))
		})
	}
}

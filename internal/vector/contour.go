package vector

import (
	"scipic/internal/pic"
	"scipic/internal/raster"
)

// probeOrder is the fixed eight-direction probe sequence the contour
// walker tries, in order, when it cannot continue straight.
var probeOrder = [8][2]int{
	{-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0},
}

// traceContours implements V5.1: it stamps the area's boundary onto a
// shared work canvas and walks it into one or more closed or partial
// polylines.
func traceContours(a *Area, work *raster.Raster, idx *raster.Raster) {
	guard := a.Color + 1
	work.Clear(uint8(guard))

	minX, minY, maxX, maxY := a.bounds()

	for _, r := range a.Runs {
		work.Put(r.X0, r.Y, uint8(a.Color))
		work.Put(r.X1, r.Y, uint8(a.Color))
		for x := r.X0 + 1; x < r.X1; x++ {
			if isBoundaryCell(idx, x, r.Y, a.Color) {
				work.Put(x, r.Y, uint8(a.Color))
			}
		}
	}

	for {
		sx, sy, found := firstColorCell(work, a.Color, minX, minY, maxX, maxY)
		if !found {
			break
		}
		polyline, closed := walkContour(work, a.Color, sx, sy)
		a.Contours = append(a.Contours, simplifyPolyline(polyline))
		if closed {
			a.Closed = true
		}
	}
}

// isBoundaryCell reports whether the palette-index raster shows a
// different colour immediately above or below (x, y), i.e. whether
// this interior run cell sits on the area's boundary.
func isBoundaryCell(idx *raster.Raster, x, y, color int) bool {
	if y > 0 && int(idx.Get(x, y-1)) != color {
		return true
	}
	if y+1 < idx.Height() && int(idx.Get(x, y+1)) != color {
		return true
	}
	return false
}

func firstColorCell(work *raster.Raster, color, minX, minY, maxX, maxY int) (int, int, bool) {
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if int(work.Get(x, y)) == color {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// walkContour traces one sub-contour starting at (sx, sy), preferring
// to continue in the current direction (initially (0, +1)) and
// otherwise probing the eight neighbours in probeOrder. On the third
// visited step the start cell is restored to color so the walk can
// later recognize closing back onto it (a quirk of the original
// tracer this implementation reproduces faithfully).
func walkContour(work *raster.Raster, color, sx, sy int) ([]pic.Point, bool) {
	x, y := sx, sy
	dx, dy := 0, 1
	var poly []pic.Point
	step := 0

	for {
		poly = append(poly, pic.Point{X: x, Y: y})
		work.Put(x, y, uint8(color+1))
		step++
		if step == 3 {
			restoreStartOnStepThree(work, sx, sy, color)
		}

		if x == sx && y == sy && step > 1 {
			return poly, true
		}

		nx, ny, ok := tryDirection(work, color, x, y, dx, dy)
		if !ok {
			for _, d := range probeOrder {
				nx, ny, ok = tryDirection(work, color, x, y, d[0], d[1])
				if ok {
					dx, dy = d[0], d[1]
					break
				}
			}
		}

		if !ok {
			if x == sx && y == sy {
				return poly, true
			}
			return poly, false
		}

		if nx == sx && ny == sy {
			poly = append(poly, pic.Point{X: nx, Y: ny})
			return poly, true
		}

		x, y = nx, ny
	}
}

// restoreStartOnStepThree re-marks the contour's start cell as color
// so a walk that has looped back around can still recognize it as the
// closing point, mirroring the source tracer's own restoration point.
func restoreStartOnStepThree(work *raster.Raster, sx, sy, color int) {
	work.Put(sx, sy, uint8(color))
}

func tryDirection(work *raster.Raster, color, x, y, dx, dy int) (int, int, bool) {
	nx, ny := x+dx, y+dy
	if nx < 0 || ny < 0 || nx >= work.Width() || ny >= work.Height() {
		return 0, 0, false
	}
	if int(work.Get(nx, ny)) != color {
		return 0, 0, false
	}
	return nx, ny, true
}

// simplifyPolyline implements V5.2: drop a running candidate point
// whenever it is collinear with the previous kept point and the next
// point along a cardinal axis or a pure diagonal. First and last
// points are always kept.
func simplifyPolyline(points []pic.Point) []pic.Point {
	if len(points) < 3 {
		return points
	}

	out := []pic.Point{points[0]}
	kept := points[0]
	for i := 1; i < len(points)-1; i++ {
		cur := points[i]
		next := points[i+1]

		d1x, d1y := sign(cur.X-kept.X), sign(cur.Y-kept.Y)
		d2x, d2y := sign(next.X-cur.X), sign(next.Y-cur.Y)

		collinear := d1x == d2x && d1y == d2y && isAxisAligned(d1x, d1y)
		if collinear {
			continue
		}
		out = append(out, cur)
		kept = cur
	}
	out = append(out, points[len(points)-1])
	return out
}

func isAxisAligned(dx, dy int) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	if dx == 0 || dy == 0 {
		return true
	}
	return abs(dx) == 1 && abs(dy) == 1
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

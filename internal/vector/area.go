package vector

import (
	"sort"

	"scipic/internal/pen"
	"scipic/internal/pic"
	"scipic/internal/raster"
)

// AreaID identifies an area by the row and starting column of its
// first run, which never changes for the lifetime of the area.
type AreaID struct {
	Row, Start int
}

// run is a maximal horizontal span of one palette index on one row.
type run struct {
	Y, X0, X1 int
}

// Area is a connected region of a single palette index, built by the
// row-scan union pass and progressively enriched by later stages.
type Area struct {
	ID    AreaID
	Color int
	Runs  []run

	IsPixel bool // singleton not absorbed by a neighbour

	Closed    bool
	Contours  [][]pic.Point
	FillSeeds []pic.Point
	LineOnly  bool
	Pixels    []pic.Point // populated for the representative of a pixel-area group
}

func (a *Area) pixelCount() int {
	n := 0
	for _, r := range a.Runs {
		n += r.X1 - r.X0 + 1
	}
	return n
}

func (a *Area) bounds() (minX, minY, maxX, maxY int) {
	minX, minY = a.Runs[0].X0, a.Runs[0].Y
	maxX, maxY = a.Runs[0].X1, a.Runs[0].Y
	for _, r := range a.Runs[1:] {
		if r.X0 < minX {
			minX = r.X0
		}
		if r.X1 > maxX {
			maxX = r.X1
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.Y > maxY {
			maxY = r.Y
		}
	}
	return
}

// contains reports whether (x, y) is covered by one of the area's runs.
func (a *Area) contains(x, y int) bool {
	for _, r := range a.Runs {
		if r.Y == y && x >= r.X0 && x <= r.X1 {
			return true
		}
	}
	return false
}

// buildAreas performs the row-scan union pass (V3): sweeping the
// palette-index raster top to bottom, left to right, grouping maximal
// horizontal runs into areas and merging areas that turn out to be
// vertically connected.
func buildAreas(idx *raster.Raster) map[AreaID]*Area {
	areas := make(map[AreaID]*Area)
	columnOwner := make([]*Area, idx.Width())

	for y := 0; y < idx.Height(); y++ {
		x := 0
		for x < idx.Width() {
			color := int(idx.Get(x, y))
			x0 := x
			for x < idx.Width() && int(idx.Get(x, y)) == color {
				x++
			}
			x1 := x - 1

			var owner *Area
			for cx := x0; cx <= x1; cx++ {
				above := columnOwner[cx]
				if above == nil || above.Color != color {
					continue
				}
				if owner == nil {
					owner = above
				} else if owner != above {
					mergeAreas(areas, owner, above, columnOwner)
				}
			}

			if owner == nil {
				owner = &Area{ID: AreaID{Row: y, Start: x0}, Color: color}
				areas[owner.ID] = owner
			}
			owner.Runs = append(owner.Runs, run{Y: y, X0: x0, X1: x1})
			for cx := x0; cx <= x1; cx++ {
				columnOwner[cx] = owner
			}
		}
	}

	return areas
}

// mergeAreas absorbs discard's runs into keep, deletes discard from
// areas, and repoints every columnOwner entry that referenced discard.
func mergeAreas(areas map[AreaID]*Area, keep, discard *Area, columnOwner []*Area) {
	if keep == discard {
		return
	}
	keep.Runs = append(keep.Runs, discard.Runs...)
	delete(areas, discard.ID)
	for i, o := range columnOwner {
		if o == discard {
			columnOwner[i] = keep
		}
	}
}

// absorbSingletons implements V4: any area consisting of exactly one
// pixel is folded into a 4-connected neighbour whose pen renders the
// same effective colour at that pixel, when one exists. Remaining
// singletons are flagged IsPixel for V7.
func absorbSingletons(areas map[AreaID]*Area, palette *pen.Palette) {
	byCell := make(map[[2]int]*Area, len(areas))
	for _, a := range areas {
		for _, r := range a.Runs {
			for x := r.X0; x <= r.X1; x++ {
				byCell[[2]int{x, r.Y}] = a
			}
		}
	}

	var singles []*Area
	for _, a := range areas {
		if a.pixelCount() == 1 {
			singles = append(singles, a)
		}
	}
	sort.Slice(singles, func(i, j int) bool {
		if singles[i].ID.Row != singles[j].ID.Row {
			return singles[i].ID.Row < singles[j].ID.Row
		}
		return singles[i].ID.Start < singles[j].ID.Start
	})

	for _, a := range singles {
		x, y := a.Runs[0].X0, a.Runs[0].Y
		myEffective := palette.Get(a.Color).Effective(x, y)

		var neighbour *Area
		for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nb, ok := byCell[[2]int{x + d[0], y + d[1]}]
			if !ok || nb == a {
				continue
			}
			if palette.Get(nb.Color).Effective(x, y) == myEffective {
				neighbour = nb
				break
			}
		}

		if neighbour != nil {
			neighbour.Runs = append(neighbour.Runs, a.Runs...)
			delete(areas, a.ID)
			byCell[[2]int{x, y}] = neighbour
		} else {
			a.IsPixel = true
		}
	}
}

// orderedAreas returns the live areas stable-sorted by ascending
// colour (V5's ordering), preserving row/start order within a colour.
func orderedAreas(areas map[AreaID]*Area) []*Area {
	list := make([]*Area, 0, len(areas))
	for _, a := range areas {
		list = append(list, a)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ID.Row < list[j].ID.Row ||
			(list[i].ID.Row == list[j].ID.Row && list[i].ID.Start < list[j].ID.Start)
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Color < list[j].Color
	})
	return list
}

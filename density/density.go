// Package density rasterizes placed macros into the placement grid and
// reports the top-k bucket-averaged density cost.
package density

import (
	"math"
	"sort"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
)

// Result carries the per-cell occupied area grid and the scalar cost.
type Result struct {
	// OccupiedArea is row-major, length g.NumCells(): area of the macro
	// footprint overlap accumulated into each cell.
	OccupiedArea []float64
	Cost         float64
}

// Compute rasterizes every hard and soft macro's axis-aligned bounding box
// into g, accumulating overlap area per cell, then returns the top-k
// bucket-averaged density cost.
func Compute(mg *model.Graph, g *grid.Grid) Result {
	cells := make([]float64, g.NumCells())

	rasterize := func(idx int) {
		m, err := mg.Module(idx)
		if err != nil {
			return
		}
		mac := m.(*model.Macro)
		if !mac.Placed() {
			return
		}
		w, h := mac.Width(), mac.Height()
		x0, y0 := mac.X()-w/2, mac.Y()-h/2
		x1, y1 := x0+w, y0+h
		// Clip to canvas; wholly outside contributes nothing.
		x0, x1 = clamp(x0, 0, g.Width), clamp(x1, 0, g.Width)
		y0, y1 = clamp(y0, 0, g.Height), clamp(y1, 0, g.Height)
		if x1 <= x0 || y1 <= y0 {
			return
		}
		rowLo, colLo := g.CellOf(x0, y0)
		rowHi, colHi := g.CellOf(x1-1e-12, y1-1e-12)
		gw, gh := g.CellWidth(), g.CellHeight()
		for r := rowLo; r <= rowHi; r++ {
			cy0, cy1 := float64(r)*gh, float64(r+1)*gh
			oy := overlap1D(y0, y1, cy0, cy1)
			if oy <= 0 {
				continue
			}
			for c := colLo; c <= colHi; c++ {
				cx0, cx1 := float64(c)*gw, float64(c+1)*gw
				ox := overlap1D(x0, x1, cx0, cx1)
				if ox <= 0 {
					continue
				}
				cells[g.CellIndex(r, c)] += ox * oy
			}
		}
	}

	for _, idx := range mg.HardMacroIndices() {
		rasterize(idx)
	}
	for _, idx := range mg.SoftMacroIndices() {
		rasterize(idx)
	}

	return Result{OccupiedArea: cells, Cost: cost(cells, g)}
}

// cost computes 0.5 * mean(top-k cell densities) where k = floor(0.1 *
// rows*cols), dividing by the bucket size k (not by the number of
// occupied cells). Fewer than 10 cells existing falls back to averaging
// over all occupied cells, but a sparse top-k bucket still divides by k.
func cost(cells []float64, g *grid.Grid) float64 {
	cellArea := g.CellArea()
	if cellArea <= 0 {
		return 0
	}
	densities := make([]float64, len(cells))
	for i, area := range cells {
		densities[i] = area / cellArea
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(densities)))

	k := int(math.Floor(0.1 * float64(g.NumCells())))
	if g.NumCells() < 10 {
		k = countOccupied(densities)
	}
	if k <= 0 {
		return 0
	}
	if k > len(densities) {
		k = len(densities)
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += densities[i]
	}
	return 0.5 * sum / float64(k)
}

func countOccupied(sortedDesc []float64) int {
	n := 0
	for _, d := range sortedDesc {
		if d > 0 {
			n++
		}
	}
	return n
}

func overlap1D(a0, a1, b0, b1 float64) float64 {
	lo := math.Max(a0, b0)
	hi := math.Min(a1, b1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

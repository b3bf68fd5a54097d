package congestion

import (
	"math"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
)

const partialOverlapEpsilon = 1e-9

// routeMacros accumulates per-cell route demand from every placed hard
// macro's footprint: each touched cell gets x_overlap*vAlloc added to
// vMacro and y_overlap*hAlloc added to hMacro. When the footprint only
// partially covers its bottom or top row, the top row's vMacro
// contribution is backed out; when it only partially covers its left or
// right column, the right column's hMacro contribution is backed out —
// approximating that a route can still pass unobstructed through the
// adjacent cell across that boundary.
func routeMacros(mg *model.Graph, g *grid.Grid, cfg Config, vMacro, hMacro []float64) {
	for _, idx := range mg.HardMacroIndices() {
		m, _ := mg.Module(idx)
		mac := m.(*model.Macro)
		if !mac.Placed() {
			continue
		}
		routeOneMacro(mac, g, cfg, vMacro, hMacro)
	}
}

func routeOneMacro(mac *model.Macro, g *grid.Grid, cfg Config, vMacro, hMacro []float64) {
	w, h := mac.Width(), mac.Height()
	x0, y0 := mac.X()-w/2, mac.Y()-h/2
	x1, y1 := x0+w, y0+h
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
		yOverlap := overlap1D(y0, y1, cy0, cy1)
		if yOverlap <= 0 {
			continue
		}
		for c := colLo; c <= colHi; c++ {
			cx0, cx1 := float64(c)*gw, float64(c+1)*gw
			xOverlap := overlap1D(x0, x1, cx0, cx1)
			if xOverlap <= 0 {
				continue
			}
			idx := g.CellIndex(r, c)
			vMacro[idx] += xOverlap * cfg.VRoutingAlloc
			hMacro[idx] += yOverlap * cfg.HRoutingAlloc
		}
	}

	if rowHi > rowLo {
		loY0, loY1 := float64(rowLo)*gh, float64(rowLo+1)*gh
		hiY0, hiY1 := float64(rowHi)*gh, float64(rowHi+1)*gh
		loOverlap := overlap1D(y0, y1, loY0, loY1)
		hiOverlap := overlap1D(y0, y1, hiY0, hiY1)
		partial := math.Abs(loOverlap-gh) > partialOverlapEpsilon || math.Abs(hiOverlap-gh) > partialOverlapEpsilon
		if partial {
			for c := colLo; c <= colHi; c++ {
				cx0, cx1 := float64(c)*gw, float64(c+1)*gw
				xOverlap := overlap1D(x0, x1, cx0, cx1)
				if xOverlap <= 0 {
					continue
				}
				vMacro[g.CellIndex(rowHi, c)] -= xOverlap * cfg.VRoutingAlloc
			}
		}
	}
	if colHi > colLo {
		loX0, loX1 := float64(colLo)*gw, float64(colLo+1)*gw
		hiX0, hiX1 := float64(colHi)*gw, float64(colHi+1)*gw
		loOverlap := overlap1D(x0, x1, loX0, loX1)
		hiOverlap := overlap1D(x0, x1, hiX0, hiX1)
		partial := math.Abs(loOverlap-gw) > partialOverlapEpsilon || math.Abs(hiOverlap-gw) > partialOverlapEpsilon
		if partial {
			for r := rowLo; r <= rowHi; r++ {
				cy0, cy1 := float64(r)*gh, float64(r+1)*gh
				yOverlap := overlap1D(y0, y1, cy0, cy1)
				if yOverlap <= 0 {
					continue
				}
				hMacro[g.CellIndex(r, colHi)] -= yOverlap * cfg.HRoutingAlloc
			}
		}
	}
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

package congestion

import (
	"math"
	"sort"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
)

// cellPt is a net endpoint's grid cell, (col, row) to match the grid's
// (x, y) notation for routing segments.
type cellPt struct{ col, row int }

// routeAllNets walks every driver (port or pin) with at least one sink,
// resolves driver+sinks to grid cells, and dispatches each net to the
// 2-pin / 3-pin / >3-pin routing rule.
func routeAllNets(mg *model.Graph, g *grid.Grid, vCong, hCong []float64) {
	route := func(driverIdx int, weight float64, sinks map[string][]string) {
		driverPt, ok := cellOfModule(mg, g, driverIdx)
		if !ok {
			return
		}
		pts := []cellPt{driverPt}
		seen := map[cellPt]bool{driverPt: true}
		for _, names := range sinks {
			for _, name := range names {
				sinkIdx, ok := mg.IndexOf(name)
				if !ok {
					continue
				}
				pt, ok := cellOfModule(mg, g, sinkIdx)
				if !ok || seen[pt] {
					continue
				}
				seen[pt] = true
				pts = append(pts, pt)
			}
		}
		routeNet(vCong, hCong, g, pts, weight)
	}

	for _, idx := range mg.PortIndices() {
		m, _ := mg.Module(idx)
		p := m.(*model.Port)
		route(idx, p.Weight, p.SinksByParent())
	}
	for _, idx := range append(append([]int{}, mg.HardPinIndices()...), mg.SoftPinIndices()...) {
		m, _ := mg.Module(idx)
		pin := m.(*model.Pin)
		route(idx, pin.Weight, pin.Sinks)
	}
}

// cellOfModule locates idx's grid cell via unclamped floor division, the
// same __get_grid_cell_location computation placement legality uses, but
// without grid.CellOf's clamp to the last valid row/col: a module sitting
// exactly on the canvas's far edge must floor to one past the last cell
// so the half-open routing ranges below still cover every real column
// instead of silently dropping the last one. g.Validate rejects the
// resulting out-of-range row/col wherever it would otherwise be used as
// a literal index.
func cellOfModule(mg *model.Graph, g *grid.Grid, idx int) (cellPt, bool) {
	x, y, err := mg.Position(idx)
	if err != nil {
		return cellPt{}, false
	}
	col := int(math.Floor(x / g.CellWidth()))
	row := int(math.Floor(y / g.CellHeight()))
	return cellPt{col: col, row: row}, true
}

// routeNet dispatches a net's distinct endpoint cells to the matching
// routing rule.
func routeNet(vCong, hCong []float64, g *grid.Grid, pts []cellPt, weight float64) {
	switch len(pts) {
	case 0, 1:
		return
	case 2:
		routeTwoPin(vCong, hCong, g, pts[0], pts[1], weight)
	case 3:
		route3Pin(vCong, hCong, g, pts, weight)
	default:
		driver := pts[0]
		for _, sink := range pts[1:] {
			routeTwoPin(vCong, hCong, g, driver, sink, weight)
		}
	}
}

// routeTwoPin routes horizontally along the driver's row, then vertically
// along the sink's column.
func routeTwoPin(vCong, hCong []float64, g *grid.Grid, driver, sink cellPt, weight float64) {
	routeH(hCong, g, driver.row, driver.col, sink.col, weight)
	routeV(vCong, g, sink.col, driver.row, sink.row, weight)
}

// route3Pin implements the L-shape / special / same-row / T-shape cases.
func route3Pin(vCong, hCong []float64, g *grid.Grid, pts []cellPt, weight float64) {
	sorted := append([]cellPt(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].col != sorted[j].col {
			return sorted[i].col < sorted[j].col
		}
		return sorted[i].row < sorted[j].row
	})
	x1, y1 := sorted[0].col, sorted[0].row
	x2, y2 := sorted[1].col, sorted[1].row
	x3, y3 := sorted[2].col, sorted[2].row

	switch {
	case x1 < x2 && x2 < x3 && minInt(y1, y3) < y2 && y2 < maxInt(y1, y3):
		// L-shape.
		routeH(hCong, g, y1, x1, x2, weight)
		routeH(hCong, g, y2, x2, x3, weight)
		routeV(vCong, g, x2, minInt(y1, y2), maxInt(y1, y2), weight)
		routeV(vCong, g, x3, minInt(y2, y3), maxInt(y2, y3), weight)
	case x2 == x3 && x1 < x2 && y1 < minInt(y2, y3):
		// Special.
		routeH(hCong, g, y1, x1, x2, weight)
		routeV(vCong, g, x2, y1, maxInt(y2, y3), weight)
	case y2 == y3:
		// Same-row.
		routeH(hCong, g, y1, x1, x2, weight)
		routeH(hCong, g, y2, x2, x3, weight)
		routeV(vCong, g, x2, y1, y2, weight)
	default:
		// T-shape: re-sort by (y, x).
		t := append([]cellPt(nil), sorted...)
		sort.Slice(t, func(i, j int) bool {
			if t[i].row != t[j].row {
				return t[i].row < t[j].row
			}
			return t[i].col < t[j].col
		})
		q1, q2, q3 := t[0], t[1], t[2]
		lo := minInt(q1.col, minInt(q2.col, q3.col))
		hi := maxInt(q1.col, maxInt(q2.col, q3.col))
		routeH(hCong, g, q2.row, lo, hi, weight)
		routeV(vCong, g, q1.col, q1.row, q2.row, weight)
		routeV(vCong, g, q3.col, q2.row, q3.row, weight)
	}
}

// routeH adds weight to every cell in row, across columns [min(a,b),
// max(a,b)) — half-open, matching range(col_min, col_max).
func routeH(hCong []float64, g *grid.Grid, row, colA, colB int, weight float64) {
	lo, hi := minInt(colA, colB), maxInt(colA, colB)
	for c := lo; c < hi; c++ {
		if err := g.Validate(row, c); err != nil {
			continue
		}
		hCong[g.CellIndex(row, c)] += weight
	}
}

// routeV adds weight to every cell in col, across rows [min(a,b),
// max(a,b)) — half-open, matching range(row_min, row_max).
func routeV(vCong []float64, g *grid.Grid, col, rowA, rowB int, weight float64) {
	lo, hi := minInt(rowA, rowB), maxInt(rowA, rowB)
	for r := lo; r < hi; r++ {
		if err := g.Validate(r, col); err != nil {
			continue
		}
		vCong[g.CellIndex(r, col)] += weight
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

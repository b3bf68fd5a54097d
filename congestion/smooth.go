package congestion

import "github.com/RustamC/MacroPlacement/grid"

// smoothRows applies a 1-D horizontal box filter of half-width rng to
// vals (interpreted row-major over g), used to smooth V_routing_cong
// rowwise. The divisor is the in-bounds window width, so
// edge cells are averaged over fewer columns rather than padded with
// zeros.
func smoothRows(vals []float64, g *grid.Grid, rng int) []float64 {
	out := make([]float64, len(vals))
	if rng <= 0 {
		copy(out, vals)
		return out
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			lo, hi := maxInt(0, c-rng), minInt(g.Cols-1, c+rng)
			var sum float64
			for cc := lo; cc <= hi; cc++ {
				sum += vals[g.CellIndex(r, cc)]
			}
			out[g.CellIndex(r, c)] = sum / float64(hi-lo+1)
		}
	}
	return out
}

// smoothCols applies a 1-D vertical box filter of half-width rng to vals,
// used to smooth H_routing_cong columnwise.
func smoothCols(vals []float64, g *grid.Grid, rng int) []float64 {
	out := make([]float64, len(vals))
	if rng <= 0 {
		copy(out, vals)
		return out
	}
	for c := 0; c < g.Cols; c++ {
		for r := 0; r < g.Rows; r++ {
			lo, hi := maxInt(0, r-rng), minInt(g.Rows-1, r+rng)
			var sum float64
			for rr := lo; rr <= hi; rr++ {
				sum += vals[g.CellIndex(rr, c)]
			}
			out[g.CellIndex(r, c)] = sum / float64(hi-lo+1)
		}
	}
	return out
}

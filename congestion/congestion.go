// Package congestion estimates routing congestion from net routing and
// macro occupancy: the largest and most intricate component,
// decomposing nets of every pin count into H/V track demand, combining it
// with macro-occupancy demand, smoothing, and reducing to scalar costs.
package congestion

import (
	"math"
	"sort"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
)

// Config holds the routing-supply and smoothing parameters every call to
// Compute needs; callers (engine.Cost) own the authoritative values and
// pass a Config in, rather than this package reaching into engine state.
type Config struct {
	VRoutesPerMicron float64
	HRoutesPerMicron float64
	VRoutingAlloc    float64 // per-macro vertical route consumption
	HRoutingAlloc    float64 // per-macro horizontal route consumption
	SmoothRange      int     // half-window for box-filter smoothing
}

// Result carries every intermediate grid plus the three scalar costs, so
// callers needing raw demand (tests, diagnostics) don't have to recompute.
type Result struct {
	VRoutingNet, HRoutingNet     []float64 // raw net demand, pre-normalization
	VMacro, HMacro               []float64 // raw macro demand, pre-normalization
	VCombined, HCombined         []float64 // normalized, smoothed (net only), summed
	Cost, VCost, HCost           float64
}

// Compute runs the full net-routing + macro-routing + normalize + smooth +
// combine pipeline.
func Compute(mg *model.Graph, g *grid.Grid, cfg Config) Result {
	n := g.NumCells()
	vNet := make([]float64, n)
	hNet := make([]float64, n)

	routeAllNets(mg, g, vNet, hNet)

	vMacro := make([]float64, n)
	hMacro := make([]float64, n)
	routeMacros(mg, g, cfg, vMacro, hMacro)

	vSupply := g.CellWidth() * cfg.VRoutesPerMicron
	hSupply := g.CellHeight() * cfg.HRoutesPerMicron

	vNetNorm := divide(vNet, vSupply)
	hNetNorm := divide(hNet, hSupply)
	vMacroNorm := divide(vMacro, vSupply)
	hMacroNorm := divide(hMacro, hSupply)

	vSmoothed := smoothRows(vNetNorm, g, cfg.SmoothRange)
	hSmoothed := smoothCols(hNetNorm, g, cfg.SmoothRange)

	vCombined := addSlices(vSmoothed, vMacroNorm)
	hCombined := addSlices(hSmoothed, hMacroNorm)

	union := make([]float64, 0, 2*n)
	union = append(union, vCombined...)
	union = append(union, hCombined...)

	return Result{
		VRoutingNet: vNet, HRoutingNet: hNet,
		VMacro: vMacro, HMacro: hMacro,
		VCombined: vCombined, HCombined: hCombined,
		Cost:  topKMean(union, 0.05),
		VCost: topKMean(vCombined, 0.10),
		HCost: topKMean(hCombined, 0.10),
	}
}

func divide(vals []float64, supply float64) []float64 {
	out := make([]float64, len(vals))
	if supply == 0 {
		return out
	}
	for i, v := range vals {
		out[i] = v / supply
	}
	return out
}

func addSlices(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// topKMean averages the top fraction*len(vals) elements (floor, minimum 1
// when vals is non-empty), matching the density engine's top-k convention.
func topKMean(vals []float64, fraction float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	k := int(math.Floor(fraction * float64(len(sorted))))
	if k < 1 {
		k = 1
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += sorted[i]
	}
	return sum / float64(k)
}

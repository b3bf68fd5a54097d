// Package wirelength computes Half-Perimeter Wirelength over a netlist's
// nets: per-net bounding box of the driver plus its resolved
// sinks, summed and weighted.
package wirelength

import (
	"math"

	"github.com/RustamC/MacroPlacement/model"
)

// Result carries both the raw HPWL sum and the normalized cost so callers
// needing either don't have to recompute.
type Result struct {
	HPWL     float64
	NetCount float64
	Cost     float64
}

// Compute sums HPWL over every driver in g (ports and pins with at least
// one sink), then normalizes by (width+height)*net_count. net_count is the
// sum of driver weights seen (a weighted count, not a
// distinct-net count), matching the original's net-count accumulation.
func Compute(g *model.Graph, canvasWidth, canvasHeight float64) Result {
	var total, netCount float64

	visitDriver := func(driverIdx int, weight float64, sinks map[string][]string, driverX, driverY float64) {
		if len(sinks) == 0 {
			return
		}
		minX, minY := driverX, driverY
		maxX, maxY := driverX, driverY
		any := false
		for _, names := range sinks {
			for _, name := range names {
				sinkIdx, ok := g.IndexOf(name)
				if !ok {
					continue
				}
				x, y, err := g.Position(sinkIdx)
				if err != nil {
					continue
				}
				any = true
				minX, maxX = math.Min(minX, x), math.Max(maxX, x)
				minY, maxY = math.Min(minY, y), math.Max(maxY, y)
			}
		}
		if !any {
			return
		}
		total += weight * ((maxX - minX) + (maxY - minY))
		netCount += weight
	}

	for _, idx := range g.PortIndices() {
		m, _ := g.Module(idx)
		port := m.(*model.Port)
		visitDriver(idx, port.Weight, port.SinksByParent(), port.X(), port.Y())
	}
	for _, idx := range append(append([]int{}, g.HardPinIndices()...), g.SoftPinIndices()...) {
		m, _ := g.Module(idx)
		pin := m.(*model.Pin)
		x, y, err := g.Position(idx)
		if err != nil {
			continue
		}
		visitDriver(idx, pin.Weight, pin.Sinks, x, y)
	}

	cost := 0.0
	denom := (canvasWidth + canvasHeight) * netCount
	if denom != 0 {
		cost = total / denom
	}
	return Result{HPWL: total, NetCount: netCount, Cost: cost}
}

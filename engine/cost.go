// Package engine is the facade tying the entity graph, grid, and the
// wirelength/density/congestion/relax engines together into the single
// object a caller drives: load a netlist, mutate placement, read costs.
package engine

import (
	"github.com/RustamC/MacroPlacement/congestion"
	"github.com/RustamC/MacroPlacement/density"
	"github.com/RustamC/MacroPlacement/enginelog"
	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
	"github.com/RustamC/MacroPlacement/wirelength"
)

// Cost owns the entity graph plus every piece of derived layout state: the
// canvas grid, its node-mask bookkeeping, and the three metric engines'
// last-computed results, gated by the graph's dirty flags so a getter only
// recomputes what an intervening mutation actually touched.
type Cost struct {
	g    *model.Graph
	grid *grid.Grid
	mask *grid.Mask

	hRoutesPerMicron float64
	vRoutesPerMicron float64
	hRoutingAlloc    float64
	vRoutingAlloc    float64
	smoothRange      int
	overlapThreshold float64
	boundaryCheck    bool

	blockName   string
	projectName string
	blockages   [][5]float64 // minx, miny, maxx, maxy, blockage_rate

	log enginelog.Logger

	wl   wirelength.Result
	dens density.Result
	cong congestion.Result
}

// Option configures a Cost at construction time, mirroring the functional-
// options pattern applied throughout the entity-graph API
// (model.Graph's mutation methods take plain arguments, but the
// engine-level configuration surface — canvas, grid, routing supply —
// follows the same construct-then-apply shape as a graph builder's option
// list).
type Option func(*Cost)

// WithCanvasSize overrides the default 60%-utilization canvas size.
func WithCanvasSize(width, height float64) Option {
	return func(c *Cost) {
		c.grid = grid.New(width, height, c.grid.Cols, c.grid.Rows)
		c.resetMask()
	}
}

// WithPlacementGrid overrides the default 10x10 cell partition.
func WithPlacementGrid(cols, rows int) Option {
	return func(c *Cost) {
		c.grid = grid.New(c.grid.Width, c.grid.Height, cols, rows)
		c.resetMask()
		c.g.MarkDirty(model.DirtyCongestion)
	}
}

// WithRoutesPerMicron sets the horizontal and vertical routing track
// supply per micron.
func WithRoutesPerMicron(h, v float64) Option {
	return func(c *Cost) {
		c.hRoutesPerMicron, c.vRoutesPerMicron = h, v
		c.g.MarkDirty(model.DirtyCongestion)
	}
}

// WithMacroRoutingAllocation sets the per-macro horizontal/vertical route
// consumption used by the macro-occupancy congestion term.
func WithMacroRoutingAllocation(h, v float64) Option {
	return func(c *Cost) {
		c.hRoutingAlloc, c.vRoutingAlloc = h, v
		c.g.MarkDirty(model.DirtyCongestion)
	}
}

// WithCongestionSmoothRange sets the half-window for the net-congestion
// box-filter smoothing pass.
func WithCongestionSmoothRange(n int) Option {
	return func(c *Cost) {
		c.smoothRange = n
		c.g.MarkDirty(model.DirtyCongestion)
	}
}

// WithOverlapThreshold sets the threshold reserved for legality checks.
func WithOverlapThreshold(t float64) Option {
	return func(c *Cost) { c.overlapThreshold = t }
}

// WithCanvasBoundaryCheck enables or disables out-of-bounds mask rejection
// in GetNodeMask.
func WithCanvasBoundaryCheck(enabled bool) Option {
	return func(c *Cost) { c.boundaryCheck = enabled }
}

// WithBlockName sets the block identifier. It is kept on the Cost only;
// SavePlacement does not write it to the placement file.
func WithBlockName(name string) Option {
	return func(c *Cost) { c.blockName = name }
}

// WithProjectName sets the project identifier. It is kept on the Cost
// only; SavePlacement does not write it to the placement file.
func WithProjectName(name string) Option {
	return func(c *Cost) { c.projectName = name }
}

// WithLogger overrides the default stdlib-backed logger, e.g. with
// enginelog.Nop() for quiet test runs.
func WithLogger(l enginelog.Logger) Option {
	return func(c *Cost) { c.log = l }
}

// New returns a Cost wrapping g, with a default 60%-utilization square
// canvas sized from g's total macro area, a 10x10 grid, zero routing
// supply/allocation, boundary checking enabled, and a standard-library
// logger — matching the original engine's zero-valued routing fields,
// which the caller is expected to set from a placement file's metadata
// comments via RestorePlacement.
func New(g *model.Graph, opts ...Option) *Cost {
	side := grid.DefaultCanvasSize(totalModuleArea(g))
	c := &Cost{
		g:             g,
		grid:          grid.New(side, side, grid.DefaultCols, grid.DefaultRows),
		boundaryCheck: true,
		log:           enginelog.Default(),
	}
	c.resetMask()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cost) resetMask() { c.mask = grid.NewMask(c.grid) }

// totalModuleArea sums the footprint area of every hard and soft macro,
// the quantity the default canvas size targets 60% utilization of.
func totalModuleArea(g *model.Graph) float64 {
	var total float64
	for _, idx := range append(append([]int{}, g.HardMacroIndices()...), g.SoftMacroIndices()...) {
		m, err := g.Module(idx)
		if err != nil {
			continue
		}
		mac := m.(*model.Macro)
		total += mac.Width() * mac.Height()
	}
	return total
}

// Graph returns the wrapped entity graph, for callers (placement, relax)
// that operate on it directly.
func (c *Cost) Graph() *model.Graph { return c.g }

// Grid returns the canvas/cell partition Cost computes metrics against.
func (c *Cost) Grid() *grid.Grid { return c.grid }

// Modules returns every registered module in index order.
func (c *Cost) Modules() []model.Module { return c.g.Modules() }

// PlaceableIndices returns every Port and Macro index.
func (c *Cost) PlaceableIndices() []int { return c.g.PlaceableIndices() }

// Wirelength lazily recomputes and returns the HPWL result, clearing
// DirtyWirelength.
func (c *Cost) Wirelength() wirelength.Result {
	if c.g.IsDirty(model.DirtyWirelength) {
		c.wl = wirelength.Compute(c.g, c.grid.Width, c.grid.Height)
		c.g.ClearDirty(model.DirtyWirelength)
	}
	return c.wl
}

// Density lazily recomputes and returns the grid-cell density result,
// clearing DirtyDensity.
func (c *Cost) Density() density.Result {
	if c.g.IsDirty(model.DirtyDensity) {
		c.dens = density.Compute(c.g, c.grid)
		c.g.ClearDirty(model.DirtyDensity)
	}
	return c.dens
}

// Congestion lazily recomputes and returns the routing-congestion result,
// clearing DirtyCongestion.
func (c *Cost) Congestion() congestion.Result {
	if c.g.IsDirty(model.DirtyCongestion) {
		c.cong = congestion.Compute(c.g, c.grid, congestion.Config{
			HRoutesPerMicron: c.hRoutesPerMicron,
			VRoutesPerMicron: c.vRoutesPerMicron,
			HRoutingAlloc:    c.hRoutingAlloc,
			VRoutingAlloc:    c.vRoutingAlloc,
			SmoothRange:      c.smoothRange,
		})
		c.g.ClearDirty(model.DirtyCongestion)
	}
	return c.cong
}

// Package relax implements the force-directed relaxer that moves soft
// macros toward a lower-congestion, lower-wirelength layout.
// Only soft macros move; hard macros and ports act as anchors.
package relax

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
)

// sigmoidShift is the constant offset in the shifted sigmoid squashing
// function: forces below roughly this magnitude are squashed
// toward zero, forces above it saturate to unit magnitude.
const sigmoidShift = 50.0

// EpochParams configures one epoch of optimize_stdcells.
type EpochParams struct {
	Steps           int
	MaxMoveDistance float64
	AttractFactor   float64
	RepelFactor     float64
}

// Config holds the parameters shared across every epoch.
type Config struct {
	IOFactor        float64
	AttractExponent float64 // the attraction force's r^AttractExponent; default 1.0 if zero
	Rand            *rand.Rand
}

// Snapshotter is called once per epoch after its steps complete, so the
// caller can persist an epoch_<n>.plc snapshot via the placement package.
type Snapshotter func(epoch int, info string) error

// Relaxer runs optimize_stdcells over a graph and grid.
type Relaxer struct {
	g    *model.Graph
	grid *grid.Grid
	cfg  Config
}

// New returns a Relaxer bound to g and grid, using cfg for shared
// parameters. A zero-value cfg.Rand falls back to a package-private
// default source so callers that don't care about determinism don't have
// to construct one.
func New(g *model.Graph, gr *grid.Grid, cfg Config) *Relaxer {
	if cfg.AttractExponent == 0 {
		cfg.AttractExponent = 1.0
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	return &Relaxer{g: g, grid: gr, cfg: cfg}
}

// Randomize scatters every unfixed soft macro to a uniform point on the
// unit disk centered on the canvas; fixed soft macros keep their position.
func (r *Relaxer) Randomize() {
	cx, cy := r.grid.Width/2, r.grid.Height/2
	for _, idx := range r.g.SoftMacroIndices() {
		m, _ := r.g.Module(idx)
		mac := m.(*model.Macro)
		if mac.Fixed() {
			continue
		}
		theta := r.cfg.Rand.Float64() * 2 * math.Pi
		radius := math.Sqrt(r.cfg.Rand.Float64())
		mac.SetPosition(cx+radius*math.Cos(theta), cy+radius*math.Sin(theta))
	}
	r.g.MarkDirty(model.All)
}

// Optimize runs each epoch's steps in order, saving a snapshot after each
// epoch completes if snap is non-nil.
func (r *Relaxer) Optimize(epochs []EpochParams, snap Snapshotter) error {
	for e, ep := range epochs {
		for s := 0; s < ep.Steps; s++ {
			r.step(ep)
		}
		if snap != nil {
			info := fmt.Sprintf("epoch %d, %d steps", e, ep.Steps)
			if err := snap(e, info); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Relaxer) step(ep EpochParams) {
	soft := r.g.SoftMacroIndices()
	disp := make(map[int][2]float64, len(soft))

	r.accumulateSoftSoftRepulsion(soft, ep.RepelFactor, disp)
	r.applyMaxNormalization(soft, disp, 2.0)

	hardDisp := make(map[int][2]float64, len(soft))
	r.accumulateSoftHardRepulsion(soft, ep.RepelFactor, hardDisp)
	r.applyMaxNormalization(soft, hardDisp, 4.0)
	for idx, d := range hardDisp {
		v := disp[idx]
		disp[idx] = [2]float64{v[0] + d[0], v[1] + d[1]}
	}

	attractDisp := make(map[int][2]float64, len(soft))
	r.accumulateAttraction(ep.AttractFactor, attractDisp)
	r.applyMaxNormalization(soft, attractDisp, 0.1)
	for idx, d := range attractDisp {
		v := disp[idx]
		disp[idx] = [2]float64{v[0] + d[0], v[1] + d[1]}
	}

	r.applyDisplacements(disp, ep.MaxMoveDistance)
	r.clampToCanvas(soft)
	r.g.MarkDirty(model.All)
}

// applyMaxNormalization scales every displacement in disp by scale /
// max(|fx|), scale / max(|fy|) independently per axis, matching the
// per-phase max-normalization applied after each accumulator.
func (r *Relaxer) applyMaxNormalization(soft []int, disp map[int][2]float64, scale float64) {
	maxX, maxY := 0.0, 0.0
	for _, idx := range soft {
		d := disp[idx]
		if math.Abs(d[0]) > maxX {
			maxX = math.Abs(d[0])
		}
		if math.Abs(d[1]) > maxY {
			maxY = math.Abs(d[1])
		}
	}
	if maxX == 0 {
		maxX = 1
	}
	if maxY == 0 {
		maxY = 1
	}
	for idx, d := range disp {
		disp[idx] = [2]float64{d[0] * scale / maxX, d[1] * scale / maxY}
	}
}

func (r *Relaxer) applyDisplacements(disp map[int][2]float64, maxMove float64) {
	for idx, d := range disp {
		m, _ := r.g.Module(idx)
		mac := m.(*model.Macro)
		if mac.Fixed() {
			continue
		}
		dx, dy := d[0], d[1]
		if maxMove > 0 {
			mag := math.Hypot(dx, dy)
			if mag > maxMove {
				dx, dy = dx*maxMove/mag, dy*maxMove/mag
			}
		}
		mac.SetPosition(mac.X()+dx, mac.Y()+dy)
	}
}

func (r *Relaxer) clampToCanvas(soft []int) {
	for _, idx := range soft {
		m, _ := r.g.Module(idx)
		mac := m.(*model.Macro)
		x := clamp(mac.X(), 0, r.grid.Width)
		y := clamp(mac.Y(), 0, r.grid.Height)
		mac.SetPosition(x, y)
	}
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

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// sigmoid is the shifted sigmoid used to squash attraction force
// components: sign(x) / (exp(-|x|+50) + 1).
func sigmoid(x float64) float64 {
	return sign(x) / (math.Exp(-math.Abs(x)+sigmoidShift) + 1)
}

// squareHalfSide returns half of a macro's "square-approximated" side
// length, using height as the side for the overlap test.
func squareHalfSide(mac *model.Macro) float64 { return mac.Height() / 2 }

// overlaps reports whether two macros' square-approximated, centered
// axis-aligned boxes intersect.
func overlaps(xa, ya, ha float64, xb, yb, hb float64) bool {
	return math.Abs(xa-xb) < ha/2+hb/2 && math.Abs(ya-yb) < ha/2+hb/2
}

package relax

import (
	"math"

	"github.com/RustamC/MacroPlacement/model"
)

const tieBreakEpsilon = 1e-10

// accumulateSoftSoftRepulsion implements soft-soft repulsion:
// for every unordered pair of soft macros, push them apart along the
// line between their centers, or along both axes equally when they sit
// exactly on top of each other.
func (r *Relaxer) accumulateSoftSoftRepulsion(soft []int, repelFactor float64, disp map[int][2]float64) {
	for i := 0; i < len(soft); i++ {
		mi, _ := r.g.Module(soft[i])
		a := mi.(*model.Macro)
		for j := i + 1; j < len(soft); j++ {
			mj, _ := r.g.Module(soft[j])
			b := mj.(*model.Macro)

			dx, dy := a.X()-b.X(), a.Y()-b.Y()
			dist := math.Hypot(dx, dy)

			var fx, fy float64
			if dist <= tieBreakEpsilon {
				fx = math.Sqrt(repelFactor)
				fy = math.Sqrt(repelFactor)
			} else {
				fx = repelFactor * dx / dist
				fy = repelFactor * dy / dist
			}
			addDisp(disp, soft[i], fx, fy)
			addDisp(disp, soft[j], -fx, -fy)
		}
	}
}

// accumulateSoftHardRepulsion implements soft-hard repulsion:
// a soft macro overlapping (or coincident with) a hard macro is pushed
// away by the combined half-heights along the line between centers.
func (r *Relaxer) accumulateSoftHardRepulsion(soft []int, repelFactor float64, disp map[int][2]float64) {
	_ = repelFactor // soft-hard push magnitude is purely geometric; factor only scales soft-soft
	for _, si := range soft {
		mi, _ := r.g.Module(si)
		a := mi.(*model.Macro)
		for _, hi := range r.g.HardMacroIndices() {
			mj, _ := r.g.Module(hi)
			b := mj.(*model.Macro)

			dx, dy := a.X()-b.X(), a.Y()-b.Y()
			dist := math.Hypot(dx, dy)
			ha, hb := squareHalfSide(a), squareHalfSide(b)

			if dist > tieBreakEpsilon && !overlaps(a.X(), a.Y(), a.Height(), b.X(), b.Y(), b.Height()) {
				continue
			}
			push := ha + hb
			var fx, fy float64
			if dist <= tieBreakEpsilon {
				fx, fy = push, push
			} else {
				fx = dx / dist * push
				fy = dy / dist * push
			}
			addDisp(disp, si, fx, fy)
		}
	}
}

// accumulateAttraction implements the attraction pass: every
// soft-macro driver pin with sinks pulls toward its sinks' parent
// modules (and vice versa for soft sinks), squashed through the shifted
// sigmoid so near nets barely move and far nets saturate.
func (r *Relaxer) accumulateAttraction(attractFactor float64, disp map[int][2]float64) {
	visit := func(driverIdx int, driverIsPort bool, sinks map[string][]string) {
		driverParent, driverSoft, driverX, driverY, driverSize, ok := r.anchorOf(driverIdx, driverIsPort)
		if !ok {
			return
		}
		for _, names := range sinks {
			for _, name := range names {
				sinkIdx, ok := r.g.IndexOf(name)
				if !ok {
					continue
				}
				sinkIsPort := isPort(r.g, sinkIdx)
				sinkParent, sinkSoft, sinkX, sinkY, sinkSize, ok := r.anchorOf(sinkIdx, sinkIsPort)
				if !ok || (!driverSoft && !sinkSoft) {
					continue
				}

				factor := attractFactor
				if driverIsPort || sinkIsPort {
					factor = r.cfg.IOFactor
				}

				dx, dy := sinkX-driverX, sinkY-driverY
				xdist := edgeGap(dx, driverSize/2, sinkSize/2)
				ydist := edgeGap(dy, driverSize/2, sinkSize/2)
				radius := math.Hypot(xdist, ydist)

				if overlaps(driverX, driverY, driverSize, sinkX, sinkY, sinkSize) {
					continue
				}
				f := factor * math.Pow(math.Max(radius, 0), r.cfg.AttractExponent)
				fx := sigmoid(f * xdist)
				fy := sigmoid(f * ydist)

				if driverSoft {
					nx, ny := driverX+fx, driverY+fy
					if overlaps(nx, ny, driverSize, sinkX, sinkY, sinkSize) {
						continue
					}
				}
				if sinkSoft {
					nx, ny := sinkX-fx, sinkY-fy
					if overlaps(driverX, driverY, driverSize, nx, ny, sinkSize) {
						continue
					}
				}

				if driverSoft {
					addDisp(disp, driverParent, fx, fy)
				}
				if sinkSoft {
					addDisp(disp, sinkParent, -fx, -fy)
				}
			}
		}
	}

	for _, idx := range r.g.PortIndices() {
		m, _ := r.g.Module(idx)
		p := m.(*model.Port)
		visit(idx, true, p.SinksByParent())
	}
	for _, idx := range r.g.SoftPinIndices() {
		m, _ := r.g.Module(idx)
		pin := m.(*model.Pin)
		visit(idx, false, pin.Sinks)
	}
}

// anchorOf resolves a driver or sink index to the soft-macro index it
// should push/pull (or -1 if its parent is not a soft macro), along with
// the anchor's current position and square-approximated size.
func (r *Relaxer) anchorOf(idx int, isPort bool) (parentIdx int, soft bool, x, y, size float64, ok bool) {
	if isPort {
		m, err := r.g.Module(idx)
		if err != nil {
			return 0, false, 0, 0, 0, false
		}
		p := m.(*model.Port)
		return -1, false, p.X(), p.Y(), 0, true
	}
	parentIdx, err := r.g.ParentIndex(idx)
	if err != nil {
		return 0, false, 0, 0, 0, false
	}
	m, err := r.g.Module(parentIdx)
	if err != nil {
		return 0, false, 0, 0, 0, false
	}
	mac := m.(*model.Macro)
	return parentIdx, !mac.Hard, mac.X(), mac.Y(), mac.Height(), true
}

func isPort(g *model.Graph, idx int) bool {
	m, err := g.Module(idx)
	if err != nil {
		return false
	}
	_, ok := m.(*model.Port)
	return ok
}

// edgeGap returns the signed edge-to-edge gap along one axis: the raw
// center-to-center delta with the combined half-sizes subtracted toward
// zero, preserving the delta's sign.
func edgeGap(delta, halfA, halfB float64) float64 {
	return sign(delta) * (math.Abs(delta) - halfA - halfB)
}

func addDisp(disp map[int][2]float64, idx int, fx, fy float64) {
	v := disp[idx]
	disp[idx] = [2]float64{v[0] + fx, v[1] + fy}
}

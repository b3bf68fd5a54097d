package engine

import (
	"fmt"
	"math"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
	"github.com/RustamC/MacroPlacement/placement"
)

// pointFootprint is the degenerate width/height get_node_mask uses for
// ports and pins, which occupy no real area of their own.
const pointFootprint = 1e-3

// PlaceNode places the module at idx into the center of grid cell cellIdx,
// stamping a padded zero-region into the node mask. A fixed node or an
// out-of-range cell logs a warning and is a no-op rather than an error,
// matching the FixedNodeWarning/OutOfBoundsWarning recovery policy.
func (c *Cost) PlaceNode(idx, cellIdx int) error {
	p, err := c.placeable(idx)
	if err != nil {
		return err
	}
	if cellIdx < 0 || cellIdx >= c.grid.NumCells() {
		c.log.Warnf("place_node: cell %d out of range for index %d", cellIdx, idx)
		return nil
	}
	if p.Fixed() {
		c.log.Warnf("place_node: index %d is fixed, ignoring", idx)
		return nil
	}
	row, col := c.grid.RowCol(cellIdx)
	x, y := c.grid.CenterOf(row, col)
	if err := c.g.Place(idx, x, y); err != nil {
		return err
	}
	c.stampMask(row, col, p.Width(), p.Height())
	return nil
}

func (c *Cost) stampMask(row, col int, width, height float64) {
	cw, ch := c.grid.CellWidth(), c.grid.CellHeight()
	horPad := int(math.Ceil((width/2 - cw/2) / cw))
	verPad := int(math.Ceil((height/2 - ch/2) / ch))
	c.mask.ClearRegion(row-verPad, row+verPad, col-horPad, col+horPad)
}

// UnplaceNode marks the module at idx unplaced. A fixed node logs a
// warning and is a no-op.
func (c *Cost) UnplaceNode(idx int) error {
	p, err := c.placeable(idx)
	if err != nil {
		return err
	}
	if p.Fixed() {
		c.log.Warnf("unplace_node: index %d is fixed, ignoring", idx)
		return nil
	}
	return c.g.Unplace(idx)
}

// UnplaceAllNodes clears the placed flag on every non-fixed placeable
// module and resets the node mask to all-legal.
func (c *Cost) UnplaceAllNodes() {
	for _, idx := range c.g.PlaceableIndices() {
		m, err := c.g.Module(idx)
		if err != nil {
			continue
		}
		p := m.(model.Placeable)
		if p.Fixed() || !p.Placed() {
			continue
		}
		_ = c.g.Unplace(idx)
	}
	c.resetMask()
	c.g.MarkDirty(model.All)
}

// FixNodeCoord and UnfixNodeCoord toggle the fixed flag on a placeable
// module.
func (c *Cost) FixNodeCoord(idx int) error   { return c.g.SetFixed(idx, true) }
func (c *Cost) UnfixNodeCoord(idx int) error { return c.g.SetFixed(idx, false) }

// UpdateNodeCoords sets a placeable module's position directly,
// unconditionally (it bypasses the Fixed() rejection Place/Unplace apply,
// matching the original's update_node_coords).
func (c *Cost) UpdateNodeCoords(idx int, x, y float64) error {
	p, err := c.placeable(idx)
	if err != nil {
		return err
	}
	p.SetPosition(x, y)
	c.g.MarkDirty(model.All)
	return nil
}

// UpdateMacroOrientation rotates a hard macro and its pins' offsets.
func (c *Cost) UpdateMacroOrientation(idx int, o model.Orientation) error {
	return c.g.SetOrientation(idx, o)
}

// SetSoftMacroPosition directly sets a soft macro's position, unconditionally
// — the setter the force-directed relaxer and any external synchronization
// with an upstream placer use.
func (c *Cost) SetSoftMacroPosition(idx int, x, y float64) error {
	m, err := c.g.Module(idx)
	if err != nil {
		return err
	}
	mac, ok := m.(*model.Macro)
	if !ok || mac.Hard {
		return fmt.Errorf("index %d: %w", idx, model.ErrTypeMismatch)
	}
	mac.SetPosition(x, y)
	c.g.MarkDirty(model.All)
	return nil
}

func (c *Cost) placeable(idx int) (model.Placeable, error) {
	m, err := c.g.Module(idx)
	if err != nil {
		return nil, err
	}
	p, ok := m.(model.Placeable)
	if !ok {
		return nil, fmt.Errorf("index %d: %w", idx, model.ErrTypeMismatch)
	}
	return p, nil
}

// GetNodeMask returns a rows*cols legality bitmap for placing idx: a cell
// is legal iff idx's bounding box centered there stays within the canvas
// (when boundary checking is enabled) and does not overlap any currently
// placed macro. Ports and pins use a point-sized footprint.
func (c *Cost) GetNodeMask(idx int) ([]bool, error) {
	m, err := c.g.Module(idx)
	if err != nil {
		return nil, err
	}
	width, height := pointFootprint, pointFootprint
	switch mod := m.(type) {
	case *model.Macro:
		width, height = mod.Width(), mod.Height()
	}

	n := c.grid.NumCells()
	out := make([]bool, n)

	type placedMacro struct{ x, y, w, h float64 }
	var placed []placedMacro
	for _, pidx := range append(append([]int{}, c.g.HardMacroIndices()...), c.g.SoftMacroIndices()...) {
		pm, err := c.g.Module(pidx)
		if err != nil {
			continue
		}
		mac := pm.(*model.Macro)
		if !mac.Placed() {
			continue
		}
		placed = append(placed, placedMacro{mac.X(), mac.Y(), mac.Width(), mac.Height()})
	}

	for i := 0; i < n; i++ {
		row, col := c.grid.RowCol(i)
		cx, cy := c.grid.CenterOf(row, col)
		x0, y0 := cx-width/2, cy-height/2
		x1, y1 := cx+width/2, cy+height/2

		legal := true
		if c.boundaryCheck {
			area := overlapArea(0, 0, c.grid.Width, c.grid.Height, x0, y0, x1, y1)
			if math.Abs(area-width*height) > 1e-8 {
				legal = false
			}
		}
		if legal {
			for _, pm := range placed {
				px0, py0 := pm.x-pm.w/2, pm.y-pm.h/2
				px1, py1 := pm.x+pm.w/2, pm.y+pm.h/2
				if overlapArea(px0, py0, px1, py1, x0, y0, x1, y1) > 0 {
					legal = false
					break
				}
			}
		}
		out[i] = legal
	}
	return out, nil
}

// overlapArea returns the intersection area of two axis-aligned boxes, 0
// if they don't overlap.
func overlapArea(ax0, ay0, ax1, ay1, bx0, by0, bx1, by1 float64) float64 {
	xDiff := math.Min(ax1, bx1) - math.Max(ax0, bx0)
	yDiff := math.Min(ay1, by1) - math.Max(ay0, by0)
	if xDiff >= 0 && yDiff >= 0 {
		return xDiff * yDiff
	}
	return 0
}

// CanPlaceNode reports GetNodeMask(idx)[cellIdx], or false if cellIdx is
// out of range.
func (c *Cost) CanPlaceNode(idx, cellIdx int) (bool, error) {
	mask, err := c.GetNodeMask(idx)
	if err != nil {
		return false, err
	}
	if cellIdx < 0 || cellIdx >= len(mask) {
		return false, nil
	}
	return mask[cellIdx], nil
}

// CreateBlockage records a placement blockage region. It is pure
// bookkeeping — no cost computation in this engine reads it, matching the
// original's create_blockage/get_blockages, which are likewise never
// consumed internally.
func (c *Cost) CreateBlockage(minX, minY, maxX, maxY, blockageRate float64) {
	c.blockages = append(c.blockages, [5]float64{minX, minY, maxX, maxY, blockageRate})
}

// Blockages returns every recorded blockage region.
func (c *Cost) Blockages() [][5]float64 {
	return append([][5]float64(nil), c.blockages...)
}

// RestorePlacement restores positions, orientations and fixed flags from
// the placement file at path. If readComment, recognized metadata comment
// lines (canvas size, grid, routing allocations, smoothing range, overlap
// threshold) are applied to this Cost's configuration.
func (c *Cost) RestorePlacement(path string, validate, readComment bool) (placement.Metadata, error) {
	meta, err := placement.Restore(path, c.g, placement.RestoreOptions{Validate: validate, ReadComment: readComment})
	if err != nil {
		return meta, err
	}
	if readComment {
		c.applyMetadata(meta)
	}
	return meta, nil
}

func (c *Cost) applyMetadata(meta placement.Metadata) {
	if meta.Width > 0 && meta.Height > 0 {
		c.grid = grid.New(meta.Width, meta.Height, c.grid.Cols, c.grid.Rows)
	}
	if meta.Columns > 0 && meta.Rows > 0 {
		c.grid = grid.New(c.grid.Width, c.grid.Height, meta.Columns, meta.Rows)
	}
	c.resetMask()
	if meta.RoutesPerMicronHor != 0 || meta.RoutesPerMicronVer != 0 {
		c.hRoutesPerMicron, c.vRoutesPerMicron = meta.RoutesPerMicronHor, meta.RoutesPerMicronVer
	}
	if meta.RoutesUsedByMacrosHor != 0 || meta.RoutesUsedByMacrosVer != 0 {
		c.hRoutingAlloc, c.vRoutingAlloc = meta.RoutesUsedByMacrosHor, meta.RoutesUsedByMacrosVer
	}
	if meta.SmoothingFactor != 0 {
		c.smoothRange = meta.SmoothingFactor
	}
	if meta.OverlapThreshold != 0 {
		c.overlapThreshold = meta.OverlapThreshold
	}
	if meta.Block != "" {
		c.blockName = meta.Block
	}
	c.g.MarkDirty(model.All)
}

// SavePlacement writes the current placement to path, preceded by info as
// "#"-prefixed comment lines.
func (c *Cost) SavePlacement(path, info string) error {
	return placement.Save(path, c.g, info)
}

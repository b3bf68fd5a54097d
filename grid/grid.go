package grid

import (
	"fmt"
	"math"
)

// UtilizationTarget is the 60% fill factor the default canvas size targets:
// width = height = sqrt(total_module_area / UtilizationTarget).
const UtilizationTarget = 0.6

// DefaultCols and DefaultRows are the grid's default partition when no
// explicit placement_grid option is supplied.
const (
	DefaultCols = 10
	DefaultRows = 10
)

// DefaultCanvasSize returns the square canvas side length that targets
// UtilizationTarget occupancy for the given total module area. A
// zero-or-negative area yields a zero-size canvas rather than NaN/Inf, so
// a freshly constructed engine with no netlist loaded yet has a
// well-defined (if degenerate) grid.
func DefaultCanvasSize(totalModuleArea float64) float64 {
	if totalModuleArea <= 0 {
		return 0
	}
	return math.Sqrt(totalModuleArea / UtilizationTarget)
}

// Grid is the canvas rectangle and its cols×rows cell partition: a
// "bounds + uniform cell size" coordinate space over continuous micron
// cells rather than an integer lattice.
type Grid struct {
	Width, Height float64
	Cols, Rows    int
}

// New returns a Grid with the given canvas size and cell partition. Cols
// and Rows are clamped to at least 1 to keep cell-size division defined.
func New(width, height float64, cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{Width: width, Height: height, Cols: cols, Rows: rows}
}

// CellWidth and CellHeight are the per-cell dimensions gw, gh.
func (g *Grid) CellWidth() float64  { return g.Width / float64(g.Cols) }
func (g *Grid) CellHeight() float64 { return g.Height / float64(g.Rows) }

// CellArea is gw * gh.
func (g *Grid) CellArea() float64 { return g.CellWidth() * g.CellHeight() }

// CellOf returns the (row, col) the point (x, y) falls in, clamped to the
// grid's valid range so points exactly on or past the canvas edge still
// resolve to the last row/col rather than one past it.
func (g *Grid) CellOf(x, y float64) (row, col int) {
	gw, gh := g.CellWidth(), g.CellHeight()
	col = int(math.Floor(x / gw))
	row = int(math.Floor(y / gh))
	if col < 0 {
		col = 0
	}
	if col >= g.Cols {
		col = g.Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.Rows {
		row = g.Rows - 1
	}
	return row, col
}

// CenterOf returns the micron-space center of cell (row, col).
func (g *Grid) CenterOf(row, col int) (x, y float64) {
	gw, gh := g.CellWidth(), g.CellHeight()
	return (float64(col) + 0.5) * gw, (float64(row) + 0.5) * gh
}

// CellIndex flattens (row, col) into a single row-major index.
func (g *Grid) CellIndex(row, col int) int { return row*g.Cols + col }

// RowCol inverts CellIndex.
func (g *Grid) RowCol(idx int) (row, col int) { return idx / g.Cols, idx % g.Cols }

// NumCells is Cols * Rows.
func (g *Grid) NumCells() int { return g.Cols * g.Rows }

// Validate reports ErrCellOutOfRange if (row, col) is outside the grid.
func (g *Grid) Validate(row, col int) error {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return fmt.Errorf("(%d,%d): %w", row, col, ErrCellOutOfRange)
	}
	return nil
}

// Package grid models the rectangular canvas and its row/col partition
// into cells, plus the per-cell node-mask legality bitmap.
package grid

import "errors"

// ErrCellOutOfRange is returned for a (row, col) pair outside the grid.
var ErrCellOutOfRange = errors.New("grid: cell out of range")

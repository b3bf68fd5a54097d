package engine

import (
	"sort"

	"github.com/RustamC/MacroPlacement/model"
)

// GetMacroAdjacency returns the (H+S)x(H+S) symmetric connection-weight
// matrix over hard and soft macros, flattened row-major in ascending-index
// order, and the sorted macro index list the rows/columns correspond to.
func (c *Cost) GetMacroAdjacency() ([]float64, []int) {
	indices := macroIndices(c)
	n := len(indices)
	names := make([]string, n)
	conns := make([]map[string]float64, n)
	for i, idx := range indices {
		m, _ := c.g.Module(idx)
		names[i] = m.Name()
		conns[i] = connectionsOf(m)
	}

	adj := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			adj[i*n+j] = pairWeight(conns, names, i, j)
		}
	}
	return adj, indices
}

// GetMacroAndClusteredPortAdjacency extends GetMacroAdjacency with one
// extra row/column per occupied grid cell containing ports: entries
// aggregate the connection weight of every port in that cell against each
// macro. It returns the extended matrix and the occupied cell indices in
// ascending order, the identity of the supplemental rows/columns.
func (c *Cost) GetMacroAndClusteredPortAdjacency() ([]float64, []int) {
	macroIdx := macroIndices(c)
	nMacro := len(macroIdx)
	names := make([]string, nMacro)
	conns := make([]map[string]float64, nMacro)
	for i, idx := range macroIdx {
		m, _ := c.g.Module(idx)
		names[i] = m.Name()
		conns[i] = connectionsOf(m)
	}

	cellPorts := map[int][]int{}
	for _, pidx := range c.g.PortIndices() {
		m, _ := c.g.Module(pidx)
		port := m.(*model.Port)
		row, col := c.grid.CellOf(port.X(), port.Y())
		cell := c.grid.CellIndex(row, col)
		cellPorts[cell] = append(cellPorts[cell], pidx)
	}
	cells := make([]int, 0, len(cellPorts))
	for cell := range cellPorts {
		cells = append(cells, cell)
	}
	sort.Ints(cells)

	n := nMacro + len(cells)
	adj := make([]float64, n*n)
	for i := 0; i < nMacro; i++ {
		for j := 0; j < nMacro; j++ {
			adj[i*n+j] = pairWeight(conns, names, i, j)
		}
	}

	for ci, cell := range cells {
		row := nMacro + ci
		for _, pidx := range cellPorts[cell] {
			pm, _ := c.g.Module(pidx)
			portName := pm.Name()
			portConn := connectionsOf(pm)
			for j := 0; j < nMacro; j++ {
				var entry float64
				if w, ok := conns[j][portName]; ok {
					entry += w
				}
				if w, ok := portConn[names[j]]; ok {
					entry += w
				}
				adj[row*n+j] += entry
				adj[j*n+row] += entry
			}
		}
	}
	return adj, cells
}

// pairWeight sums the connection weight each of conns[i]/conns[j] records
// against the other's name, the symmetric entry get_macro_adjacency builds
// by adding both directions.
func pairWeight(conns []map[string]float64, names []string, i, j int) float64 {
	var entry float64
	if w, ok := conns[j][names[i]]; ok {
		entry += w
	}
	if w, ok := conns[i][names[j]]; ok {
		entry += w
	}
	return entry
}

// connectionsOf returns a module's aggregated per-neighbor connection
// weight map: Port and Macro both expose one, pins do not participate in
// adjacency and return nil.
func connectionsOf(m model.Module) map[string]float64 {
	switch mod := m.(type) {
	case *model.Port:
		return mod.Connections
	case *model.Macro:
		return mod.Connections
	default:
		return nil
	}
}

// macroIndices returns hard-then-soft macro indices merged and sorted
// ascending, matching the original's sorted(hard_macro_indices +
// soft_macro_indices).
func macroIndices(c *Cost) []int {
	out := append([]int{}, c.g.HardMacroIndices()...)
	out = append(out, c.g.SoftMacroIndices()...)
	sort.Ints(out)
	return out
}

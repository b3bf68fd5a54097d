package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/RustamC/MacroPlacement/engine"
	"github.com/RustamC/MacroPlacement/enginelog"
	"github.com/RustamC/MacroPlacement/model"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph()

	hard, err := g.AddMacro("m1", true)
	require.NoError(t, err)
	hard.SetSize(4, 4)

	soft, err := g.AddMacro("m2", false)
	require.NoError(t, err)
	soft.SetSize(2, 2)

	return g
}

func TestPlaceNodeMovesToCellCenterAndDirtiesMetrics(t *testing.T) {
	g := buildGraph(t)
	c := engine.New(g, engine.WithCanvasSize(10, 10), engine.WithPlacementGrid(10, 10), engine.WithLogger(enginelog.Nop()))

	idx, ok := g.IndexOf("m2")
	require.True(t, ok)

	_ = c.Wirelength() // clear dirty flags first
	_ = c.Density()
	_ = c.Congestion()

	require.NoError(t, c.PlaceNode(idx, 55)) // row 5, col 5 on a 10x10 grid
	mac, _ := g.Module(idx)
	m := mac.(*model.Macro)
	require.InDelta(t, 5.5, m.X(), 1e-9)
	require.InDelta(t, 5.5, m.Y(), 1e-9)
	require.True(t, m.Placed())

	dens := c.Density()
	require.Greater(t, dens.Cost, 0.0)
}

func TestPlaceNodeOnFixedNodeIsNoop(t *testing.T) {
	g := buildGraph(t)
	c := engine.New(g, engine.WithLogger(enginelog.Nop()))

	idx, ok := g.IndexOf("m1")
	require.True(t, ok)
	require.NoError(t, g.Place(idx, 1, 1)) // pre-set a position, then fix it
	require.NoError(t, g.SetFixed(idx, true))

	require.NoError(t, c.PlaceNode(idx, 0))
	mac, _ := g.Module(idx)
	m := mac.(*model.Macro)
	require.Equal(t, 1.0, m.X())
	require.Equal(t, 1.0, m.Y())
}

func TestPlaceNodeOutOfRangeCellIsNoop(t *testing.T) {
	g := buildGraph(t)
	c := engine.New(g, engine.WithPlacementGrid(10, 10), engine.WithLogger(enginelog.Nop()))
	idx, _ := g.IndexOf("m2")

	require.NoError(t, c.PlaceNode(idx, 9999))
	mac, _ := g.Module(idx)
	m := mac.(*model.Macro)
	require.False(t, m.Placed())
}

// TestGetNodeMaskRejectsOutOfBoundsAndOverlap reproduces testable property
// 7: a cell is legal iff placing there overlaps no placed macro and stays
// in bounds.
func TestGetNodeMaskRejectsOutOfBoundsAndOverlap(t *testing.T) {
	g := model.NewGraph()
	hard, err := g.AddMacro("big", true)
	require.NoError(t, err)
	hard.SetSize(2, 2)
	require.NoError(t, g.Place(hard.Index(), 5, 5))

	soft, err := g.AddMacro("probe", false)
	require.NoError(t, err)
	soft.SetSize(2, 2)

	c := engine.New(g, engine.WithCanvasSize(10, 10), engine.WithPlacementGrid(10, 10), engine.WithLogger(enginelog.Nop()))

	mask, err := c.GetNodeMask(soft.Index())
	require.NoError(t, err)
	require.Len(t, mask, 100)

	// cell (row 5, col 5) at center (5.5, 5.5) overlaps the hard macro at
	// (5,5) sized 2x2 -> illegal.
	overlapCell := c.Grid().CellIndex(5, 5)
	require.False(t, mask[overlapCell])

	// a cell fully within canvas bounds and away from the hard macro
	// stays legal.
	farCell := c.Grid().CellIndex(8, 8)
	require.True(t, mask[farCell])

	// cell (row 0, col 0) at center (0.5, 0.5) puts the 2x2 box at
	// [-0.5,1.5]x[-0.5,1.5], partly off the canvas -> illegal.
	edgeCell := c.Grid().CellIndex(0, 0)
	require.False(t, mask[edgeCell])

	can, err := c.CanPlaceNode(soft.Index(), overlapCell)
	require.NoError(t, err)
	require.False(t, can)
}

func TestUnplaceAllNodesLeavesFixedNodesAlone(t *testing.T) {
	g := buildGraph(t)
	fixedIdx, _ := g.IndexOf("m1")
	freeIdx, _ := g.IndexOf("m2")
	require.NoError(t, g.Place(fixedIdx, 1, 1))
	require.NoError(t, g.SetFixed(fixedIdx, true))
	require.NoError(t, g.Place(freeIdx, 2, 2))

	c := engine.New(g, engine.WithLogger(enginelog.Nop()))
	c.UnplaceAllNodes()

	fm, _ := g.Module(fixedIdx)
	sm, _ := g.Module(freeIdx)
	require.True(t, fm.(*model.Macro).Placed())
	require.False(t, sm.(*model.Macro).Placed())
}

func TestMacroAdjacencyIsSymmetricAndAggregatesConnections(t *testing.T) {
	g := buildGraph(t)
	m1Idx, _ := g.IndexOf("m1")
	m2Idx, _ := g.IndexOf("m2")
	m1, _ := g.Module(m1Idx)
	m1.(*model.Macro).Connections["m2"] = 3.0

	c := engine.New(g, engine.WithLogger(enginelog.Nop()))
	adj, indices := c.GetMacroAdjacency()
	require.ElementsMatch(t, []int{m1Idx, m2Idx}, indices)

	n := len(indices)
	// find row/col for m1, m2
	var i1, i2 int
	for i, idx := range indices {
		if idx == m1Idx {
			i1 = i
		}
		if idx == m2Idx {
			i2 = i
		}
	}
	require.Equal(t, 3.0, adj[i1*n+i2])
	require.Equal(t, 3.0, adj[i2*n+i1])
}

func TestSavePlacementThenRestoreRoundTrips(t *testing.T) {
	g := buildGraph(t)
	m1Idx, _ := g.IndexOf("m1")
	m2Idx, _ := g.IndexOf("m2")
	require.NoError(t, g.Place(m1Idx, 3, 3))
	require.NoError(t, g.Place(m2Idx, 7, 7))

	c := engine.New(g, engine.WithLogger(enginelog.Nop()))
	path := filepath.Join(t.TempDir(), "out.plc")
	require.NoError(t, c.SavePlacement(path, "round trip"))

	g2 := buildGraph(t)
	c2 := engine.New(g2, engine.WithLogger(enginelog.Nop()))
	_, err := c2.RestorePlacement(path, true, false)
	require.NoError(t, err)

	m1b, _ := g2.Module(m1Idx)
	require.Equal(t, 3.0, m1b.(*model.Macro).X())
}

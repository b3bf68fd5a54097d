package model_test

import (
	"testing"

	"github.com/RustamC/MacroPlacement/model"
	"github.com/stretchr/testify/require"
)

func buildSmallGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph()

	_, err := g.AddPort("P_in")
	require.NoError(t, err)

	_, err = g.AddMacro("m1", true)
	require.NoError(t, err)
	_, err = g.AddMacro("m2", false)
	require.NoError(t, err)

	pin, err := g.AddPin("m1/pin0", true, "m1")
	require.NoError(t, err)
	pin.SetOffsetOrg(2, 3)

	_, err = g.AddPin("m2/pin0", false, "m2")
	require.NoError(t, err)

	return g
}

func TestGraphPartitions(t *testing.T) {
	g := buildSmallGraph(t)
	require.Len(t, g.PortIndices(), 1)
	require.Len(t, g.HardMacroIndices(), 1)
	require.Len(t, g.SoftMacroIndices(), 1)
	require.Len(t, g.HardPinIndices(), 1)
	require.Len(t, g.SoftPinIndices(), 1)
	require.Len(t, g.PlaceableIndices(), 3)
}

func TestGraphDuplicateName(t *testing.T) {
	g := buildSmallGraph(t)
	_, err := g.AddMacro("m1", true)
	require.ErrorIs(t, err, model.ErrDuplicateName)
}

func TestGraphUnknownParent(t *testing.T) {
	g := model.NewGraph()
	_, err := g.AddPin("x/pin0", true, "x")
	require.ErrorIs(t, err, model.ErrUnknownModule)
}

func TestPlaceAndUnplaceHardMacro(t *testing.T) {
	g := buildSmallGraph(t)
	m1Idx, _ := g.IndexOf("m1")

	require.NoError(t, g.Place(m1Idx, 10, 20))
	require.Contains(t, g.PlacedMacros(), m1Idx)

	mod, err := g.Module(m1Idx)
	require.NoError(t, err)
	mac := mod.(*model.Macro)
	require.True(t, mac.Placed())
	require.Equal(t, 10.0, mac.X())

	require.NoError(t, g.Unplace(m1Idx))
	require.NotContains(t, g.PlacedMacros(), m1Idx)
	require.False(t, mac.Placed())
}

func TestPlaceFixedNodeFails(t *testing.T) {
	g := buildSmallGraph(t)
	m1Idx, _ := g.IndexOf("m1")
	require.NoError(t, g.SetFixed(m1Idx, true))
	err := g.Place(m1Idx, 1, 1)
	require.ErrorIs(t, err, model.ErrFixedNode)
}

func TestSetOrientationRotatesPins(t *testing.T) {
	g := buildSmallGraph(t)
	m1Idx, _ := g.IndexOf("m1")

	require.NoError(t, g.SetOrientation(m1Idx, model.OrientationE))

	pinIdx, _ := g.IndexOf("m1/pin0")
	mod, _ := g.Module(pinIdx)
	pin := mod.(*model.Pin)
	x, y := pin.Offset()
	require.Equal(t, 3.0, x)
	require.Equal(t, -2.0, y)
}

func TestSetOrientationRejectsSoftMacro(t *testing.T) {
	g := buildSmallGraph(t)
	m2Idx, _ := g.IndexOf("m2")
	err := g.SetOrientation(m2Idx, model.OrientationE)
	require.ErrorIs(t, err, model.ErrTypeMismatch)
}

func TestBuildConnectionsAggregatesWeightPerMacro(t *testing.T) {
	g := buildSmallGraph(t)
	pinIdx, _ := g.IndexOf("m1/pin0")
	mod, _ := g.Module(pinIdx)
	pin := mod.(*model.Pin)
	pin.Weight = 2.0

	require.NoError(t, g.AddSink(pinIdx, "m2/pin0"))
	require.NoError(t, g.AddSink(pinIdx, "m2/pin0"))

	g.BuildConnections()

	m1Idx, _ := g.IndexOf("m1")
	mod, _ = g.Module(m1Idx)
	m1 := mod.(*model.Macro)
	require.Equal(t, 4.0, m1.Connections["m2"])
}

func TestBuildConnectionsPortSinkOverwrites(t *testing.T) {
	g := buildSmallGraph(t)
	portIdx, _ := g.IndexOf("P_in")

	require.NoError(t, g.AddSink(portIdx, "P_out"))
	require.NoError(t, g.AddSink(portIdx, "P_out"))
	g.BuildConnections()

	mod, _ := g.Module(portIdx)
	p := mod.(*model.Port)
	require.Equal(t, 1.0, p.Connections["P_out"])
}

func TestDirtyFlags(t *testing.T) {
	g := model.NewGraph()
	require.True(t, g.IsDirty(model.All))
	g.ClearDirty(model.All)
	require.False(t, g.IsDirty(model.DirtyWirelength))
	g.MarkDirty(model.DirtyDensity)
	require.True(t, g.IsDirty(model.DirtyDensity))
	require.False(t, g.IsDirty(model.DirtyCongestion))
}

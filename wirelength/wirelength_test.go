package wirelength_test

import (
	"testing"

	"github.com/RustamC/MacroPlacement/model"
	"github.com/RustamC/MacroPlacement/wirelength"
	"github.com/stretchr/testify/require"
)

// TestComputeTwoSoftMacros reproduces the two-soft-macro HPWL scenario:
// two 1x1 soft macros at (2,2) and (8,8), one pin on each, HPWL = 12.
func TestComputeTwoSoftMacros(t *testing.T) {
	g := model.NewGraph()
	a, err := g.AddMacro("a", false)
	require.NoError(t, err)
	a.SetPosition(2, 2)
	a.SetSize(1, 1)

	b, err := g.AddMacro("b", false)
	require.NoError(t, err)
	b.SetPosition(8, 8)
	b.SetSize(1, 1)

	pa, err := g.AddPin("a/p", false, "a")
	require.NoError(t, err)
	pb, err := g.AddPin("b/p", false, "b")
	require.NoError(t, err)
	_ = pb

	paIdx, _ := g.IndexOf("a/p")
	require.NoError(t, g.AddSink(paIdx, "b/p"))

	res := wirelength.Compute(g, 10, 10)
	require.InDelta(t, 12.0, res.HPWL, 1e-9)
	require.Equal(t, 1.0, res.NetCount)
	require.InDelta(t, 12.0/(20.0*1.0), res.Cost, 1e-9)
	_ = pa
}

func TestComputeNetWithNoSinksContributesZero(t *testing.T) {
	g := model.NewGraph()
	a, err := g.AddMacro("a", false)
	require.NoError(t, err)
	a.SetPosition(2, 2)
	a.SetSize(1, 1)
	_, err = g.AddPin("a/p", false, "a")
	require.NoError(t, err)

	res := wirelength.Compute(g, 10, 10)
	require.Equal(t, 0.0, res.HPWL)
	require.Equal(t, 0.0, res.Cost)
}

func TestComputeHardMacroPinOffset(t *testing.T) {
	g := model.NewGraph()
	m, err := g.AddMacro("m", true)
	require.NoError(t, err)
	m.SetPosition(5, 5)
	m.SetSize(4, 4)

	pin, err := g.AddPin("m/p", true, "m")
	require.NoError(t, err)
	pin.SetOffsetOrg(1, 0)
	require.NoError(t, g.SetOrientation(m.Index(), model.OrientationN))

	port, err := g.AddPort("out")
	require.NoError(t, err)
	port.SetPosition(10, 5)

	pinIdx, _ := g.IndexOf("m/p")
	require.NoError(t, g.AddSink(pinIdx, "out"))

	res := wirelength.Compute(g, 10, 10)
	// driver at (6,5), sink at (10,5) -> HPWL = |10-6| + |5-5| = 4
	require.InDelta(t, 4.0, res.HPWL, 1e-9)
}

package relax_test

import (
	"math/rand"
	"testing"

	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
	"github.com/RustamC/MacroPlacement/relax"
	"github.com/stretchr/testify/require"
)

// TestStepSeparatesCoincidentSoftMacros reproduces the tie-break boundary
// scenario: two soft macros sitting at identical coordinates, with
// repel_factor=1.0, each move exactly 2.0 along each axis, in opposite
// directions, after one step. They start at the canvas center so the
// canvas clamp does not touch the result.
func TestStepSeparatesCoincidentSoftMacros(t *testing.T) {
	g := model.NewGraph()
	m1, err := g.AddMacro("m1", false)
	require.NoError(t, err)
	m1.SetSize(1, 1)
	m1.SetPosition(50, 50)
	m2, err := g.AddMacro("m2", false)
	require.NoError(t, err)
	m2.SetSize(1, 1)
	m2.SetPosition(50, 50)

	canvas := grid.New(100, 100, 10, 10)
	r := relax.New(g, canvas, relax.Config{Rand: rand.New(rand.NewSource(1))})

	require.NoError(t, r.Optimize([]relax.EpochParams{{
		Steps:           1,
		MaxMoveDistance: 100,
		RepelFactor:     1.0,
	}}, nil))

	require.InDelta(t, 52.0, m1.X(), 1e-9)
	require.InDelta(t, 52.0, m1.Y(), 1e-9)
	require.InDelta(t, 48.0, m2.X(), 1e-9)
	require.InDelta(t, 48.0, m2.Y(), 1e-9)
}

// TestOptimizeNeverMovesHardMacrosOrPorts checks that only soft macros move
// across an epoch: ports and hard macros are anchors for both repulsion and
// attraction.
func TestOptimizeNeverMovesHardMacrosOrPorts(t *testing.T) {
	g := model.NewGraph()
	port, err := g.AddPort("P0")
	require.NoError(t, err)
	port.SetPosition(1, 1)

	hard, err := g.AddMacro("h1", true)
	require.NoError(t, err)
	hard.SetSize(2, 2)
	hard.SetPosition(5, 5)

	soft, err := g.AddMacro("s1", false)
	require.NoError(t, err)
	soft.SetSize(1, 1)
	soft.SetPosition(6, 5)

	pin, err := g.AddPin("s1/p", false, "s1")
	require.NoError(t, err)
	_ = pin
	portIdx, _ := g.IndexOf("P0")
	require.NoError(t, g.AddSink(portIdx, "s1/p"))

	canvas := grid.New(20, 20, 10, 10)
	r := relax.New(g, canvas, relax.Config{Rand: rand.New(rand.NewSource(2))})

	require.NoError(t, r.Optimize([]relax.EpochParams{{
		Steps:           3,
		MaxMoveDistance: 1,
		AttractFactor:   0.5,
		RepelFactor:     0.5,
	}}, nil))

	require.Equal(t, 1.0, port.X())
	require.Equal(t, 1.0, port.Y())
	require.Equal(t, 5.0, hard.X())
	require.Equal(t, 5.0, hard.Y())
}

// TestRandomizeOnlyTouchesUnfixedSoftMacros checks fixed soft macros and
// hard macros are left untouched by the initial scatter.
func TestRandomizeOnlyTouchesUnfixedSoftMacros(t *testing.T) {
	g := model.NewGraph()
	fixedSoft, err := g.AddMacro("fixed", false)
	require.NoError(t, err)
	fixedSoft.SetPosition(3, 3)
	require.NoError(t, g.SetFixed(fixedSoft.Index(), true))

	hard, err := g.AddMacro("h", true)
	require.NoError(t, err)
	hard.SetPosition(4, 4)

	canvas := grid.New(10, 10, 5, 5)
	r := relax.New(g, canvas, relax.Config{Rand: rand.New(rand.NewSource(3))})
	r.Randomize()

	require.Equal(t, 3.0, fixedSoft.X())
	require.Equal(t, 3.0, fixedSoft.Y())
	require.Equal(t, 4.0, hard.X())
	require.Equal(t, 4.0, hard.Y())
}

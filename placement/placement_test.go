package placement_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RustamC/MacroPlacement/model"
	"github.com/RustamC/MacroPlacement/placement"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph()

	port, err := g.AddPort("P0")
	require.NoError(t, err)
	port.SetPosition(0, 5)

	hard, err := g.AddMacro("m1", true)
	require.NoError(t, err)
	hard.SetSize(4, 4)

	pin, err := g.AddPin("m1/pin0", true, "m1")
	require.NoError(t, err)
	pin.SetOffsetOrg(1, 2)

	soft, err := g.AddMacro("m2", false)
	require.NoError(t, err)
	soft.SetSize(1, 1)

	require.NoError(t, g.Place(port.Index(), 0, 5))
	require.NoError(t, g.Place(hard.Index(), 5, 5))
	require.NoError(t, g.SetOrientation(hard.Index(), model.OrientationFW))
	require.NoError(t, g.Place(soft.Index(), 8, 8))
	require.NoError(t, g.SetFixed(soft.Index(), true))

	return g
}

// TestSaveThenRestoreRoundTrips reproduces the identity property: position,
// orientation and fixed flag survive a save/restore cycle unchanged.
func TestSaveThenRestoreRoundTrips(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "out.plc")

	require.NoError(t, placement.Save(path, g, "test placement\nsecond line"))

	g2 := buildGraph(t)
	// Perturb g2 so restore has to do real work, not trivially match.
	require.NoError(t, g2.Unplace(g2.PlaceableIndices()[0]))

	_, err := placement.Restore(path, g2, placement.RestoreOptions{Validate: true})
	require.NoError(t, err)

	for _, idx := range g.PlaceableIndices() {
		m1, err := g.Module(idx)
		require.NoError(t, err)
		m2, err := g2.Module(idx)
		require.NoError(t, err)
		p1, p2 := m1.(model.Placeable), m2.(model.Placeable)
		require.Equal(t, p1.X(), p2.X())
		require.Equal(t, p1.Y(), p2.Y())
		require.Equal(t, p1.Fixed(), p2.Fixed())
	}

	hardIdx, _ := g.IndexOf("m1")
	mod1, _ := g.Module(hardIdx)
	mod2, _ := g2.Module(hardIdx)
	require.Equal(t, mod1.(*model.Macro).Orientation(), mod2.(*model.Macro).Orientation())
}

// TestRestoreValidateCountMismatch reproduces boundary scenario 6: a file
// listing fewer indices than the netlist has placeable modules fails
// validation.
func TestRestoreValidateCountMismatch(t *testing.T) {
	g := model.NewGraph()
	_, err := g.AddPort("P0")
	require.NoError(t, err)
	_, err = g.AddPort("P1")
	require.NoError(t, err)
	_, err = g.AddMacro("m1", false)
	require.NoError(t, err)
	_, err = g.AddMacro("m2", false)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "short.plc")
	content := "0 1 1 - 0\n1 2 2 - 0\n2 3 3 - 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err = placement.Restore(path, g, placement.RestoreOptions{Validate: true})
	require.ErrorIs(t, err, placement.ErrCountMismatch)
}

func TestRestoreReadsMetadata(t *testing.T) {
	g := model.NewGraph()
	port, err := g.AddPort("P0")
	require.NoError(t, err)
	port.SetPosition(0, 0)

	path := filepath.Join(t.TempDir(), "meta.plc")
	content := "# Columns : 12  Rows : 8\n# Width : 100.5  Height : 200.25\n0 0 0 - 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	meta, err := placement.Restore(path, g, placement.RestoreOptions{ReadComment: true})
	require.NoError(t, err)
	require.Equal(t, 12, meta.Columns)
	require.Equal(t, 8, meta.Rows)
	require.InDelta(t, 100.5, meta.Width, 1e-9)
	require.InDelta(t, 200.25, meta.Height, 1e-9)
}

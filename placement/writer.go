package placement

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/RustamC/MacroPlacement/model"
)

// Save writes g's placeable modules (ports, hard macros, soft macros, in
// ascending index order) to path as one data line each, preceded by info
// written as "#"-prefixed comment lines. Orientation is serialized as "-"
// when unset.
func Save(path string, g *model.Graph, info string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if info != "" {
		for _, line := range strings.Split(info, "\n") {
			if _, err := fmt.Fprintf(w, "# %s\n", line); err != nil {
				return err
			}
		}
	}

	indices := append([]int(nil), g.PlaceableIndices()...)
	sort.Ints(indices)

	for _, idx := range indices {
		m, err := g.Module(idx)
		if err != nil {
			return err
		}
		p := m.(model.Placeable)
		orientation := "-"
		if mac, ok := m.(*model.Macro); ok && mac.Orientation() != model.OrientationNone {
			orientation = string(mac.Orientation())
		}
		fixed := 0
		if p.Fixed() {
			fixed = 1
		}
		x, y := p.X(), p.Y()
		if _, err := fmt.Fprintf(w, "%d %g %g %s %d\n", idx, x, y, orientation, fixed); err != nil {
			return err
		}
	}
	return w.Flush()
}

package netlist

import (
	"fmt"
	"strconv"

	"github.com/RustamC/MacroPlacement/model"
)

// buildGraph dispatches each record's "type" attribute to the matching
// model constructor in three passes: (1) Ports and Macros, so every
// possible pin parent exists before any pin is created; (2) Pins, resolved
// against those parents; (3) `input` fan-in lists, resolved against every
// now-registered driver name. This mirrors the original's two-phase
// "create nodes, then wire connections" structure without requiring the
// caller to pre-sort the file.
func buildGraph(records []nodeRecord) (*model.Graph, error) {
	g := model.NewGraph()
	orientations := make(map[int]model.Orientation)

	for _, rec := range records {
		if rec.name == metadataNodeName {
			continue
		}
		typ := rec.attrs["type"]
		switch typ {
		case "macro":
			if err := addSoftMacro(g, rec); err != nil {
				return nil, err
			}
		case "MACRO":
			idx, err := addHardMacro(g, rec)
			if err != nil {
				return nil, err
			}
			orientations[idx] = model.Orientation(rec.attrs["orientation"])
		case "PORT":
			if err := addPort(g, rec); err != nil {
				return nil, err
			}
		case "macro_pin", "MACRO_PIN":
			// deferred to the pin pass
		default:
			return nil, &ParseError{Line: rec.line, Node: rec.name, Err: fmt.Errorf("%w: %q", ErrUnknownType, typ)}
		}
	}

	for _, rec := range records {
		if rec.name == metadataNodeName {
			continue
		}
		switch rec.attrs["type"] {
		case "macro_pin":
			if err := addSoftPin(g, rec); err != nil {
				return nil, err
			}
		case "MACRO_PIN":
			if err := addHardPin(g, rec); err != nil {
				return nil, err
			}
		}
	}

	for _, rec := range records {
		if rec.name == metadataNodeName || len(rec.inputs) == 0 {
			continue
		}
		for _, driverName := range rec.inputs {
			driverIdx, ok := g.IndexOf(driverName)
			if !ok {
				return nil, &ParseError{Line: rec.line, Node: rec.name, Err: fmt.Errorf("%w: driver %q", ErrUnknownPin, driverName)}
			}
			if err := g.AddSink(driverIdx, rec.name); err != nil {
				return nil, &ParseError{Line: rec.line, Node: rec.name, Err: err}
			}
		}
	}

	for _, idx := range g.HardMacroIndices() {
		o := orientations[idx]
		if o == "" {
			o = model.OrientationN
		}
		if err := g.SetOrientation(idx, o); err != nil {
			m, _ := g.Module(idx)
			return nil, fmt.Errorf("netlist: applying orientation to %s: %w", m.Name(), err)
		}
		m, _ := g.Module(idx)
		m.(*model.Macro).SetPlaced(true)
	}
	for _, idx := range g.SoftMacroIndices() {
		m, _ := g.Module(idx)
		m.(*model.Macro).SetPlaced(true)
	}

	g.BuildConnections()
	g.MarkDirty(model.All)
	return g, nil
}

func requireFloat(rec nodeRecord, key string) (float64, error) {
	s, ok := rec.attrs[key]
	if !ok {
		return 0, &ParseError{Line: rec.line, Node: rec.name, Err: fmt.Errorf("%w: %q", ErrMissingAttr, key)}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Line: rec.line, Node: rec.name, Err: fmt.Errorf("%w: %q is not numeric", ErrMissingAttr, key)}
	}
	return v, nil
}

func optionalFloat(rec nodeRecord, key string, def float64) float64 {
	s, ok := rec.attrs[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func requireAttr(rec nodeRecord, key string) (string, error) {
	v, ok := rec.attrs[key]
	if !ok {
		return "", &ParseError{Line: rec.line, Node: rec.name, Err: fmt.Errorf("%w: %q", ErrMissingAttr, key)}
	}
	return v, nil
}

func addSoftMacro(g *model.Graph, rec nodeRecord) error {
	x, err := requireFloat(rec, "x")
	if err != nil {
		return err
	}
	y, err := requireFloat(rec, "y")
	if err != nil {
		return err
	}
	w, err := requireFloat(rec, "width")
	if err != nil {
		return err
	}
	h, err := requireFloat(rec, "height")
	if err != nil {
		return err
	}
	m, err := g.AddMacro(rec.name, false)
	if err != nil {
		return &ParseError{Line: rec.line, Node: rec.name, Err: err}
	}
	m.SetPosition(x, y)
	m.SetSize(w, h)
	return nil
}

func addHardMacro(g *model.Graph, rec nodeRecord) (int, error) {
	x, err := requireFloat(rec, "x")
	if err != nil {
		return 0, err
	}
	y, err := requireFloat(rec, "y")
	if err != nil {
		return 0, err
	}
	w, err := requireFloat(rec, "width")
	if err != nil {
		return 0, err
	}
	h, err := requireFloat(rec, "height")
	if err != nil {
		return 0, err
	}
	if _, err := requireAttr(rec, "orientation"); err != nil {
		return 0, err
	}
	m, err := g.AddMacro(rec.name, true)
	if err != nil {
		return 0, &ParseError{Line: rec.line, Node: rec.name, Err: err}
	}
	m.SetPosition(x, y)
	m.SetSize(w, h)
	return m.Index(), nil
}

func addPort(g *model.Graph, rec nodeRecord) error {
	if _, err := requireAttr(rec, "side"); err != nil {
		return err
	}
	p, err := g.AddPort(rec.name)
	if err != nil {
		return &ParseError{Line: rec.line, Node: rec.name, Err: err}
	}
	p.SetPosition(optionalFloat(rec, "x", 0), optionalFloat(rec, "y", 0))
	p.SetSide(parseSide(rec.attrs["side"]))
	p.SetPlaced(true)
	p.SetFixed(true)
	return nil
}

func parseSide(s string) model.Side {
	switch s {
	case "top", "TOP", "Top":
		return model.SideTop
	case "bottom", "BOTTOM", "Bottom":
		return model.SideBottom
	case "right", "RIGHT", "Right":
		return model.SideRight
	default:
		return model.SideLeft
	}
}

func addSoftPin(g *model.Graph, rec nodeRecord) error {
	parent, err := requireAttr(rec, "macro_name")
	if err != nil {
		return err
	}
	pin, err := g.AddPin(rec.name, false, parent)
	if err != nil {
		return &ParseError{Line: rec.line, Node: rec.name, Err: err}
	}
	pin.Weight = optionalFloat(rec, "weight", 1.0)
	return nil
}

func addHardPin(g *model.Graph, rec nodeRecord) error {
	parent, err := requireAttr(rec, "macro_name")
	if err != nil {
		return err
	}
	xo, err := requireFloat(rec, "x_offset")
	if err != nil {
		return err
	}
	yo, err := requireFloat(rec, "y_offset")
	if err != nil {
		return err
	}
	pin, err := g.AddPin(rec.name, true, parent)
	if err != nil {
		return &ParseError{Line: rec.line, Node: rec.name, Err: err}
	}
	pin.SetOffsetOrg(xo, yo)
	pin.Weight = optionalFloat(rec, "weight", 1.0)
	return nil
}

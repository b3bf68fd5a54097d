package model

import (
	"fmt"
	"strings"
)

// Graph is the dense, index-keyed entity graph for one netlist: every
// Port/Macro/Pin lives in a single slice addressed by its Index(), chosen
// over a map-of-pointers because indices are stable for the lifetime
// of a placement run and callers address modules by index constantly
// (wirelength/density/congestion all iterate the per-Kind index
// partitions).
type Graph struct {
	modules []Module
	nameIdx map[string]int

	portIdx     []int
	hardMacro   []int
	softMacro   []int
	hardPin     []int
	softPin     []int
	pinsOf      map[int][]int // macro index -> pin indices owned by it

	placedMacros []int // hard macro indices currently marked placed

	dirty DirtyFlag
}

// NewGraph returns an empty Graph ready for incremental construction by a
// netlist reader.
func NewGraph() *Graph {
	return &Graph{
		nameIdx: make(map[string]int),
		pinsOf:  make(map[int][]int),
		dirty:   All,
	}
}

func (g *Graph) register(m Module) {
	g.modules = append(g.modules, m)
	g.nameIdx[m.Name()] = m.Index()
}

// AddPort appends a new Port with the next dense index and returns it.
func (g *Graph) AddPort(name string) (*Port, error) {
	if _, ok := g.nameIdx[name]; ok {
		return nil, fmt.Errorf("port %q: %w", name, ErrDuplicateName)
	}
	p := NewPort(len(g.modules), name)
	g.register(p)
	g.portIdx = append(g.portIdx, p.Index())
	return p, nil
}

// AddMacro appends a new hard or soft Macro and returns it.
func (g *Graph) AddMacro(name string, hard bool) (*Macro, error) {
	if _, ok := g.nameIdx[name]; ok {
		return nil, fmt.Errorf("macro %q: %w", name, ErrDuplicateName)
	}
	m := NewMacro(len(g.modules), name, hard)
	g.register(m)
	if hard {
		g.hardMacro = append(g.hardMacro, m.Index())
	} else {
		g.softMacro = append(g.softMacro, m.Index())
	}
	return m, nil
}

// AddPin appends a new hard or soft Pin, resolves its parent macro by name
// and records the back-reference index on both the pin and the graph's
// pinsOf index, per the Design Notes' "resolve parent by index, not by
// repeated name lookup" guidance.
func (g *Graph) AddPin(name string, hard bool, parentName string) (*Pin, error) {
	if _, ok := g.nameIdx[name]; ok {
		return nil, fmt.Errorf("pin %q: %w", name, ErrDuplicateName)
	}
	parentIdx, ok := g.nameIdx[parentName]
	if !ok {
		return nil, fmt.Errorf("pin %q parent %q: %w", name, parentName, ErrUnknownModule)
	}
	pin := NewPin(len(g.modules), name, hard)
	pin.SetParentIndex(parentIdx)
	g.register(pin)
	if hard {
		g.hardPin = append(g.hardPin, pin.Index())
	} else {
		g.softPin = append(g.softPin, pin.Index())
	}
	g.pinsOf[parentIdx] = append(g.pinsOf[parentIdx], pin.Index())
	return pin, nil
}

// Len returns the number of registered modules.
func (g *Graph) Len() int { return len(g.modules) }

// Module returns the module at idx.
func (g *Graph) Module(idx int) (Module, error) {
	if idx < 0 || idx >= len(g.modules) {
		return nil, fmt.Errorf("index %d: %w", idx, ErrIndexOutOfRange)
	}
	return g.modules[idx], nil
}

// ModuleByName resolves a module by its registered name.
func (g *Graph) ModuleByName(name string) (Module, error) {
	idx, ok := g.nameIdx[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownModule)
	}
	return g.modules[idx], nil
}

// IndexOf returns the dense index registered for name.
func (g *Graph) IndexOf(name string) (int, bool) {
	idx, ok := g.nameIdx[name]
	return idx, ok
}

// Modules returns every registered module in index order. Callers must not
// mutate the returned slice.
func (g *Graph) Modules() []Module { return g.modules }

// PortIndices, HardMacroIndices, SoftMacroIndices, HardPinIndices and
// SoftPinIndices return the dense partition of module indices by Kind,
// in registration order.
func (g *Graph) PortIndices() []int      { return g.portIdx }
func (g *Graph) HardMacroIndices() []int { return g.hardMacro }
func (g *Graph) SoftMacroIndices() []int { return g.softMacro }
func (g *Graph) HardPinIndices() []int   { return g.hardPin }
func (g *Graph) SoftPinIndices() []int   { return g.softPin }

// PlaceableIndices returns every Port and Macro index, ports first, then
// hard macros, then soft macros — the iteration order external collaborators
// see via engine.Cost.PlaceableIndices.
func (g *Graph) PlaceableIndices() []int {
	out := make([]int, 0, len(g.portIdx)+len(g.hardMacro)+len(g.softMacro))
	out = append(out, g.portIdx...)
	out = append(out, g.hardMacro...)
	out = append(out, g.softMacro...)
	return out
}

// PinsOf returns the pin indices owned by the macro at macroIdx.
func (g *Graph) PinsOf(macroIdx int) []int { return g.pinsOf[macroIdx] }

// ParentIndex resolves a pin index to its parent macro's index. It is the
// Go replacement for the original's get_ref_node_id name-string lookup
// (see SPEC_FULL.md Supplemented Features).
func (g *Graph) ParentIndex(pinIdx int) (int, error) {
	m, err := g.Module(pinIdx)
	if err != nil {
		return 0, err
	}
	pin, ok := m.(*Pin)
	if !ok {
		return 0, fmt.Errorf("module %d is not a pin: %w", pinIdx, ErrTypeMismatch)
	}
	return pin.ParentIndex(), nil
}

// PlacedMacros returns the indices of hard macros currently marked placed.
// Only hard macros are tracked here; soft macro and port placement is
// tracked solely via the per-module Placed() flag — see DESIGN.md.
func (g *Graph) PlacedMacros() []int { return g.placedMacros }

// Place marks a Port or Macro as placed at (x, y). For hard macros it also
// adds the index to PlacedMacros if not already present.
func (g *Graph) Place(idx int, x, y float64) error {
	m, err := g.Module(idx)
	if err != nil {
		return err
	}
	p, ok := m.(Placeable)
	if !ok {
		return fmt.Errorf("module %d is not placeable: %w", idx, ErrTypeMismatch)
	}
	if p.Fixed() {
		return fmt.Errorf("module %d: %w", idx, ErrFixedNode)
	}
	p.SetPosition(x, y)
	p.SetPlaced(true)
	if mac, ok := m.(*Macro); ok && mac.Hard {
		g.addPlacedMacro(idx)
	}
	g.MarkDirty(All)
	return nil
}

// Unplace marks a Port or Macro as unplaced. Hard macros are additionally
// removed from PlacedMacros; soft macros are not, matching the original.
func (g *Graph) Unplace(idx int) error {
	m, err := g.Module(idx)
	if err != nil {
		return err
	}
	p, ok := m.(Placeable)
	if !ok {
		return fmt.Errorf("module %d is not placeable: %w", idx, ErrTypeMismatch)
	}
	if p.Fixed() {
		return fmt.Errorf("module %d: %w", idx, ErrFixedNode)
	}
	p.SetPlaced(false)
	if mac, ok := m.(*Macro); ok && mac.Hard {
		g.removePlacedMacro(idx)
	}
	g.MarkDirty(All)
	return nil
}

// Restore sets idx's position, placed, and fixed flags unconditionally,
// bypassing the Fixed() rejection Place/Unplace apply: a placement-file
// restore is authoritative over any previously fixed state.
func (g *Graph) Restore(idx int, x, y float64, fixed bool) error {
	m, err := g.Module(idx)
	if err != nil {
		return err
	}
	p, ok := m.(Placeable)
	if !ok {
		return fmt.Errorf("module %d is not placeable: %w", idx, ErrTypeMismatch)
	}
	p.SetPosition(x, y)
	p.SetPlaced(true)
	p.SetFixed(fixed)
	if mac, ok := m.(*Macro); ok && mac.Hard {
		g.addPlacedMacro(idx)
	}
	g.MarkDirty(All)
	return nil
}

func (g *Graph) addPlacedMacro(idx int) {
	for _, i := range g.placedMacros {
		if i == idx {
			return
		}
	}
	g.placedMacros = append(g.placedMacros, idx)
}

func (g *Graph) removePlacedMacro(idx int) {
	for i, v := range g.placedMacros {
		if v == idx {
			g.placedMacros = append(g.placedMacros[:i], g.placedMacros[i+1:]...)
			return
		}
	}
}

// SetFixed toggles the fixed flag on a Port or Macro.
func (g *Graph) SetFixed(idx int, fixed bool) error {
	m, err := g.Module(idx)
	if err != nil {
		return err
	}
	p, ok := m.(Placeable)
	if !ok {
		return fmt.Errorf("module %d is not placeable: %w", idx, ErrTypeMismatch)
	}
	p.SetFixed(fixed)
	return nil
}

// SetOrientation rotates a hard macro and every pin it owns. Soft macros
// and any other Kind reject this with ErrTypeMismatch: the original's
// make_soft_macros_square no-op is the only soft-macro "orientation"
// behavior and is intentionally not ported (see SPEC_FULL.md).
func (g *Graph) SetOrientation(macroIdx int, o Orientation) error {
	if !ValidOrientation(o) {
		return fmt.Errorf("orientation %q: %w", o, ErrTypeMismatch)
	}
	m, err := g.Module(macroIdx)
	if err != nil {
		return err
	}
	mac, ok := m.(*Macro)
	if !ok || !mac.Hard {
		return fmt.Errorf("module %d: %w", macroIdx, ErrTypeMismatch)
	}
	mac.orientation = o
	for _, pinIdx := range g.pinsOf[macroIdx] {
		pin := g.modules[pinIdx].(*Pin)
		xo, yo := pin.OffsetOrg()
		x, y := RotateOffset(o, xo, yo)
		pin.setRotatedOffset(x, y)
	}
	g.MarkDirty(DirtyWirelength | DirtyCongestion)
	return nil
}

// MarkDirty ORs flags into the graph's dirty bitset.
func (g *Graph) MarkDirty(flags DirtyFlag) { g.dirty |= flags }

// ClearDirty ANDs flags out of the graph's dirty bitset, called by an
// engine once it has recomputed the corresponding metric.
func (g *Graph) ClearDirty(flags DirtyFlag) { g.dirty &^= flags }

// IsDirty reports whether any bit in flags is currently set.
func (g *Graph) IsDirty(flags DirtyFlag) bool { return g.dirty&flags != 0 }

// Position resolves the real (x, y) of any module for geometric purposes:
// a Port or Macro returns its own position; a hard-macro pin returns its
// parent macro's position plus rotated offset; a soft-macro pin returns
// its parent macro's position with offset ignored. Shared by
// wirelength, density, congestion and the relaxer so pin-position
// resolution lives in exactly one place.
func (g *Graph) Position(idx int) (x, y float64, err error) {
	m, err := g.Module(idx)
	if err != nil {
		return 0, 0, err
	}
	switch mod := m.(type) {
	case *Port:
		return mod.X(), mod.Y(), nil
	case *Macro:
		return mod.X(), mod.Y(), nil
	case *Pin:
		parentIdx, err := g.ParentIndex(idx)
		if err != nil {
			return 0, 0, err
		}
		pm, err := g.Module(parentIdx)
		if err != nil {
			return 0, 0, err
		}
		macro := pm.(*Macro)
		if !mod.Hard {
			return macro.X(), macro.Y(), nil
		}
		ox, oy := mod.Offset()
		return macro.X() + ox, macro.Y() + oy, nil
	default:
		return 0, 0, fmt.Errorf("module %d: %w", idx, ErrTypeMismatch)
	}
}

// AddSink records that the driver at driverIdx (a Port or hard/soft Pin)
// drives sinkName, grouping sinks by the sink's parent macro name exactly
// as the original's per-driver `sink` dict does (rsplit on the last "/").
func (g *Graph) AddSink(driverIdx int, sinkName string) error {
	m, err := g.Module(driverIdx)
	if err != nil {
		return err
	}
	parent := sinkName
	if i := strings.LastIndex(sinkName, "/"); i >= 0 {
		parent = sinkName[:i]
	}
	switch d := m.(type) {
	case *Port:
		d.sinksAppend(parent, sinkName)
	case *Pin:
		d.Sinks[parent] = append(d.Sinks[parent], sinkName)
	default:
		return fmt.Errorf("module %d is not a driver: %w", driverIdx, ErrTypeMismatch)
	}
	return nil
}

// BuildConnections aggregates per-pin Sinks into parent-Macro Connections
// and resolves each Port's own Connections from its own Sinks. Call once
// after a netlist has been fully parsed (AddSink calls complete).
func (g *Graph) BuildConnections() {
	for _, idx := range g.portIdx {
		port := g.modules[idx].(*Port)
		for _, names := range port.sinks {
			for _, name := range names {
				addConnection(port.Connections, name, port.Weight)
			}
		}
	}
	for macroIdx, pinIdxs := range g.pinsOf {
		m, err := g.Module(macroIdx)
		if err != nil {
			continue
		}
		mac, ok := m.(*Macro)
		if !ok {
			continue
		}
		for _, pinIdx := range pinIdxs {
			pin := g.modules[pinIdx].(*Pin)
			for _, names := range pin.Sinks {
				for _, name := range names {
					addConnection(mac.Connections, name, pin.Weight)
				}
			}
		}
	}
}

// addConnection reproduces the original's Module.add_connection exactly:
// a macro-qualified sink name ("macro/pin") accumulates weight into the
// connection keyed by the macro name; a bare sink name (a PORT, no slash)
// *overwrites* rather than accumulates. This asymmetry is in the original
// and is kept for fidelity rather than "fixed" — see DESIGN.md.
func addConnection(conn map[string]float64, sinkName string, weight float64) {
	if i := strings.LastIndex(sinkName, "/"); i >= 0 {
		conn[sinkName[:i]] += weight
		return
	}
	conn[sinkName] = weight
}

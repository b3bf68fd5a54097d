package model

// Module is the tagged-union interface every placeable or connectable
// entity implements. Concrete variants are *Port, *Macro and *Pin; callers
// switch on Kind() rather than type-asserting blindly.
type Module interface {
	Index() int
	Name() string
	Kind() Kind
}

// Placeable is implemented by modules that occupy real estate on the
// canvas: Port and Macro. Pins are connectable but not independently
// placeable — they move with their parent macro.
type Placeable interface {
	Module
	X() float64
	Y() float64
	SetPosition(x, y float64)
	Width() float64
	Height() float64
	Fixed() bool
	SetFixed(fixed bool)
	Placed() bool
	SetPlaced(placed bool)
}

// base holds the fields every module variant shares: its own dense index
// and display name. It is embedded, never used standalone.
type base struct {
	index int
	name  string
}

func (b *base) Index() int { return b.index }
func (b *base) Name() string { return b.name }

// Port is an external I/O pad: a zero-size placeable module that also acts
// as a net driver or sink in its own right (it has no parent macro).
type Port struct {
	base

	x, y    float64
	fixed   bool // ports are conventionally always fixed once placed
	placed  bool
	side    Side

	// Weight scales wirelength/congestion contribution of nets this port
	// drives or sinks; defaults to 1.0 per the netlist grammar.
	Weight float64

	// Connections accumulates aggregated net weight per connected macro
	// name (see Graph.addConnection for the exact accumulation rule,
	// faithfully reproduced from the original's Port.add_connection).
	Connections map[string]float64

	// sinks groups fully-qualified sink names by their parent macro name,
	// populated via Graph.AddSink when this port is a net driver.
	sinks map[string][]string
}

func NewPort(index int, name string) *Port {
	return &Port{
		base:        base{index: index, name: name},
		Weight:      1.0,
		Connections: make(map[string]float64),
		sinks:       make(map[string][]string),
	}
}

func (p *Port) sinksAppend(parent, sinkName string) {
	p.sinks[parent] = append(p.sinks[parent], sinkName)
}

// SinksByParent returns the sink names this port drives, grouped by each
// sink's parent macro name.
func (p *Port) SinksByParent() map[string][]string { return p.sinks }

func (p *Port) Kind() Kind             { return KindPort }
func (p *Port) X() float64             { return p.x }
func (p *Port) Y() float64             { return p.y }
func (p *Port) SetPosition(x, y float64) { p.x, p.y = x, y }
func (p *Port) Width() float64         { return 0 }
func (p *Port) Height() float64        { return 0 }
func (p *Port) Fixed() bool            { return p.fixed }
func (p *Port) SetFixed(f bool)        { p.fixed = f }
func (p *Port) Placed() bool           { return p.placed }
func (p *Port) SetPlaced(v bool)       { p.placed = v }
func (p *Port) Side() Side             { return p.side }
func (p *Port) SetSide(s Side)         { p.side = s }

// Macro is a hard or soft standard-cell cluster. Hard macros have a fixed
// Width/Height and an Orientation that rotates their pins' offsets; soft
// macros resize freely and ignore orientation (the original's
// make_soft_macros_square no-op is intentionally not ported, see SPEC_FULL.md).
type Macro struct {
	base

	Hard bool

	x, y          float64
	width, height float64
	orientation   Orientation
	fixed         bool
	placed        bool

	Connections map[string]float64
}

func NewMacro(index int, name string, hard bool) *Macro {
	return &Macro{
		base:        base{index: index, name: name},
		Hard:        hard,
		Connections: make(map[string]float64),
	}
}

func (m *Macro) Kind() Kind {
	if m.Hard {
		return KindHardMacro
	}
	return KindSoftMacro
}

func (m *Macro) X() float64               { return m.x }
func (m *Macro) Y() float64               { return m.y }
func (m *Macro) SetPosition(x, y float64) { m.x, m.y = x, y }
func (m *Macro) Width() float64           { return m.width }
func (m *Macro) Height() float64          { return m.height }
func (m *Macro) SetSize(w, h float64)     { m.width, m.height = w, h }
func (m *Macro) Fixed() bool              { return m.fixed }
func (m *Macro) SetFixed(f bool)          { m.fixed = f }
func (m *Macro) Placed() bool             { return m.placed }
func (m *Macro) SetPlaced(v bool)         { m.placed = v }
func (m *Macro) Orientation() Orientation { return m.orientation }

// Pin is a hard or soft macro pin: a net endpoint attached to a parent
// macro by resolved index (not by name-string lookup, per the Design
// Notes guidance — see Graph.ParentIndex), offset from the macro's origin.
type Pin struct {
	base

	Hard   bool
	parent int // resolved parent Macro index; -1 if unresolved

	xOffsetOrg, yOffsetOrg float64 // offsets as authored, orientation "N"
	xOffset, yOffset       float64 // offsets rotated for current orientation

	Weight float64

	// Sinks maps the parent macro name of each sink this pin drives to the
	// list of fully-qualified sink names under that parent, mirroring the
	// original's per-pin `sink` dict grouped by rsplit('/', 1)[0].
	Sinks map[string][]string
}

func NewPin(index int, name string, hard bool) *Pin {
	return &Pin{
		base:   base{index: index, name: name},
		Hard:   hard,
		parent: -1,
		Weight: 1.0,
		Sinks:  make(map[string][]string),
	}
}

func (p *Pin) Kind() Kind {
	if p.Hard {
		return KindHardMacroPin
	}
	return KindSoftMacroPin
}

func (p *Pin) ParentIndex() int { return p.parent }
func (p *Pin) SetParentIndex(i int) { p.parent = i }

// Offset returns the pin's current rotated offset from its parent macro's
// origin (x, y). For soft pins this is always (0, 0): soft macros have no
// orientation and pins are assumed centered, matching the original's
// treatment of SOFT_MACRO_PIN offsets as unused.
func (p *Pin) Offset() (float64, float64) {
	if !p.Hard {
		return 0, 0
	}
	return p.xOffset, p.yOffset
}

// SetOffsetOrg records the as-authored offset (orientation "N" baseline)
// and resets the rotated offset to match. Called once at parse time.
func (p *Pin) SetOffsetOrg(x, y float64) {
	p.xOffsetOrg, p.yOffsetOrg = x, y
	p.xOffset, p.yOffset = x, y
}

// OffsetOrg returns the as-authored ("N" orientation) offset, the value
// RotateOffset reads on every orientation change so repeated rotations
// never compound rounding error.
func (p *Pin) OffsetOrg() (float64, float64) { return p.xOffsetOrg, p.yOffsetOrg }

func (p *Pin) setRotatedOffset(x, y float64) { p.xOffset, p.yOffset = x, y }

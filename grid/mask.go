package grid

// Mask is the per-cell node-mask legality bitmap: seeded
// to all-1 (every cell legal), with specific cells cleared to 0 when a
// macro's footprint occupies them. Stored as a dense []bool rather than a
// packed bitset: the grid sizes targeted here (tens to low hundreds of
// cells) make the extra memory irrelevant next to the clarity of direct
// indexing.
type Mask struct {
	bits []bool
	g    *Grid
}

// NewMask returns a Mask for g, seeded to all-1.
func NewMask(g *Grid) *Mask {
	m := &Mask{g: g}
	m.Reset()
	return m
}

// Reset re-initializes every cell to legal (1).
func (m *Mask) Reset() {
	n := m.g.NumCells()
	if cap(m.bits) < n {
		m.bits = make([]bool, n)
	}
	m.bits = m.bits[:n]
	for i := range m.bits {
		m.bits[i] = true
	}
}

// Get reports whether cell idx is currently legal.
func (m *Mask) Get(idx int) bool {
	if idx < 0 || idx >= len(m.bits) {
		return false
	}
	return m.bits[idx]
}

// Set marks cell idx legal (true) or illegal (false).
func (m *Mask) Set(idx int, legal bool) {
	if idx < 0 || idx >= len(m.bits) {
		return
	}
	m.bits[idx] = legal
}

// ClearRegion marks every cell in [rowLo,rowHi] x [colLo,colHi] (inclusive,
// clamped to the grid) illegal (0) — used by place_node to stamp a zero
// region over a macro's padded footprint.
func (m *Mask) ClearRegion(rowLo, rowHi, colLo, colHi int) {
	if rowLo < 0 {
		rowLo = 0
	}
	if colLo < 0 {
		colLo = 0
	}
	if rowHi >= m.g.Rows {
		rowHi = m.g.Rows - 1
	}
	if colHi >= m.g.Cols {
		colHi = m.g.Cols - 1
	}
	for r := rowLo; r <= rowHi; r++ {
		for c := colLo; c <= colHi; c++ {
			m.Set(m.g.CellIndex(r, c), false)
		}
	}
}

// Len returns the number of cells the mask covers.
func (m *Mask) Len() int { return len(m.bits) }

package reflow

import "slices"

// DefaultDurationMs is the duration of every reflow animation.
const DefaultDurationMs = 500

// Order maps grid slots to tiles. The matrix holds, for every slot, an index
// into the tile storage slice, so slots and storage indices are independent
// namespaces. The matrix is always a permutation of [0, len(tiles)).
//
// While a drag is in progress the order carries an anchor: the slot owned by
// the airborne tile. The anchor's occupant is the dragged tile at all times.
type Order struct {
	columns  int
	cell     Size
	duration float64
	curve    float64

	tiles  []*Tile
	matrix []int
	buf    []int

	anchor   Slot
	anchored bool

	// scheduled counts move-to animations issued since the last ResetStats.
	scheduled int
}

// NewOrder creates an empty order model for a grid with the given column
// count. Columns below 1 are treated as 1.
func NewOrder(columns int) *Order {
	if columns < 1 {
		columns = 1
	}
	return &Order{
		columns:  columns,
		duration: DefaultDurationMs,
		curve:    DefaultCurveFactor,
	}
}

// SetMotion sets the duration and curve factor of scheduled reflow animations.
func (o *Order) SetMotion(durationMs, curve float64) {
	o.duration = durationMs
	o.curve = curve
}

// Columns returns the fixed cell count per row.
func (o *Order) Columns() int { return o.columns }

// Len returns the number of tiles.
func (o *Order) Len() int { return len(o.tiles) }

// CellSize returns the uniform cell footprint, margin included.
func (o *Order) CellSize() Size { return o.cell }

// SetCellSize sets the cell footprint and snaps every resting tile onto its
// slot. Tiles added before the size was known sit at the origin until then.
func (o *Order) SetCellSize(cell Size) {
	if cell == o.cell {
		return
	}
	o.cell = cell
	a := o.anchorIndex()
	for slot, idx := range o.matrix {
		if slot == a {
			continue
		}
		o.tiles[idx].Position = o.RestPosition(slot)
	}
}

// RestPosition returns the pixel origin of the slot with the given linear index.
func (o *Order) RestPosition(index int) Vec2 {
	s := SlotFromIndex(index, o.columns)
	return Vec2{X: float64(s.Col) * o.cell.Width, Y: float64(s.Row) * o.cell.Height}
}

// Tiles returns the tile storage in insertion order. The returned slice MUST
// NOT be mutated.
func (o *Order) Tiles() []*Tile { return o.tiles }

// Ordering returns a copy of the slot → storage index permutation.
func (o *Order) Ordering() []int { return slices.Clone(o.matrix) }

// TileAt returns the tile occupying the slot with the given linear index, or
// nil when the index is out of range.
func (o *Order) TileAt(index int) *Tile {
	if index < 0 || index >= len(o.matrix) {
		return nil
	}
	return o.tiles[o.matrix[index]]
}

// SlotOf returns the linear slot index currently occupied by t, or -1.
func (o *Order) SlotOf(t *Tile) int {
	idx := o.indexOf(t)
	if idx < 0 {
		return -1
	}
	return o.slotOfIndex(idx)
}

func (o *Order) indexOf(t *Tile) int {
	for i, tile := range o.tiles {
		if tile == t {
			return i
		}
	}
	return -1
}

func (o *Order) slotOfIndex(idx int) int {
	for slot, v := range o.matrix {
		if v == idx {
			return slot
		}
	}
	return -1
}

// Add appends t to storage, gives it the next free slot and places it at that
// slot's resting position. It returns the slot index.
func (o *Order) Add(t *Tile) int {
	idx := len(o.tiles)
	o.tiles = append(o.tiles, t)
	slot := len(o.matrix)
	o.matrix = append(o.matrix, idx)
	t.Position = o.RestPosition(slot)
	return slot
}

// SetOrdering replaces the permutation and snaps every tile to its new slot.
func (o *Order) SetOrdering(perm []int) error {
	if !isPermutation(perm, len(o.tiles)) {
		return ErrInvalidOrdering
	}
	o.matrix = slices.Clone(perm)
	for slot, idx := range o.matrix {
		o.tiles[idx].Position = o.RestPosition(slot)
	}
	return nil
}

// Remove takes t out of the grid. Every later slot's occupant moves one slot
// earlier and animates there; the anchor slot is stepped over so the airborne
// tile keeps its slot. Storage indices above the removed one are then
// renumbered and the tail slot dropped. Reports false if t is not in the grid.
func (o *Order) Remove(t *Tile) bool {
	s := o.indexOf(t)
	if s < 0 {
		return false
	}
	p := o.slotOfIndex(s)
	n := len(o.matrix)
	if o.anchored && o.anchorIndex() == p {
		o.anchored = false
	}
	a := o.anchorIndex()

	free := make([]int, 0, n-p)
	for i := p; i < n; i++ {
		if i != a {
			free = append(free, i)
		}
	}
	for k := 1; k < len(free); k++ {
		o.place(free[k-1], o.matrix[free[k]])
	}
	if last := free[len(free)-1]; last != n-1 {
		// The anchor held the tail: pull the airborne tile into the gap.
		o.matrix[last] = o.matrix[n-1]
		o.anchor = SlotFromIndex(last, o.columns)
	}
	o.matrix = o.matrix[:n-1]

	for i, v := range o.matrix {
		if v > s {
			o.matrix[i] = v - 1
		}
	}
	t.Queue.Clear()
	o.tiles = slices.Delete(o.tiles, s, s+1)
	return true
}

// Anchor marks the slot with the given linear index as owned by the tile
// being dragged.
func (o *Order) Anchor(index int) bool {
	if index < 0 || index >= len(o.matrix) {
		return false
	}
	o.anchor = SlotFromIndex(index, o.columns)
	o.anchored = true
	return true
}

// Release clears the anchor and returns the slot it held.
func (o *Order) Release() (Slot, bool) {
	s, ok := o.anchor, o.anchored
	o.anchored = false
	return s, ok
}

// AnchorSlot returns the current anchor, if any.
func (o *Order) AnchorSlot() (Slot, bool) {
	return o.anchor, o.anchored
}

func (o *Order) anchorIndex() int {
	if !o.anchored {
		return -1
	}
	return o.anchor.Index(o.columns)
}

// Reconcile moves the anchor to dest, shifting every tile between the old and
// new anchor one slot toward the old anchor and animating each to its new
// resting position. Destinations outside the grid are ignored. Reports
// whether the permutation changed.
func (o *Order) Reconcile(dest Slot) bool {
	if !o.anchored || dest == o.anchor {
		return false
	}
	if dest.Col < 0 || dest.Col >= o.columns || dest.Row < 0 {
		return false
	}
	n := len(o.matrix)
	from := o.anchor.Index(o.columns)
	to := dest.Index(o.columns)
	if to >= n || from >= n {
		return false
	}
	dragged := o.matrix[from]

	if dest.Row == o.anchor.Row {
		o.shiftRow(dest)
	} else {
		o.shiftLinear(from, to, sign(dest.Row-o.anchor.Row))
	}
	o.matrix[to] = dragged
	o.anchor = dest
	return true
}

// shiftRow walks the columns from the anchor toward dest and pulls each
// occupant one column back toward the anchor.
func (o *Order) shiftRow(dest Slot) {
	row, ac := o.anchor.Row, o.anchor.Col
	dir := sign(dest.Col - ac)
	span := (dest.Col - ac) * dir
	for k := 1; k <= span; k++ {
		col := ac + k*dir
		src := Slot{Row: row, Col: col}.Index(o.columns)
		dst := Slot{Row: row, Col: col - dir}.Index(o.columns)
		o.place(dst, o.matrix[src])
	}
}

// shiftLinear buffers the occupants from the destination back to the anchor,
// then rewrites them from the anchor forward, re-deriving each slot's row and
// column from its linear index.
func (o *Order) shiftLinear(from, to, dir int) {
	buf := o.buf[:0]
	for i := to; i != from; i -= dir {
		buf = append(buf, o.matrix[i])
	}
	slot := from
	for k := len(buf) - 1; k >= 0; k-- {
		o.place(slot, buf[k])
		slot += dir
	}
	o.buf = buf
}

// place writes idx into slot and animates its tile to the slot's resting
// position. Out-of-range writes are skipped.
func (o *Order) place(slot, idx int) {
	if slot < 0 || slot >= len(o.matrix) || idx < 0 || idx >= len(o.tiles) {
		return
	}
	o.matrix[slot] = idx
	o.tiles[idx].Animate(o.RestPosition(slot), o.duration, o.curve)
	o.scheduled++
}

// ResetStats returns the number of animations scheduled since the previous
// call and zeroes the counter.
func (o *Order) ResetStats() int {
	n := o.scheduled
	o.scheduled = 0
	return n
}

func isPermutation(perm []int, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

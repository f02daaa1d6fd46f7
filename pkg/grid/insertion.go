package grid

import (
	"slices"
	"time"
)

// RowBounds is the remembered vertical extent of one row.
type RowBounds struct {
	Top    float64
	Bottom float64
	Row    int
}

// RowIntent remembers which row the pointer was aimed at across frames of a
// single drag. It keeps row selection stable while the grid reflows under the
// drag's own pre-push mutations.
type RowIntent struct {
	LastRow    int // -1 when unknown
	LastBounds []RowBounds
	LastInsert int // -1 when unknown
}

func (ri RowIntent) bounds(row int) (RowBounds, bool) {
	for _, b := range ri.LastBounds {
		if b.Row == row {
			return b, true
		}
	}
	return RowBounds{}, false
}

// Hysteresis records the last committed insertion index and where and when
// the pointer was when it was committed, plus the pointer of the most recent
// Resolve call whether or not it committed.
type Hysteresis struct {
	LastIndex int // -1 when nothing committed
	LastPoint Point
	LastAt    time.Time

	PrevPoint Point
	PrevAt    time.Time
}

// Resolver turns a pointer position into an insertion index into the list of
// non-dragged ids. It is stateful: one Resolver belongs to one drag session.
type Resolver struct {
	Intent RowIntent
	Hyst   Hysteresis

	// coarseHeld is set when the last call's index was rejected by the
	// coarse tier only
	coarseHeld bool
}

// NewResolver returns a resolver with empty memory.
func NewResolver() *Resolver {
	r := &Resolver{}
	r.Reset()
	return r
}

// Reset forgets all row intent and hysteresis state.
func (r *Resolver) Reset() {
	r.Intent = RowIntent{LastRow: -1, LastInsert: -1}
	r.Hyst = Hysteresis{LastIndex: -1}
	r.coarseHeld = false
}

// Retry reports whether the previous call was held back by the coarse tier
// and the coarse window has since passed, so resolving the same point again
// would be admitted.
func (r *Resolver) Retry(now time.Time) bool {
	return r.coarseHeld && now.Sub(r.Hyst.PrevAt) >= coarseWindow
}

// Seed records index as already committed at p and now, so the first frames
// of a drag are measured against the item's starting slot.
func (r *Resolver) Seed(index int, p Point, now time.Time) {
	r.commit(index, p, now)
}

// Resolve returns the insertion index for p. changed is false when the
// previous frame's index is retained, either because the row/column rules hold
// it or because hysteresis rejected the new value.
func (r *Resolver) Resolve(p Point, rows []Row, now time.Time) (index int, changed bool) {
	r.coarseHeld = false
	index, changed = r.resolve(p, rows, now)
	r.Hyst.PrevPoint, r.Hyst.PrevAt = p, now
	return index, changed
}

func (r *Resolver) resolve(p Point, rows []Row, now time.Time) (int, bool) {
	if len(rows) == 0 {
		return r.admit(0, p, now)
	}

	row, empty := r.selectRow(p, rows)
	if empty {
		// The remembered row emptied out under us; recomputing here is what
		// makes the dragged tile snap back to the previous row.
		return r.Intent.LastInsert, false
	}
	r.remember(row, rows)

	local, hold := columnIndex(p, rows[row], row == len(rows)-1, r.Intent.LastInsert >= 0)
	if hold {
		return r.Intent.LastInsert, false
	}

	global := local
	for _, prev := range rows[:row] {
		global += prev.Len()
	}
	return r.admit(global, p, now)
}

// selectRow picks the target row. empty reports that the remembered row no
// longer has tiles in its band and the previous insert index should be kept.
func (r *Resolver) selectRow(p Point, rows []Row) (row int, empty bool) {
	if last := r.Intent.LastRow; last > 0 {
		if b, ok := r.Intent.bounds(last); ok && p.Y >= b.Top-rowBandSlack && p.Y <= b.Bottom+rowBandSlack {
			if last < len(rows) && rows[last].Top <= b.Bottom+rowBandSlack && rows[last].Bottom >= b.Top-rowBandSlack {
				return last, false
			}
			if r.Intent.LastInsert >= 0 {
				return last, true
			}
		}
	}

	for i, row := range rows {
		if p.Y >= row.Top && p.Y <= row.Bottom {
			return i, false
		}
	}

	if last := r.Intent.LastRow; last >= 0 && last < len(rows) {
		return last, false
	}
	return nearestRow(p, rows), false
}

func (r *Resolver) remember(row int, rows []Row) {
	r.Intent.LastRow = row
	r.Intent.LastBounds = r.Intent.LastBounds[:0]
	for i, rw := range rows {
		r.Intent.LastBounds = append(r.Intent.LastBounds, RowBounds{Top: rw.Top, Bottom: rw.Bottom, Row: i})
	}
}

// nearestRow picks the row bordering the gap p falls in, or the first/last
// row when p is above or below the grid.
func nearestRow(p Point, rows []Row) int {
	if p.Y < rows[0].Top {
		return 0
	}
	last := len(rows) - 1
	if p.Y > rows[last].Bottom {
		return last
	}
	for i := 0; i < last; i++ {
		above, below := rows[i], rows[i+1]
		if p.Y > above.Bottom && p.Y < below.Top {
			if p.Y-above.Bottom < below.Top-p.Y {
				return i
			}
			return i + 1
		}
	}
	return last
}

// columnIndex returns the position within row where the dragged tile should
// land. On the last row a pointer over an existing tile holds the previous
// index, leaving the decision to the combine detector.
func columnIndex(p Point, row Row, lastRow, havePrev bool) (local int, hold bool) {
	if lastRow && row.Len() > 0 {
		if p.X > row.Tiles[row.Len()-1].Rect.Right() {
			return row.Len(), false
		}
		if havePrev {
			for _, t := range row.Tiles {
				if p.X >= t.Rect.Left && p.X <= t.Rect.Right() {
					return 0, true
				}
			}
		}
	}
	for i, t := range row.Tiles {
		if t.Rect.Center().X > p.X {
			return i, false
		}
	}
	return row.Len(), false
}

// admit applies the two-tier hysteresis check and commits idx when it passes.
// The adjacent tier is measured from the last commit, the coarse tier from the
// previous Resolve call.
func (r *Resolver) admit(idx int, p Point, now time.Time) (int, bool) {
	h := r.Hyst
	if h.LastIndex < 0 {
		return r.commit(idx, p, now)
	}
	if idx == h.LastIndex {
		return idx, false
	}

	moved := p.Manhattan(h.LastPoint)
	elapsed := now.Sub(h.LastAt)

	if idx-h.LastIndex == 1 || h.LastIndex-idx == 1 {
		if moved < adjacentStillDistance || (elapsed < adjacentWindow && moved < adjacentDistance) {
			return h.LastIndex, false
		}
	}
	if now.Sub(h.PrevAt) < coarseWindow && p.Manhattan(h.PrevPoint) < coarseDistance {
		r.coarseHeld = true
		return h.LastIndex, false
	}
	return r.commit(idx, p, now)
}

func (r *Resolver) commit(idx int, p Point, now time.Time) (int, bool) {
	r.Hyst = Hysteresis{LastIndex: idx, LastPoint: p, LastAt: now, PrevPoint: p, PrevAt: now}
	r.Intent.LastInsert = idx
	return idx, true
}

// MoveTo returns a copy of order with id removed and reinserted at index,
// clamped to the bounds of the remaining list.
func MoveTo(order []string, id string, index int) []string {
	rest := without(order, id)
	index = clampInt(index, 0, len(rest))
	return slices.Insert(rest, index, id)
}

// without returns a copy of order with id removed.
func without(order []string, id string) []string {
	out := make([]string, 0, len(order))
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

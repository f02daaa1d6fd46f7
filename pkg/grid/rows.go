package grid

import "math"

// Row is a run of tiles sharing a vertical band, in display order.
type Row struct {
	Tiles  []Tile
	Top    float64
	Bottom float64
}

// Len returns the number of tiles in the row.
func (r Row) Len() int { return len(r.Tiles) }

func (r *Row) add(t Tile) {
	if len(r.Tiles) == 0 {
		r.Top, r.Bottom = t.Rect.Top, t.Rect.Bottom()
	} else {
		r.Top = math.Min(r.Top, t.Rect.Top)
		r.Bottom = math.Max(r.Bottom, t.Rect.Bottom())
	}
	r.Tiles = append(r.Tiles, t)
}

// rowBreak returns the vertical distance from the current row's top beyond
// which t starts a new row.
func rowBreak(t Tile) float64 {
	return math.Max(rowMinThreshold, math.Floor(t.Rect.Height*rowHeightFactor))
}

// BuildRows partitions tiles into visual rows. Tiles are not sorted: the
// layout must already place them left-to-right, top-to-bottom in order.
func BuildRows(tiles []Tile) []Row {
	var rows []Row
	var lastTop float64
	for _, t := range tiles {
		if len(rows) == 0 || math.Abs(t.Rect.Top-lastTop) > rowBreak(t) {
			rows = append(rows, Row{})
			lastTop = t.Rect.Top
		}
		rows[len(rows)-1].add(t)
	}
	return rows
}

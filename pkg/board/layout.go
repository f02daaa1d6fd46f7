package board

import (
	"math"
	"slices"

	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

// Terminal cells are mapped to engine layout units at a fixed ratio so that
// the engine's thresholds (5-unit drag threshold, 15-unit hysteresis) are
// meaningful on a coarse cell grid. A cell is roughly twice as tall as wide.
const (
	UnitsPerCol  = 10.0
	UnitsPerLine = 20.0

	gapCols  = 1
	gapLines = 1
)

// Rect is a rectangle in terminal cells
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout places the visible items on a fixed-size tile grid. It is the
// geometry and order half of the engine host: the engine reads tile boxes
// and rewrites Order while a drag is live.
type Layout struct {
	Order []string
	Items map[string]models.Item

	TileW, TileH int
	Cols         int
	OriginX      int
	OriginY      int
}

// NewLayout creates an empty layout with the given tile size in cells
func NewLayout(tileW, tileH int) *Layout {
	return &Layout{
		Items: make(map[string]models.Item),
		TileW: tileW,
		TileH: tileH,
		Cols:  1,
	}
}

// SetItems replaces the visible items, keeping their order
func (l *Layout) SetItems(items []models.Item) {
	l.Order = make([]string, 0, len(items))
	l.Items = make(map[string]models.Item, len(items))
	for _, it := range items {
		l.Order = append(l.Order, it.ID)
		l.Items[it.ID] = it
	}
}

// Fit sets the column count for a viewport width in cells
func (l *Layout) Fit(width int) {
	usable := width - l.OriginX
	l.Cols = max(1, (usable+gapCols)/(l.TileW+gapCols))
}

// Slot returns the cell rectangle of the index-th grid slot
func (l *Layout) Slot(index int) Rect {
	col, row := index%l.Cols, index/l.Cols
	return Rect{
		X: l.OriginX + col*(l.TileW+gapCols),
		Y: l.OriginY + row*(l.TileH+gapLines),
		W: l.TileW,
		H: l.TileH,
	}
}

// CellRect returns the cell rectangle of a visible tile
func (l *Layout) CellRect(id string) (Rect, bool) {
	i := slices.Index(l.Order, id)
	if i < 0 {
		return Rect{}, false
	}
	return l.Slot(i), true
}

// TileAt returns the tile under the cell (x, y)
func (l *Layout) TileAt(x, y int) (string, bool) {
	for i, id := range l.Order {
		if l.Slot(i).Contains(x, y) {
			return id, true
		}
	}
	return "", false
}

// Point converts a cell to the layout-unit position of its center
func Point(x, y int) grid.Point {
	return grid.Point{X: (float64(x) + 0.5) * UnitsPerCol, Y: (float64(y) + 0.5) * UnitsPerLine}
}

// Cell converts a layout-unit position to the cell containing it
func Cell(p grid.Point) (x, y int) {
	return int(math.Floor(p.X / UnitsPerCol)), int(math.Floor(p.Y / UnitsPerLine))
}

// ToUnits converts a cell rectangle to engine units
func ToUnits(r Rect) grid.Rect {
	return grid.Rect{
		Left:   float64(r.X) * UnitsPerCol,
		Top:    float64(r.Y) * UnitsPerLine,
		Width:  float64(r.W) * UnitsPerCol,
		Height: float64(r.H) * UnitsPerLine,
	}
}

// FromUnits converts an engine rectangle to the nearest cell rectangle
func FromUnits(r grid.Rect) Rect {
	return Rect{
		X: int(math.Round(r.Left / UnitsPerCol)),
		Y: int(math.Round(r.Top / UnitsPerLine)),
		W: int(math.Round(r.Width / UnitsPerCol)),
		H: int(math.Round(r.Height / UnitsPerLine)),
	}
}

// TileRect implements grid.GeometrySource
func (l *Layout) TileRect(id string) (grid.Rect, bool) {
	r, ok := l.CellRect(id)
	if !ok {
		return grid.Rect{}, false
	}
	return ToUnits(r), true
}

// VisibleOrder returns the display order
func (l *Layout) VisibleOrder() []string {
	return l.Order
}

// SetVisibleOrder replaces the display order
func (l *Layout) SetVisibleOrder(order []string) {
	l.Order = order
}

// Item returns the engine's view of an item
func (l *Layout) Item(id string) (grid.Item, bool) {
	it, ok := l.Items[id]
	if !ok {
		return grid.Item{}, false
	}
	return grid.Item{ID: id, Kind: engineKind(it.Kind)}, true
}

func engineKind(k models.Kind) grid.Kind {
	if k == models.KindFolder {
		return grid.KindFolder
	}
	return grid.KindLink
}

package grid

import "math"

// Point is a pointer position in layout units.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Manhattan returns |dx| + |dy| between p and q.
func (p Point) Manhattan(q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an on-screen bounding box.
type Rect struct {
	Top, Left, Width, Height float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// InCenterZone reports whether p lies in the central box spanning 30%-70% of
// the rectangle on both axes.
func (r Rect) InCenterZone(p Point) bool {
	x0 := r.Left + r.Width*centerZoneLow
	x1 := r.Left + r.Width*centerZoneHigh
	y0 := r.Top + r.Height*centerZoneLow
	y1 := r.Top + r.Height*centerZoneHigh
	return p.X >= x0 && p.X <= x1 && p.Y >= y0 && p.Y <= y1
}

// Valid reports whether r has finite coordinates and a positive area.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.Top, r.Left, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width > 0 && r.Height > 0
}

// MoveTo returns r translated so its top-left corner is at p.
func (r Rect) MoveTo(p Point) Rect {
	r.Left, r.Top = p.X, p.Y
	return r
}

// Tile is the geometry of one visible grid cell for the current frame.
type Tile struct {
	ID   string
	Rect Rect
}

// GeometrySource is the live layout lookup used by the snapshot.
type GeometrySource interface {
	TileRect(id string) (Rect, bool)
}

// snapshot reads the current bounding boxes of every tile in display order
// except activeID. Tiles without usable geometry (unmounted mid-drag) are
// skipped for this frame.
func snapshot(order []string, activeID string, src GeometrySource) []Tile {
	tiles := make([]Tile, 0, len(order))
	for _, id := range order {
		if id == activeID {
			continue
		}
		rect, ok := src.TileRect(id)
		if !ok || !rect.Valid() {
			continue
		}
		tiles = append(tiles, Tile{ID: id, Rect: rect})
	}
	return tiles
}

// hitTest returns the first tile containing p.
func hitTest(tiles []Tile, p Point) (Tile, bool) {
	for _, t := range tiles {
		if t.Rect.Contains(p) {
			return t, true
		}
	}
	return Tile{}, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package grid

import (
	"slices"
	"testing"
)

// gridTiles lays out n tiles named T0..Tn-1 in cols columns of size×size
// squares with the given horizontal and vertical gaps.
func gridTiles(n, cols int, size, gapX, gapY float64) []Tile {
	tiles := make([]Tile, n)
	for i := range tiles {
		row, col := i/cols, i%cols
		tiles[i] = Tile{
			ID: "T" + string(rune('0'+i)),
			Rect: Rect{
				Top:    float64(row) * (size + gapY),
				Left:   float64(col) * (size + gapX),
				Width:  size,
				Height: size,
			},
		}
	}
	return tiles
}

func rowLens(rows []Row) []int {
	lens := make([]int, len(rows))
	for i, r := range rows {
		lens[i] = r.Len()
	}
	return lens
}

func TestBuildRows(t *testing.T) {
	tests := []struct {
		name     string
		tiles    []Tile
		wantLens []int
	}{
		{
			name:     "empty",
			tiles:    nil,
			wantLens: []int{},
		},
		{
			name:     "full rows",
			tiles:    gridTiles(6, 3, 100, 20, 20),
			wantLens: []int{3, 3},
		},
		{
			name:     "ragged last row",
			tiles:    gridTiles(5, 3, 100, 20, 20),
			wantLens: []int{3, 2},
		},
		{
			name: "slightly misaligned tops stay in one row",
			tiles: []Tile{
				{ID: "a", Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100}},
				{ID: "b", Rect: Rect{Top: 8, Left: 120, Width: 100, Height: 100}},
				{ID: "c", Rect: Rect{Top: 3, Left: 240, Width: 100, Height: 100}},
			},
			wantLens: []int{3},
		},
		{
			name: "small tiles use the minimum threshold",
			tiles: []Tile{
				{ID: "a", Rect: Rect{Top: 0, Left: 0, Width: 10, Height: 10}},
				{ID: "b", Rect: Rect{Top: 9, Left: 12, Width: 10, Height: 10}},
				{ID: "c", Rect: Rect{Top: 21, Left: 0, Width: 10, Height: 10}},
			},
			wantLens: []int{2, 1},
		},
		{
			name: "input order is preserved",
			tiles: []Tile{
				{ID: "a", Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100}},
				{ID: "b", Rect: Rect{Top: 120, Left: 0, Width: 100, Height: 100}},
				{ID: "c", Rect: Rect{Top: 0, Left: 120, Width: 100, Height: 100}},
			},
			wantLens: []int{1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := BuildRows(tt.tiles)
			if got := rowLens(rows); !slices.Equal(got, tt.wantLens) {
				t.Errorf("row lengths = %v, want %v", got, tt.wantLens)
			}
		})
	}
}

func TestBuildRowsBounds(t *testing.T) {
	tiles := []Tile{
		{ID: "a", Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100}},
		{ID: "b", Rect: Rect{Top: 8, Left: 120, Width: 100, Height: 100}},
		{ID: "c", Rect: Rect{Top: 130, Left: 0, Width: 100, Height: 90}},
	}
	rows := BuildRows(tiles)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Top != 0 || rows[0].Bottom != 108 {
		t.Errorf("row 0 band = [%v, %v], want [0, 108]", rows[0].Top, rows[0].Bottom)
	}
	if rows[1].Top != 130 || rows[1].Bottom != 220 {
		t.Errorf("row 1 band = [%v, %v], want [130, 220]", rows[1].Top, rows[1].Bottom)
	}
}

func TestMoveTo(t *testing.T) {
	order := []string{"A", "B", "C", "D"}
	tests := []struct {
		name  string
		id    string
		index int
		want  []string
	}{
		{"to middle", "A", 2, []string{"B", "C", "A", "D"}},
		{"to front", "D", 0, []string{"D", "A", "B", "C"}},
		{"to end", "B", 3, []string{"A", "C", "D", "B"}},
		{"index past end clamps", "A", 10, []string{"B", "C", "D", "A"}},
		{"negative index clamps", "C", -3, []string{"C", "A", "B", "D"}},
		{"same slot", "B", 1, []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveTo(order, tt.id, tt.index)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MoveTo(%q, %d) = %v, want %v", tt.id, tt.index, got, tt.want)
			}
		})
	}
	if !slices.Equal(order, []string{"A", "B", "C", "D"}) {
		t.Errorf("MoveTo mutated its input: %v", order)
	}
}

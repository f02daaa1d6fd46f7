package board

import (
	"testing"

	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

func testLayout(n, width int) *Layout {
	l := NewLayout(models.DefaultTileWidth, models.DefaultTileHeight)
	l.OriginX, l.OriginY = gridOriginX, gridOriginY
	items := make([]models.Item, n)
	for i := range items {
		items[i] = models.Item{ID: string(rune('A' + i)), Kind: models.KindLink}
	}
	l.SetItems(items)
	l.Fit(width)
	return l
}

func TestLayoutFit(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 1},
		{10, 1},
		{40, 2},
		{80, 4},
		{96, 5},
	}
	for _, tt := range tests {
		l := testLayout(1, tt.width)
		if l.Cols != tt.want {
			t.Errorf("Fit(%d) cols = %d, want %d", tt.width, l.Cols, tt.want)
		}
	}
}

func TestLayoutSlots(t *testing.T) {
	l := testLayout(6, 80)

	tests := []struct {
		index int
		want  Rect
	}{
		{0, Rect{X: 1, Y: 2, W: 18, H: 5}},
		{1, Rect{X: 20, Y: 2, W: 18, H: 5}},
		{3, Rect{X: 58, Y: 2, W: 18, H: 5}},
		{4, Rect{X: 1, Y: 8, W: 18, H: 5}},
	}
	for _, tt := range tests {
		if got := l.Slot(tt.index); got != tt.want {
			t.Errorf("Slot(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}

	hits := []struct {
		x, y int
		want string
		ok   bool
	}{
		{1, 2, "A", true},
		{18, 6, "A", true},
		{19, 4, "", false},
		{20, 4, "B", true},
		{5, 7, "", false},
		{5, 8, "E", true},
		{40, 9, "", false},
	}
	for _, tt := range hits {
		got, ok := l.TileAt(tt.x, tt.y)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TileAt(%d, %d) = %q, %v, want %q, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLayoutUnits(t *testing.T) {
	l := testLayout(2, 80)

	r, ok := l.TileRect("B")
	if !ok {
		t.Fatal("TileRect(B) missing")
	}
	if want := (grid.Rect{Left: 200, Top: 40, Width: 180, Height: 100}); r != want {
		t.Errorf("TileRect(B) = %+v, want %+v", r, want)
	}
	if _, ok := l.TileRect("Z"); ok {
		t.Error("TileRect of an unknown id should fail")
	}
	if got := FromUnits(r); got != l.Slot(1) {
		t.Errorf("FromUnits = %+v, want %+v", got, l.Slot(1))
	}

	p := Point(9, 4)
	if p != (grid.Point{X: 95, Y: 90}) {
		t.Errorf("Point(9, 4) = %+v", p)
	}
	if x, y := Cell(p); x != 9 || y != 4 {
		t.Errorf("Cell(%+v) = %d, %d, want 9, 4", p, x, y)
	}
}

// The engine's row builder must see the same rows the layout draws.
func TestLayoutRowsMatchEngine(t *testing.T) {
	l := testLayout(10, 80)
	tiles := make([]grid.Tile, 0, len(l.Order))
	for _, id := range l.Order {
		r, _ := l.TileRect(id)
		tiles = append(tiles, grid.Tile{ID: id, Rect: r})
	}
	rows := grid.BuildRows(tiles)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, want := range []int{4, 4, 2} {
		if rows[i].Len() != want {
			t.Errorf("row %d has %d tiles, want %d", i, rows[i].Len(), want)
		}
	}
}

func TestLayoutItemKinds(t *testing.T) {
	l := NewLayout(10, 4)
	l.SetItems([]models.Item{
		{ID: "bm-1", Kind: models.KindLink},
		{ID: "fd-1", Kind: models.KindFolder},
	})
	if it, ok := l.Item("fd-1"); !ok || it.Kind != grid.KindFolder {
		t.Errorf("Item(fd-1) = %+v, %v", it, ok)
	}
	if it, ok := l.Item("bm-1"); !ok || it.Kind != grid.KindLink {
		t.Errorf("Item(bm-1) = %+v, %v", it, ok)
	}
	if _, ok := l.Item("bm-2"); ok {
		t.Error("unknown item should be missing")
	}
}

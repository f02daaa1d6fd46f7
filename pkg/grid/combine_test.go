package grid

import (
	"testing"
	"time"
)

func kinds(m map[string]Kind) func(string) (Kind, bool) {
	return func(id string) (Kind, bool) {
		k, ok := m[id]
		return k, ok
	}
}

func TestDetect(t *testing.T) {
	tiles := []Tile{
		{ID: "link", Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100}},
		{ID: "folder", Rect: Rect{Top: 0, Left: 120, Width: 100, Height: 100}},
		{ID: "ghost", Rect: Rect{Top: 0, Left: 240, Width: 100, Height: 100}},
	}
	kindOf := kinds(map[string]Kind{"link": KindLink, "folder": KindFolder})

	tests := []struct {
		name      string
		p         Point
		wantHit   bool
		wantState CombineState
	}{
		{
			name:    "gap between tiles",
			p:       Point{X: 110, Y: 50},
			wantHit: false,
		},
		{
			name:      "folder arms immediately",
			p:         Point{X: 125, Y: 5},
			wantHit:   true,
			wantState: CombineState{CandidateID: "folder", TargetID: "folder"},
		},
		{
			name:      "link edge is candidate without clock",
			p:         Point{X: 5, Y: 5},
			wantHit:   true,
			wantState: CombineState{CandidateID: "link"},
		},
		{
			name:      "link center starts the clock",
			p:         Point{X: 50, Y: 50},
			wantHit:   true,
			wantState: CombineState{CandidateID: "link", HoverStartedAt: epoch},
		},
		{
			name:    "unknown item blocks reorder but never arms",
			p:       Point{X: 290, Y: 50},
			wantHit: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCombiner()
			c.State = CombineState{CandidateID: "stale", TargetID: "stale"}
			hit := c.Detect(tt.p, tiles, kindOf, epoch)
			if hit != tt.wantHit {
				t.Errorf("Detect hit = %v, want %v", hit, tt.wantHit)
			}
			if c.State != tt.wantState {
				t.Errorf("state = %+v, want %+v", c.State, tt.wantState)
			}
		})
	}
}

func TestDetectDwell(t *testing.T) {
	tiles := []Tile{
		{ID: "a", Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100}},
		{ID: "b", Rect: Rect{Top: 0, Left: 120, Width: 100, Height: 100}},
	}
	kindOf := kinds(map[string]Kind{"a": KindLink, "b": KindLink})
	center := Point{X: 50, Y: 50}
	edge := Point{X: 10, Y: 10}

	type step struct {
		p         Point
		ms        int
		wantArmed bool
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "armed exactly at the dwell duration",
			steps: []step{
				{center, 0, false},
				{center, 319, false},
				{center, 320, true},
				{center, 600, true},
			},
		},
		{
			name: "edge hover never arms",
			steps: []step{
				{edge, 0, false},
				{edge, 1000, false},
			},
		},
		{
			name: "leaving the zone restarts the clock",
			steps: []step{
				{center, 0, false},
				{edge, 200, false},
				{center, 300, false},
				{center, 600, false},
				{center, 620, true},
			},
		},
		{
			name: "leaving the zone disarms",
			steps: []step{
				{center, 0, false},
				{center, 400, true},
				{edge, 420, false},
			},
		},
		{
			name: "switching tiles restarts the clock",
			steps: []step{
				{center, 0, false},
				{Point{X: 170, Y: 50}, 300, false},
				{Point{X: 170, Y: 50}, 500, false},
				{Point{X: 170, Y: 50}, 620, true},
			},
		},
		{
			name: "entering through the edge starts the clock in the zone",
			steps: []step{
				{edge, 0, false},
				{center, 100, false},
				{center, 419, false},
				{center, 420, true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCombiner()
			for i, s := range tt.steps {
				c.Detect(s.p, tiles, kindOf, at(s.ms))
				if c.Armed() != s.wantArmed {
					t.Fatalf("step %d (%v at %dms): armed = %v, want %v (state %+v)",
						i, s.p, s.ms, c.Armed(), s.wantArmed, c.State)
				}
				if c.State.TargetID != "" && c.State.TargetID != c.State.CandidateID {
					t.Fatalf("step %d: target %q differs from candidate %q", i, c.State.TargetID, c.State.CandidateID)
				}
			}
		})
	}
}

func TestDetectCustomDwell(t *testing.T) {
	tiles := []Tile{{ID: "a", Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100}}}
	kindOf := kinds(map[string]Kind{"a": KindLink})

	c := &Combiner{Dwell: 50 * time.Millisecond}
	c.Detect(Point{X: 50, Y: 50}, tiles, kindOf, epoch)
	c.Detect(Point{X: 50, Y: 50}, tiles, kindOf, at(50))
	if !c.Armed() {
		t.Errorf("expected armed after custom dwell, state %+v", c.State)
	}

	zero := &Combiner{}
	zero.Detect(Point{X: 50, Y: 50}, tiles, kindOf, epoch)
	zero.Detect(Point{X: 50, Y: 50}, tiles, kindOf, at(100))
	if zero.Armed() {
		t.Errorf("zero Dwell should fall back to %v", DwellDuration)
	}
}

func TestCenterZone(t *testing.T) {
	r := Rect{Top: 100, Left: 200, Width: 100, Height: 50}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 250, Y: 125}, true},
		{Point{X: 230, Y: 115}, true},
		{Point{X: 270, Y: 135}, true},
		{Point{X: 229, Y: 125}, false},
		{Point{X: 250, Y: 136}, false},
		{Point{X: 205, Y: 105}, false},
	}
	for _, tt := range tests {
		if got := r.InCenterZone(tt.p); got != tt.want {
			t.Errorf("InCenterZone(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

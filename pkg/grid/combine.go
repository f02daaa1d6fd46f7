package grid

import "time"

// Kind distinguishes plain links from folders.
type Kind int

const (
	KindLink Kind = iota
	KindFolder
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Item is the engine's view of a grid entry.
type Item struct {
	ID   string
	Kind Kind
}

// CombineState tracks the tile under the pointer during a drag.
//
// A candidate is highlighted but not armed. A target is armed: releasing now
// merges. TargetID is only ever set to CandidateID.
type CombineState struct {
	CandidateID    string
	TargetID       string
	HoverStartedAt time.Time // zero while the dwell clock is stopped
}

// Combiner runs the hover-to-merge dwell state machine.
type Combiner struct {
	State CombineState
	Dwell time.Duration
}

// NewCombiner returns a combiner using the default dwell duration.
func NewCombiner() *Combiner {
	return &Combiner{Dwell: DwellDuration}
}

// Reset clears candidate, target and the dwell clock.
func (c *Combiner) Reset() {
	c.State = CombineState{}
}

// Detect hit-tests p against the current tile rectangles and advances the
// dwell state. It returns true when p is inside a tile; such a frame never
// produces a reorder.
func (c *Combiner) Detect(p Point, tiles []Tile, kindOf func(id string) (Kind, bool), now time.Time) bool {
	hit, ok := hitTest(tiles, p)
	if !ok {
		c.Reset()
		return false
	}

	kind, known := kindOf(hit.ID)
	if !known {
		c.Reset()
		return true
	}

	if kind == KindFolder {
		c.State = CombineState{CandidateID: hit.ID, TargetID: hit.ID}
		return true
	}

	inZone := hit.Rect.InCenterZone(p)
	if c.State.CandidateID != hit.ID {
		c.State = CombineState{CandidateID: hit.ID}
		if inZone {
			c.State.HoverStartedAt = now
		}
		return true
	}

	if !inZone {
		c.State.TargetID = ""
		c.State.HoverStartedAt = time.Time{}
		return true
	}
	if c.State.HoverStartedAt.IsZero() {
		c.State.HoverStartedAt = now
		return true
	}
	if c.State.TargetID == "" && now.Sub(c.State.HoverStartedAt) >= c.dwell() {
		c.State.TargetID = hit.ID
	}
	return true
}

// Armed reports whether a merge target is set.
func (c *Combiner) Armed() bool {
	return c.State.TargetID != ""
}

func (c *Combiner) dwell() time.Duration {
	if c.Dwell <= 0 {
		return DwellDuration
	}
	return c.Dwell
}

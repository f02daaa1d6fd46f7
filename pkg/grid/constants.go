package grid

import "time"

// Interaction thresholds. Distances are in layout units, durations are
// measured on the monotonic clock so behaviour does not depend on frame rate.
const (
	// DragThreshold is the distance from the press point that confirms a drag.
	// Anything shorter resolves as a click.
	DragThreshold = 5.0

	// rowMinThreshold and rowHeightFactor define the vertical gap that starts
	// a new row: max(10, floor(height*0.6)).
	rowMinThreshold = 10.0
	rowHeightFactor = 0.6

	// rowBandSlack widens the remembered row band when deciding whether the
	// pointer is still in the row it was last aimed at.
	rowBandSlack = 5.0

	// Adjacent-swap hysteresis.
	adjacentStillDistance = 5.0
	adjacentWindow        = 150 * time.Millisecond
	adjacentDistance      = 15.0

	// Coarse hysteresis applied to any index change.
	coarseWindow   = 45 * time.Millisecond
	coarseDistance = 14.0

	// DwellDuration is how long the pointer must rest in a link tile's center
	// zone before the tile is armed as a merge target.
	DwellDuration = 320 * time.Millisecond

	centerZoneLow  = 0.30
	centerZoneHigh = 0.70
)

// Animation timings.
const (
	PushDuration   = 180 * time.Millisecond
	SettleDuration = 180 * time.Millisecond
	DropDuration   = 180 * time.Millisecond
	MergeDuration  = 200 * time.Millisecond
	FadeInDuration = 140 * time.Millisecond

	// pressedScale is the dock-style shrink applied to a pressed tile before
	// the drag is confirmed.
	pressedScale = 0.92
	// liftScale is the grid-style overlay scale while dragging.
	liftScale = 1.04
)

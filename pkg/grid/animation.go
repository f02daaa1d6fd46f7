package grid

import (
	"math"
	"time"
)

// Override is the visual adjustment a renderer applies to a tile on top of
// its laid-out rectangle. The zero Override is not the identity; use Identity.
type Override struct {
	Offset  Point
	Scale   float64
	Opacity float64
}

// Identity is the no-op override.
var Identity = Override{Scale: 1, Opacity: 1}

// IsIdentity reports whether o leaves the tile untouched.
func (o Override) IsIdentity() bool {
	return o.Offset == (Point{}) && o.Scale == 1 && o.Opacity == 1
}

func (o Override) lerp(to Override, t float64) Override {
	return Override{
		Offset:  Point{X: lerp(o.Offset.X, to.Offset.X, t), Y: lerp(o.Offset.Y, to.Offset.Y, t)},
		Scale:   lerp(o.Scale, to.Scale, t),
		Opacity: lerp(o.Opacity, to.Opacity, t),
	}
}

// Overlay is the floating copy of the dragged tile.
type Overlay struct {
	Visible bool
	Rect    Rect
	Scale   float64
	Opacity float64
}

func (o Overlay) lerp(to Overlay, t float64) Overlay {
	return Overlay{
		Visible: o.Visible || to.Visible,
		Rect: Rect{
			Top:    lerp(o.Rect.Top, to.Rect.Top, t),
			Left:   lerp(o.Rect.Left, to.Rect.Left, t),
			Width:  lerp(o.Rect.Width, to.Rect.Width, t),
			Height: lerp(o.Rect.Height, to.Rect.Height, t),
		},
		Scale:   lerp(o.Scale, to.Scale, t),
		Opacity: lerp(o.Opacity, to.Opacity, t),
	}
}

type tween[T any] struct {
	from, to T
	start    time.Time
	dur      time.Duration
}

func (tw tween[T]) progress(now time.Time) float64 {
	if tw.dur <= 0 {
		return 1
	}
	t := float64(now.Sub(tw.start)) / float64(tw.dur)
	return easeOutCubic(clampFloat(t, 0, 1))
}

func (tw tween[T]) done(now time.Time) bool {
	return now.Sub(tw.start) >= tw.dur
}

type capture struct {
	first Rect
	dur   time.Duration
}

// Choreographer computes FLIP transitions for tiles and the dragged overlay.
// It never touches the layout itself: renderers ask for Override and
// OverlayAt each frame. Animation is best effort; a tile whose geometry
// disappears simply stops animating.
type Choreographer struct {
	captured map[string]capture
	tiles    map[string]tween[Override]
	pinned   map[string]Override

	overlay      Overlay
	overlayTween *tween[Overlay]
}

// NewChoreographer returns an empty choreographer.
func NewChoreographer() *Choreographer {
	return &Choreographer{
		captured: make(map[string]capture),
		tiles:    make(map[string]tween[Override]),
		pinned:   make(map[string]Override),
	}
}

// Capture records the current visual rect ("first") of each id. The matching
// "last" rect is read by the next Play, after the host applied the new order.
func (c *Choreographer) Capture(ids []string, src GeometrySource, now time.Time, dur time.Duration) {
	for _, id := range ids {
		rect, ok := src.TileRect(id)
		if !ok || !rect.Valid() {
			continue
		}
		off := c.Override(id, now).Offset
		c.captured[id] = capture{first: rect.MoveTo(rect.Origin().Add(off)), dur: dur}
	}
}

// Pending reports whether captured rects are waiting for Play.
func (c *Choreographer) Pending() bool {
	return len(c.captured) > 0
}

// Play starts an invert-then-play transition for every captured tile whose
// rect changed since Capture.
func (c *Choreographer) Play(src GeometrySource, now time.Time) int {
	started := 0
	for id, cp := range c.captured {
		delete(c.captured, id)
		last, ok := src.TileRect(id)
		if !ok || !last.Valid() {
			continue
		}
		delta := cp.first.Origin().Sub(last.Origin())
		if math.Abs(delta.X) < 0.5 && math.Abs(delta.Y) < 0.5 {
			continue
		}
		from := Identity
		from.Offset = delta
		c.tiles[id] = tween[Override]{from: from, to: Identity, start: now, dur: cp.dur}
		started++
	}
	return started
}

// Animate tweens one tile between two overrides.
func (c *Choreographer) Animate(id string, from, to Override, now time.Time, dur time.Duration) {
	c.tiles[id] = tween[Override]{from: from, to: to, start: now, dur: dur}
}

// FadeIn fades a tile from invisible to fully visible.
func (c *Choreographer) FadeIn(id string, now time.Time, dur time.Duration) {
	from := Identity
	from.Opacity = 0
	c.Animate(id, from, Identity, now, dur)
}

// Pin holds a static override on a tile until Unpin.
func (c *Choreographer) Pin(id string, o Override) {
	c.pinned[id] = o
}

// Unpin removes a static override.
func (c *Choreographer) Unpin(id string) {
	delete(c.pinned, id)
}

// Override returns the visual override of id at now.
func (c *Choreographer) Override(id string, now time.Time) Override {
	if o, ok := c.pinned[id]; ok {
		return o
	}
	tw, ok := c.tiles[id]
	if !ok {
		return Identity
	}
	if tw.done(now) {
		return tw.to
	}
	return tw.from.lerp(tw.to, tw.progress(now))
}

// Overrides returns every non-identity override at now.
func (c *Choreographer) Overrides(now time.Time) map[string]Override {
	out := make(map[string]Override, len(c.pinned)+len(c.tiles))
	for id := range c.tiles {
		if o := c.Override(id, now); !o.IsIdentity() {
			out[id] = o
		}
	}
	for id, o := range c.pinned {
		out[id] = o
	}
	return out
}

// SetOverlay places the overlay immediately, cancelling any overlay tween.
func (c *Choreographer) SetOverlay(o Overlay) {
	c.overlay = o
	c.overlayTween = nil
}

// TweenOverlay animates the overlay from its current state to to.
func (c *Choreographer) TweenOverlay(to Overlay, now time.Time, dur time.Duration) {
	from := c.OverlayAt(now)
	c.overlayTween = &tween[Overlay]{from: from, to: to, start: now, dur: dur}
	c.overlay = to
}

// OverlayAt returns the overlay state at now.
func (c *Choreographer) OverlayAt(now time.Time) Overlay {
	if c.overlayTween == nil || c.overlayTween.done(now) {
		return c.overlay
	}
	return c.overlayTween.from.lerp(c.overlayTween.to, c.overlayTween.progress(now))
}

// OverlayDone reports whether the overlay has reached its final state.
func (c *Choreographer) OverlayDone(now time.Time) bool {
	return c.overlayTween == nil || c.overlayTween.done(now)
}

// Active reports whether any transition is still running at now.
func (c *Choreographer) Active(now time.Time) bool {
	if len(c.captured) > 0 || !c.OverlayDone(now) {
		return true
	}
	for _, tw := range c.tiles {
		if !tw.done(now) {
			return true
		}
	}
	return false
}

// Prune drops finished tile transitions that ended at the identity.
func (c *Choreographer) Prune(now time.Time) {
	for id, tw := range c.tiles {
		if tw.done(now) && tw.to.IsIdentity() {
			delete(c.tiles, id)
		}
	}
	if c.overlayTween != nil && c.overlayTween.done(now) {
		c.overlayTween = nil
	}
}

// Clear drops every override, transition and the overlay.
func (c *Choreographer) Clear() {
	clear(c.captured)
	clear(c.tiles)
	clear(c.pinned)
	c.overlay = Overlay{}
	c.overlayTween = nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

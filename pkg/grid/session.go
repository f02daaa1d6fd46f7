package grid

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle stage of the drag interaction.
type Phase int

const (
	// PhaseIdle means no session exists.
	PhaseIdle Phase = iota
	// PhasePressed means the pointer is down but has not moved far enough.
	PhasePressed
	// PhaseDragging means the drag is confirmed and frames resolve positions.
	PhaseDragging
	// PhaseMerging means the merge animation runs before the merge commits.
	PhaseMerging
	// PhaseCommitting means the final order is written and the drop animation runs.
	PhaseCommitting
	// PhaseSettling means displaced tiles catch up and the dragged tile fades in.
	PhaseSettling
	// PhaseCancelled is transient: the session was abandoned and rolled back.
	PhaseCancelled
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	case PhaseMerging:
		return "merging"
	case PhaseCommitting:
		return "committing"
	case PhaseSettling:
		return "settling"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is how a release resolved.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeClick means the press never passed the drag threshold.
	OutcomeClick
	// OutcomeDrop means the tile was dropped back into its original slot.
	OutcomeDrop
	OutcomeReorder
	OutcomeMerge
	OutcomeCreateFolder
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeClick:
		return "click"
	case OutcomeDrop:
		return "drop"
	case OutcomeReorder:
		return "reorder"
	case OutcomeMerge:
		return "merge"
	case OutcomeCreateFolder:
		return "create-folder"
	default:
		return "unknown"
	}
}

// CancelReason says why a session was abandoned.
type CancelReason int

const (
	CancelPointer CancelReason = iota
	CancelBlur
	CancelHidden
	CancelHost
)

// String returns the string representation of the reason
func (r CancelReason) String() string {
	switch r {
	case CancelPointer:
		return "pointer-cancel"
	case CancelBlur:
		return "blur"
	case CancelHidden:
		return "hidden"
	case CancelHost:
		return "host"
	default:
		return "unknown"
	}
}

// State is what a renderer needs to draw the current interaction.
type State struct {
	Phase           Phase
	SessionID       string
	ActiveID        string
	OverlayPosition Point // pointer minus grab offset
	CandidateID     string
	TargetID        string
	InsertIndex     int // index into the non-dragged ids, -1 when unknown
}

// Result describes a finished session.
type Result struct {
	SessionID     string
	Outcome       Outcome
	ActiveID      string
	TargetID      string
	Order         []string
	OriginalOrder []string
}

// Frame is the render snapshot returned by Engine.Frame.
type Frame struct {
	State
	Overlay   Overlay
	Overrides map[string]Override
	Animating bool
}

// Session is the per-drag state. It is created on press and discarded when
// the engine returns to idle; nothing survives between drags.
type Session struct {
	ID            string
	ActiveID      string
	ActiveKind    Kind
	Start         Point
	Pointer       Point
	GrabOffset    Point
	TileRect      Rect
	Confirmed     bool
	OriginalOrder []string
	PendingOrder  []string

	pressedAt time.Time
	maxDist   float64
	dirty     bool

	resolver *Resolver
	combiner *Combiner

	mergeTarget  string
	mergeCreates bool
	mergeEnd     time.Time
	dropPending  bool
}

func (s *Session) overlayPosition() Point {
	return s.Pointer.Sub(s.GrabOffset)
}

// Engine owns at most one drag session and orchestrates the row builder,
// insertion resolver, combine detector and choreographer on each frame.
// It is not safe for concurrent use; hosts call it from their UI loop.
type Engine struct {
	host  Host
	opts  Options
	log   *slog.Logger
	phase Phase
	sess  *Session
	anim  *Choreographer
	tasks []Task
}

// New creates an idle engine bound to host.
func New(host Host, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		host: host,
		opts: opts,
		log:  logger,
		anim: NewChoreographer(),
	}
}

// SetOptions replaces the host toggles. A running session keeps going with
// the new values from its next frame on.
func (e *Engine) SetOptions(opts Options) {
	if opts.Logger == nil {
		opts.Logger = e.log
	}
	e.opts = opts
	e.log = opts.Logger
}

// Options returns the current toggles.
func (e *Engine) Options() Options {
	return e.opts
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Idle reports whether no session is active.
func (e *Engine) Idle() bool {
	return e.phase == PhaseIdle
}

// Session returns the active session, or nil.
func (e *Engine) Session() *Session {
	return e.sess
}

// TakeTasks returns and clears the queued deferred work.
func (e *Engine) TakeTasks() []Task {
	tasks := e.tasks
	e.tasks = nil
	return tasks
}

// State returns the renderer-facing state.
func (e *Engine) State() State {
	st := State{Phase: e.phase, InsertIndex: -1}
	if e.sess == nil {
		return st
	}
	st.SessionID = e.sess.ID
	st.ActiveID = e.sess.ActiveID
	st.OverlayPosition = e.sess.overlayPosition()
	st.CandidateID = e.sess.combiner.State.CandidateID
	st.TargetID = e.sess.combiner.State.TargetID
	st.InsertIndex = e.sess.resolver.Intent.LastInsert
	return st
}

// Press starts tracking a pointer-down on tile id. It returns false when the
// engine is disabled, busy, or the tile is unknown.
func (e *Engine) Press(id string, p Point, now time.Time) bool {
	if e.opts.Disabled {
		return false
	}
	switch e.phase {
	case PhaseIdle:
	case PhaseSettling, PhaseCommitting:
		e.finish()
	default:
		return false
	}

	item, ok := e.host.Item(id)
	if !ok {
		return false
	}
	rect, ok := e.host.TileRect(id)
	if !ok || !rect.Valid() {
		return false
	}
	order := slices.Clone(e.host.VisibleOrder())
	pos := slices.Index(order, id)
	if pos < 0 {
		return false
	}

	s := &Session{
		ID:            uuid.NewString(),
		ActiveID:      id,
		ActiveKind:    item.Kind,
		Start:         p,
		Pointer:       p,
		TileRect:      rect,
		OriginalOrder: order,
		pressedAt:     now,
		resolver:      NewResolver(),
		combiner:      NewCombiner(),
	}
	s.GrabOffset = Point{
		X: clampFloat(p.X-rect.Left, 0, rect.Width),
		Y: clampFloat(p.Y-rect.Top, 0, rect.Height),
	}
	s.resolver.Seed(pos, p, now)

	e.anim.Clear()
	e.sess = s
	e.phase = PhasePressed
	if e.opts.Style == StyleDock {
		e.anim.Pin(id, Override{Scale: pressedScale, Opacity: 1})
	}
	e.log.Debug("drag: pressed", "session", s.ID, "id", id, "kind", item.Kind)
	return true
}

// Move records the latest pointer position. The computation it implies runs
// on the next Frame, so bursts of moves cost one pass.
func (e *Engine) Move(p Point, now time.Time) {
	s := e.sess
	if s == nil {
		return
	}
	switch e.phase {
	case PhasePressed, PhaseDragging:
	default:
		return
	}
	s.Pointer = p
	if d := p.Dist(s.Start); d > s.maxDist {
		s.maxDist = d
	}
	s.dirty = true
}

// Frame runs at most one resolution pass with the latest pointer and
// advances every running animation.
func (e *Engine) Frame(now time.Time) Frame {
	if e.sess == nil {
		return e.frame(now)
	}

	if e.phase == PhasePressed && e.sess.maxDist >= DragThreshold {
		e.confirm(now)
	}

	if e.anim.Pending() {
		e.anim.Play(e.host, now)
	}

	switch e.phase {
	case PhaseDragging:
		if e.sess.dirty || e.sess.resolver.Retry(now) {
			e.pass(now, true)
		} else if e.awaitingDwell() {
			e.pass(now, false)
		}
		e.placeOverlay()
	case PhaseMerging:
		if !now.Before(e.sess.mergeEnd) {
			e.commitMerge(now)
		}
	case PhaseCommitting:
		e.advanceDrop(now)
	}

	if e.phase == PhaseSettling && !e.anim.Active(now) {
		e.finish()
	}
	e.anim.Prune(now)
	return e.frame(now)
}

// Release resolves the session at pointer-up: a click, a reorder commit or a
// merge.
func (e *Engine) Release(p Point, now time.Time) Outcome {
	s := e.sess
	if s == nil {
		return OutcomeNone
	}
	e.Move(p, now)

	switch e.phase {
	case PhasePressed:
		if s.maxDist < DragThreshold {
			res := Result{SessionID: s.ID, Outcome: OutcomeClick, ActiveID: s.ActiveID, Order: s.OriginalOrder, OriginalOrder: s.OriginalOrder}
			e.finish()
			e.log.Debug("drag: click", "session", s.ID, "id", s.ActiveID)
			e.end(res)
			return OutcomeClick
		}
		e.confirm(now)
		e.pass(now, true)
	case PhaseDragging:
		e.pass(now, true)
	default:
		return OutcomeNone
	}

	if s.combiner.Armed() {
		return e.beginMerge(now)
	}
	return e.commitReorder(now)
}

// Cancel abandons the session. Before the order mutation has committed the
// pre-drag order is restored; afterwards only the animations are dropped.
func (e *Engine) Cancel(reason CancelReason) {
	s := e.sess
	if s == nil {
		return
	}
	switch e.phase {
	case PhasePressed, PhaseDragging, PhaseMerging:
		if !slices.Equal(e.host.VisibleOrder(), s.OriginalOrder) {
			e.host.SetVisibleOrder(slices.Clone(s.OriginalOrder))
		}
	}
	from := e.phase
	e.phase = PhaseCancelled
	e.finish()
	e.log.Debug("drag: cancelled", "session", s.ID, "phase", from, "reason", reason)
	if e.opts.Hooks.OnCancel != nil {
		e.opts.Hooks.OnCancel(reason)
	}
}

func (e *Engine) confirm(now time.Time) {
	s := e.sess
	s.Confirmed = true
	e.phase = PhaseDragging
	s.dirty = true
	e.anim.Pin(s.ActiveID, Override{Scale: 1, Opacity: 0})

	scale := liftScale
	if e.opts.Style == StyleDock {
		scale = 1
	}
	e.anim.SetOverlay(Overlay{
		Visible: true,
		Rect:    s.TileRect.MoveTo(s.overlayPosition()),
		Scale:   scale,
		Opacity: 1,
	})
	e.log.Debug("drag: started", "session", s.ID, "id", s.ActiveID, "dist", s.maxDist, "held", now.Sub(s.pressedAt))
	if e.opts.Hooks.OnStart != nil {
		e.opts.Hooks.OnStart(e.State())
	}
}

func (e *Engine) placeOverlay() {
	s := e.sess
	o := e.anim.overlay
	o.Rect = o.Rect.MoveTo(s.overlayPosition())
	e.anim.SetOverlay(o)
}

func (e *Engine) canCombine() bool {
	return !e.opts.NoCombine && e.sess.ActiveKind != KindFolder
}

func (e *Engine) awaitingDwell() bool {
	st := e.sess.combiner.State
	return st.CandidateID != "" && st.TargetID == "" && !st.HoverStartedAt.IsZero()
}

func (e *Engine) kindOf(id string) (Kind, bool) {
	item, ok := e.host.Item(id)
	if !ok {
		return KindLink, false
	}
	return item.Kind, true
}

// pass is one frame of resolution. With full unset only the combine dwell
// clock is advanced.
func (e *Engine) pass(now time.Time, full bool) {
	s := e.sess
	s.dirty = false
	p := s.Pointer

	order := e.host.VisibleOrder()
	tiles := snapshot(order, s.ActiveID, e.host)
	before := s.combiner.State

	if e.canCombine() && s.combiner.Detect(p, tiles, e.kindOf, now) {
		if s.combiner.State != before {
			e.log.Debug("drag: combine", "session", s.ID, "candidate", s.combiner.State.CandidateID, "target", s.combiner.State.TargetID)
		}
		e.update()
		return
	}
	if !full {
		return
	}

	rows := BuildRows(tiles)
	idx, changed := s.resolver.Resolve(p, rows, now)
	if !changed {
		e.update()
		return
	}
	next := MoveTo(order, s.ActiveID, idx)
	s.PendingOrder = next
	if slices.Equal(next, order) {
		e.update()
		return
	}
	e.log.Debug("drag: reorder", "session", s.ID, "index", idx, "rows", len(rows))
	if e.opts.PrePush {
		if e.opts.PushAnimation {
			e.anim.Capture(without(order, s.ActiveID), e.host, now, PushDuration)
		}
		e.host.SetVisibleOrder(slices.Clone(next))
	}
	e.update()
}

func (e *Engine) beginMerge(now time.Time) Outcome {
	s := e.sess
	target := s.combiner.State.TargetID
	kind, _ := e.kindOf(target)
	s.mergeTarget = target
	s.mergeCreates = kind != KindFolder
	s.mergeEnd = now
	e.phase = PhaseMerging

	if rect, ok := e.host.TileRect(target); ok && rect.Valid() {
		c := rect.Center()
		w, h := s.TileRect.Width*0.2, s.TileRect.Height*0.2
		e.anim.TweenOverlay(Overlay{
			Visible: true,
			Rect:    Rect{Top: c.Y - h/2, Left: c.X - w/2, Width: w, Height: h},
			Scale:   1,
			Opacity: 0,
		}, now, MergeDuration)
		if s.mergeCreates {
			e.anim.Animate(target, Identity, Override{Scale: 0.2, Opacity: 0}, now, MergeDuration)
		}
		s.mergeEnd = now.Add(MergeDuration)
	}

	e.log.Debug("drag: merging", "session", s.ID, "id", s.ActiveID, "target", target, "create", s.mergeCreates)
	if s.mergeCreates {
		return OutcomeCreateFolder
	}
	return OutcomeMerge
}

func (e *Engine) commitMerge(now time.Time) {
	s := e.sess
	dragged, target := s.ActiveID, s.mergeTarget
	original := slices.Clone(s.OriginalOrder)
	s.combiner.Reset()

	current := e.host.VisibleOrder()
	next := without(current, dragged)
	if e.opts.PushAnimation {
		e.anim.Capture(next, e.host, now, SettleDuration)
	}
	e.anim.Unpin(dragged)
	e.anim.SetOverlay(Overlay{})
	e.host.SetVisibleOrder(next)

	res := Result{SessionID: s.ID, ActiveID: dragged, TargetID: target, Order: slices.Clone(next), OriginalOrder: original}
	if s.mergeCreates {
		res.Outcome = OutcomeCreateFolder
		e.queue(TaskCreateFolder, func(ctx context.Context) error {
			return e.host.CreateFolder(ctx, target, dragged, original)
		})
	} else {
		res.Outcome = OutcomeMerge
		e.queue(TaskMergeIntoFolder, func(ctx context.Context) error {
			return e.host.MergeIntoFolder(ctx, dragged, target)
		})
	}
	e.phase = PhaseSettling
	e.log.Debug("drag: merged", "session", s.ID, "id", dragged, "target", target, "outcome", res.Outcome)
	e.end(res)
}

func (e *Engine) commitReorder(now time.Time) Outcome {
	s := e.sess
	s.combiner.Reset()
	current := e.host.VisibleOrder()
	final := s.PendingOrder
	if final == nil {
		final = slices.Clone(current)
	}

	if !slices.Equal(current, final) {
		if e.opts.PushAnimation {
			e.anim.Capture(without(current, s.ActiveID), e.host, now, SettleDuration)
		}
		e.host.SetVisibleOrder(slices.Clone(final))
	}

	outcome := OutcomeDrop
	if !slices.Equal(final, s.OriginalOrder) {
		outcome = OutcomeReorder
		order := slices.Clone(final)
		e.queue(TaskPersistReorder, func(ctx context.Context) error {
			return e.host.PersistReorder(ctx, order)
		})
	}

	e.phase = PhaseCommitting
	s.dropPending = true
	e.log.Debug("drag: committed", "session", s.ID, "id", s.ActiveID, "outcome", outcome)
	e.end(Result{SessionID: s.ID, Outcome: outcome, ActiveID: s.ActiveID, Order: slices.Clone(final), OriginalOrder: slices.Clone(s.OriginalOrder)})
	return outcome
}

// advanceDrop eases the overlay into the released tile's slot once the host
// has laid out the final order, then hands over to settling.
func (e *Engine) advanceDrop(now time.Time) {
	s := e.sess
	if s.dropPending {
		s.dropPending = false
		if rect, ok := e.host.TileRect(s.ActiveID); ok && rect.Valid() && e.opts.DropAnimation {
			e.anim.TweenOverlay(Overlay{Visible: true, Rect: rect, Scale: 1, Opacity: 1}, now, DropDuration)
			return
		}
	}
	if !e.anim.OverlayDone(now) {
		return
	}
	e.anim.SetOverlay(Overlay{})
	e.anim.Unpin(s.ActiveID)
	e.anim.FadeIn(s.ActiveID, now, FadeInDuration)
	e.phase = PhaseSettling
}

func (e *Engine) queue(name string, run func(ctx context.Context) error) {
	e.tasks = append(e.tasks, Task{Name: name, SessionID: e.sess.ID, Run: run})
}

func (e *Engine) update() {
	if e.opts.Hooks.OnUpdate != nil {
		e.opts.Hooks.OnUpdate(e.State())
	}
}

func (e *Engine) end(res Result) {
	if e.opts.Hooks.OnEnd != nil {
		e.opts.Hooks.OnEnd(res)
	}
}

// finish drops the session and every visual override.
func (e *Engine) finish() {
	e.anim.Clear()
	e.sess = nil
	e.phase = PhaseIdle
}

func (e *Engine) frame(now time.Time) Frame {
	f := Frame{State: e.State()}
	if e.sess == nil {
		return f
	}
	f.Overlay = e.anim.OverlayAt(now)
	f.Overrides = e.anim.Overrides(now)
	f.Animating = e.anim.Active(now)
	return f
}

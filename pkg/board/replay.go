package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

// Trace event types
const (
	EventPress   = "press"
	EventMove    = "move"
	EventRelease = "release"
	EventFrame   = "frame"
	EventCancel  = "cancel"
)

// maxSettle bounds how long a replay keeps framing after the last event
const maxSettle = 2 * time.Second

// TraceEvent is one recorded input. Positions are terminal cells.
type TraceEvent struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	TMs    int64   `json:"t_ms"`
	Reason string  `json:"reason,omitempty"`
}

// Trace is a recorded pointer gesture against one list
type Trace struct {
	Width  int          `json:"width,omitempty"`
	Folder string       `json:"folder,omitempty"`
	Events []TraceEvent `json:"events"`
}

// ParseTrace decodes and validates a trace
func ParseTrace(data []byte) (*Trace, error) {
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	if len(tr.Events) == 0 {
		return nil, fmt.Errorf("trace has no events")
	}
	var last int64
	for i, ev := range tr.Events {
		switch ev.Type {
		case EventPress, EventMove, EventRelease, EventFrame:
		case EventCancel:
			if _, err := parseCancelReason(ev.Reason); err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
		if ev.TMs < last {
			return nil, fmt.Errorf("event %d: t_ms %d goes back in time", i, ev.TMs)
		}
		last = ev.TMs
	}
	return &tr, nil
}

func parseCancelReason(s string) (grid.CancelReason, error) {
	switch s {
	case "", "pointer-cancel", "pointer":
		return grid.CancelPointer, nil
	case "blur":
		return grid.CancelBlur, nil
	case "hidden":
		return grid.CancelHidden, nil
	case "host":
		return grid.CancelHost, nil
	default:
		return grid.CancelPointer, fmt.Errorf("unknown cancel reason %q", s)
	}
}

// ReplayOptions configure a replay
type ReplayOptions struct {
	Settings models.Config
	Width    int  // overrides the trace width; 80 when both are unset
	Apply    bool // run the resulting tasks against the store
	Logger   *slog.Logger
}

// ReplayResult is what a trace did
type ReplayResult struct {
	Before  []string
	After   []string
	Results []grid.Result
	Cancels []grid.CancelReason
	Tasks   []string // names of the tasks produced, in order
	Misses  int      // presses that hit no tile or were rejected
}

// Replay runs a trace through a fresh engine against the stored layout of
// the trace's list. The frame loop a live board would run is simulated at
// 16ms steps while a session is active.
func Replay(ctx context.Context, store Store, tr *Trace, opts ReplayOptions) (*ReplayResult, error) {
	items, err := loadItemsFor(store, tr.Folder)
	if err != nil {
		return nil, err
	}

	width := opts.Width
	if width == 0 {
		width = tr.Width
	}
	if width == 0 {
		width = 80
	}

	tw, th := opts.Settings.TileSize()
	layout := NewLayout(tw, th)
	layout.OriginX, layout.OriginY = gridOriginX, gridOriginY
	layout.SetItems(items)
	layout.Fit(width)

	res := &ReplayResult{Before: slices.Clone(layout.Order)}

	gopts := grid.Options{
		PrePush:       opts.Settings.PrePush,
		PushAnimation: opts.Settings.PushAnimation,
		DropAnimation: opts.Settings.DropAnimation,
		Disabled:      opts.Settings.SortLocked,
		NoCombine:     tr.Folder != "",
		Logger:        opts.Logger,
		Hooks: grid.Hooks{
			OnEnd:    func(r grid.Result) { res.Results = append(res.Results, r) },
			OnCancel: func(r grid.CancelReason) { res.Cancels = append(res.Cancels, r) },
		},
	}
	if gopts.Style, err = grid.ParseVisualStyle(opts.Settings.VisualStyle); err != nil {
		return nil, err
	}
	engine := grid.New(NewHost(layout, store, tr.Folder), gopts)

	epoch := time.Unix(0, 0)
	at := func(ms int64) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

	drain := func() error {
		for _, task := range engine.TakeTasks() {
			res.Tasks = append(res.Tasks, task.Name)
			if !opts.Apply {
				continue
			}
			if err := task.Run(ctx); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
		}
		return nil
	}

	step := frameInterval.Milliseconds()
	var clock int64
	advance := func(to int64) error {
		for clock+step <= to && !engine.Idle() {
			clock += step
			engine.Frame(at(clock))
			if err := drain(); err != nil {
				return err
			}
		}
		clock = to
		return nil
	}

	for _, ev := range tr.Events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := advance(ev.TMs); err != nil {
			return nil, err
		}
		now := at(ev.TMs)
		p := grid.Point{X: (ev.X + 0.5) * UnitsPerCol, Y: (ev.Y + 0.5) * UnitsPerLine}

		switch ev.Type {
		case EventPress:
			id, ok := layout.TileAt(int(math.Floor(ev.X)), int(math.Floor(ev.Y)))
			if !ok || !engine.Press(id, p, now) {
				res.Misses++
			}
		case EventMove:
			engine.Move(p, now)
		case EventRelease:
			engine.Release(p, now)
		case EventFrame:
			engine.Frame(now)
		case EventCancel:
			reason, _ := parseCancelReason(ev.Reason)
			engine.Cancel(reason)
		}
		if err := drain(); err != nil {
			return nil, err
		}
	}

	if err := advance(clock + maxSettle.Milliseconds()); err != nil {
		return nil, err
	}
	res.After = slices.Clone(layout.Order)
	return res, nil
}

func loadItemsFor(store Store, folderID string) ([]models.Item, error) {
	if folderID == "" {
		return store.ListTopLevel()
	}
	return store.ListChildren(folderID)
}

package grid

import (
	"context"
	"fmt"
	"log/slog"
)

// Host is everything the engine needs from its surroundings: the display
// order, item metadata, live tile geometry and the persistence operations
// invoked when a drag resolves.
//
// The engine is the only writer of the display order while a session is
// active. MergeIntoFolder, CreateFolder and PersistReorder are never called
// from inside a frame; they are wrapped in Tasks for the host to run.
type Host interface {
	GeometrySource

	VisibleOrder() []string
	SetVisibleOrder(order []string)
	Item(id string) (Item, bool)

	MergeIntoFolder(ctx context.Context, draggedID, folderID string) error
	CreateFolder(ctx context.Context, targetID, incomingID string, originalOrder []string) error
	PersistReorder(ctx context.Context, order []string) error
}

// VisualStyle selects presentation details that differ between hosts.
type VisualStyle int

const (
	// StyleGrid lifts the overlay slightly while dragging.
	StyleGrid VisualStyle = iota
	// StyleDock shrinks the pressed tile before the drag is confirmed and
	// keeps the overlay at the tile's exact width.
	StyleDock
)

// String returns the string representation of the style
func (s VisualStyle) String() string {
	switch s {
	case StyleGrid:
		return "grid"
	case StyleDock:
		return "dock"
	default:
		return "unknown"
	}
}

// ParseVisualStyle parses "grid" or "dock". The empty string means grid.
func ParseVisualStyle(s string) (VisualStyle, error) {
	switch s {
	case "", "grid":
		return StyleGrid, nil
	case "dock":
		return StyleDock, nil
	default:
		return StyleGrid, fmt.Errorf("unknown visual style %q (want grid or dock)", s)
	}
}

// Hooks are optional session lifecycle callbacks. They run synchronously on
// the caller's goroutine.
type Hooks struct {
	OnStart  func(State)
	OnUpdate func(State)
	OnEnd    func(Result)
	OnCancel func(CancelReason)
}

// Options are the host-provided toggles.
type Options struct {
	// PrePush applies reorders to the display order live during the drag
	// instead of only on release.
	PrePush bool
	// PushAnimation animates tiles displaced by a reorder.
	PushAnimation bool
	// DropAnimation eases the released tile into its final slot.
	DropAnimation bool
	// Disabled rejects every press (e.g. when the sort order is locked).
	Disabled bool
	// NoCombine turns every drag into a plain reorder, for lists whose
	// entries cannot hold folders.
	NoCombine bool

	Style  VisualStyle
	Logger *slog.Logger
	Hooks  Hooks
}

// DefaultOptions returns pre-push with both animations enabled.
func DefaultOptions() Options {
	return Options{PrePush: true, PushAnimation: true, DropAnimation: true}
}

// Task is deferred work produced by a session transition: a merge, a folder
// creation or an order write. Hosts run tasks outside the frame loop.
type Task struct {
	Name      string
	SessionID string
	Run       func(ctx context.Context) error
}

const (
	TaskPersistReorder  = "persist-reorder"
	TaskMergeIntoFolder = "merge-into-folder"
	TaskCreateFolder    = "create-folder"
)

package grid

import (
	"context"
	"slices"
	"time"
)

// fakeHost lays tiles out in a fixed-column grid from the current order. The
// dragged tile keeps its slot, like a hidden DOM element would.
type fakeHost struct {
	order   []string
	kinds   map[string]Kind
	cols    int
	size    float64
	gap     float64
	missing map[string]bool

	sets      int
	merges    [][2]string
	creates   []createCall
	persisted [][]string
	failWith  error
}

type createCall struct {
	target, incoming string
	original         []string
}

func newFakeHost(cols int, ids ...string) *fakeHost {
	h := &fakeHost{
		order:   slices.Clone(ids),
		kinds:   make(map[string]Kind),
		cols:    cols,
		size:    100,
		gap:     20,
		missing: make(map[string]bool),
	}
	for _, id := range ids {
		h.kinds[id] = KindLink
	}
	return h
}

func (h *fakeHost) folder(ids ...string) *fakeHost {
	for _, id := range ids {
		h.kinds[id] = KindFolder
	}
	return h
}

// slot returns the rect of grid position i.
func (h *fakeHost) slot(i int) Rect {
	row, col := i/h.cols, i%h.cols
	step := h.size + h.gap
	return Rect{Top: float64(row) * step, Left: float64(col) * step, Width: h.size, Height: h.size}
}

// center returns the center of the tile currently showing id.
func (h *fakeHost) center(id string) Point {
	r, _ := h.TileRect(id)
	return r.Center()
}

func (h *fakeHost) TileRect(id string) (Rect, bool) {
	if h.missing[id] {
		return Rect{}, false
	}
	i := slices.Index(h.order, id)
	if i < 0 {
		return Rect{}, false
	}
	return h.slot(i), true
}

func (h *fakeHost) VisibleOrder() []string { return h.order }

func (h *fakeHost) SetVisibleOrder(order []string) {
	h.sets++
	h.order = slices.Clone(order)
}

func (h *fakeHost) Item(id string) (Item, bool) {
	k, ok := h.kinds[id]
	if !ok {
		return Item{}, false
	}
	return Item{ID: id, Kind: k}, true
}

func (h *fakeHost) MergeIntoFolder(_ context.Context, draggedID, folderID string) error {
	h.merges = append(h.merges, [2]string{draggedID, folderID})
	return h.failWith
}

func (h *fakeHost) CreateFolder(_ context.Context, targetID, incomingID string, originalOrder []string) error {
	h.creates = append(h.creates, createCall{targetID, incomingID, slices.Clone(originalOrder)})
	return h.failWith
}

func (h *fakeHost) PersistReorder(_ context.Context, order []string) error {
	h.persisted = append(h.persisted, slices.Clone(order))
	return h.failWith
}

// runTasks drains and runs the engine's deferred work synchronously.
func runTasks(e *Engine) []error {
	var errs []error
	for _, task := range e.TakeTasks() {
		if err := task.Run(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

var epoch = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

// settle runs frames until the engine is idle or the budget runs out.
func settle(e *Engine, from int) int {
	t := from
	for i := 0; i < 100 && !e.Idle(); i++ {
		t += 16
		e.Frame(at(t))
	}
	return t
}

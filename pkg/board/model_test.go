package board

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/startpage/internal/config"
	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

// Cells used below assume an 80-column window: four 18x5 tiles per row
// starting at (1, 2) with one cell of gap.
var (
	cellA   = [2]int{9, 4}  // center of slot 0
	cellC   = [2]int{47, 4} // center of slot 2
	cellGap = [2]int{38, 4} // gap between slots 1 and 2
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) at(ms int) time.Time {
	c.t = time.Unix(1_700_000_000, 0).Add(time.Duration(ms) * time.Millisecond)
	return c.t
}

type harness struct {
	t      *testing.T
	m      Model
	clock  *fakeClock
	copied []string
}

func newTestStore(t *testing.T, titles ...string) (*db.DB, []string) {
	t.Helper()
	store, err := db.Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ids := make([]string, len(titles))
	for i, title := range titles {
		item, err := store.CreateLink(title, "https://"+title+".example")
		if err != nil {
			t.Fatalf("CreateLink failed: %v", err)
		}
		ids[i] = item.ID
	}
	return store, ids
}

func newHarness(t *testing.T, store Store, mutate ...func(*Config)) *harness {
	t.Helper()
	h := &harness{t: t, clock: &fakeClock{}}
	h.clock.at(0)
	cfg := Config{
		Store:     store,
		Settings:  models.DefaultConfig(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       h.clock.Now,
		Clipboard: func(s string) error { h.copied = append(h.copied, s); return nil },
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	h.m = New(cfg)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.run(h.m.Init())
	return h
}

// send delivers msg and runs whatever it returns
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.run(cmd)
}

// run executes cmd and feeds the results back, skipping frame ticks and
// status timers, which the tests drive themselves
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case frameMsg, ClearStatusMsg:
			continue
		}
		h.send(msg)
	}
}

// collect runs cmd and any batched commands concurrently and returns the
// messages they produce. Commands still blocked after a short window, such
// as status timers, are abandoned.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 64)
	var wg sync.WaitGroup
	var spawn func(c tea.Cmd)
	spawn = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, b := range batch {
					spawn(b)
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	spawn(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var msgs []tea.Msg
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-done:
			for {
				select {
				case msg := <-out:
					msgs = append(msgs, msg)
				default:
					return msgs
				}
			}
		case <-timeout:
			return msgs
		}
	}
}

func (h *harness) mouse(action tea.MouseAction, cell [2]int, ms int) {
	h.t.Helper()
	h.clock.at(ms)
	h.send(tea.MouseMsg{X: cell[0], Y: cell[1], Action: action, Button: tea.MouseButtonLeft})
}

func (h *harness) frame(ms int) {
	h.t.Helper()
	h.send(frameMsg(h.clock.at(ms)))
}

// settle frames until the engine is idle and any deferred reload landed
func (h *harness) settle(from int) {
	h.t.Helper()
	ms := from
	for i := 0; i < 100; i++ {
		if h.m.engine.Idle() && !h.m.ticking && h.m.pending == nil {
			return
		}
		ms += 16
		h.frame(ms)
	}
	h.t.Fatalf("board did not settle, phase %v", h.m.engine.Phase())
}

func (h *harness) key(s string) {
	h.t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	h.send(msg)
}

func TestBoardLoadsItems(t *testing.T) {
	store, ids := newTestStore(t, "alpha", "beta", "gamma")
	h := newHarness(t, store)

	if !slices.Equal(h.m.Order(), ids) {
		t.Errorf("order = %v, want %v", h.m.Order(), ids)
	}
	if h.m.layout.Cols != 4 {
		t.Errorf("cols = %d, want 4", h.m.layout.Cols)
	}

	view := ansi.Strip(h.m.View())
	for _, want := range []string{"alpha", "beta", "gamma", "+ add", "startpage"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoardEmptyView(t *testing.T) {
	store, _ := newTestStore(t)
	h := newHarness(t, store)
	if view := ansi.Strip(h.m.View()); !strings.Contains(view, "No bookmarks yet") {
		t.Errorf("empty view = %q", view)
	}
}

func TestMouseReorder(t *testing.T) {
	store, ids := newTestStore(t, "a", "b", "c", "d", "e", "f")
	a, b := ids[0], ids[1]
	h := newHarness(t, store)

	h.mouse(tea.MouseActionPress, cellA, 0)
	if h.m.engine.Phase() != grid.PhasePressed {
		t.Fatalf("phase = %v, want pressed", h.m.engine.Phase())
	}
	h.mouse(tea.MouseActionMotion, cellGap, 200)
	h.frame(216)

	want := append([]string{b, a}, ids[2:]...)
	if !slices.Equal(h.m.Order(), want) {
		t.Fatalf("pre-pushed order = %v, want %v", h.m.Order(), want)
	}
	if view := ansi.Strip(h.m.View()); !strings.Contains(view, "dragging a") {
		t.Errorf("footer should describe the drag, got %q", view)
	}

	h.mouse(tea.MouseActionRelease, cellGap, 232)
	h.settle(232)

	got, err := store.TopLevelOrder()
	if err != nil {
		t.Fatalf("TopLevelOrder failed: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("stored order = %v, want %v", got, want)
	}
	if !slices.Equal(h.m.Order(), want) {
		t.Errorf("board order = %v, want %v", h.m.Order(), want)
	}
}

// folderStore returns links a, b and a folder holding d and c, at the top
// level in that order
func folderStore(t *testing.T) (*db.DB, []string, string) {
	t.Helper()
	store, ids := newTestStore(t, "a", "b", "c", "d")
	folder, err := store.CreateFolder(ids[3], ids[2], ids)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	return store, ids, folder.ID
}

func TestMouseMergeIntoFolder(t *testing.T) {
	store, ids, folderID := folderStore(t)
	h := newHarness(t, store)

	if want := []string{ids[0], ids[1], folderID}; !slices.Equal(h.m.Order(), want) {
		t.Fatalf("order = %v, want %v", h.m.Order(), want)
	}

	h.mouse(tea.MouseActionPress, cellA, 0)
	h.mouse(tea.MouseActionMotion, cellC, 100)
	h.frame(116)
	if h.m.frame.TargetID != folderID {
		t.Fatalf("target = %q, want the folder", h.m.frame.TargetID)
	}

	h.mouse(tea.MouseActionRelease, cellC, 132)
	if h.m.engine.Phase() != grid.PhaseMerging {
		t.Fatalf("phase = %v, want merging", h.m.engine.Phase())
	}
	h.settle(132)

	if want := []string{ids[1], folderID}; !slices.Equal(h.m.Order(), want) {
		t.Errorf("board order = %v, want %v", h.m.Order(), want)
	}
	children, err := store.ListChildren(folderID)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(children) != 3 || children[2].ID != ids[0] {
		t.Errorf("children = %+v, want a appended", children)
	}
}

func TestClickOpensFolder(t *testing.T) {
	store, ids, folderID := folderStore(t)
	h := newHarness(t, store)

	h.mouse(tea.MouseActionPress, cellC, 0)
	h.mouse(tea.MouseActionRelease, cellC, 40)

	if h.m.FolderID != folderID {
		t.Fatalf("folder = %q, want %q", h.m.FolderID, folderID)
	}
	if want := []string{ids[3], ids[2]}; !slices.Equal(h.m.Order(), want) {
		t.Errorf("folder order = %v, want %v", h.m.Order(), want)
	}
	if !h.m.engine.Options().NoCombine {
		t.Error("combining should be off inside a folder")
	}
	if view := ansi.Strip(h.m.View()); !strings.Contains(view, "‹ back") {
		t.Error("folder view should offer a back button")
	}

	h.key("esc")
	if h.m.FolderID != "" {
		t.Fatalf("folder = %q after esc, want top level", h.m.FolderID)
	}
	if got, _ := h.m.selectedID(); got != folderID {
		t.Errorf("selected = %q, want the folder that was open", got)
	}
}

func TestReorderInsideFolder(t *testing.T) {
	store, ids, folderID := folderStore(t)
	h := newHarness(t, store)
	h.mouse(tea.MouseActionPress, cellC, 0)
	h.mouse(tea.MouseActionRelease, cellC, 40)

	// d then c; drag d past c
	h.mouse(tea.MouseActionPress, cellA, 100)
	h.mouse(tea.MouseActionMotion, cellGap, 300)
	h.frame(316)
	h.mouse(tea.MouseActionRelease, cellGap, 332)
	h.settle(332)

	children, err := store.ListChildren(folderID)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(children) != 2 || children[0].ID != ids[2] || children[1].ID != ids[3] {
		t.Errorf("children = %+v, want c then d", children)
	}
}

func TestMoveOutEmptiesFolder(t *testing.T) {
	store, ids, _ := folderStore(t)
	h := newHarness(t, store)
	h.mouse(tea.MouseActionPress, cellC, 0)
	h.mouse(tea.MouseActionRelease, cellC, 40)

	h.key("x")
	h.key("x")

	if h.m.FolderID != "" {
		t.Errorf("folder = %q, want top level once the folder emptied", h.m.FolderID)
	}
	want := []string{ids[0], ids[1], ids[3], ids[2]}
	if got, _ := store.TopLevelOrder(); !slices.Equal(got, want) {
		t.Errorf("stored order = %v, want %v", got, want)
	}
}

func TestClickCopiesLinkURL(t *testing.T) {
	store, _ := newTestStore(t, "a", "b")
	h := newHarness(t, store)

	h.mouse(tea.MouseActionPress, cellA, 0)
	h.mouse(tea.MouseActionRelease, cellA, 50)

	if len(h.copied) != 1 || h.copied[0] != "https://a.example" {
		t.Errorf("copied = %v, want a's url", h.copied)
	}
	if !strings.Contains(h.m.StatusMessage, "Copied") {
		t.Errorf("status = %q", h.m.StatusMessage)
	}
}

func TestBlurCancelsDrag(t *testing.T) {
	store, ids := newTestStore(t, "a", "b", "c", "d")
	h := newHarness(t, store)

	h.mouse(tea.MouseActionPress, cellA, 0)
	h.mouse(tea.MouseActionMotion, cellGap, 200)
	h.frame(216)
	if slices.Equal(h.m.Order(), ids) {
		t.Fatal("expected a pre-pushed order")
	}

	h.send(tea.BlurMsg{})
	if !h.m.engine.Idle() {
		t.Errorf("phase = %v, want idle", h.m.engine.Phase())
	}
	if !slices.Equal(h.m.Order(), ids) {
		t.Errorf("order = %v, want %v restored", h.m.Order(), ids)
	}
	if got, _ := store.TopLevelOrder(); !slices.Equal(got, ids) {
		t.Errorf("stored order = %v, want unchanged", got)
	}
}

func TestEscCancelsDrag(t *testing.T) {
	store, ids := newTestStore(t, "a", "b", "c", "d")
	h := newHarness(t, store)

	h.mouse(tea.MouseActionPress, cellA, 0)
	h.mouse(tea.MouseActionMotion, cellGap, 200)
	h.frame(216)
	h.key("esc")
	h.mouse(tea.MouseActionRelease, cellGap, 240)

	if !slices.Equal(h.m.Order(), ids) {
		t.Errorf("order = %v, want %v", h.m.Order(), ids)
	}
	if len(h.copied) != 0 {
		t.Error("release after cancel must not activate the tile")
	}
}

func TestLockedOrder(t *testing.T) {
	store, ids := newTestStore(t, "a", "b", "c")
	h := newHarness(t, store, func(c *Config) { c.Settings.SortLocked = true })

	h.mouse(tea.MouseActionPress, cellA, 0)
	h.mouse(tea.MouseActionMotion, cellGap, 200)
	h.frame(216)
	if !slices.Equal(h.m.Order(), ids) {
		t.Errorf("order = %v, want unchanged while locked", h.m.Order())
	}
	h.mouse(tea.MouseActionRelease, cellGap, 240)
	if len(h.copied) != 0 {
		t.Error("release away from the pressed tile should not open it")
	}

	h.mouse(tea.MouseActionPress, cellA, 300)
	h.mouse(tea.MouseActionRelease, cellA, 320)
	if len(h.copied) != 1 {
		t.Errorf("copied = %v, want a click to still open while locked", h.copied)
	}
}

func TestKeyToggles(t *testing.T) {
	store, _ := newTestStore(t, "a")
	dir := t.TempDir()
	h := newHarness(t, store, func(c *Config) { c.BaseDir = dir })

	h.key("l")
	if !h.m.Settings.SortLocked || !h.m.engine.Options().Disabled {
		t.Error("l should lock the order")
	}
	h.key("p")
	if h.m.Settings.PrePush || h.m.engine.Options().PrePush {
		t.Error("p should turn pre-push off")
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.SortLocked || cfg.PrePush {
		t.Errorf("saved config = %+v, want locked with pre-push off", cfg)
	}
}

func TestKeyboardSelection(t *testing.T) {
	store, _ := newTestStore(t, "a", "b", "c", "d", "e", "f")
	h := newHarness(t, store)

	tests := []struct {
		key  string
		want int
	}{
		{"right", 1},
		{"j", 5},
		{"j", 5},
		{"h", 4},
		{"k", 0},
		{"h", 0},
	}
	for _, tt := range tests {
		switch tt.key {
		case "right":
			h.send(tea.KeyMsg{Type: tea.KeyRight})
		default:
			h.key(tt.key)
		}
		if h.m.Selected != tt.want {
			t.Fatalf("after %s selected = %d, want %d", tt.key, h.m.Selected, tt.want)
		}
	}

	h.key("y")
	if len(h.copied) != 1 || h.copied[0] != "https://a.example" {
		t.Errorf("copied = %v", h.copied)
	}
}

type failingStore struct {
	Store
	err error
}

func (s failingStore) ReorderIn(string, []string) error {
	return s.err
}

func TestTaskFailureReloads(t *testing.T) {
	store, ids := newTestStore(t, "a", "b", "c", "d")
	h := newHarness(t, failingStore{Store: store, err: errors.New("disk full")})

	h.mouse(tea.MouseActionPress, cellA, 0)
	h.mouse(tea.MouseActionMotion, cellGap, 200)
	h.frame(216)
	h.mouse(tea.MouseActionRelease, cellGap, 232)
	h.settle(232)

	if !h.m.StatusIsError || !strings.Contains(h.m.StatusMessage, "disk full") {
		t.Errorf("status = %q (error %v), want the failure", h.m.StatusMessage, h.m.StatusIsError)
	}
	if !slices.Equal(h.m.Order(), ids) {
		t.Errorf("order = %v, want the stored order %v after reload", h.m.Order(), ids)
	}
}

func TestAddForm(t *testing.T) {
	store, _ := newTestStore(t, "a")
	h := newHarness(t, store)

	h.key("a")
	if !h.m.FormOpen {
		t.Fatal("a should open the add form")
	}
	h.key("esc")
	if h.m.FormOpen {
		t.Fatal("esc should close the form")
	}

	fs := NewFormState("", "")
	fs.URL = "example.com/docs"
	h.send(addLink(store, fs)())

	order := h.m.Order()
	if len(order) != 2 {
		t.Fatalf("order = %v, want the new link appended", order)
	}
	if h.m.Selected != 1 {
		t.Errorf("selected = %d, want the new link", h.m.Selected)
	}
	added := h.m.layout.Items[order[1]]
	if added.URL != "https://example.com/docs" || added.Title != added.URL {
		t.Errorf("added = %+v", added)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"https://example.com", false},
		{"example.com", false},
		{"  ", true},
		{"https://", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	store, _ := newTestStore(t, "a")
	h := newHarness(t, store)

	h.key("?")
	if !h.m.HelpOpen {
		t.Fatal("? should open help")
	}
	if h.m.helpText == "" {
		t.Error("help text was not rendered")
	}
	h.key("?")
	if h.m.HelpOpen {
		t.Error("? should close help")
	}
}

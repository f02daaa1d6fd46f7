package board

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

const (
	frameInterval = 16 * time.Millisecond
	taskTimeout   = 5 * time.Second
	statusTimeout = 2 * time.Second

	gridOriginX = 1
	gridOriginY = 2
)

var zoneOnce sync.Once

// Config are the dependencies of a board
type Config struct {
	Store    Store
	BaseDir  string // where settings changes are persisted, empty to keep them in memory
	Settings models.Config
	Logger   *slog.Logger

	// Now and Clipboard default to time.Now and the system clipboard
	Now       func() time.Time
	Clipboard func(string) error
}

// Model is the Bubble Tea model for the bookmark board
type Model struct {
	Store    Store
	BaseDir  string
	Settings models.Config

	// Window dimensions
	Width  int
	Height int

	layout  *Layout
	host    *Host
	engine  *grid.Engine
	frame   grid.Frame
	ticking bool

	// Open folder, empty at the top level
	FolderID    string
	FolderTitle string

	Selected int    // keyboard cursor into the display order
	selectID string // id to select once the next load lands

	// lockedPress is the tile pressed while the order is locked; releasing
	// on it still opens it
	lockedPress string

	// Reload that arrived mid-drag, applied once the engine is idle
	pending *itemsLoadedMsg

	StatusMessage string
	StatusIsError bool

	HelpOpen bool
	helpText string

	FormOpen  bool
	FormState *FormState

	keys      keyMap
	help      help.Model
	log       *slog.Logger
	now       func() time.Time
	clipboard func(string) error
}

// New creates a board model showing the top level
func New(cfg Config) Model {
	zoneOnce.Do(zone.NewGlobal)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	copyFn := cfg.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	tw, th := cfg.Settings.TileSize()
	layout := NewLayout(tw, th)
	layout.OriginX, layout.OriginY = gridOriginX, gridOriginY

	m := Model{
		Store:     cfg.Store,
		BaseDir:   cfg.BaseDir,
		Settings:  cfg.Settings,
		layout:    layout,
		keys:      defaultKeyMap(),
		help:      help.New(),
		log:       logger,
		now:       now,
		clipboard: copyFn,
	}
	m.rebind()
	return m
}

// rebind creates a fresh host and engine for the open list
func (m *Model) rebind() {
	m.host = NewHost(m.layout, m.Store, m.FolderID)
	m.engine = grid.New(m.host, m.engineOptions())
	m.frame = grid.Frame{}
	m.ticking = false
	m.pending = nil
}

func (m *Model) engineOptions() grid.Options {
	style, err := grid.ParseVisualStyle(m.Settings.VisualStyle)
	if err != nil {
		m.log.Warn("board: bad visual style", "style", m.Settings.VisualStyle, "err", err)
	}
	return grid.Options{
		PrePush:       m.Settings.PrePush,
		PushAnimation: m.Settings.PushAnimation,
		DropAnimation: m.Settings.DropAnimation,
		Disabled:      m.Settings.SortLocked,
		NoCombine:     m.FolderID != "",
		Style:         style,
		Logger:        m.log,
	}
}

// Order returns the current display order
func (m Model) Order() []string {
	return slices.Clone(m.layout.Order)
}

// Engine returns the drag engine for the open list
func (m Model) Engine() *grid.Engine {
	return m.engine
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.loadItems()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// startFrames starts the frame loop unless it is already running
func (m *Model) startFrames() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(statusTimeout, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMessage = msg
	m.StatusIsError = isErr
	return clearStatusAfter()
}

// selectedID returns the id under the keyboard cursor
func (m Model) selectedID() (string, bool) {
	if m.Selected < 0 || m.Selected >= len(m.layout.Order) {
		return "", false
	}
	return m.layout.Order[m.Selected], true
}

func (m *Model) applyItems(items []models.Item) {
	m.layout.SetItems(items)
	if m.selectID != "" {
		if i := slices.Index(m.layout.Order, m.selectID); i >= 0 {
			m.Selected = i
		}
		m.selectID = ""
	}
	m.Selected = clampIndex(m.Selected, len(m.layout.Order))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}

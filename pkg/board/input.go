package board

import (
	"errors"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	zone "github.com/lrstanley/bubblezone"

	"github.com/marcus/startpage/internal/config"
	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

// Toolbar click zones
const (
	zoneBack    = "startpage-back"
	zoneAdd     = "startpage-add"
	zoneLock    = "startpage-lock"
	zonePrePush = "startpage-prepush"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.layout.Fit(m.Width)
		m.help.Width = msg.Width
		if m.HelpOpen {
			return m, renderHelp(m.helpWidth())
		}
		return m, nil

	case tea.KeyMsg:
		if m.FormOpen {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.FormOpen {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.BlurMsg:
		m.engine.Cancel(grid.CancelBlur)
		m.lockedPress = ""
		return m, nil

	case frameMsg:
		return m.handleFrame(time.Time(msg))

	case itemsLoadedMsg:
		return m.handleItemsLoaded(msg)

	case taskDoneMsg:
		return m.handleTaskDone(msg)

	case itemAddedMsg:
		if msg.Err != nil {
			m.log.Error("board: add failed", "err", msg.Err)
			return m, m.setStatus("Failed to add: "+msg.Err.Error(), true)
		}
		m.selectID = msg.Item.ID
		return m, tea.Batch(m.setStatus("Added "+msg.Item.Label(), false), m.loadItems())

	case movedOutMsg:
		if msg.Err != nil {
			m.log.Error("board: move out failed", "id", msg.ID, "err", msg.Err)
			return m, m.setStatus("Failed to move out: "+msg.Err.Error(), true)
		}
		return m, tea.Batch(m.setStatus("Moved to top level", false), m.loadItems())

	case helpRenderedMsg:
		if msg.Err != nil {
			m.helpText = Guide
		} else {
			m.helpText = msg.Text
		}
		return m, nil

	case ClearStatusMsg:
		m.StatusMessage = ""
		m.StatusIsError = false
		return m, nil
	}

	// huh sends its own messages while a form is open
	if m.FormOpen {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	m.frame = m.engine.Frame(now)
	cmds := m.runTasks()

	if m.engine.Idle() && !m.frame.Animating {
		m.ticking = false
		if m.pending != nil {
			m.applyItems(m.pending.Items)
			m.pending = nil
		}
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, tick())
	return m, tea.Batch(cmds...)
}

func (m Model) handleItemsLoaded(msg itemsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.ParentID != m.FolderID {
		return m, nil
	}
	if msg.Err != nil {
		if msg.ParentID != "" && errors.Is(msg.Err, db.ErrNotFound) {
			// The folder was emptied and removed
			return m.leaveFolder()
		}
		m.log.Error("board: load failed", "parent", msg.ParentID, "err", msg.Err)
		return m, m.setStatus("Failed to load: "+msg.Err.Error(), true)
	}
	if !m.engine.Idle() {
		m.pending = &msg
		return m, nil
	}
	m.applyItems(msg.Items)
	return m, nil
}

func (m Model) handleTaskDone(msg taskDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Error("board: task failed", "task", msg.Name, "session", msg.SessionID, "err", msg.Err)
		// The store is the source of truth after a failed write
		return m, tea.Batch(m.setStatus("Failed to "+taskVerb(msg.Name)+": "+msg.Err.Error(), true), m.loadItems())
	}
	m.log.Debug("board: task done", "task", msg.Name, "session", msg.SessionID)
	switch msg.Name {
	case grid.TaskMergeIntoFolder, grid.TaskCreateFolder:
		return m, m.loadItems()
	}
	return m, nil
}

// handleKey processes key input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.HelpOpen {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.HelpOpen = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Cancel(grid.CancelHost)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if !m.engine.Idle() {
			m.engine.Cancel(grid.CancelPointer)
			m.frame = grid.Frame{}
			return m, nil
		}
		if m.FolderID != "" {
			return m.leaveFolder()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.HelpOpen = true
		return m, renderHelp(m.helpWidth())
	}

	// Everything below would fight an active drag over the order
	if !m.engine.Idle() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-m.layout.Cols)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.layout.Cols)

	case key.Matches(msg, m.keys.Open):
		if id, ok := m.selectedID(); ok {
			return m.activate(id)
		}
	case key.Matches(msg, m.keys.Yank):
		if id, ok := m.selectedID(); ok {
			return m.yank(id)
		}
	case key.Matches(msg, m.keys.Add):
		return m.openForm()
	case key.Matches(msg, m.keys.MoveOut):
		if id, ok := m.selectedID(); ok && m.FolderID != "" {
			return m, moveOut(m.Store, id)
		}
	case key.Matches(msg, m.keys.Lock):
		return m.toggleLock()
	case key.Matches(msg, m.keys.PrePush):
		return m.togglePrePush()
	}
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	n := len(m.layout.Order)
	if n == 0 {
		return
	}
	next := m.Selected + delta
	if next < 0 || next >= n {
		return
	}
	m.Selected = next
}

// handleMouse maps terminal mouse events onto the drag engine
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.HelpOpen {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.HelpOpen = false
		}
		return m, nil
	}

	now := m.now()
	p := Point(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if msg.Y < m.layout.OriginY {
			return m.handleToolbarClick(msg)
		}
		id, ok := m.layout.TileAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.Selected = slices.Index(m.layout.Order, id)
		if !m.engine.Press(id, p, now) {
			if m.Settings.SortLocked {
				m.lockedPress = id
			}
			return m, nil
		}
		return m, m.startFrames()

	case tea.MouseActionMotion:
		if m.engine.Idle() {
			return m, nil
		}
		m.engine.Move(p, now)
		return m, m.startFrames()

	case tea.MouseActionRelease:
		if m.lockedPress != "" {
			pressed := m.lockedPress
			m.lockedPress = ""
			if id, ok := m.layout.TileAt(msg.X, msg.Y); ok && id == pressed {
				return m.activate(id)
			}
			return m, nil
		}
		s := m.engine.Session()
		if s == nil {
			return m, nil
		}
		id := s.ActiveID
		if m.engine.Release(p, now) == grid.OutcomeClick {
			return m.activate(id)
		}
		return m, m.startFrames()
	}
	return m, nil
}

func (m Model) handleToolbarClick(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.FolderID != "" && zone.Get(zoneBack).InBounds(msg):
		return m.leaveFolder()
	case zone.Get(zoneAdd).InBounds(msg):
		return m.openForm()
	case zone.Get(zoneLock).InBounds(msg):
		return m.toggleLock()
	case zone.Get(zonePrePush).InBounds(msg):
		return m.togglePrePush()
	}
	return m, nil
}

// activate opens a folder, or copies a link's url
func (m Model) activate(id string) (tea.Model, tea.Cmd) {
	item, ok := m.layout.Items[id]
	if !ok {
		return m, nil
	}
	if item.IsFolder() {
		return m.enterFolder(item)
	}
	return m.yank(id)
}

func (m Model) yank(id string) (tea.Model, tea.Cmd) {
	item, ok := m.layout.Items[id]
	if !ok || item.URL == "" {
		return m, nil
	}
	if err := m.clipboard(item.URL); err != nil {
		return m, m.setStatus("Copy failed: "+err.Error(), true)
	}
	return m, m.setStatus("Copied "+item.URL, false)
}

func (m Model) enterFolder(folder models.Item) (tea.Model, tea.Cmd) {
	m.engine.Cancel(grid.CancelHost)
	m.FolderID = folder.ID
	m.FolderTitle = folder.Label()
	m.Selected = 0
	m.layout.SetItems(nil)
	m.rebind()
	m.log.Debug("board: open folder", "folder", folder.ID)
	return m, m.loadItems()
}

func (m Model) leaveFolder() (tea.Model, tea.Cmd) {
	m.engine.Cancel(grid.CancelHost)
	m.selectID = m.FolderID
	m.FolderID = ""
	m.FolderTitle = ""
	m.layout.SetItems(nil)
	m.rebind()
	return m, m.loadItems()
}

func (m Model) toggleLock() (tea.Model, tea.Cmd) {
	m.Settings.SortLocked = !m.Settings.SortLocked
	m.engine.SetOptions(m.engineOptions())
	if m.BaseDir != "" {
		if err := config.SetSortLocked(m.BaseDir, m.Settings.SortLocked); err != nil {
			return m, m.setStatus("Failed to save settings: "+err.Error(), true)
		}
	}
	if m.Settings.SortLocked {
		return m, m.setStatus("Order locked", false)
	}
	return m, m.setStatus("Order unlocked", false)
}

func (m Model) togglePrePush() (tea.Model, tea.Cmd) {
	m.Settings.PrePush = !m.Settings.PrePush
	m.engine.SetOptions(m.engineOptions())
	if m.BaseDir != "" {
		if err := config.SetPrePush(m.BaseDir, m.Settings.PrePush); err != nil {
			return m, m.setStatus("Failed to save settings: "+err.Error(), true)
		}
	}
	if m.Settings.PrePush {
		return m, m.setStatus("Pre-push on", false)
	}
	return m, m.setStatus("Pre-push off", false)
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.engine.Cancel(grid.CancelHost)
	m.FormState = NewFormState(m.FolderID, m.FolderTitle)
	m.FormOpen = true
	return m, m.FormState.Form.Init()
}

func (m Model) closeForm() Model {
	m.FormOpen = false
	m.FormState = nil
	return m
}

// updateForm forwards a message to the add form
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.FormState.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.FormState.Form = f
	}

	switch m.FormState.Form.State {
	case huh.StateCompleted:
		fs := m.FormState
		return m.closeForm(), addLink(m.Store, fs)
	case huh.StateAborted:
		return m.closeForm(), nil
	}
	return m, cmd
}

func (m Model) helpWidth() int {
	return min(max(m.Width-6, 20), 80)
}

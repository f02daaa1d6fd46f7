package board

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/internal/output"
	"github.com/marcus/startpage/pkg/grid"
)

// frameMsg drives the engine while a drag or animation is live
type frameMsg time.Time

// itemsLoadedMsg carries a freshly read list
type itemsLoadedMsg struct {
	ParentID string
	Items    []models.Item
	Err      error
}

// taskDoneMsg reports a finished engine task
type taskDoneMsg struct {
	Name      string
	SessionID string
	Err       error
}

type itemAddedMsg struct {
	Item *models.Item
	Err  error
}

type movedOutMsg struct {
	ID  string
	Err error
}

type helpRenderedMsg struct {
	Text string
	Err  error
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}

func loadList(store Store, parentID string) tea.Cmd {
	return func() tea.Msg {
		items, err := loadItemsFor(store, parentID)
		return itemsLoadedMsg{ParentID: parentID, Items: items, Err: err}
	}
}

func (m Model) loadItems() tea.Cmd {
	return loadList(m.Store, m.FolderID)
}

// runTasks turns the engine's deferred work into commands
func (m Model) runTasks() []tea.Cmd {
	tasks := m.engine.TakeTasks()
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, task := range tasks {
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
			defer cancel()
			return taskDoneMsg{Name: task.Name, SessionID: task.SessionID, Err: task.Run(ctx)}
		})
	}
	return cmds
}

func addLink(store Store, fs *FormState) tea.Cmd {
	title, link := fs.Values()
	folderID := fs.FolderID
	return func() tea.Msg {
		item, err := store.CreateLinkIn(folderID, title, link)
		return itemAddedMsg{Item: item, Err: err}
	}
}

func moveOut(store Store, id string) tea.Cmd {
	return func() tea.Msg {
		return movedOutMsg{ID: id, Err: store.MoveOutOfFolder(id)}
	}
}

func renderHelp(width int) tea.Cmd {
	return func() tea.Msg {
		text, err := output.RenderMarkdownWithWidth(Guide, width, "dark")
		return helpRenderedMsg{Text: text, Err: err}
	}
}

func taskVerb(name string) string {
	switch name {
	case grid.TaskPersistReorder:
		return "save order"
	case grid.TaskMergeIntoFolder:
		return "add to folder"
	case grid.TaskCreateFolder:
		return "create folder"
	default:
		return name
	}
}

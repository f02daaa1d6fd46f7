package board

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/pkg/grid"
)

// View implements tea.Model
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}
	if m.FormOpen && m.FormState != nil {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			helpBoxStyle.Render(m.FormState.Form.View()))
	}
	if m.HelpOpen {
		return m.renderHelpView()
	}

	c := newCanvas(m.Width, max(m.Height-1, 0))
	c.paste(0, 0, m.renderToolbar())
	m.renderGrid(c)
	if len(m.layout.Order) == 0 {
		c.paste(gridOriginX, gridOriginY, subtleStyle.Render(m.emptyText()))
	}
	return zone.Scan(c.String() + "\n" + m.renderFooter())
}

func (m Model) emptyText() string {
	if m.FolderID != "" {
		return "This folder is empty. Press a to add a bookmark, esc to go back."
	}
	return "No bookmarks yet. Press a to add one."
}

// renderGrid draws every tile at its slot plus its animated offset, then the
// floating overlay on top
func (m Model) renderGrid(c *canvas) {
	f := m.frame
	for i, id := range m.layout.Order {
		item, ok := m.layout.Items[id]
		if !ok {
			continue
		}
		slot := m.layout.Slot(i)
		ov, ok := f.Overrides[id]
		if !ok {
			ov = grid.Identity
		}
		if ov.Opacity < 0.5 || ov.Scale < 0.5 {
			c.paste(slot.X, slot.Y, placeholderStyle.Width(slot.W-2).Height(slot.H-2).Render(""))
			continue
		}
		x := slot.X + int(math.Round(ov.Offset.X/UnitsPerCol))
		y := slot.Y + int(math.Round(ov.Offset.Y/UnitsPerLine))
		c.paste(x, y, renderTile(item, slot.W, slot.H, m.tileStyle(id, i)))
	}

	o := f.Overlay
	if !o.Visible || o.Opacity < 0.25 || f.ActiveID == "" {
		return
	}
	item, ok := m.layout.Items[f.ActiveID]
	if !ok {
		return
	}
	r := FromUnits(o.Rect)
	if r.W < models.MinTileWidth || r.H < models.MinTileHeight {
		// Shrinking into a merge target
		c.paste(r.X+r.W/2, r.Y+r.H/2, mergeMarkerStyle.Render("◆"))
		return
	}
	c.paste(r.X, r.Y, renderTile(item, r.W, r.H, overlayStyle))
}

func (m Model) tileStyle(id string, index int) lipgloss.Style {
	switch {
	case id == m.frame.TargetID:
		return targetTileStyle
	case id == m.frame.CandidateID:
		return candidateTileStyle
	case index == m.Selected && m.engine.Idle():
		return selectedTileStyle
	default:
		return tileStyle
	}
}

// renderTile draws an item as a w x h bordered box
func renderTile(item models.Item, w, h int, style lipgloss.Style) string {
	inner := max(w-4, 1)
	lines := []string{titleStyle.Render(ansi.Truncate(item.Label(), inner, "…"))}
	if item.IsFolder() {
		detail := "▸ folder"
		if n := len(item.Children); n > 0 {
			detail = fmt.Sprintf("▸ %d items", n)
		}
		lines = append(lines, folderStyle.Render(ansi.Truncate(detail, inner, "…")))
	} else if host := linkHost(item.URL); host != "" && host != item.Label() {
		lines = append(lines, linkHostStyle.Render(ansi.Truncate(host, inner, "…")))
	}
	if len(lines) > h-2 {
		lines = lines[:max(h-2, 0)]
	}
	return style.Width(w - 2).Height(h - 2).Render(strings.Join(lines, "\n"))
}

func linkHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func (m Model) renderToolbar() string {
	var parts []string
	crumb := "startpage"
	if m.FolderID != "" {
		parts = append(parts, zone.Mark(zoneBack, toolbarButtonStyle.Render("‹ back")))
		crumb += " › " + m.FolderTitle
	}
	parts = append(parts, breadcrumbStyle.Render(crumb))
	parts = append(parts, zone.Mark(zoneAdd, toolbarButtonStyle.Render("+ add")))
	parts = append(parts, zone.Mark(zoneLock, toggleButton("locked", "unlocked", m.Settings.SortLocked)))
	parts = append(parts, zone.Mark(zonePrePush, toggleButton("pre-push", "pre-push", m.Settings.PrePush)))
	return strings.Join(parts, " ")
}

func toggleButton(on, off string, active bool) string {
	if active {
		return toolbarActiveStyle.Render(on)
	}
	return toolbarButtonStyle.Render(off)
}

func (m Model) renderFooter() string {
	var line string
	switch {
	case m.StatusMessage != "":
		style := statusOKStyle
		if m.StatusIsError {
			style = statusErrorStyle
		}
		line = style.Render(m.StatusMessage)
	case !m.engine.Idle():
		line = subtleStyle.Render(m.dragStatus())
	default:
		line = m.help.View(m.keys)
	}
	return ansi.Truncate(line, m.Width, "…")
}

// dragStatus describes what releasing now would do
func (m Model) dragStatus() string {
	st := m.engine.State()
	label := func(id string) string {
		if it, ok := m.layout.Items[id]; ok {
			return it.Label()
		}
		return id
	}
	switch {
	case st.Phase != grid.PhaseDragging:
		return st.Phase.String()
	case st.TargetID != "":
		if it, ok := m.layout.Items[st.TargetID]; ok && it.IsFolder() {
			return "release to add to " + label(st.TargetID)
		}
		return "release to make a folder with " + label(st.TargetID)
	case st.CandidateID != "":
		return "hold to combine with " + label(st.CandidateID)
	default:
		return "dragging " + label(st.ActiveID)
	}
}

func (m Model) renderHelpView() string {
	text := m.helpText
	if text == "" {
		text = "Loading help..."
	}
	lines := strings.Split(text, "\n")
	if limit := m.Height - 2; limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, box)
}

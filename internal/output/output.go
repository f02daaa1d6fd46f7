// Package output provides styled terminal output helpers (success, error,
// warning, bookmark formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/startpage/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Underline(true)
	kindStyles   = map[models.Kind]lipgloss.Style{
		models.KindLink:   lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.KindFolder: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeNotFolder     = "not_folder"
	ErrCodeDatabaseError = "database_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// FormatKind formats a kind badge with color
func FormatKind(k models.Kind) string {
	style, ok := kindStyles[k]
	if !ok {
		return string(k)
	}
	return style.Render(fmt.Sprintf("[%s]", k))
}

// FormatItemShort formats an item on one line with its list position
func FormatItemShort(index int, item *models.Item) string {
	parts := []string{
		subtleStyle.Render(fmt.Sprintf("%2d", index)),
		titleStyle.Render(item.ID),
		FormatKind(item.Kind),
		item.Label(),
	}
	if item.IsFolder() {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("(%d)", len(item.Children))))
	} else if item.URL != item.Title {
		parts = append(parts, urlStyle.Render(item.URL))
	}
	return strings.Join(parts, "  ")
}

// FormatItemLong formats an item with details; folders list their contents
func FormatItemLong(item *models.Item) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", item.ID, item.Label())))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Kind: %s | Position: %d\n", FormatKind(item.Kind), item.Position))
	if item.URL != "" {
		sb.WriteString(fmt.Sprintf("URL: %s\n", urlStyle.Render(item.URL)))
	}
	if item.ParentID != "" {
		sb.WriteString(fmt.Sprintf("Folder: %s\n", item.ParentID))
	}
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("Updated %s", FormatTimeAgo(item.UpdatedAt))))
	sb.WriteString("\n")

	if item.IsFolder() {
		sb.WriteString(SectionHeader("contents"))
		if len(item.Children) == 0 {
			sb.WriteString(IndentString(subtleStyle.Render("(empty)"), 2))
			sb.WriteString("\n")
		}
		for i := range item.Children {
			sb.WriteString(IndentString(FormatItemShort(i, &item.Children[i]), 2))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// OrderLine renders an id order as "a → b → c"
func OrderLine(ids []string) string {
	return strings.Join(ids, subtleStyle.Render(" → "))
}

// SectionHeader returns a formatted section header for CLI output
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

package board

import (
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

var errURLRequired = errors.New("url is required")

// FormState holds the add-bookmark form
type FormState struct {
	Form     *huh.Form
	FolderID string // folder the link is added to, empty for the top level

	Title string
	URL   string
}

// NewFormState creates an add-bookmark form for the given folder
func NewFormState(folderID, folderTitle string) *FormState {
	fs := &FormState{FolderID: folderID}

	heading := "Add Bookmark"
	if folderTitle != "" {
		heading = "Add to " + folderTitle
	}

	fs.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("URL").
				Value(&fs.URL).
				Placeholder("https://...").
				Validate(ValidateURL),
			huh.NewInput().
				Title("Title").
				Value(&fs.Title).
				Placeholder("Defaults to the URL"),
		).Title(heading),
	)
	fs.Form.WithTheme(huh.ThemeDracula())
	fs.Form.WithShowHelp(false)
	return fs
}

// ValidateURL accepts anything with a scheme and host, or a bare host which
// is given an https scheme on submit
func ValidateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errURLRequired
	}
	u, err := url.Parse(NormalizeURL(s))
	if err != nil {
		return err
	}
	if u.Host == "" {
		return errors.New("url needs a host")
	}
	return nil
}

// NormalizeURL adds https:// to a bare host
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "://") {
		return "https://" + s
	}
	return s
}

// Values returns the trimmed title and normalized url
func (fs *FormState) Values() (title, link string) {
	return strings.TrimSpace(fs.Title), NormalizeURL(fs.URL)
}

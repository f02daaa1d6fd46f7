package board

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size block of styled lines that blocks can be pasted
// onto at cell offsets. Widths are measured with ansi so styled text
// composites correctly.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: max(width, 0), lines: make([]string, max(height, 0))}
	blank := strings.Repeat(" ", c.width)
	for i := range c.lines {
		c.lines[i] = blank
	}
	return c
}

// paste draws block with its top-left corner at (x, y). Parts falling
// outside the canvas are clipped.
func (c *canvas) paste(x, y int, block string) {
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		c.lines[row] = overlayLine(c.lines[row], line, x, c.width)
	}
}

// overlayLine replaces the cells of bg starting at x with fg
func overlayLine(bg, fg string, x, width int) string {
	w := ansi.StringWidth(fg)
	if x < 0 {
		fg = ansi.TruncateLeft(fg, -x, "")
		w += x
		x = 0
	}
	if x >= width || w <= 0 {
		return bg
	}
	if x+w > width {
		fg = ansi.Truncate(fg, width-x, "")
		w = width - x
	}
	left := ansi.Cut(bg, 0, x)
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	if strings.Contains(left, "\x1b") {
		left += ansi.ResetStyle
	}
	right := ansi.Cut(bg, x+w, width)
	return left + fg + right
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

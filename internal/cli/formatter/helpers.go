package formatter

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TruncID shortens a uuid to its first eight characters, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// PadRight pads s with spaces to width visible cells, truncating with an
// ellipsis when it is longer.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		if width <= 1 || len(r) < width {
			return s
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}

// Plural returns "1 section" or "3 sections".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var greyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// popupOverlay draws box centered over base. Everything around the box is
// greyed out so the popup stands out against the live demo behind it.
func popupOverlay(base []string, box string, width int) []string {
	boxLines := strings.Split(box, "\n")
	boxW := min(lipgloss.Width(box), width)
	if len(boxLines) > len(base) {
		boxLines = boxLines[:len(base)]
	}
	x := max(0, (width-boxW)/2)
	y := max(0, (len(base)-len(boxLines))/2)

	plain := make([]string, len(base))
	out := make([]string, len(base))
	for i, line := range base {
		plain[i] = padRight(ansiRE.ReplaceAllString(line, ""), width)
		out[i] = greyStyle.Render(plain[i])
	}
	for i, line := range boxLines {
		row := plain[y+i]
		line = padRight(ansi.Truncate(line, boxW, ""), boxW)
		out[y+i] = greyStyle.Render(ansi.Truncate(row, x, "")) +
			line +
			greyStyle.Render(ansi.TruncateLeft(row, x+boxW, ""))
	}
	return out
}

// padRight fills s with spaces up to width cells
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"collapsehead/internal/domain"
)

// rows reserved below the list: status bar and help bar
const (
	statusRows = 1
	footerRows = 1
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width    int
	Height   int
	Topology domain.Topology
	Strategy string
	Mode     string

	// layout, in terminal rows
	HeaderRows   int
	StickyRows   int
	FixedTopRows int
	Items        int
	RowUnits     float64

	// coordinator
	HeaderOffset float64
	Presented    float64
	Phase        domain.Phase

	// scroll container and detector
	ScrollOffset   float64
	ContentExtent  float64
	ViewportExtent float64
	Velocity       float64
	Direction      domain.Direction
	ShowStatus     bool

	StatusMessage string
	StatusError   bool
	ShowDebug     bool
	DebugLines    []string
	ShowHelp      bool
	HelpModel     help.Model
	Keys          help.KeyMap
}

// ListRows is the number of list rows visible with the header fully
// collapsed and the status bar shown. The scroll container's viewport is
// sized from it so it does not change while the header moves.
func ListRows(height, fixedTopRows, stickyRows int) int {
	return max(0, height-fixedTopRows-stickyRows-statusRows-footerRows)
}

// CollapsedRows converts a presented header offset into whole hidden rows
func CollapsedRows(presented, rowUnits float64, headerRows int) int {
	if rowUnits <= 0 || math.IsNaN(presented) {
		return 0
	}
	n := int(math.Round(presented / rowUnits))
	return max(0, min(n, headerRows))
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view, exactly Height lines tall
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	var lines []string

	for i := 0; i < state.FixedTopRows; i++ {
		lines = append(lines, r.renderFixedTop(state, i, width))
	}

	header := r.headerLines(state, width)
	lines = append(lines, header[CollapsedRows(state.Presented, state.RowUnits, len(header)):]...)

	for i := 0; i < state.StickyRows; i++ {
		lines = append(lines, r.renderSticky(state, i, width))
	}

	bottom := []string{r.renderFooter(state, width)}
	if state.ShowStatus {
		bottom = append([]string{r.renderStatus(state, width)}, bottom...)
	}

	listRows := max(0, state.Height-len(lines)-len(bottom))
	body := r.renderList(state, width, listRows)
	if state.ShowDebug && !state.ShowHelp {
		body = overlayBottom(body, r.renderDebug(state, width))
	}
	lines = append(lines, body...)
	lines = append(lines, bottom...)

	if state.Height > 0 && len(lines) > state.Height {
		lines = lines[:state.Height]
	}
	if state.ShowHelp && len(lines) > footerRows {
		// the help bar stays readable below the popup
		n := len(lines) - footerRows
		lines = append(popupOverlay(lines[:n], r.renderHelp(state, width), width), lines[n:]...)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderFixedTop(state ViewState, row, width int) string {
	text := ""
	if row == 0 {
		text = " ◆ collapsehead"
	}
	return band(r.styles.FixedTop, text, width)
}

// headerLines returns every row of the collapsible header, top first. Rows
// are hidden from the top as the header collapses.
func (r *Renderer) headerLines(state ViewState, width int) []string {
	if state.HeaderRows <= 0 {
		return nil
	}
	extent := float64(state.HeaderRows) * state.RowUnits
	visible := 1.0
	if extent > 0 {
		visible = 1 - domain.Clamp(state.Presented, 0, extent)/extent
	}

	content := []string{
		r.styles.HeaderTitle.Render(" Collapsing Header"),
		r.styles.Header.Render(fmt.Sprintf(" %s topology · %s settle", state.Topology, state.Strategy)),
		r.styles.Header.Render(fmt.Sprintf(" offset %6.1f / %-4.0f presented %6.1f", state.HeaderOffset, extent, state.Presented)),
		r.styles.Header.Render(" " + meter(visible, max(10, min(width-12, 40))) + fmt.Sprintf(" %3.0f%%", visible*100)),
	}
	lines := make([]string, state.HeaderRows)
	for i := range lines {
		var text string
		switch {
		case i == state.HeaderRows-1 && state.HeaderRows > 1:
			text = r.styles.HeaderDim.Render(" " + strings.Repeat("─", max(0, width-2)))
		case i < len(content):
			text = content[i]
		default:
			text = r.styles.HeaderDim.Render(" ·")
		}
		lines[i] = band(r.styles.Header, text, width)
	}
	return lines
}

func (r *Renderer) renderSticky(state ViewState, row, width int) string {
	text := ""
	if row == 0 {
		text = fmt.Sprintf(" Items (%d)", state.Items)
	}
	return band(r.styles.Sticky, text, width)
}

func (r *Renderer) renderList(state ViewState, width, rows int) []string {
	lines := make([]string, 0, rows)
	if rows == 0 {
		return lines
	}
	if state.Items == 0 {
		lines = append(lines, r.styles.Empty.Render("  No items"))
		for len(lines) < rows {
			lines = append(lines, "")
		}
		return lines
	}

	units := state.RowUnits
	if units <= 0 {
		units = 1
	}
	first := int(math.Floor(state.ScrollOffset / units))
	for i := 0; i < rows; i++ {
		item := first + i
		switch {
		case item < 0 || item >= state.Items:
			lines = append(lines, r.styles.Bounce.Render(strings.Repeat("░", min(width, 4))))
		case item%2 == 0:
			lines = append(lines, r.styles.Row.MaxWidth(width).Render(fmt.Sprintf("  %4d  Row %d", item+1, item+1)))
		default:
			lines = append(lines, r.styles.RowAlt.MaxWidth(width).Render(fmt.Sprintf("  %4d  Row %d", item+1, item+1)))
		}
	}
	return lines
}

func (r *Renderer) renderStatus(state ViewState, width int) string {
	dir := lipgloss.NewStyle().Foreground(lipgloss.Color(DirectionColor(state.Direction))).
		Render(DirectionGlyph(state.Direction) + " " + state.Direction.String())
	parts := []string{
		dir,
		r.styles.StatusKey.Render("phase") + " " + state.Phase.String(),
		r.styles.StatusKey.Render("scroll") + fmt.Sprintf(" %.0f/%.0f", state.ScrollOffset, math.Max(0, state.ContentExtent-state.ViewportExtent)),
	}
	if state.Mode != "" && state.Mode != "normal" {
		parts = append(parts, r.styles.StatusKey.Render("mode")+" "+state.Mode)
	}
	if state.StatusMessage != "" {
		msg := state.StatusMessage
		if state.StatusError {
			msg = r.styles.StatusError.Render(msg)
		}
		parts = append(parts, msg)
	}
	return r.styles.Status.MaxWidth(width).Render(" " + strings.Join(parts, "  "))
}

func (r *Renderer) renderFooter(state ViewState, width int) string {
	if state.Keys == nil {
		return ""
	}
	h := state.HelpModel
	h.Width = width
	return h.ShortHelpView(state.Keys.ShortHelp())
}

func (r *Renderer) renderHelp(state ViewState, width int) string {
	var b strings.Builder
	b.WriteString(r.styles.HelpTitle.Render("collapsehead help"))
	b.WriteString("\n\n")
	if state.Keys != nil {
		h := state.HelpModel
		h.Width = max(0, width-8)
		b.WriteString(h.FullHelpView(state.Keys.FullHelp()))
		b.WriteString("\n\n")
	}
	b.WriteString(r.styles.Help.Render("Drag with the mouse or K/J, release with space.\nPress ? or esc to close."))
	return r.styles.Popup.Render(b.String())
}

func (r *Renderer) renderDebug(state ViewState, width int) []string {
	var b strings.Builder
	b.WriteString(r.styles.DebugTitle.Render("debug"))
	fmt.Fprintf(&b, "\nheader  offset %.2f presented %.2f phase %s", state.HeaderOffset, state.Presented, state.Phase)
	fmt.Fprintf(&b, "\nscroll  offset %.2f velocity %.1f content %.0f viewport %.0f", state.ScrollOffset, state.Velocity, state.ContentExtent, state.ViewportExtent)
	fmt.Fprintf(&b, "\ndetect  %s", state.Direction)
	for _, line := range state.DebugLines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	box := r.styles.Debug.MaxWidth(width).Render(b.String())
	return strings.Split(box, "\n")
}

// overlayBottom replaces the last rows of base with panel
func overlayBottom(base, panel []string) []string {
	if len(panel) > len(base) {
		panel = panel[len(panel)-len(base):]
	}
	out := append([]string(nil), base[:len(base)-len(panel)]...)
	return append(out, panel...)
}

// band renders text as one full-width row of style
func band(style lipgloss.Style, text string, width int) string {
	return style.Width(width).MaxWidth(width).MaxHeight(1).Render(text)
}

// meter draws a horizontal bar filled to fraction
func meter(fraction float64, width int) string {
	filled := int(math.Round(domain.Clamp(fraction, 0, 1) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

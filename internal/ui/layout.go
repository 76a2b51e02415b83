package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 80

	// LayoutSplitWidth is the minimum width for list and detail side by side.
	LayoutSplitWidth = 100
)

// Chrome is the number of lines taken by header, command bar and toast line.
const chromeLines = 3

// Activity display limits.
const (
	// ActivityLineLimit is the number of log lines read for the activity view.
	ActivityLineLimit = 200
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ToastLifetime is how long a toast stays on screen.
	ToastLifetime = 4 * time.Second
)

// contentHeight is the height left for the active view.
func (m Model) contentHeight() int {
	return max(m.height-chromeLines, 3)
}

// window returns the [start, end) slice of total rows that keeps selected
// visible within height rows.
func window(total, selected, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := selected - height/2
	start = max(start, 0)
	start = min(start, total-height)
	return start, start + height
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// renderEmpty centers a muted message in the content area.
func (m Model) renderEmpty(title, message string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	h := m.contentHeight()
	body := lipgloss.Place(max(m.width-2, 0), max(h-2, 0), lipgloss.Center, lipgloss.Center,
		bg.Render(message, styles.MutedText),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.FocusBg)),
	)
	return m.renderTitledBox(title, body, m.width, h, true)
}

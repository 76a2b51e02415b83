package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/darsamo/bites/internal/activity"
	"github.com/darsamo/bites/internal/i18n"
)

type activityMsg struct {
	entries []activity.Entry
	err     error
}

func fetchActivityCmd(path string) tea.Cmd {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := activity.Read(path, ActivityLineLimit)
		return activityMsg{entries: entries, err: err}
	}
}

func (m *Model) initActivityViewport() {
	m.activityViewport = viewport.New(max(m.width-2, 0), max(m.contentHeight()-2, 0))
	m.activityViewport.MouseWheelEnabled = true
}

func (m *Model) resizeActivityViewport() {
	m.activityViewport.Width = max(m.width-2, 0)
	m.activityViewport.Height = max(m.contentHeight()-2, 0)
	m.updateActivityViewport()
}

func (m *Model) handleActivity(msg activityMsg) {
	if msg.err != nil {
		m.log.Debug("read activity", zap.Error(msg.err))
		return
	}
	atBottom := m.activityViewport.AtBottom() || len(m.activity) == 0
	m.activity = msg.entries
	m.updateActivityViewport()
	if atBottom {
		m.activityViewport.GotoBottom()
	}
}

func (m *Model) updateActivityViewport() {
	m.activityViewport.SetContent(m.renderActivityContent())
}

// activityLevels is the cycle of minimum levels the activity view filters by.
var activityLevels = []string{"", "info", "warn", "error"}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ActivityLevel) {
		for i, level := range activityLevels {
			if level == m.activityLevel {
				m.activityLevel = activityLevels[(i+1)%len(activityLevels)]
				break
			}
		}
		m.updateActivityViewport()
		m.activityViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.activityViewport, cmd = m.activityViewport.Update(msg)
	return m, cmd
}

func (m Model) renderActivityContent() string {
	styles := m.theme.Styles()
	entries := activity.Filter(m.activity, m.activityLevel)
	if len(entries) == 0 {
		return styles.MutedText.Render(" " + i18n.T(m.lang(), i18n.NoActivity))
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.formatActivityEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatActivityEntry(e activity.Entry, styles Styles) string {
	if e.Raw != "" {
		return " " + styles.FaintText.Render(e.Raw)
	}
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	parts = append(parts, m.levelStyle(e.Level, styles).Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level))))
	if e.OrderID != 0 {
		parts = append(parts, styles.AccentText.Render(fmt.Sprintf("#%d", e.OrderID)))
	}
	parts = append(parts, styles.Text.Render(e.Message))
	if e.Status != "" {
		status := i18n.T(m.lang(), i18n.StatusKey(e.Status))
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(e.Status))).Render(status))
	}
	return " " + strings.Join(parts, " ")
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.InfoText
	default:
		return styles.SuccessText
	}
}

func (m Model) renderActivity() string {
	title := i18n.T(m.lang(), i18n.ActivityTitle)
	if m.activityLevel != "" {
		title += " ≥ " + m.activityLevel
	}
	return m.renderTitledBox(title, m.activityViewport.View(), m.width, m.contentHeight(), true)
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/menu"
)

// renderMain renders the full UI: header, command bar, content and toasts.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderToasts())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMenu:
		return m.renderMenu()
	case ViewCart:
		return m.renderCart()
	case ViewOrders:
		return m.renderOrders()
	case ViewActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// renderHeader renders the status bar: logo, cart summary, edit session,
// save health and language.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	lang := m.lang()
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render(i18n.T(lang, i18n.AppTitle), styles.Logo)}

	cart := fmt.Sprintf("%d %s", m.snapshot.CartCount(), i18n.T(lang, i18n.Items))
	if !compact {
		cart += " · " + menu.FormatPrice(m.snapshot.CartTotal(), m.currency())
	}
	parts = append(parts, bg.Render("🛒 "+cart, styles.Text))

	if id := m.snapshot.EditingOrderID; id != 0 {
		parts = append(parts, bg.Render(i18n.WithID(lang, i18n.EditingOrder, id), styles.WarningText.Bold(true)))
	}

	ready := 0
	for _, o := range m.snapshot.Orders {
		if o.Status == ledger.Ready {
			ready++
		}
	}
	if ready > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("● %d %s", ready, i18n.T(lang, i18n.StatusReady)), styles.SuccessText))
	}

	if m.snapshot.LastError != nil {
		style := styles.WarningText
		if m.snapshot.IsDegraded() {
			style = styles.DangerText.Bold(true)
		}
		parts = append(parts, bg.Render("⚠ "+i18n.T(lang, i18n.SaveFailed), style))
	}

	parts = append(parts, bg.Render(i18n.T(lang, i18n.LanguageName), styles.MutedText))

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the view tabs and the short key help.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	lang := m.lang()

	labels := map[View]string{
		ViewMenu:     i18n.T(lang, i18n.MenuTitle),
		ViewCart:     i18n.T(lang, i18n.CartTitle),
		ViewOrders:   i18n.T(lang, i18n.OrdersTitle),
		ViewActivity: i18n.T(lang, i18n.ActivityTitle),
	}

	tabs := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		label := labels[v]
		if v == ViewCart && m.snapshot.CartCount() > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.snapshot.CartCount())
		}
		if v == m.currentView {
			tabs = append(tabs, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Accent)).
				Foreground(lipgloss.Color(m.theme.Background)).
				Bold(true).
				Padding(0, 1).
				Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(" "+label+" ", styles.MutedText))
	}

	left := strings.Join(tabs, bg.Space())
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Footer.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// renderToasts renders the newest toasts on one line.
func (m Model) renderToasts() string {
	styles := m.theme.Styles()
	if len(m.toasts) == 0 {
		return styles.Footer.Width(m.width).Render("")
	}
	parts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := styles.InfoText
		switch t.kind {
		case toastSuccess:
			style = styles.SuccessText
		case toastError:
			style = styles.DangerText
		}
		parts = append(parts, style.Render(t.text))
	}
	line := strings.Join(parts, styles.FaintText.Render("  │  "))
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(line)
}

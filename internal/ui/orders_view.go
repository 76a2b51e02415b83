package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/menu"
)

func (m Model) visibleOrders() []ledger.Order {
	return m.snapshot.VisibleOrders(m.prefs.ShowPickedUp)
}

func (m Model) selectedOrder() (ledger.Order, bool) {
	orders := m.visibleOrders()
	if len(orders) == 0 {
		return ledger.Order{}, false
	}
	return orders[clamp(m.orderRow, len(orders))], true
}

func (m *Model) selectOrder(id int) {
	for i, o := range m.visibleOrders() {
		if o.ID == id {
			m.orderRow = i
			return
		}
	}
}

func (m Model) handleOrdersKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	lang := m.lang()

	if key.Matches(msg, m.keys.TogglePickedUp) {
		m.prefs.ShowPickedUp = !m.prefs.ShowPickedUp
		m.savePrefs()
		label := i18n.HidingPickedUp
		if m.prefs.ShowPickedUp {
			label = i18n.ShowingPickedUp
		}
		m.pushToast(i18n.T(lang, label), toastInfo, now)
		m.orderRow = clamp(m.orderRow, len(m.visibleOrders()))
		return m, nil
	}

	o, ok := m.selectedOrder()
	if !ok || m.kiosk == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		if err := m.kiosk.BeginEdit(m.ctx, o.ID); err != nil {
			m.pushToast(errorText(lang, err), toastError, now)
			return m, nil
		}
		m.pushToast(i18n.WithID(lang, i18n.EditingOrder, o.ID), toastInfo, now)
		m.syncSnapshot(now)
		m.currentView = ViewCart
		m.cartRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Merge):
		merged, err := m.kiosk.MergeIntoOrder(m.ctx, o.ID)
		if err != nil {
			m.pushToast(errorText(lang, err), toastError, now)
			return m, nil
		}
		m.pushToast(i18n.WithID(lang, i18n.ItemsAdded, merged.ID), toastSuccess, now)
		m.syncSnapshot(now)
		return m, nil

	case key.Matches(msg, m.keys.PickedUp):
		done, err := m.kiosk.CompleteOrder(m.ctx, o.ID)
		if err != nil {
			m.pushToast(errorText(lang, err), toastError, now)
			return m, nil
		}
		m.pushToast(i18n.WithID(lang, i18n.OrderPickedUp, done.ID), toastInfo, now)
		m.syncSnapshot(now)
		return m, nil
	}

	m.orderRow = m.moveSelection(msg, m.orderRow, len(m.visibleOrders()))
	return m, nil
}

// timeLeftLabel renders the remaining time of an in-flight order, or the
// translated status for finished ones.
func (m Model) timeLeftLabel(o ledger.Order) string {
	lang := m.lang()
	if left, ok := m.snapshot.TimeLeft[o.ID]; ok {
		return i18n.FormatTimeLeft(lang, left)
	}
	return i18n.T(lang, i18n.StatusKey(string(o.Status)))
}

func (m Model) renderOrders() string {
	lang := m.lang()
	title := i18n.T(lang, i18n.OrdersTitle)
	orders := m.visibleOrders()
	if len(orders) == 0 {
		return m.renderEmpty(title, i18n.T(lang, i18n.NoActiveOrders))
	}

	height := m.contentHeight()
	if m.width < LayoutSplitWidth {
		return m.renderTitledBox(title, m.renderOrderList(orders, max(m.width-2, 0), height-2), m.width, height, true)
	}

	listWidth := m.width * 55 / 100
	detailWidth := m.width - listWidth
	list := m.renderTitledBox(title, m.renderOrderList(orders, listWidth-2, height-2), listWidth, height, true)

	o := orders[clamp(m.orderRow, len(orders))]
	detailTitle := fmt.Sprintf("%s #%d", i18n.T(lang, i18n.Order), o.ID)
	detail := m.renderTitledBox(detailTitle, m.renderOrderDetail(o, detailWidth-2), detailWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (m Model) renderOrderList(orders []ledger.Order, width, height int) string {
	lang := m.lang()
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	start, end := window(len(orders), m.orderRow, height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		o := orders[i]
		id := fmt.Sprintf("#%-3d", o.ID)
		status := i18n.T(lang, i18n.StatusKey(string(o.Status)))
		category := i18n.T(lang, i18n.CategoryKey(string(o.Category)))
		count := fmt.Sprintf("%d %s", o.ItemCount(), i18n.T(lang, i18n.Items))
		left := m.timeLeftLabel(o)

		if i == m.orderRow {
			sel := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width)
			text := strings.Join([]string{id, status, category, count, left}, " · ")
			lines = append(lines, sel.Render(" "+truncate(text, width-1)))
			continue
		}

		badge := styles.StatusStyle(string(o.Status)).Render(status)
		sep := bg.Render(" · ", styles.FaintText)
		line := bg.Space() + bg.Render(id, styles.MutedText) + bg.Space() + badge +
			sep + bg.Render(category, styles.InfoText) +
			sep + bg.Render(count, styles.Text) +
			sep + bg.Render(left, styles.WarningText)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderOrderDetail(o ledger.Order, width int) string {
	lang := m.lang()
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)
	currency := m.currency()

	var lines []string
	lines = append(lines, bg.Space()+styles.StatusStyle(string(o.Status)).Render(i18n.T(lang, i18n.StatusKey(string(o.Status))))+
		bg.Space()+bg.Render(m.timeLeftLabel(o), styles.WarningText))
	lines = append(lines, "")

	priceWidth := 14
	nameWidth := max(width-priceWidth-8, 8)
	for _, line := range o.Items {
		name := padRight(truncate(line.Name, nameWidth), nameWidth)
		qty := fmt.Sprintf("×%-3d", line.Quantity)
		sub := fmt.Sprintf("%*s", priceWidth, menu.FormatPrice(line.Subtotal(), currency))
		lines = append(lines, bg.Space()+bg.Render(name, styles.Text)+bg.Space()+
			bg.Render(qty, styles.AccentText)+bg.Render(sub, styles.MutedText))
	}
	lines = append(lines, bg.Render(" "+strings.Repeat("─", max(width-2, 0)), styles.FaintText))
	total := fmt.Sprintf("%s %s", i18n.T(lang, i18n.Total), menu.FormatPrice(o.Total(), currency))
	lines = append(lines, bg.Space()+bg.Render(total, styles.SuccessText))
	if !o.CreatedAt.IsZero() {
		lines = append(lines, bg.Space()+bg.Render(o.CreatedAt.Local().Format("15:04:05"), styles.FaintText))
	}
	return strings.Join(lines, "\n")
}

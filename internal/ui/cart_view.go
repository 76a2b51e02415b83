package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/menu"
)

func (m Model) handleCartKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if m.kiosk == nil {
		return m, nil
	}
	cart := m.snapshot.Cart
	lang := m.lang()

	switch {
	case key.Matches(msg, m.keys.Checkout):
		o, edited, err := m.kiosk.Checkout(m.ctx)
		if err != nil {
			m.pushToast(errorText(lang, err), toastError, now)
			m.syncSnapshot(now)
			return m, nil
		}
		label := i18n.OrderCreated
		if edited {
			label = i18n.OrderUpdated
		}
		m.pushToast(i18n.WithID(lang, label, o.ID), toastSuccess, now)
		m.syncSnapshot(now)
		m.currentView = ViewOrders
		m.selectOrder(o.ID)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if len(cart) == 0 && m.snapshot.EditingOrderID == 0 {
			return m, nil
		}
		m.modal = confirmModal{
			prompt:    i18n.T(lang, i18n.ConfirmClear),
			onConfirm: func() tea.Msg { return clearCartMsg{} },
		}
		return m, nil
	}

	if len(cart) == 0 {
		return m, nil
	}
	line := cart[clamp(m.cartRow, len(cart))]
	switch {
	case key.Matches(msg, m.keys.Increase):
		m.kiosk.ChangeQuantity(m.ctx, line.Name, 1)
	case key.Matches(msg, m.keys.Decrease):
		m.kiosk.ChangeQuantity(m.ctx, line.Name, -1)
	case key.Matches(msg, m.keys.Remove):
		m.kiosk.RemoveItem(m.ctx, line.Name)
	default:
		m.cartRow = m.moveSelection(msg, m.cartRow, len(cart))
		return m, nil
	}
	m.syncSnapshot(now)
	return m, nil
}

func (m Model) currency() string {
	if m.catalog == nil {
		return ""
	}
	return m.catalog.Currency
}

func (m Model) renderCart() string {
	lang := m.lang()
	title := i18n.T(lang, i18n.CartTitle)
	if id := m.snapshot.EditingOrderID; id != 0 {
		title = i18n.WithID(lang, i18n.EditingOrder, id)
	}
	cart := m.snapshot.Cart
	if len(cart) == 0 {
		return m.renderEmpty(title, i18n.T(lang, i18n.EmptyCart))
	}

	height := m.contentHeight()
	width := max(m.width-2, 0)
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	currency := m.currency()

	qtyWidth := 5
	priceWidth := 14
	nameWidth := max(width-qtyWidth-priceWidth-5, 8)

	listHeight := max(height-5, 1) // borders, rule, total
	start, end := window(len(cart), m.cartRow, listHeight)

	var lines []string
	for i := start; i < end; i++ {
		line := cart[i]
		name := padRight(truncate(line.Name, nameWidth), nameWidth)
		qty := fmt.Sprintf("%*s", qtyWidth, fmt.Sprintf("×%d", line.Quantity))
		sub := fmt.Sprintf("%*s", priceWidth, menu.FormatPrice(line.Subtotal(), currency))
		if i == m.cartRow {
			sel := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width)
			lines = append(lines, sel.Render(" "+name+" "+qty+" "+sub))
			continue
		}
		lines = append(lines, bg.Space()+bg.Render(name, styles.Text)+bg.Space()+
			bg.Render(qty, styles.AccentText)+bg.Space()+bg.Render(sub, styles.MutedText))
	}

	lines = append(lines, bg.Render(" "+strings.Repeat("─", max(width-2, 0)), styles.FaintText))
	action := i18n.T(lang, i18n.Checkout)
	if m.snapshot.EditingOrderID != 0 {
		action = i18n.T(lang, i18n.UpdateOrder)
	}
	total := fmt.Sprintf("%s %s", i18n.T(lang, i18n.Total), menu.FormatPrice(m.snapshot.CartTotal(), currency))
	lines = append(lines, bg.Space()+bg.Render(total, styles.SuccessText)+bg.Spaces(3)+
		bg.Render("[c] "+action, styles.WarningText))

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

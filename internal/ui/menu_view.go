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

// menuItems lists the selectable items in display order, narrowed to
// favorites when that filter is on.
func (m Model) menuItems() []menu.Item {
	var items []menu.Item
	for _, r := range m.menuRows() {
		if r.index >= 0 {
			items = append(items, r.item)
		}
	}
	return items
}

// favoriteItems resolves saved favorites against the catalog, dropping
// names the menu no longer has.
func (m Model) favoriteItems() []menu.Item {
	if m.catalog == nil {
		return nil
	}
	items := make([]menu.Item, 0, len(m.prefs.Favorites))
	for _, name := range m.prefs.Favorites {
		if item, ok := m.catalog.Lookup(name); ok {
			items = append(items, item)
		}
	}
	return items
}

func (m Model) selectedMenuItem() (menu.Item, bool) {
	items := m.menuItems()
	if len(items) == 0 {
		return menu.Item{}, false
	}
	return items[clamp(m.menuRow, len(items))], true
}

func (m Model) handleMenuKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.FavoritesOnly) {
		m.favoritesOnly = !m.favoritesOnly
		m.menuRow = 0
		return m, nil
	}

	items := m.menuItems()
	if len(items) == 0 {
		return m, nil
	}

	if key.Matches(msg, m.keys.Favorite) {
		item, _ := m.selectedMenuItem()
		label := i18n.FavoriteRemoved
		if m.prefs.ToggleFavorite(item.Name) {
			label = i18n.FavoriteAdded
		}
		m.savePrefs()
		m.pushToast(fmt.Sprintf("%s %s", item.Name, i18n.T(m.lang(), label)), toastInfo, now)
		m.menuRow = clamp(m.menuRow, len(m.menuItems()))
		return m, nil
	}

	if !key.Matches(msg, m.keys.Add) {
		m.menuRow = m.moveSelection(msg, m.menuRow, len(items))
		return m, nil
	}

	item, _ := m.selectedMenuItem()
	if m.kiosk == nil {
		return m, nil
	}
	line, err := m.kiosk.AddItem(m.ctx, item)
	if err != nil {
		m.pushToast(fmt.Sprintf("%s: %s", item.Name, errorText(m.lang(), err)), toastError, now)
		return m, nil
	}
	text := fmt.Sprintf("%s %s", line.Name, i18n.T(m.lang(), i18n.AddedToCart))
	if line.Quantity > 1 {
		text = fmt.Sprintf("%s ×%d", text, line.Quantity)
	}
	m.pushToast(text, toastSuccess, now)
	m.syncSnapshot(now)
	return m, nil
}

// menuLine is one rendered line of the menu: a section heading or an item.
type menuLine struct {
	heading string
	item    menu.Item
	index   int // position in Items(); -1 for headings
}

func (m Model) menuRows() []menuLine {
	if m.catalog == nil {
		return nil
	}
	var rows []menuLine
	idx := 0
	if m.favoritesOnly {
		favorites := m.favoriteItems()
		if len(favorites) == 0 {
			return nil
		}
		rows = append(rows, menuLine{heading: i18n.T(m.lang(), i18n.FavoritesTitle), index: -1})
		for _, item := range favorites {
			rows = append(rows, menuLine{item: item, index: idx})
			idx++
		}
		return rows
	}
	for _, sec := range m.catalog.Sections() {
		title := sec.Title
		if m.lang() == i18n.Portuguese {
			title = sec.TitlePT
		}
		rows = append(rows, menuLine{heading: title, index: -1})
		for _, item := range sec.Items {
			rows = append(rows, menuLine{item: item, index: idx})
			idx++
		}
	}
	return rows
}

func (m Model) renderMenu() string {
	title := i18n.T(m.lang(), i18n.MenuTitle)
	rows := m.menuRows()
	if len(rows) == 0 {
		if m.favoritesOnly {
			return m.renderEmpty(i18n.T(m.lang(), i18n.FavoritesTitle), i18n.T(m.lang(), i18n.NoFavorites))
		}
		return m.renderEmpty(title, "-")
	}

	height := m.contentHeight()
	width := max(m.width-2, 0)
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	selectedRow := 0
	for i, r := range rows {
		if r.index == clamp(m.menuRow, len(m.menuItems())) {
			selectedRow = i
			break
		}
	}
	start, end := window(len(rows), selectedRow, height-2)

	currency := m.catalog.Currency
	priceWidth := 12
	nameWidth := max(width-priceWidth-4, 8)

	lines := make([]string, 0, end-start)
	for _, r := range rows[start:end] {
		if r.index < 0 {
			lines = append(lines, bg.Render(" "+r.heading, styles.AccentText.Bold(true)))
			continue
		}
		mark := "  "
		if m.prefs.IsFavorite(r.item.Name) {
			mark = "★ "
		}
		name := padRight(truncate(r.item.Name, nameWidth), nameWidth)
		price := menu.FormatPrice(r.item.Price, currency)
		if !r.item.Available {
			price = i18n.T(m.lang(), i18n.Unavailable)
		}
		price = fmt.Sprintf("%*s", priceWidth, truncate(price, priceWidth))

		if r.index == m.menuRow {
			sel := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width)
			lines = append(lines, sel.Render(" "+mark+name+" "+price))
			continue
		}
		nameStyle := styles.Text
		priceStyle := styles.MutedText
		if !r.item.Available {
			nameStyle = styles.FaintText
			priceStyle = styles.FaintText
		}
		lines = append(lines, bg.Space()+bg.Render(mark, styles.WarningText)+bg.Render(name, nameStyle)+bg.Space()+bg.Render(price, priceStyle))
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

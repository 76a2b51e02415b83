package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the kiosk.
type keyMap struct {
	// Global
	Quit           key.Binding
	Help           key.Binding
	CycleTheme     key.Binding
	ToggleLanguage key.Binding
	Tab            key.Binding
	ShiftTab       key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Menu
	Add           key.Binding
	Favorite      key.Binding
	FavoritesOnly key.Binding

	// Cart
	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Checkout key.Binding
	Clear    key.Binding

	// Orders
	Edit           key.Binding
	Merge          key.Binding
	PickedUp       key.Binding
	TogglePickedUp key.Binding

	// Activity
	ActivityLevel key.Binding

	// Modal
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleLanguage: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "English/Português"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Add: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter/a", "Add to cart"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "Toggle favorite"),
		),
		FavoritesOnly: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Show favorites only"),
		),

		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "One more"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "One less"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove line"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Checkout / update order"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear cart"),
		),

		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit order"),
		),
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Add cart to order"),
		),
		PickedUp: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Mark picked up"),
		),
		TogglePickedUp: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Show/hide picked up"),
		),

		ActivityLevel: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle level filter"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "s", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.ToggleLanguage, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Up, k.Down, k.Top, k.Bottom},
		{k.Add, k.Favorite, k.FavoritesOnly},
		{k.Increase, k.Decrease, k.Remove, k.Checkout, k.Clear},
		{k.Edit, k.Merge, k.PickedUp, k.TogglePickedUp},
		{k.ActivityLevel},
		{k.ToggleLanguage, k.CycleTheme, k.Help, k.Quit},
	}
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darsamo/bites/internal/activity"
	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/menu"
	"github.com/darsamo/bites/internal/prefs"
	"github.com/darsamo/bites/internal/state"
)

// fakeKiosk drives a real ledger and publishes to a state.Store, standing in
// for the persisted session.
type fakeKiosk struct {
	ledger *ledger.Ledger
	store  *state.Store
	lang   i18n.Language
	now    time.Time
}

func newFakeKiosk(t *testing.T, catalog *menu.Catalog) *fakeKiosk {
	t.Helper()
	k := &fakeKiosk{
		ledger: ledger.New(ledger.Options{Timings: ledger.DefaultTimings(), Sections: catalog}),
		store:  &state.Store{},
		lang:   i18n.English,
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	k.publish()
	return k
}

func (k *fakeKiosk) publish() {
	k.store.Update(&state.View{
		Cart:           k.ledger.Cart(),
		Orders:         k.ledger.Orders(true),
		EditingOrderID: k.ledger.EditingOrderID(),
		Language:       k.lang,
		At:             k.now,
	}, nil)
}

func (k *fakeKiosk) AddItem(_ context.Context, item menu.Item) (ledger.CartLine, error) {
	if !item.Available {
		return ledger.CartLine{}, fmt.Errorf("add %q: %w", item.Name, menu.ErrUnavailable)
	}
	line := k.ledger.AddItem(item.Name, item.Price)
	k.publish()
	return line, nil
}

func (k *fakeKiosk) ChangeQuantity(_ context.Context, name string, delta int) {
	k.ledger.ChangeQuantity(name, delta)
	k.publish()
}

func (k *fakeKiosk) RemoveItem(_ context.Context, name string) {
	k.ledger.RemoveItem(name)
	k.publish()
}

func (k *fakeKiosk) ClearCart(context.Context) {
	k.ledger.ClearCart()
	k.publish()
}

func (k *fakeKiosk) Checkout(context.Context) (ledger.Order, bool, error) {
	o, edited, err := k.ledger.Checkout(k.now)
	k.publish()
	return o, edited, err
}

func (k *fakeKiosk) MergeIntoOrder(_ context.Context, id int) (ledger.Order, error) {
	o, err := k.ledger.MergeIntoOrder(id, k.now)
	k.publish()
	return o, err
}

func (k *fakeKiosk) BeginEdit(_ context.Context, id int) error {
	err := k.ledger.BeginEdit(id, k.now)
	k.publish()
	return err
}

func (k *fakeKiosk) CompleteOrder(_ context.Context, id int) (ledger.Order, error) {
	o, err := k.ledger.CompleteOrder(id, k.now)
	k.publish()
	return o, err
}

func (k *fakeKiosk) ToggleLanguage(context.Context) i18n.Language {
	k.lang = i18n.Next(k.lang)
	k.publish()
	return k.lang
}

func newTestModel(t *testing.T) (Model, *fakeKiosk) {
	t.Helper()
	catalog, err := menu.Default()
	if err != nil {
		t.Fatalf("menu.Default: %v", err)
	}
	k := newFakeKiosk(t, catalog)
	m := New(Options{
		Kiosk:     k,
		Store:     k.store,
		Catalog:   catalog,
		Prefs:     prefs.Defaults(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), k
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

func lastToast(t *testing.T, m Model) toast {
	t.Helper()
	if len(m.toasts) == 0 {
		t.Fatalf("no toast shown")
	}
	return m.toasts[len(m.toasts)-1]
}

func TestMenuAddPutsItemInCart(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "enter", "enter")

	if got := m.snapshot.CartCount(); got != 2 {
		t.Fatalf("cart count = %d, want 2", got)
	}
	first := m.menuItems()[0]
	if m.snapshot.Cart[0].Name != first.Name {
		t.Fatalf("cart line = %q, want %q", m.snapshot.Cart[0].Name, first.Name)
	}
	if tst := lastToast(t, m); tst.kind != toastSuccess || !strings.Contains(tst.text, "×2") {
		t.Fatalf("toast = %+v, want success with quantity", tst)
	}
}

func TestMenuSelectionMovesAndClamps(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "k")
	if m.menuRow != 0 {
		t.Fatalf("menuRow = %d, want 0", m.menuRow)
	}
	m, _ = press(t, m, "j", "j")
	if m.menuRow != 2 {
		t.Fatalf("menuRow = %d, want 2", m.menuRow)
	}
	m, _ = press(t, m, "G")
	if want := len(m.menuItems()) - 1; m.menuRow != want {
		t.Fatalf("menuRow = %d, want %d", m.menuRow, want)
	}
}

func TestMenuFavorites(t *testing.T) {
	m, _ := newTestModel(t)
	items := m.menuItems()
	first, third := items[0].Name, items[2].Name

	m, _ = press(t, m, "*", "j", "j", "*")
	if !m.prefs.IsFavorite(first) || !m.prefs.IsFavorite(third) {
		t.Fatalf("Favorites = %v, want %q and %q", m.prefs.Favorites, first, third)
	}
	if saved := prefs.Load(m.prefsPath); len(saved.Favorites) != 2 {
		t.Fatalf("saved favorites = %v, want 2", saved.Favorites)
	}
	if !strings.Contains(m.View(), "★") {
		t.Fatalf("menu does not mark favorites")
	}

	m, _ = press(t, m, "F")
	got := m.menuItems()
	if len(got) != 2 || got[0].Name != first || got[1].Name != third {
		t.Fatalf("favorites-only items = %v, want [%s %s]", got, first, third)
	}

	m, _ = press(t, m, "j", "enter")
	if len(m.snapshot.Cart) != 1 || m.snapshot.Cart[0].Name != third {
		t.Fatalf("cart = %+v, want %q from the favorites list", m.snapshot.Cart, third)
	}

	m, _ = press(t, m, "*")
	if len(m.menuItems()) != 1 || m.menuItems()[0].Name != first {
		t.Fatalf("favorites-only items = %v, want only %q after removing one", m.menuItems(), first)
	}
	m, _ = press(t, m, "*")
	if len(m.menuItems()) != 0 {
		t.Fatalf("favorites-only items = %d, want 0", len(m.menuItems()))
	}
	if !strings.Contains(m.View(), i18n.T(i18n.English, i18n.NoFavorites)) {
		t.Fatalf("empty favorites view missing hint")
	}

	m, _ = press(t, m, "F")
	if len(m.menuItems()) != len(items) {
		t.Fatalf("full menu = %d items, want %d", len(m.menuItems()), len(items))
	}
}

func TestCartQuantityKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "enter", "tab")
	if m.currentView != ViewCart {
		t.Fatalf("view = %v, want cart", m.currentView)
	}

	m, _ = press(t, m, "+", "+")
	if got := m.snapshot.Cart[0].Quantity; got != 3 {
		t.Fatalf("quantity = %d, want 3", got)
	}
	m, _ = press(t, m, "-")
	if got := m.snapshot.Cart[0].Quantity; got != 2 {
		t.Fatalf("quantity = %d, want 2", got)
	}
	m, _ = press(t, m, "x")
	if len(m.snapshot.Cart) != 0 {
		t.Fatalf("cart = %+v, want empty", m.snapshot.Cart)
	}
}

func TestCheckoutMovesToOrders(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "enter", "tab", "c")

	if m.currentView != ViewOrders {
		t.Fatalf("view = %v, want orders", m.currentView)
	}
	if len(m.snapshot.Orders) != 1 || m.snapshot.Orders[0].ID != 1 {
		t.Fatalf("orders = %+v, want order 1", m.snapshot.Orders)
	}
	if len(m.snapshot.Cart) != 0 {
		t.Fatalf("cart not emptied after checkout")
	}
	if want := i18n.WithID(i18n.English, i18n.OrderCreated, 1); lastToast(t, m).text != want {
		t.Fatalf("toast = %q, want %q", lastToast(t, m).text, want)
	}
}

func TestCheckoutEmptyCartShowsWarning(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "tab", "c")

	tst := lastToast(t, m)
	if tst.kind != toastError || tst.text != i18n.T(i18n.English, i18n.EmptyCartWarning) {
		t.Fatalf("toast = %+v, want empty cart warning", tst)
	}
	if m.currentView != ViewCart {
		t.Fatalf("view = %v, want cart", m.currentView)
	}
}

func TestClearCartNeedsConfirmation(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "enter", "tab", "C")
	if m.modal == nil {
		t.Fatalf("expected confirm modal")
	}

	m, _ = press(t, m, "n")
	if m.modal != nil || len(m.snapshot.Cart) != 1 {
		t.Fatalf("cancel: modal=%v cart=%d, want closed with cart kept", m.modal, len(m.snapshot.Cart))
	}

	m, cmd := press(t, m, "C", "y")
	if m.modal != nil {
		t.Fatalf("modal still open after confirm")
	}
	if cmd == nil {
		t.Fatalf("confirm returned no command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if len(m.snapshot.Cart) != 0 {
		t.Fatalf("cart = %+v, want empty", m.snapshot.Cart)
	}
}

func TestOrdersEditAndCommit(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "enter", "tab", "c")

	m, _ = press(t, m, "e")
	if m.currentView != ViewCart || m.snapshot.EditingOrderID != 1 {
		t.Fatalf("view=%v editing=%d, want cart editing 1", m.currentView, m.snapshot.EditingOrderID)
	}
	if len(m.snapshot.Cart) != 1 {
		t.Fatalf("edit did not load order items into cart: %+v", m.snapshot.Cart)
	}

	m, _ = press(t, m, "+", "c")
	if m.snapshot.EditingOrderID != 0 {
		t.Fatalf("edit session still open")
	}
	if len(m.snapshot.Orders) != 1 || m.snapshot.Orders[0].ItemCount() != 2 {
		t.Fatalf("orders = %+v, want one order with 2 items", m.snapshot.Orders)
	}
	if want := i18n.WithID(i18n.English, i18n.OrderUpdated, 1); lastToast(t, m).text != want {
		t.Fatalf("toast = %q, want %q", lastToast(t, m).text, want)
	}
}

func TestOrdersMergeAndPickUp(t *testing.T) {
	m, k := newTestModel(t)
	m, _ = press(t, m, "enter", "tab", "c")

	// Fill the cart again from the menu, then merge it into order 1.
	m, _ = press(t, m, "tab", "tab", "enter", "tab", "tab", "m")
	if m.currentView != ViewOrders {
		t.Fatalf("view = %v, want orders", m.currentView)
	}
	if got := m.snapshot.Orders[0].ItemCount(); got != 2 {
		t.Fatalf("merged item count = %d, want 2", got)
	}

	k.ledger.Advance(k.now.Add(time.Hour))
	k.publish()
	m.syncSnapshot(k.now)

	m, _ = press(t, m, "p")
	if m.snapshot.Orders[0].Status != ledger.PickedUp {
		t.Fatalf("status = %q, want pickedUp", m.snapshot.Orders[0].Status)
	}
	if len(m.visibleOrders()) != 1 {
		t.Fatalf("picked-up order hidden while show_picked_up is set")
	}

	m, _ = press(t, m, "v")
	if len(m.visibleOrders()) != 0 {
		t.Fatalf("picked-up order still visible after toggle")
	}
	if saved := prefs.Load(m.prefsPath); saved.ShowPickedUp {
		t.Fatalf("toggle not saved to prefs")
	}
}

func TestBeginEditOnReadyOrderShowsError(t *testing.T) {
	m, k := newTestModel(t)
	m, _ = press(t, m, "enter", "tab", "c")
	k.ledger.Advance(k.now.Add(time.Hour))
	k.publish()
	m.syncSnapshot(k.now)

	m, _ = press(t, m, "e")
	tst := lastToast(t, m)
	if tst.kind != toastError || tst.text != i18n.T(i18n.English, i18n.EditNotAllowed) {
		t.Fatalf("toast = %+v, want edit not allowed", tst)
	}
	if m.currentView != ViewOrders {
		t.Fatalf("view = %v, want orders", m.currentView)
	}
}

func TestReadyNoticeBecomesSingleToast(t *testing.T) {
	m, k := newTestModel(t)
	notice := state.Notice{ID: "n-1", OrderID: 7, At: k.now}

	now := time.Now()
	m.applySnapshot(k.store.Snapshot(), []state.Notice{notice}, now)
	m.applySnapshot(k.store.Snapshot(), []state.Notice{notice}, now)

	count := 0
	for _, tst := range m.toasts {
		if tst.id == notice.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("toasts for notice = %d, want 1", count)
	}
	if want := i18n.WithID(i18n.English, i18n.OrderReady, 7); lastToast(t, m).text != want {
		t.Fatalf("toast = %q, want %q", lastToast(t, m).text, want)
	}
}

func TestEditClosedNoticeShowsError(t *testing.T) {
	m, k := newTestModel(t)
	notice := state.Notice{ID: "n-2", OrderID: 3, Kind: state.NoticeEditClosed, At: k.now}

	m.applySnapshot(k.store.Snapshot(), []state.Notice{notice}, time.Now())

	tst := lastToast(t, m)
	if tst.kind != toastError || tst.text != i18n.WithID(i18n.English, i18n.EditClosed, 3) {
		t.Fatalf("toast = %+v, want edit-closed error for order 3", tst)
	}
}

func TestToggleLanguage(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "L")
	if m.lang() != i18n.Portuguese {
		t.Fatalf("lang = %q, want pt", m.lang())
	}
	if !strings.Contains(m.View(), i18n.T(i18n.Portuguese, i18n.MenuTitle)) {
		t.Fatalf("view not rendered in Portuguese")
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.theme.Name

	m, _ = press(t, m, "T")
	if m.theme.Name == before {
		t.Fatalf("theme not cycled from %q", before)
	}
	if saved := prefs.Load(m.prefsPath); saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestHelpClosesOnAnyKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("help not shown")
	}
	m, _ = press(t, m, "enter")
	if m.showHelp {
		t.Fatalf("help still shown")
	}
	if len(m.snapshot.Cart) != 0 {
		t.Fatalf("closing help also added to cart")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "enter", "tab", "c")
	for range viewOrder {
		if out := m.View(); !strings.Contains(out, i18n.T(i18n.English, i18n.AppTitle)) {
			t.Fatalf("view %v missing header", m.currentView)
		}
		m.switchView(1)
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("create: %w", ledger.ErrEmptyCart), i18n.T(i18n.English, i18n.EmptyCartWarning)},
		{ledger.ErrWindowExpired, i18n.T(i18n.English, i18n.EditExpired)},
		{fmt.Errorf("order 9: %w", ledger.ErrNotFound), i18n.T(i18n.English, i18n.OrderNotFound)},
		{ledger.ErrNoEdit, i18n.T(i18n.English, i18n.EditNotAllowed)},
		{menu.ErrUnavailable, i18n.T(i18n.English, i18n.Unavailable)},
		{errors.New("disk full"), "disk full"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := errorText(i18n.English, tt.err); got != tt.want {
			t.Fatalf("errorText(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestToastsExpireAndStayBounded(t *testing.T) {
	var m Model
	now := time.Now()
	for i := 0; i < maxToasts+2; i++ {
		m.pushToast(fmt.Sprintf("t%d", i), toastInfo, now)
	}
	if len(m.toasts) != maxToasts {
		t.Fatalf("toasts = %d, want %d", len(m.toasts), maxToasts)
	}
	if m.toasts[0].text != "t2" {
		t.Fatalf("oldest toast = %q, want t2", m.toasts[0].text)
	}
	m.pruneToasts(now.Add(ToastLifetime))
	if len(m.toasts) != 0 {
		t.Fatalf("toasts = %d after expiry, want 0", len(m.toasts))
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		total, selected, height int
		start, end              int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 19, 5, 15, 20},
		{20, 10, 5, 8, 13},
		{0, 0, 5, 0, 0},
	}
	for _, tt := range tests {
		start, end := window(tt.total, tt.selected, tt.height)
		if start != tt.start || end != tt.end {
			t.Fatalf("window(%d,%d,%d) = %d,%d, want %d,%d",
				tt.total, tt.selected, tt.height, start, end, tt.start, tt.end)
		}
	}
}

func TestActivityLevelFilterCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentView = ViewActivity
	m.handleActivity(activityMsg{entries: []activity.Entry{
		{Level: "info", Message: "order created", OrderID: 1},
		{Level: "warn", Message: "save state failed"},
	}})

	m, _ = press(t, m, "f", "f")
	if m.activityLevel != "warn" {
		t.Fatalf("activityLevel = %q, want warn", m.activityLevel)
	}
	content := m.renderActivityContent()
	if strings.Contains(content, "order created") || !strings.Contains(content, "save state failed") {
		t.Fatalf("filtered content = %q", content)
	}

	m, _ = press(t, m, "f", "f")
	if m.activityLevel != "" {
		t.Fatalf("activityLevel = %q, want empty after full cycle", m.activityLevel)
	}
}

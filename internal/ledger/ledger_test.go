package ledger

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/darsamo/bites/internal/menu"
)

type sectionMap map[string]menu.Category

func (s sectionMap) CategoryOf(name string) (menu.Category, bool) {
	c, ok := s[name]
	return c, ok
}

var testSections = sectionMap{
	"Espresso":   menu.Drinks,
	"Cappuccino": menu.Drinks,
	"Lemon Tea":  menu.Drinks,
	"Muffin":     menu.Snacks,
	"Hot dog":    menu.Snacks,
}

var t0 = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestLedger() *Ledger {
	return New(Options{Timings: DefaultTimings(), Sections: testSections})
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	l := newTestLedger()

	l.AddItem("Espresso", 7000)
	got := l.AddItem("Espresso", 9999)
	if got.Quantity != 2 || got.UnitPrice != 7000 {
		t.Fatalf("AddItem = %#v, want quantity 2 at the first price", got)
	}
	l.AddItem("Muffin", 6000)

	want := []CartLine{
		{Name: "Espresso", UnitPrice: 7000, Quantity: 2},
		{Name: "Muffin", UnitPrice: 6000, Quantity: 1},
	}
	if cart := l.Cart(); !reflect.DeepEqual(cart, want) {
		t.Fatalf("Cart = %#v, want %#v", cart, want)
	}
	if got := l.CartTotal(); got != 20000 {
		t.Fatalf("CartTotal = %d, want 20000", got)
	}
	if got := l.CartCount(); got != 3 {
		t.Fatalf("CartCount = %d, want 3", got)
	}
}

func TestChangeQuantity(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	l.AddItem("Muffin", 6000)

	l.ChangeQuantity("Espresso", 2)
	l.ChangeQuantity("Unknown", 5)
	l.ChangeQuantity("Muffin", -1)

	want := []CartLine{{Name: "Espresso", UnitPrice: 7000, Quantity: 3}}
	if cart := l.Cart(); !reflect.DeepEqual(cart, want) {
		t.Fatalf("Cart = %#v, want %#v", cart, want)
	}

	l.ChangeQuantity("Espresso", -10)
	if cart := l.Cart(); len(cart) != 0 {
		t.Fatalf("Cart = %#v, want empty after dropping below zero", cart)
	}
}

func TestCartInvariantsUnderRandomisedEdits(t *testing.T) {
	l := newTestLedger()
	names := []string{"Espresso", "Muffin", "Hot dog"}
	deltas := []int{1, -1, 3, -2, 0, -5, 2}

	for i := 0; i < 200; i++ {
		name := names[i%len(names)]
		if i%3 == 0 {
			l.AddItem(name, 100)
		} else {
			l.ChangeQuantity(name, deltas[i%len(deltas)])
		}

		seen := map[string]bool{}
		for _, line := range l.Cart() {
			if line.Quantity <= 0 {
				t.Fatalf("step %d: line %q has quantity %d", i, line.Name, line.Quantity)
			}
			if seen[line.Name] {
				t.Fatalf("step %d: duplicate line %q", i, line.Name)
			}
			seen[line.Name] = true
		}
	}
}

func TestRemoveItem(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	l.AddItem("Espresso", 7000)
	l.AddItem("Muffin", 6000)

	l.RemoveItem("Espresso")
	if cart := l.Cart(); len(cart) != 1 || cart[0].Name != "Muffin" {
		t.Fatalf("Cart = %#v, want only Muffin", cart)
	}
}

func TestCart_ReturnsCopy(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)

	cart := l.Cart()
	cart[0].Quantity = 99
	if got := l.Cart()[0].Quantity; got != 1 {
		t.Fatalf("Cart should copy lines; quantity = %d, want 1", got)
	}
}

func TestCreateOrder_EmptyCartMutatesNothing(t *testing.T) {
	l := newTestLedger()

	before := l.Export()
	_, err := l.CreateOrder(t0)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("CreateOrder err = %v, want ErrEmptyCart", err)
	}
	if after := l.Export(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed: before %#v after %#v", before, after)
	}
	if _, ok := l.NextWake(); ok {
		t.Fatalf("NextWake ok = true, want no scheduled work")
	}
}

func TestCreateOrder_SnapshotsCart(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	l.AddItem("Muffin", 6000)
	l.AddItem("Muffin", 6000)

	o, err := l.CreateOrder(t0)
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if o.ID != 1 {
		t.Fatalf("ID = %d, want 1", o.ID)
	}
	if o.Total() != 19000 {
		t.Fatalf("Total = %d, want 19000", o.Total())
	}
	if o.Category != menu.Mixed {
		t.Fatalf("Category = %q, want mixed", o.Category)
	}
	if o.Status != Pending {
		t.Fatalf("Status = %q, want pending", o.Status)
	}
	if !o.CreatedAt.Equal(t0) || !o.EstimatedReadyAt.IsZero() {
		t.Fatalf("CreatedAt/EstimatedReadyAt = %v/%v, want %v/zero", o.CreatedAt, o.EstimatedReadyAt, t0)
	}
	if cart := l.Cart(); len(cart) != 0 {
		t.Fatalf("Cart = %#v, want empty", cart)
	}
	if at, ok := l.NextWake(); !ok || !at.Equal(t0.Add(2*time.Second)) {
		t.Fatalf("NextWake = %v/%v, want kickoff at +2s", at, ok)
	}
}

func TestCreateOrder_Categories(t *testing.T) {
	cases := []struct {
		name  string
		items []string
		want  menu.Category
	}{
		{"drinks only", []string{"Espresso", "Lemon Tea"}, menu.Drinks},
		{"snacks only", []string{"Muffin", "Hot dog"}, menu.Snacks},
		{"both", []string{"Muffin", "Cappuccino"}, menu.Mixed},
		{"unresolved defaults to drinks", []string{"Mystery"}, menu.Drinks},
		{"unresolved ignored", []string{"Mystery", "Muffin"}, menu.Snacks},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger()
			for _, name := range tc.items {
				l.AddItem(name, 100)
			}
			o, err := l.CreateOrder(t0)
			if err != nil {
				t.Fatalf("CreateOrder returned error: %v", err)
			}
			if o.Category != tc.want {
				t.Fatalf("Category = %q, want %q", o.Category, tc.want)
			}
		})
	}
}

func TestCreateOrder_IDsNeverReused(t *testing.T) {
	l := newTestLedger()
	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		l.AddItem("Espresso", 7000)
		o, err := l.CreateOrder(t0)
		if err != nil {
			t.Fatalf("CreateOrder returned error: %v", err)
		}
		if _, err := l.CompleteOrder(o.ID, t0); err != nil {
			t.Fatalf("CompleteOrder returned error: %v", err)
		}
		l.Advance(t0.Add(time.Hour))
		if seen[o.ID] {
			t.Fatalf("order id %d reused", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestStatusProgression(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)

	status := func() Status {
		got, ok := l.Order(o.ID)
		if !ok {
			t.Fatalf("order %d missing", o.ID)
		}
		return got.Status
	}

	if tr := l.Advance(t0.Add(time.Second)); len(tr) != 0 || status() != Pending {
		t.Fatalf("at +1s: transitions %v status %q, want none/pending", tr, status())
	}

	tr := l.Advance(t0.Add(2 * time.Second))
	if len(tr) != 1 || tr[0].From != Pending || tr[0].To != Preparing {
		t.Fatalf("at +2s: transitions = %#v, want pending->preparing", tr)
	}
	got, _ := l.Order(o.ID)
	if want := t0.Add(7 * time.Second); !got.EstimatedReadyAt.Equal(want) {
		t.Fatalf("EstimatedReadyAt = %v, want %v", got.EstimatedReadyAt, want)
	}

	if tr := l.Advance(t0.Add(6 * time.Second)); len(tr) != 0 || status() != Preparing {
		t.Fatalf("at +6s: transitions %v status %q, want none/preparing", tr, status())
	}

	tr = l.Advance(t0.Add(7 * time.Second))
	if len(tr) != 1 || tr[0].To != Ready {
		t.Fatalf("at +7s: transitions = %#v, want preparing->ready", tr)
	}

	// No automatic transition out of ready.
	if tr := l.Advance(t0.Add(24 * time.Hour)); len(tr) != 0 || status() != Ready {
		t.Fatalf("next day: transitions %v status %q, want none/ready", tr, status())
	}
}

func TestAdvance_LateClockNeverSkips(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Muffin", 6000)
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)

	tr := l.Advance(t0.Add(time.Hour))
	want := []Transition{
		{OrderID: o.ID, From: Pending, To: Preparing, At: t0.Add(2 * time.Second)},
		{OrderID: o.ID, From: Preparing, To: Ready, At: t0.Add(22 * time.Second)},
	}
	if !reflect.DeepEqual(tr, want) {
		t.Fatalf("transitions = %#v, want %#v", tr, want)
	}
}

func TestAdvance_OrdersByDueTime(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Muffin", 6000)
	l.AddItem("Espresso", 7000)
	mixed, _ := l.CreateOrder(t0)
	l.AddItem("Espresso", 7000)
	drinks, _ := l.CreateOrder(t0.Add(time.Second))

	tr := l.Advance(t0.Add(time.Minute))
	var readyOrder []int
	for _, x := range tr {
		if x.To == Ready {
			readyOrder = append(readyOrder, x.OrderID)
		}
	}
	if !reflect.DeepEqual(readyOrder, []int{drinks.ID, mixed.ID}) {
		t.Fatalf("ready order = %v, want [%d %d]", readyOrder, drinks.ID, mixed.ID)
	}
}

func TestTakeReady_FiresOnce(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)

	if got := l.TakeReady(); len(got) != 0 {
		t.Fatalf("TakeReady before ready = %#v, want none", got)
	}
	l.Advance(t0.Add(time.Minute))

	got := l.TakeReady()
	if len(got) != 1 || got[0].ID != o.ID || !got[0].Notified {
		t.Fatalf("TakeReady = %#v, want order %d notified", got, o.ID)
	}
	for i := 0; i < 3; i++ {
		if again := l.TakeReady(); len(again) != 0 {
			t.Fatalf("TakeReady poll %d = %#v, want none", i, again)
		}
	}
	if stored, _ := l.Order(o.ID); !stored.Notified {
		t.Fatalf("stored Notified = false, want true")
	}
}

func TestMergeIntoOrder(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	l.Advance(t0.Add(10 * time.Second))
	if got, _ := l.Order(o.ID); got.Status != Ready {
		t.Fatalf("Status = %q, want ready before merge", got.Status)
	}

	l.AddItem("Espresso", 7000)
	l.AddItem("Espresso", 7000)
	l.AddItem("Muffin", 6000)
	now := t0.Add(time.Minute)
	merged, err := l.MergeIntoOrder(o.ID, now)
	if err != nil {
		t.Fatalf("MergeIntoOrder returned error: %v", err)
	}

	wantItems := []CartLine{
		{Name: "Espresso", UnitPrice: 7000, Quantity: 3},
		{Name: "Muffin", UnitPrice: 6000, Quantity: 1},
	}
	if !reflect.DeepEqual(merged.Items, wantItems) {
		t.Fatalf("Items = %#v, want %#v", merged.Items, wantItems)
	}
	if merged.Total() != 27000 {
		t.Fatalf("Total = %d, want 27000", merged.Total())
	}
	if merged.Category != menu.Mixed || merged.Status != Pending || !merged.CreatedAt.Equal(now) {
		t.Fatalf("merged = %#v, want mixed/pending/createdAt=now", merged)
	}
	if !merged.EstimatedReadyAt.IsZero() || merged.Notified {
		t.Fatalf("merged should reset eta and notification: %#v", merged)
	}
	if cart := l.Cart(); len(cart) != 0 {
		t.Fatalf("Cart = %#v, want empty", cart)
	}

	// The old ready wake is gone; the new kickoff is now+2s.
	tr := l.Advance(now.Add(2 * time.Second))
	if len(tr) != 1 || tr[0].To != Preparing {
		t.Fatalf("transitions = %#v, want restart kickoff", tr)
	}
}

func TestMergeIntoOrder_Failures(t *testing.T) {
	l := newTestLedger()
	if _, err := l.MergeIntoOrder(42, t0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("merge unknown err = %v, want ErrNotFound", err)
	}

	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	if _, err := l.MergeIntoOrder(o.ID, t0); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("merge empty cart err = %v, want ErrEmptyCart", err)
	}

	if _, err := l.CompleteOrder(o.ID, t0); err != nil {
		t.Fatalf("CompleteOrder returned error: %v", err)
	}
	l.AddItem("Muffin", 6000)
	if _, err := l.MergeIntoOrder(o.ID, t0); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("merge picked up err = %v, want ErrInvalidState", err)
	}
	if cart := l.Cart(); len(cart) != 1 {
		t.Fatalf("failed merge should keep cart, got %#v", cart)
	}
}

func TestBeginEdit(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	l.AddItem("Muffin", 6000)
	o, _ := l.CreateOrder(t0)

	if err := l.BeginEdit(o.ID, t0.Add(3*time.Minute+time.Second)); !errors.Is(err, ErrWindowExpired) {
		t.Fatalf("late BeginEdit err = %v, want ErrWindowExpired", err)
	}
	if id := l.EditingOrderID(); id != 0 {
		t.Fatalf("EditingOrderID = %d after failure, want 0", id)
	}

	if err := l.BeginEdit(o.ID, t0.Add(3*time.Minute)); err != nil {
		t.Fatalf("BeginEdit at the window edge returned error: %v", err)
	}
	if id := l.EditingOrderID(); id != o.ID {
		t.Fatalf("EditingOrderID = %d, want %d", id, o.ID)
	}

	// Mutating the cart must not reach the stored order.
	l.ChangeQuantity("Espresso", 5)
	l.RemoveItem("Muffin")
	l.AddItem("Hot dog", 15000)
	stored, _ := l.Order(o.ID)
	want := []CartLine{
		{Name: "Espresso", UnitPrice: 7000, Quantity: 1},
		{Name: "Muffin", UnitPrice: 6000, Quantity: 1},
	}
	if !reflect.DeepEqual(stored.Items, want) {
		t.Fatalf("stored items = %#v, want %#v", stored.Items, want)
	}
}

func TestBeginEdit_Failures(t *testing.T) {
	l := newTestLedger()
	if err := l.BeginEdit(7, t0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("BeginEdit unknown err = %v, want ErrNotFound", err)
	}

	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	l.Advance(t0.Add(time.Minute))
	if err := l.BeginEdit(o.ID, t0.Add(time.Minute)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("BeginEdit ready err = %v, want ErrInvalidState", err)
	}
}

func TestCommitEdit(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	l.Advance(t0.Add(3 * time.Second))

	if err := l.BeginEdit(o.ID, t0.Add(3*time.Second)); err != nil {
		t.Fatalf("BeginEdit returned error: %v", err)
	}
	l.ChangeQuantity("Espresso", 1)
	l.AddItem("Muffin", 6000)

	now := t0.Add(time.Minute)
	updated, err := l.CommitEdit(now)
	if err != nil {
		t.Fatalf("CommitEdit returned error: %v", err)
	}
	if updated.Total() != 20000 || updated.Category != menu.Mixed {
		t.Fatalf("updated = %#v, want total 20000 mixed", updated)
	}
	if updated.Status != Pending || !updated.CreatedAt.Equal(now) {
		t.Fatalf("updated status/createdAt = %q/%v, want pending/%v", updated.Status, updated.CreatedAt, now)
	}
	if l.EditingOrderID() != 0 || len(l.Cart()) != 0 {
		t.Fatalf("edit session or cart not cleared")
	}
	if got := len(l.Orders(true)); got != 1 {
		t.Fatalf("len(Orders) = %d, want 1 (edit must not create a new order)", got)
	}

	// Items are an independent snapshot of the cart.
	l.AddItem("Espresso", 7000)
	stored, _ := l.Order(o.ID)
	if stored.Items[0].Quantity != 2 {
		t.Fatalf("stored Espresso quantity = %d, want 2", stored.Items[0].Quantity)
	}
}

func TestCommitEdit_Failures(t *testing.T) {
	l := newTestLedger()
	if _, err := l.CommitEdit(t0); !errors.Is(err, ErrNoEdit) || !errors.Is(err, ErrInvalidState) {
		t.Fatalf("CommitEdit without session err = %v, want ErrNoEdit", err)
	}

	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	if err := l.BeginEdit(o.ID, t0); err != nil {
		t.Fatalf("BeginEdit returned error: %v", err)
	}
	l.RemoveItem("Espresso")
	if _, err := l.CommitEdit(t0); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("CommitEdit empty err = %v, want ErrEmptyCart", err)
	}
	if l.EditingOrderID() != o.ID {
		t.Fatalf("empty-cart failure should keep the session")
	}

	// A restored record without the edited order drops the session.
	l.AddItem("Espresso", 7000)
	s := l.Export()
	s.Orders = nil
	l.Restore(s, t0)
	if l.EditingOrderID() != 0 {
		t.Fatalf("Restore kept an edit session on a missing order")
	}
}

func TestCommitEdit_OrderGoneClearsSession(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	if err := l.BeginEdit(o.ID, t0); err != nil {
		t.Fatalf("BeginEdit returned error: %v", err)
	}

	// Drop the order directly, as a purge racing the edit would.
	l.mu.Lock()
	l.remove(o.ID)
	l.mu.Unlock()

	if _, err := l.CommitEdit(t0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CommitEdit err = %v, want ErrNotFound", err)
	}
	if l.EditingOrderID() != 0 {
		t.Fatalf("EditingOrderID = %d, want session cleared", l.EditingOrderID())
	}
}

func TestClearCart_CancelsEditKeepsOrder(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	if err := l.BeginEdit(o.ID, t0); err != nil {
		t.Fatalf("BeginEdit returned error: %v", err)
	}
	l.AddItem("Muffin", 6000)

	l.ClearCart()
	if l.EditingOrderID() != 0 || len(l.Cart()) != 0 {
		t.Fatalf("ClearCart left session %d cart %#v", l.EditingOrderID(), l.Cart())
	}
	stored, _ := l.Order(o.ID)
	if len(stored.Items) != 1 || stored.Items[0].Name != "Espresso" {
		t.Fatalf("stored items = %#v, want untouched", stored.Items)
	}
}

func TestEditSessionClosesWhenOrderBecomesReady(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	if err := l.BeginEdit(o.ID, t0); err != nil {
		t.Fatalf("BeginEdit returned error: %v", err)
	}

	l.AddItem("Muffin", 6000)

	transitions := l.Advance(t0.Add(time.Minute))
	if id := l.EditingOrderID(); id != 0 {
		t.Fatalf("EditingOrderID = %d, want 0 once the order is ready", id)
	}
	if cart := l.Cart(); len(cart) != 0 {
		t.Fatalf("cart = %#v, want the edit copy discarded", cart)
	}
	closed := 0
	for _, tr := range transitions {
		if tr.EditClosed {
			closed++
			if tr.OrderID != o.ID || tr.To != Ready {
				t.Fatalf("edit-closing transition = %+v, want order %d to ready", tr, o.ID)
			}
		}
	}
	if closed != 1 {
		t.Fatalf("EditClosed transitions = %d, want 1", closed)
	}

	if _, _, err := l.Checkout(t0.Add(time.Minute)); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("Checkout err = %v, want ErrEmptyCart", err)
	}
	if orders := l.Orders(true); len(orders) != 1 || len(orders[0].Items) != 1 {
		t.Fatalf("orders = %#v, want order 1 untouched and no duplicate", orders)
	}
}

func TestCheckout_CreatesOrCommits(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)

	o, edited, err := l.Checkout(t0)
	if err != nil || edited || o.ID != 1 {
		t.Fatalf("Checkout = (%d, %v, %v), want new order 1", o.ID, edited, err)
	}

	if err := l.BeginEdit(o.ID, t0.Add(time.Second)); err != nil {
		t.Fatalf("BeginEdit returned error: %v", err)
	}
	l.ChangeQuantity("Espresso", 1)

	o, edited, err = l.Checkout(t0.Add(time.Second))
	if err != nil || !edited || o.ID != 1 {
		t.Fatalf("Checkout = (%d, %v, %v), want order 1 updated", o.ID, edited, err)
	}
	if o.ItemCount() != 2 {
		t.Fatalf("ItemCount = %d, want 2", o.ItemCount())
	}
	if n := len(l.Orders(true)); n != 1 {
		t.Fatalf("orders = %d, want 1", n)
	}
	if l.EditingOrderID() != 0 {
		t.Fatalf("edit session still open after Checkout")
	}
}

func TestCompleteOrder_Cooldown(t *testing.T) {
	l := New(Options{
		Timings:  Timings{KickoffDelay: time.Second, PrepSingle: time.Second, PrepMixed: time.Second, Cooldown: 5 * time.Minute, EditWindow: time.Minute},
		Sections: testSections,
	})
	if _, err := l.CompleteOrder(3, t0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteOrder unknown err = %v, want ErrNotFound", err)
	}

	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)
	l.Advance(t0.Add(2 * time.Second))

	done := t0.Add(10 * time.Second)
	picked, err := l.CompleteOrder(o.ID, done)
	if err != nil {
		t.Fatalf("CompleteOrder returned error: %v", err)
	}
	if picked.Status != PickedUp || !picked.PickedUpAt.Equal(done) {
		t.Fatalf("picked = %#v, want pickedUp at %v", picked, done)
	}

	if got := l.Orders(false); len(got) != 0 {
		t.Fatalf("Orders(false) = %#v, want picked-up order hidden", got)
	}
	if got := l.Orders(true); len(got) != 1 {
		t.Fatalf("Orders(true) len = %d, want 1", len(got))
	}

	l.Advance(done.Add(5*time.Minute - time.Second))
	if _, ok := l.Order(o.ID); !ok {
		t.Fatalf("order purged before cooldown elapsed")
	}

	tr := l.Advance(done.Add(5 * time.Minute))
	if len(tr) != 1 || !tr[0].Purged() {
		t.Fatalf("transitions = %#v, want one purge", tr)
	}
	if _, ok := l.Order(o.ID); ok {
		t.Fatalf("order still present after cooldown")
	}
}

func TestCompleteOrder_Idempotent(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)

	first, _ := l.CompleteOrder(o.ID, t0)
	second, err := l.CompleteOrder(o.ID, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("second CompleteOrder returned error: %v", err)
	}
	if !second.PickedUpAt.Equal(first.PickedUpAt) {
		t.Fatalf("PickedUpAt moved from %v to %v", first.PickedUpAt, second.PickedUpAt)
	}
	// Kitchen wake was replaced, so the order never reaches ready.
	for _, tr := range l.Advance(t0.Add(10 * time.Minute)) {
		if tr.To == Preparing || tr.To == Ready {
			t.Fatalf("picked-up order advanced: %#v", tr)
		}
	}
}

func TestTimeLeft(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	o, _ := l.CreateOrder(t0)

	if left, ok := l.TimeLeft(o.ID, t0); !ok || left != 7*time.Second {
		t.Fatalf("pending TimeLeft = %v/%v, want 7s", left, ok)
	}
	l.Advance(t0.Add(2 * time.Second))
	if left, _ := l.TimeLeft(o.ID, t0.Add(4*time.Second)); left != 3*time.Second {
		t.Fatalf("preparing TimeLeft = %v, want 3s", left)
	}
	if left, _ := l.TimeLeft(o.ID, t0.Add(30*time.Second)); left != 0 {
		t.Fatalf("overdue TimeLeft = %v, want 0", left)
	}
	if _, ok := l.TimeLeft(99, t0); ok {
		t.Fatalf("TimeLeft unknown ok = true, want false")
	}
}

func TestStatusMonotonicAcrossPolling(t *testing.T) {
	l := newTestLedger()
	l.AddItem("Espresso", 7000)
	l.AddItem("Muffin", 6000)
	o, _ := l.CreateOrder(t0)

	last := 0
	for step := 0; step <= 60; step++ {
		l.Advance(t0.Add(time.Duration(step) * 500 * time.Millisecond))
		got, _ := l.Order(o.ID)
		r := got.Status.rank()
		if r < last || r > last+1 {
			t.Fatalf("step %d: status %q jumped from rank %d", step, got.Status, last)
		}
		last = r
	}
	if last != Ready.rank() {
		t.Fatalf("final rank = %d, want ready", last)
	}
}

func TestTimings_PrepTime(t *testing.T) {
	tm := DefaultTimings()
	cases := map[menu.Category]time.Duration{
		menu.Drinks:              5 * time.Second,
		menu.Snacks:              5 * time.Second,
		menu.Mixed:               20 * time.Second,
		menu.Category("dessert"): 5 * time.Second,
	}
	for c, want := range cases {
		if got := tm.PrepTime(c); got != want {
			t.Fatalf("PrepTime(%q) = %v, want %v", c, got, want)
		}
	}
}

package ledger

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/darsamo/bites/internal/menu"
)

// Sections resolves the menu category an item name belongs to.
type Sections interface {
	CategoryOf(name string) (menu.Category, bool)
}

// Timings are the kitchen constants that drive the status machine.
type Timings struct {
	KickoffDelay time.Duration // order placed -> kitchen acknowledges
	PrepSingle   time.Duration // drinks-only or snacks-only orders
	PrepMixed    time.Duration // orders spanning both
	Cooldown     time.Duration // picked up -> purged
	EditWindow   time.Duration // how long after creation an order may be edited
}

// DefaultTimings returns the demo timings of the kiosk.
func DefaultTimings() Timings {
	return Timings{
		KickoffDelay: 2 * time.Second,
		PrepSingle:   5 * time.Second,
		PrepMixed:    20 * time.Second,
		Cooldown:     30 * time.Minute,
		EditWindow:   3 * time.Minute,
	}
}

// PrepTime returns the preparation time for a category.
func (t Timings) PrepTime(c menu.Category) time.Duration {
	if c == menu.Mixed {
		return t.PrepMixed
	}
	return t.PrepSingle
}

// Options configure a Ledger.
type Options struct {
	Timings  Timings
	Sections Sections    // nil treats every item as uncategorised
	Logger   *zap.Logger // nil discards
}

// Transition records one automatic status change made by Advance.
type Transition struct {
	OrderID int
	From    Status
	To      Status // empty when the order was purged
	At      time.Time

	// EditClosed is set when the order became ready during an edit session.
	// The session and its cart were discarded.
	EditClosed bool
}

// Purged reports whether the transition removed the order.
func (t Transition) Purged() bool {
	return t.To == ""
}

// Ledger owns the cart, the active orders and the single edit session.
// All methods are safe for concurrent use; each runs to completion under one lock.
type Ledger struct {
	mu       sync.Mutex
	timings  Timings
	sections Sections
	log      *zap.Logger

	cart      []CartLine
	orders    []*Order // creation order
	nextID    int
	editingID int // 0 = no edit session
	wakes     wakeQueue
}

// New returns an empty ledger whose first order id is 1.
func New(opts Options) *Ledger {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		timings:  opts.Timings,
		sections: opts.Sections,
		log:      logger,
		nextID:   1,
		wakes:    newWakeQueue(),
	}
}

// Timings returns the configured kitchen timings.
func (l *Ledger) Timings() Timings {
	return l.timings
}

// AddItem adds one unit of name to the cart and returns the resulting line.
func (l *Ledger) AddItem(name string, unitPrice int64) CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := findLine(l.cart, name); i >= 0 {
		l.cart[i].Quantity++
		return l.cart[i]
	}
	if unitPrice < 0 {
		unitPrice = 0
	}
	line := CartLine{Name: name, UnitPrice: unitPrice, Quantity: 1}
	l.cart = append(l.cart, line)
	return line
}

// ChangeQuantity adjusts a cart line by delta, removing it at zero or below.
// Unknown names are ignored.
func (l *Ledger) ChangeQuantity(name string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := findLine(l.cart, name)
	if i < 0 {
		return
	}
	l.cart[i].Quantity += delta
	if l.cart[i].Quantity <= 0 {
		l.cart = append(l.cart[:i], l.cart[i+1:]...)
	}
}

// RemoveItem drops a whole cart line.
func (l *Ledger) RemoveItem(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := findLine(l.cart, name); i >= 0 {
		l.cart = append(l.cart[:i], l.cart[i+1:]...)
	}
}

// ClearCart empties the cart and abandons any edit session. The order that
// was being edited is left untouched.
func (l *Ledger) ClearCart() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cart = nil
	l.editingID = 0
}

// Cart returns a copy of the cart lines.
func (l *Ledger) Cart() []CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneLines(l.cart)
}

// CartTotal is the derived price of the cart.
func (l *Ledger) CartTotal() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sumLines(l.cart)
}

// CartCount is the number of units in the cart.
func (l *Ledger) CartCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return countLines(l.cart)
}

// EditingOrderID returns the order under edit, or 0.
func (l *Ledger) EditingOrderID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.editingID
}

// Orders returns copies of the active orders in creation order.
func (l *Ledger) Orders(includePickedUp bool) []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		if o.Status == PickedUp && !includePickedUp {
			continue
		}
		out = append(out, o.clone())
	}
	return out
}

// Order returns a copy of one active order.
func (l *Ledger) Order(id int) (Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.find(id)
	if o == nil {
		return Order{}, false
	}
	return o.clone(), true
}

// CreateOrder commits the cart as a new pending order and schedules the
// kitchen kickoff. The cart and any edit session are cleared.
func (l *Ledger) CreateOrder(now time.Time) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.createOrder(now)
}

// Checkout commits the cart into the order being edited when an edit session
// is open, and places it as a new order otherwise. edited reports which one
// happened. The choice and the commit run under one lock.
func (l *Ledger) Checkout(now time.Time) (o Order, edited bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.editingID != 0 {
		o, err = l.commitEdit(now)
		return o, true, err
	}
	o, err = l.createOrder(now)
	return o, false, err
}

func (l *Ledger) createOrder(now time.Time) (Order, error) {
	if len(l.cart) == 0 {
		return Order{}, fmt.Errorf("create order: %w", ErrEmptyCart)
	}

	o := &Order{
		ID:        l.nextID,
		Items:     cloneLines(l.cart),
		Status:    Pending,
		CreatedAt: now,
		Category:  l.categorize(l.cart),
	}
	l.nextID++
	l.orders = append(l.orders, o)
	l.cart = nil
	l.editingID = 0
	l.wakes.schedule(o.ID, wakeKickoff, now.Add(l.timings.KickoffDelay))

	l.log.Info("order created",
		zap.Int("order_id", o.ID),
		zap.String("category", string(o.Category)),
		zap.Int64("total", o.Total()),
	)
	return o.clone(), nil
}

// MergeIntoOrder folds the cart into an existing order and restarts it at
// pending. Matching names sum their quantities; others are appended.
func (l *Ledger) MergeIntoOrder(id int, now time.Time) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.find(id)
	if o == nil {
		return Order{}, fmt.Errorf("merge into order %d: %w", id, ErrNotFound)
	}
	if len(l.cart) == 0 {
		return Order{}, fmt.Errorf("merge into order %d: %w", id, ErrEmptyCart)
	}
	if o.Status == PickedUp {
		return Order{}, fmt.Errorf("merge into order %d: already picked up: %w", id, ErrInvalidState)
	}

	for _, line := range l.cart {
		if i := findLine(o.Items, line.Name); i >= 0 {
			o.Items[i].Quantity += line.Quantity
			continue
		}
		o.Items = append(o.Items, line)
	}
	l.cart = nil
	l.editingID = 0
	l.restart(o, now)

	l.log.Info("items merged into order",
		zap.Int("order_id", o.ID),
		zap.String("category", string(o.Category)),
		zap.Int64("total", o.Total()),
	)
	return o.clone(), nil
}

// BeginEdit opens an edit session on an order: the cart is replaced with
// independent copies of the order's items.
func (l *Ledger) BeginEdit(id int, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.find(id)
	if o == nil {
		return fmt.Errorf("edit order %d: %w", id, ErrNotFound)
	}
	if !o.Status.Editable() {
		return fmt.Errorf("edit order %d: status %s: %w", id, o.Status, ErrInvalidState)
	}
	if now.Sub(o.CreatedAt) > l.timings.EditWindow {
		return fmt.Errorf("edit order %d: %w", id, ErrWindowExpired)
	}

	l.editingID = id
	l.cart = cloneLines(o.Items)
	l.log.Info("edit session opened", zap.Int("order_id", id))
	return nil
}

// CommitEdit replaces the edited order's items with the cart and restarts it.
// If the order disappeared the session is dropped and ErrNotFound returned.
func (l *Ledger) CommitEdit(now time.Time) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commitEdit(now)
}

func (l *Ledger) commitEdit(now time.Time) (Order, error) {
	if l.editingID == 0 {
		return Order{}, fmt.Errorf("commit edit: %w", ErrNoEdit)
	}
	if len(l.cart) == 0 {
		return Order{}, fmt.Errorf("commit edit of order %d: %w", l.editingID, ErrEmptyCart)
	}
	o := l.find(l.editingID)
	if o == nil {
		id := l.editingID
		l.editingID = 0
		return Order{}, fmt.Errorf("commit edit of order %d: %w", id, ErrNotFound)
	}

	o.Items = cloneLines(l.cart)
	l.cart = nil
	l.editingID = 0
	l.restart(o, now)

	l.log.Info("order edited",
		zap.Int("order_id", o.ID),
		zap.String("category", string(o.Category)),
		zap.Int64("total", o.Total()),
	)
	return o.clone(), nil
}

// CompleteOrder marks an order picked up, stops its kitchen timer and
// schedules its removal after the cooldown. Completing an order twice keeps
// the first pickup time.
func (l *Ledger) CompleteOrder(id int, now time.Time) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.find(id)
	if o == nil {
		return Order{}, fmt.Errorf("complete order %d: %w", id, ErrNotFound)
	}
	if o.Status == PickedUp {
		return o.clone(), nil
	}

	o.Status = PickedUp
	o.PickedUpAt = now
	if l.editingID == id {
		l.editingID = 0
	}
	l.wakes.schedule(id, wakePurge, now.Add(l.timings.Cooldown))

	l.log.Info("order picked up", zap.Int("order_id", id))
	return o.clone(), nil
}

// Advance applies every scheduled transition due at or before now, oldest
// first, and returns them. A late call never skips a status: an order that is
// both due for kickoff and ready is moved through preparing first.
func (l *Ledger) Advance(now time.Time) []Transition {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Transition
	for {
		w, ok := l.wakes.popDue(now)
		if !ok {
			return out
		}
		o := l.find(w.orderID)
		if o == nil {
			continue
		}
		switch w.kind {
		case wakeKickoff:
			if o.Status != Pending {
				continue
			}
			o.Status = Preparing
			o.EstimatedReadyAt = w.at.Add(l.timings.PrepTime(o.Category))
			l.wakes.schedule(o.ID, wakeReady, o.EstimatedReadyAt)
			out = append(out, Transition{OrderID: o.ID, From: Pending, To: Preparing, At: w.at})
		case wakeReady:
			if o.Status != Preparing {
				continue
			}
			o.Status = Ready
			o.Notified = false
			tr := Transition{OrderID: o.ID, From: Preparing, To: Ready, At: w.at}
			if l.editingID == o.ID {
				// The cart holds the order's items; checking it out
				// would place them a second time.
				l.editingID = 0
				l.cart = nil
				tr.EditClosed = true
				l.log.Info("edit session closed, order is ready", zap.Int("order_id", o.ID))
			}
			out = append(out, tr)
		case wakePurge:
			if o.Status != PickedUp {
				continue
			}
			l.remove(o.ID)
			out = append(out, Transition{OrderID: o.ID, From: PickedUp, At: w.at})
		}
		l.log.Debug("order advanced",
			zap.Int("order_id", w.orderID),
			zap.Stringer("wake", w.kind),
		)
	}
}

// NextWake reports when Advance next has work to do.
func (l *Ledger) NextWake() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wakes.next()
}

// TakeReady returns ready orders that have not been announced yet and marks
// them announced, so each order is returned at most once.
func (l *Ledger) TakeReady() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Order
	for _, o := range l.orders {
		if o.Status != Ready || o.Notified {
			continue
		}
		o.Notified = true
		out = append(out, o.clone())
	}
	return out
}

// TimeLeft estimates how long until an order is ready. Ready and picked-up
// orders report zero.
func (l *Ledger) TimeLeft(id int, now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.find(id)
	if o == nil {
		return 0, false
	}
	var eta time.Time
	switch o.Status {
	case Pending:
		eta = o.CreatedAt.Add(l.timings.KickoffDelay + l.timings.PrepTime(o.Category))
	case Preparing:
		eta = o.EstimatedReadyAt
	default:
		return 0, true
	}
	left := eta.Sub(now)
	if left < 0 {
		left = 0
	}
	return left, true
}

// restart puts an order back at pending with a fresh kickoff. Caller holds mu.
func (l *Ledger) restart(o *Order, now time.Time) {
	o.Category = l.categorize(o.Items)
	o.CreatedAt = now
	o.Status = Pending
	o.EstimatedReadyAt = time.Time{}
	o.Notified = false
	l.wakes.schedule(o.ID, wakeKickoff, now.Add(l.timings.KickoffDelay))
}

// categorize is mixed when the lines span more than one menu category, the
// single category otherwise, and drinks when nothing resolves.
func (l *Ledger) categorize(lines []CartLine) menu.Category {
	if l.sections == nil {
		return menu.Drinks
	}
	var found menu.Category
	for _, line := range lines {
		c, ok := l.sections.CategoryOf(line.Name)
		if !ok {
			continue
		}
		if found == "" {
			found = c
		} else if found != c {
			return menu.Mixed
		}
	}
	if found == "" {
		return menu.Drinks
	}
	return found
}

func (l *Ledger) find(id int) *Order {
	for _, o := range l.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (l *Ledger) remove(id int) {
	for i, o := range l.orders {
		if o.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return
		}
	}
}

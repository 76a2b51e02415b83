package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/menu"
	"github.com/darsamo/bites/internal/state"
	"github.com/darsamo/bites/internal/storage"
)

// SessionOptions configure a Session.
type SessionOptions struct {
	Ledger   *ledger.Ledger
	Storage  storage.Store
	State    *state.Store
	Logger   *zap.Logger      // nil discards
	Language i18n.Language    // used when the saved record has none
	Clock    func() time.Time // nil uses time.Now
	NewID    func() string    // notice ids; nil uses uuid
	Backoff  time.Duration    // base delay between save retries; zero uses defaultTick
}

// Session ties the ledger to persistence and to the UI's state store. Every
// successful mutation is saved and published before the method returns.
type Session struct {
	mu sync.Mutex // serialises save and publish

	ledger *ledger.Ledger
	store  storage.Store
	view   *state.Store
	log    *zap.Logger
	now    func() time.Time
	newID  func() string

	lang       i18n.Language
	closed     bool
	dirty      bool // last save failed
	failures   int
	retryAt    time.Time
	retryDelay time.Duration
}

// OpenSession restores the saved record into the ledger, catches up on any
// transitions that fell due while the kiosk was closed, and publishes the
// first view.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.Ledger == nil || opts.Storage == nil || opts.State == nil {
		return nil, fmt.Errorf("open session: ledger, storage and state are required")
	}
	s := &Session{
		ledger:     opts.Ledger,
		store:      opts.Storage,
		view:       opts.State,
		log:        opts.Logger,
		now:        opts.Clock,
		newID:      opts.NewID,
		lang:       opts.Language,
		retryDelay: opts.Backoff,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if s.lang == "" {
		s.lang = i18n.Default
	}
	if s.retryDelay <= 0 {
		s.retryDelay = defaultTick
	}

	rec, found, err := storage.LoadOrReset(ctx, s.store, s.log)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	now := s.now()
	if found {
		s.ledger.Restore(rec.LedgerState(), now)
		s.lang = rec.LanguageOr(s.lang)
		s.log.Info("state restored",
			zap.Int("orders", len(rec.ActiveOrders)),
			zap.Int("cart_lines", len(rec.Cart)),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(now)
	s.commit(ctx, now)
	return s, nil
}

// Language returns the current display language.
func (s *Session) Language() i18n.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// AddItem puts one unit of a menu item in the cart.
func (s *Session) AddItem(ctx context.Context, item menu.Item) (ledger.CartLine, error) {
	if !item.Available {
		return ledger.CartLine{}, fmt.Errorf("%w: %s", menu.ErrUnavailable, item.Name)
	}
	line := s.ledger.AddItem(item.Name, item.Price)
	s.saveAndPublish(ctx)
	return line, nil
}

// ChangeQuantity adjusts a cart line by delta.
func (s *Session) ChangeQuantity(ctx context.Context, name string, delta int) {
	s.ledger.ChangeQuantity(name, delta)
	s.saveAndPublish(ctx)
}

// RemoveItem drops a cart line.
func (s *Session) RemoveItem(ctx context.Context, name string) {
	s.ledger.RemoveItem(name)
	s.saveAndPublish(ctx)
}

// ClearCart empties the cart and abandons any edit in progress.
func (s *Session) ClearCart(ctx context.Context) {
	s.ledger.ClearCart()
	s.saveAndPublish(ctx)
}

// Checkout places the cart as a new order, or commits it back into the
// order being edited. edited reports which one happened.
func (s *Session) Checkout(ctx context.Context) (ledger.Order, bool, error) {
	o, edited, err := s.ledger.Checkout(s.now())
	if err != nil {
		return ledger.Order{}, false, err
	}
	s.saveAndPublish(ctx)
	return o, edited, nil
}

// MergeIntoOrder adds the cart to an existing order.
func (s *Session) MergeIntoOrder(ctx context.Context, id int) (ledger.Order, error) {
	o, err := s.ledger.MergeIntoOrder(id, s.now())
	if err != nil {
		return ledger.Order{}, err
	}
	s.saveAndPublish(ctx)
	return o, nil
}

// BeginEdit loads an order into the cart for editing.
func (s *Session) BeginEdit(ctx context.Context, id int) error {
	if err := s.ledger.BeginEdit(id, s.now()); err != nil {
		return err
	}
	s.saveAndPublish(ctx)
	return nil
}

// CompleteOrder marks an order picked up.
func (s *Session) CompleteOrder(ctx context.Context, id int) (ledger.Order, error) {
	o, err := s.ledger.CompleteOrder(id, s.now())
	if err != nil {
		return ledger.Order{}, err
	}
	s.saveAndPublish(ctx)
	return o, nil
}

// SetLanguage switches the display language and persists it.
func (s *Session) SetLanguage(ctx context.Context, lang i18n.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
	s.commit(ctx, s.now())
}

// ToggleLanguage moves to the next supported language and returns it.
func (s *Session) ToggleLanguage(ctx context.Context) i18n.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = i18n.Next(s.lang)
	s.commit(ctx, s.now())
	return s.lang
}

// Tick drives the kitchen clock: it applies due transitions, announces newly
// ready orders and refreshes the published view. State is saved only when
// something changed or an earlier save is due for a retry.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	now := s.now()
	changed := s.advance(now)
	if changed || (s.dirty && !now.Before(s.retryAt)) {
		s.commit(ctx, now)
		return
	}
	s.view.Refresh(s.snapshotView(now))
}

// Close releases the storage backend. Ticks after Close are ignored.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.store.Close()
}

// advance applies due transitions and queues ready notices. Caller holds mu.
func (s *Session) advance(now time.Time) bool {
	transitions := s.ledger.Advance(now)
	var notices []state.Notice
	for _, tr := range transitions {
		if tr.EditClosed {
			notices = append(notices, state.Notice{ID: s.newID(), OrderID: tr.OrderID, Kind: state.NoticeEditClosed, At: now})
			s.log.Warn("edit discarded, order became ready", zap.Int("order_id", tr.OrderID))
		}
		if tr.Purged() {
			s.log.Info("order purged", zap.Int("order_id", tr.OrderID))
			continue
		}
		s.log.Info("order status changed",
			zap.Int("order_id", tr.OrderID),
			zap.String("from", string(tr.From)),
			zap.String("status", string(tr.To)),
		)
	}

	ready := s.ledger.TakeReady()
	for _, o := range ready {
		notices = append(notices, state.Notice{ID: s.newID(), OrderID: o.ID, At: now})
		s.log.Info("order ready",
			zap.Int("order_id", o.ID),
			zap.String("status", string(o.Status)),
			zap.String("category", string(o.Category)),
		)
	}
	s.view.Notify(notices...)
	return len(transitions) > 0 || len(ready) > 0
}

func (s *Session) saveAndPublish(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, s.now())
}

// commit saves the record and publishes the view with the outcome. Caller
// holds mu.
func (s *Session) commit(ctx context.Context, now time.Time) {
	v := s.snapshotView(now)
	rec := storage.NewRecord(s.ledger.Export(), s.lang)
	err := s.store.Save(ctx, rec)
	if err != nil {
		s.failures++
		s.dirty = true
		s.retryAt = now.Add(calculateBackoff(s.failures, s.retryDelay))
		s.log.Error("save state failed",
			zap.Error(err),
			zap.Int("failures", s.failures),
			zap.Time("retry_at", s.retryAt),
		)
		err = fmt.Errorf("save state: %w", err)
	} else {
		if s.dirty {
			s.log.Info("save state recovered", zap.Int("failures", s.failures))
		}
		s.failures = 0
		s.dirty = false
	}
	s.view.Update(&v, err)
}

func (s *Session) snapshotView(now time.Time) state.View {
	orders := s.ledger.Orders(true)
	left := make(map[int]time.Duration, len(orders))
	for _, o := range orders {
		if o.Status != ledger.Pending && o.Status != ledger.Preparing {
			continue
		}
		if d, ok := s.ledger.TimeLeft(o.ID, now); ok {
			left[o.ID] = d
		}
	}
	return state.View{
		Cart:           s.ledger.Cart(),
		Orders:         orders,
		EditingOrderID: s.ledger.EditingOrderID(),
		Language:       s.lang,
		TimeLeft:       left,
		At:             now,
	}
}

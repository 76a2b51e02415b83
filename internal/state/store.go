package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
)

// View is what the session publishes after every change.
type View struct {
	Cart           []ledger.CartLine
	Orders         []ledger.Order // picked-up orders included
	EditingOrderID int
	Language       i18n.Language
	TimeLeft       map[int]time.Duration // pending and preparing orders only
	At             time.Time             // clock reading the view was taken at
}

// NoticeKind tells the UI what a notice announces.
type NoticeKind int

const (
	// NoticeReady announces a ready order. Each ready order produces
	// exactly one.
	NoticeReady NoticeKind = iota
	// NoticeEditClosed announces that an order became ready while it was
	// being edited, so the edit and its cart were discarded.
	NoticeEditClosed
)

// Notice is a one-off announcement about an order.
type Notice struct {
	ID      string
	OrderID int
	Kind    NoticeKind
	At      time.Time
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	View
	HasView             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed saves
}

// IsDegraded returns true when saving has failed repeatedly.
func (s Snapshot) IsDegraded() bool {
	return s.ConsecutiveFailures >= 2
}

// CartTotal sums the cart in minor units.
func (s Snapshot) CartTotal() int64 {
	var total int64
	for _, line := range s.Cart {
		total += line.Subtotal()
	}
	return total
}

// CartCount sums the cart quantities.
func (s Snapshot) CartCount() int {
	n := 0
	for _, line := range s.Cart {
		n += line.Quantity
	}
	return n
}

// VisibleOrders returns the orders to list, dropping picked-up ones unless
// includePickedUp is set.
func (s Snapshot) VisibleOrders(includePickedUp bool) []ledger.Order {
	out := make([]ledger.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		if o.Status == ledger.PickedUp && !includePickedUp {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	notices  []Notice
}

// Update records a new view. A nil view keeps the previous data. When err is
// non-nil the failure is recorded for visibility; the view is still applied
// because the ledger stays authoritative even when saving fails.
func (s *Store) Update(v *View, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v != nil {
		s.snapshot.View = cloneView(*v)
		s.snapshot.HasView = true
	}
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Refresh replaces the view without touching the recorded save outcome.
func (s *Store) Refresh(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.View = cloneView(v)
	s.snapshot.HasView = true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.View = cloneView(s.snapshot.View)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Notify queues ready notices for the UI.
func (s *Store) Notify(notices ...Notice) {
	if len(notices) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, notices...)
}

// TakeNotices returns and clears the queued notices.
func (s *Store) TakeNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func cloneView(v View) View {
	dup := v
	dup.Cart = cloneLines(v.Cart)
	if v.TimeLeft != nil {
		dup.TimeLeft = make(map[int]time.Duration, len(v.TimeLeft))
		for id, d := range v.TimeLeft {
			dup.TimeLeft[id] = d
		}
	}
	if len(v.Orders) == 0 {
		dup.Orders = nil
		return dup
	}
	dup.Orders = make([]ledger.Order, len(v.Orders))
	for i, o := range v.Orders {
		o.Items = cloneLines(o.Items)
		dup.Orders[i] = o
	}
	return dup
}

func cloneLines(lines []ledger.CartLine) []ledger.CartLine {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]ledger.CartLine, len(lines))
	copy(dup, lines)
	return dup
}

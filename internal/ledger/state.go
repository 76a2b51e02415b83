package ledger

import (
	"time"

	"go.uber.org/zap"
)

// State is the persistable content of a ledger.
type State struct {
	Orders         []Order
	Cart           []CartLine
	NextOrderID    int
	EditingOrderID int
}

// Export returns a deep copy of the ledger state, picked-up orders included.
func (l *Ledger) Export() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := State{
		Orders:         make([]Order, 0, len(l.orders)),
		Cart:           cloneLines(l.cart),
		NextOrderID:    l.nextID,
		EditingOrderID: l.editingID,
	}
	for _, o := range l.orders {
		s.Orders = append(s.Orders, o.clone())
	}
	return s
}

// Restore replaces the ledger content with s and re-arms the timers of
// in-flight orders. Entries that would break a ledger invariant are dropped
// or repaired: unknown statuses, duplicate ids, non-positive quantities,
// a next id that would reuse an existing one, and an edit session on an
// order that can no longer be edited.
func (l *Ledger) Restore(s State, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders = nil
	l.cart = nil
	l.editingID = 0
	l.wakes.reset()
	l.nextID = 1
	if s.NextOrderID > 1 {
		l.nextID = s.NextOrderID
	}

	seen := make(map[int]bool, len(s.Orders))
	for _, in := range s.Orders {
		if in.ID <= 0 || seen[in.ID] || !in.Status.Valid() {
			l.log.Warn("dropping unrestorable order",
				zap.Int("order_id", in.ID),
				zap.String("status", string(in.Status)),
			)
			continue
		}
		seen[in.ID] = true

		o := in.clone()
		o.Items = sanitizeLines(o.Items)
		if o.Category == "" {
			o.Category = l.categorize(o.Items)
		}
		l.orders = append(l.orders, &o)
		if o.ID >= l.nextID {
			l.nextID = o.ID + 1
		}
		l.rearm(&o, now)
	}

	l.cart = sanitizeLines(s.Cart)

	if o := l.find(s.EditingOrderID); o != nil && o.Status.Editable() {
		l.editingID = o.ID
	}
}

// rearm schedules the pending wake for a restored order. Caller holds mu.
func (l *Ledger) rearm(o *Order, now time.Time) {
	switch o.Status {
	case Pending:
		l.wakes.schedule(o.ID, wakeKickoff, o.CreatedAt.Add(l.timings.KickoffDelay))
	case Preparing:
		if o.EstimatedReadyAt.IsZero() {
			o.EstimatedReadyAt = o.CreatedAt.Add(l.timings.KickoffDelay + l.timings.PrepTime(o.Category))
		}
		l.wakes.schedule(o.ID, wakeReady, o.EstimatedReadyAt)
	case PickedUp:
		if o.PickedUpAt.IsZero() {
			o.PickedUpAt = now
		}
		l.wakes.schedule(o.ID, wakePurge, o.PickedUpAt.Add(l.timings.Cooldown))
	}
}

// sanitizeLines drops empty lines and folds duplicate names together.
func sanitizeLines(lines []CartLine) []CartLine {
	var out []CartLine
	for _, line := range lines {
		if line.Quantity <= 0 || line.Name == "" {
			continue
		}
		if line.UnitPrice < 0 {
			line.UnitPrice = 0
		}
		if i := findLine(out, line.Name); i >= 0 {
			out[i].Quantity += line.Quantity
			continue
		}
		out = append(out, line)
	}
	return out
}

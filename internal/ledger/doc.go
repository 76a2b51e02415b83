// Package ledger implements the order ledger of the Darsamo Bites kiosk.
//
// # Overview
//
// A Ledger owns three things: the cart (uncommitted item selections), the
// set of active orders, and at most one edit session that redirects the cart
// into an existing order. Every exported method takes the ledger lock for its
// whole duration, so no caller ever observes a half-applied operation.
//
// # Order Lifecycle
//
//	pending ──kickoff──> preparing ──eta reached──> ready ──CompleteOrder──> pickedUp ──cooldown──> (purged)
//
// Kickoff happens Timings.KickoffDelay after an order is created, merged into
// or re-committed from an edit. The estimated ready time is the kickoff time
// plus Timings.PrepTime(category): drinks-only and snacks-only orders use
// PrepSingle, mixed orders PrepMixed. Merge and edit restart an order at
// pending; CompleteOrder is the only way to reach pickedUp.
//
// An order that becomes ready while it is being edited can no longer be
// edited. Advance closes the session, discards the cart copy and marks the
// transition EditClosed so the owner can tell the customer. Checkout picks
// between committing the edit and creating an order under the same lock.
//
// # Timers
//
// Each order has at most one scheduled wake (kickoff, ready or purge) held
// in a min-heap by due time. Restarting an order replaces its wake and
// completing it swaps the kitchen wake for a purge wake, so cancellation is
// explicit. Nothing in this package starts goroutines: the owner calls
// Advance(now) on its own clock and receives the transitions that fired.
//
// # Notifications
//
// TakeReady returns ready orders whose Notified flag is still false and sets
// it, which makes the "order ready" announcement fire exactly once no matter
// how often it is polled.
//
// # Errors
//
// Operations fail with wrapped sentinels: ErrNotFound, ErrInvalidState
// (ErrNoEdit is one), ErrEmptyCart and ErrWindowExpired. Failures never
// mutate the ledger, with one exception: committing an edit whose order has
// vanished closes the edit session.
//
// # Copies
//
// Accessors (Cart, Orders, Order, Export) return deep copies. Mutating a
// returned slice never reaches ledger state, and an edit session's cart never
// aliases the order being edited.
package ledger

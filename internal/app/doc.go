// Package app is the kiosk's composition root.
//
// Run wires the pieces together in this order:
//
//  1. Load config (~/.config/darsamo/config.toml) and prefs
//  2. Open the zap log file
//  3. Load the embedded menu
//  4. Open the storage backend (file or sqlite)
//  5. Open the Session, which restores the saved record into a fresh ledger
//     and catches up on transitions that fell due while the kiosk was closed
//  6. Start the kitchen clock goroutine
//  7. Run the Bubble Tea UI until the user quits
//
// # Session
//
// Session is the only writer of kiosk state. Each UI action goes through a
// Session method, which calls the ledger, saves the record and publishes a
// fresh state.View. The ledger is authoritative: a failed save is recorded
// in the snapshot and retried on later ticks with exponential backoff
// (capped at 30s), but it never rolls the action back.
//
// # Kitchen clock
//
//	ticker ──→ Session.Tick ──→ ledger.Advance(now)
//	                        ──→ ledger.TakeReady() ──→ state.Notice (uuid)
//	                        ──→ save if anything changed
//	                        ──→ state.Store.Refresh / Update
//
// Advance applies overdue transitions in time order, so a clock that stalls
// (a suspended laptop, a slow save) never skips a status.
package app

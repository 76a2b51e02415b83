// Package state shares the kiosk's latest view between the kitchen clock
// and the UI.
//
// # Architecture
//
//	Producer (Session):             Consumer (UI):
//	┌────────────────────┐         ┌────────────────────┐
//	│ ledger mutation    │         │                    │
//	│ or clock Advance   │         │                    │
//	│      ↓             │         │                    │
//	│ save record        │         │                    │
//	│      ↓             │         │                    │
//	│ store.Update()     │────────→│ store.Snapshot()   │
//	│ store.Notify()     │ (mutex) │ store.TakeNotices()│
//	└────────────────────┘         └────────────────────┘
//
// Snapshots are returned by value with the cart and orders copied, so the
// UI can sort or trim them freely without touching what the producer holds.
//
// # Errors
//
// Update takes the outcome of the save that followed the change. A failed
// save still publishes the view (the in-memory ledger is authoritative) and
// bumps ConsecutiveFailures; IsDegraded reports two or more in a row so the
// UI can warn that state is no longer being persisted.
//
// # Notices
//
// Notices form a queue separate from the snapshot. TakeNotices drains it,
// so a ready order is announced once even if the UI reads snapshots many
// times. A second kind reports an edit discarded because its order became
// ready.
package state

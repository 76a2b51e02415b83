// Package storage persists the kiosk state between runs.
//
// The whole state is one Record (active orders, cart, next order id, edit
// session, language) encoded as JSON. Two backends hold it:
//
//   - FileStore writes a single JSON document, replacing it atomically.
//   - SQLiteStore keeps the JSON under the "darsamoState" key of a small
//     key-value table, using the pure-Go modernc.org/sqlite driver.
//
// A record that cannot be decoded is reported as ErrCorrupt. LoadOrReset
// logs it, removes it and carries on with defaults; every other error is
// returned to the caller.
package storage

package storage

import (
	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
)

// Key is the record name shared by every backend.
const Key = "darsamoState"

// Record is the persisted kiosk state. Top-level field names follow the
// kiosk's local-storage layout, but times are RFC 3339 strings and prices
// minor units. A record written with epoch-millisecond timestamps does not
// decode and is treated as corrupt.
type Record struct {
	ActiveOrders   []ledger.Order    `json:"activeOrders"`
	Cart           []ledger.CartLine `json:"currentCart"`
	NextOrderID    int               `json:"nextOrderId"`
	EditingOrderID *int              `json:"editingOrderId"`
	Language       string            `json:"currentLanguage"`
}

// NewRecord captures a ledger state and the current language.
func NewRecord(s ledger.State, lang i18n.Language) Record {
	r := Record{
		ActiveOrders: s.Orders,
		Cart:         s.Cart,
		NextOrderID:  s.NextOrderID,
		Language:     string(lang),
	}
	if r.ActiveOrders == nil {
		r.ActiveOrders = []ledger.Order{}
	}
	if r.Cart == nil {
		r.Cart = []ledger.CartLine{}
	}
	if s.EditingOrderID != 0 {
		id := s.EditingOrderID
		r.EditingOrderID = &id
	}
	return r
}

// LedgerState converts the record back into a ledger state.
func (r Record) LedgerState() ledger.State {
	s := ledger.State{
		Orders:      r.ActiveOrders,
		Cart:        r.Cart,
		NextOrderID: r.NextOrderID,
	}
	if r.EditingOrderID != nil {
		s.EditingOrderID = *r.EditingOrderID
	}
	return s
}

// LanguageOr returns the stored language, or fallback when it is missing
// or unsupported.
func (r Record) LanguageOr(fallback i18n.Language) i18n.Language {
	if lang, ok := i18n.Parse(r.Language); ok {
		return lang
	}
	return fallback
}

package ui

import (
	"errors"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/menu"
)

// errorText maps an action error to the message shown to the customer.
func errorText(lang i18n.Language, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ledger.ErrEmptyCart):
		return i18n.T(lang, i18n.EmptyCartWarning)
	case errors.Is(err, ledger.ErrWindowExpired):
		return i18n.T(lang, i18n.EditExpired)
	case errors.Is(err, ledger.ErrNotFound):
		return i18n.T(lang, i18n.OrderNotFound)
	case errors.Is(err, ledger.ErrInvalidState):
		return i18n.T(lang, i18n.EditNotAllowed)
	case errors.Is(err, menu.ErrUnavailable):
		return i18n.T(lang, i18n.Unavailable)
	default:
		return err.Error()
	}
}

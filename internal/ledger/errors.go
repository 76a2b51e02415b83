package ledger

import (
	"errors"
	"fmt"
)

// Failures are reported as wrapped sentinels; callers test them with errors.Is.
var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidState  = errors.New("invalid order state")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrWindowExpired = errors.New("edit window expired")

	// ErrNoEdit is an ErrInvalidState: a commit without an open edit session.
	ErrNoEdit = fmt.Errorf("%w: no edit in progress", ErrInvalidState)
)

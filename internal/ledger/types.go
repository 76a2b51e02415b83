package ledger

import (
	"time"

	"github.com/darsamo/bites/internal/menu"
)

// Status is the lifecycle position of an order.
type Status string

const (
	Pending   Status = "pending"
	Preparing Status = "preparing"
	Ready     Status = "ready"
	PickedUp  Status = "pickedUp"
)

// rank orders statuses along the lifecycle; unknown statuses rank 0.
func (s Status) rank() int {
	switch s {
	case Pending:
		return 1
	case Preparing:
		return 2
	case Ready:
		return 3
	case PickedUp:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is one of the four lifecycle statuses.
func (s Status) Valid() bool {
	return s.rank() > 0
}

// Editable reports whether an order in this status may be edited.
func (s Status) Editable() bool {
	return s == Pending || s == Preparing
}

// CartLine is one item selection. UnitPrice is in minor currency units.
type CartLine struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal is UnitPrice times Quantity.
func (c CartLine) Subtotal() int64 {
	return c.UnitPrice * int64(c.Quantity)
}

// Order is a committed set of items moving through the kitchen.
type Order struct {
	ID               int           `json:"id"`
	Items            []CartLine    `json:"items"`
	Status           Status        `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	EstimatedReadyAt time.Time     `json:"estimatedReady,omitzero"`
	Category         menu.Category `json:"category"`
	Notified         bool          `json:"notified"`
	PickedUpAt       time.Time     `json:"pickedUpAt,omitzero"`
}

// Total is the sum of the item subtotals. It is always derived.
func (o Order) Total() int64 {
	return sumLines(o.Items)
}

// ItemCount is the number of units across all lines.
func (o Order) ItemCount() int {
	return countLines(o.Items)
}

func (o Order) clone() Order {
	dup := o
	dup.Items = cloneLines(o.Items)
	return dup
}

func sumLines(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func countLines(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func cloneLines(lines []CartLine) []CartLine {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]CartLine, len(lines))
	copy(dup, lines)
	return dup
}

func findLine(lines []CartLine, name string) int {
	for i := range lines {
		if lines[i].Name == name {
			return i
		}
	}
	return -1
}

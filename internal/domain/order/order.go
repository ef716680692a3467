package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no order matches the lookup.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateSession is returned by Insert when an order already exists
	// for the external session id. Callers resolve it by re-reading the
	// winner's order; it is never surfaced to clients.
	ErrDuplicateSession = errors.New("order already exists for session")
)

// Order is the durable record of a confirmed purchase. Exactly one order
// exists per external session id; it is never mutated after creation.
type Order struct {
	ID     string
	UserID string
	Items  []Item
	// Total is the processor-reported paid amount in major units.
	Total             decimal.Decimal
	CouponCode        string
	ExternalSessionID string
	CreatedAt         time.Time
}

// Item is one purchased line, priced at checkout time. UnitPrice is in
// major units.
type Item struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Repository is the order ledger. The uniqueness constraint on
// ExternalSessionID is what makes reconciliation safe to retry.
type Repository interface {
	FindByExternalSessionID(ctx context.Context, sessionID string) (*Order, error)
	// Insert persists the order, returning ErrDuplicateSession when another
	// order already holds the same external session id.
	Insert(ctx context.Context, o *Order) error
}

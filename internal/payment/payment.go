// Package payment defines the contract with the external payment processor.
// The processor is a trusted third party: it prices nothing itself, it only
// hosts a checkout session for line items we computed and reports the
// payment outcome when asked.
package payment

import (
	"context"

	"github.com/go-faster/errors"
)

// Payment status values reported by the processor.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// ErrProviderUnavailable wraps transport and server failures from the
// processor. Callers may retry; nothing in this package retries internally.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// LineItem is one priced line handed to the processor. UnitAmount is in
// minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

// CreateSessionParams describes a checkout session to be created.
type CreateSessionParams struct {
	LineItems []LineItem
	// DiscountID references a processor-side discount created via
	// CreateDiscount; empty means no discount.
	DiscountID string
	// Metadata is opaque state echoed back verbatim on retrieval. It is the
	// only state reconciliation may trust.
	Metadata map[string]string
}

// Session is the processor's view of a checkout session.
type Session struct {
	ID            string
	PaymentStatus string
	// AmountTotal is the authoritative amount the customer paid, in minor
	// currency units.
	AmountTotal int64
	Metadata    map[string]string
}

// Paid reports whether the session's payment has been completed.
func (s *Session) Paid() bool {
	return s.PaymentStatus == StatusPaid
}

// Provider is the external payment processor contract.
type Provider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (sessionID string, err error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
	// CreateDiscount registers a one-off percentage discount with the
	// processor and returns its identifier.
	CreateDiscount(ctx context.Context, percentage int) (discountID string, err error)
}

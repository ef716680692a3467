package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oakmart/storefront/internal/domain/checkout"
	"github.com/oakmart/storefront/internal/domain/pricing"
	"github.com/oakmart/storefront/internal/payment"
)

// ErrPaymentNotConfirmed is returned when the processor reports a session
// whose payment has not completed. No order is created; the caller may
// retry once payment goes through.
var ErrPaymentNotConfirmed = errors.New("payment not confirmed")

// CouponDeactivator is the slice of the coupon lifecycle reconciliation
// needs: the idempotent active-to-inactive transition.
type CouponDeactivator interface {
	Deactivate(ctx context.Context, code, userID string) error
}

// Reconciler confirms a checkout session's payment outcome and materializes
// the durable order exactly once.
type Reconciler struct {
	orders   Repository
	coupons  CouponDeactivator
	provider payment.Provider
	now      func() time.Time
}

// NewReconciler creates a Reconciler with the required collaborators.
func NewReconciler(orders Repository, coupons CouponDeactivator, provider payment.Provider) *Reconciler {
	return &Reconciler{
		orders:   orders,
		coupons:  coupons,
		provider: provider,
		now:      time.Now,
	}
}

// Reconcile fetches the payment outcome for the session and, on confirmed
// payment, consumes the applied coupon and writes the order. It is safe to
// call any number of times for the same session: duplicate calls return the
// already-persisted order. The order is built from the session's snapshot
// metadata and the processor-reported paid amount; the live cart and
// catalog prices are deliberately not consulted, since both may have
// changed since checkout.
func (r *Reconciler) Reconcile(ctx context.Context, sessionID string) (*Order, error) {
	// Fast path for duplicate reconciliation: the order already exists.
	if existing, err := r.orders.FindByExternalSessionID(ctx, sessionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "look up order")
	}

	session, err := r.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "retrieve payment session")
	}
	if !session.Paid() {
		return nil, ErrPaymentNotConfirmed
	}

	snapshot, err := checkout.DecodeSnapshot(session.Metadata)
	if err != nil {
		return nil, err
	}

	// Consume the coupon recorded at checkout time. Deactivation is
	// monotone and idempotent, so a racing duplicate call is harmless.
	if snapshot.CouponCode != "" {
		if err := r.coupons.Deactivate(ctx, snapshot.CouponCode, snapshot.UserID); err != nil {
			return nil, errors.Wrap(err, "deactivate coupon")
		}
	}

	o := &Order{
		ID:                uuid.New().String(),
		UserID:            snapshot.UserID,
		Items:             make([]Item, len(snapshot.Lines)),
		Total:             pricing.MajorUnits(session.AmountTotal),
		CouponCode:        snapshot.CouponCode,
		ExternalSessionID: sessionID,
		CreatedAt:         r.now().UTC(),
	}
	for i, line := range snapshot.Lines {
		o.Items[i] = Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: pricing.MajorUnits(line.UnitPriceMinorUnits),
		}
	}

	if err := r.orders.Insert(ctx, o); err != nil {
		if errors.Is(err, ErrDuplicateSession) {
			// A concurrent reconciliation won the insert; return its order.
			zctx.From(ctx).Info("duplicate reconciliation resolved to existing order",
				zap.String("session_id", sessionID),
			)
			winner, ferr := r.orders.FindByExternalSessionID(ctx, sessionID)
			if ferr != nil {
				return nil, errors.Wrap(ferr, "look up winning order")
			}
			return winner, nil
		}
		return nil, errors.Wrap(err, "insert order")
	}

	return o, nil
}

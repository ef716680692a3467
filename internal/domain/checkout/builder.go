package checkout

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oakmart/storefront/internal/domain/coupon"
	"github.com/oakmart/storefront/internal/domain/pricing"
	"github.com/oakmart/storefront/internal/domain/product"
	"github.com/oakmart/storefront/internal/payment"
)

// Sentinel errors for session building.
var ErrEmptyCart = errors.New("cart is empty")

// ProductNotFoundError indicates a cart line references an unknown product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a cart line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// CartItem is one line of the client's cart. Only the product reference and
// quantity are taken from the client; prices always come from the catalog.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Session is the result of building a checkout session.
type Session struct {
	// ID is the external processor's opaque session identifier.
	ID string
	// Total is the human-readable post-discount preview total in major units.
	Total decimal.Decimal
}

// CouponManager is the slice of the coupon lifecycle the builder needs.
type CouponManager interface {
	Validate(ctx context.Context, code, userID string) (*coupon.Coupon, error)
	ApplyTo(items []pricing.Item, c *coupon.Coupon) (pricing.Quote, error)
	AutoIssue(ctx context.Context, userID string) (*coupon.Coupon, error)
}

// Builder snapshots a priced cart into an external payment session.
type Builder struct {
	catalog  product.Repository
	coupons  CouponManager
	provider payment.Provider
}

// NewBuilder creates a Builder with the required collaborators.
func NewBuilder(catalog product.Repository, coupons CouponManager, provider payment.Provider) *Builder {
	return &Builder{
		catalog:  catalog,
		coupons:  coupons,
		provider: provider,
	}
}

// BuildSession prices the cart from live catalog prices, applies an optional
// coupon, freezes the result into an immutable snapshot, and opens a session
// with the external processor.
//
// When the pre-discount subtotal reaches the reward threshold, a fresh
// coupon is issued to the user as a side effect. This happens at
// session-creation time, not at payment confirmation, so the coupon is
// granted even if the user later abandons payment.
func (b *Builder) BuildSession(ctx context.Context, userID string, items []CartItem, couponCode string) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	fetched, err := b.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	// Price each line from the catalog's current unit price, never from
	// client-supplied amounts.
	priceItems := make([]pricing.Item, len(items))
	lineItems := make([]payment.LineItem, len(items))
	for i, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		unit := p.PriceMinorUnits()
		priceItems[i] = pricing.Item{
			ProductID: item.ProductID,
			UnitPrice: unit,
			Quantity:  item.Quantity,
		}
		lineItems[i] = payment.LineItem{
			Name:       p.Name,
			UnitAmount: unit,
			Quantity:   item.Quantity,
		}
	}

	quote := pricing.Price(priceItems, 0, false)

	// Resolve the coupon before snapshotting; the snapshot records the
	// post-validation state.
	var applied *coupon.Coupon
	discountID := ""
	if couponCode != "" {
		c, err := b.coupons.Validate(ctx, couponCode, userID)
		if err != nil {
			if errors.Is(err, coupon.ErrNotFound) {
				return nil, coupon.ErrInvalidCoupon
			}
			return nil, errors.Wrap(err, "validate coupon")
		}
		applied = c

		quote, err = b.coupons.ApplyTo(priceItems, c)
		if err != nil {
			return nil, errors.Wrap(err, "apply coupon")
		}

		discountID, err = b.provider.CreateDiscount(ctx, c.DiscountPercentage)
		if err != nil {
			return nil, errors.Wrap(err, "create provider discount")
		}
	}

	snapshot := &Snapshot{
		UserID:          userID,
		Lines:           make([]SnapshotLine, len(priceItems)),
		TotalMinorUnits: quote.Total,
	}
	if applied != nil {
		snapshot.CouponCode = applied.Code
	}
	for i, it := range priceItems {
		snapshot.Lines[i] = SnapshotLine{
			ProductID:           it.ProductID,
			Quantity:            it.Quantity,
			UnitPriceMinorUnits: it.UnitPrice,
		}
	}

	metadata, err := snapshot.EncodeMetadata()
	if err != nil {
		return nil, err
	}

	sessionID, err := b.provider.CreateSession(ctx, payment.CreateSessionParams{
		LineItems:  lineItems,
		DiscountID: discountID,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create payment session")
	}

	// Reward issuance keys off the pre-discount subtotal. A failure here
	// must not lose the session the user is about to pay for.
	if quote.Subtotal >= coupon.RewardThresholdMinorUnits {
		if _, err := b.coupons.AutoIssue(ctx, userID); err != nil {
			zctx.From(ctx).Error("reward coupon issuance failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return &Session{
		ID:    sessionID,
		Total: pricing.MajorUnits(quote.Total),
	}, nil
}

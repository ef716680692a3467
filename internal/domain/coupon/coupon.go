package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when no active, unexpired coupon matches the
	// requested code and user.
	ErrNotFound = errors.New("coupon not found")
	// ErrInvalidCoupon is returned when a coupon is missing or carries a
	// discount percentage outside the 0-100 range.
	ErrInvalidCoupon = errors.New("invalid coupon")
)

// Coupon is a per-user, time-bounded percentage discount. At most one
// coupon exists per user at any time; issuing a new one supersedes the old.
type Coupon struct {
	Code               string
	UserID             string
	DiscountPercentage int
	ExpiresAt          time.Time
	Active             bool
}

// Valid reports whether the coupon can be redeemed at the given instant.
func (c *Coupon) Valid(now time.Time) bool {
	return c.Active && now.Before(c.ExpiresAt)
}

// Repository defines persistence operations for coupons.
type Repository interface {
	// FindActive returns the active coupon matching code and user, or
	// ErrNotFound. Expiry is not evaluated here; callers check it.
	FindActive(ctx context.Context, code, userID string) (*Coupon, error)
	// Replace removes any existing coupon for the user and inserts the new
	// one as a single transactional unit. A concurrent reader observes
	// either the old coupon or the new one, never both and never neither.
	Replace(ctx context.Context, c *Coupon) error
	// Deactivate sets active=false for the matching coupon. Deactivating an
	// already-inactive or missing coupon is a no-op.
	Deactivate(ctx context.Context, code, userID string) error
}

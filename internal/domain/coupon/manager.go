package coupon

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/go-faster/errors"

	"github.com/oakmart/storefront/internal/domain/pricing"
)

const (
	// RewardThresholdMinorUnits is the pre-discount order total (in minor
	// units) at which a reward coupon is issued to the user.
	RewardThresholdMinorUnits int64 = 20000

	rewardDiscountPercentage = 10
	rewardValidity           = 30 * 24 * time.Hour
	codePrefix               = "GIFT"
	codeSuffixLen            = 6
	codeAlphabet             = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Manager owns the coupon lifecycle: validation, application, reward
// issuance, and deactivation.
type Manager struct {
	repo Repository
	now  func() time.Time
}

// NewManager creates a Manager backed by the given repository.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Validate returns the active coupon matching code and user. A coupon past
// its expiration is treated as not found even if still flagged active in
// storage; expiry is evaluated here, not by a background sweep.
func (m *Manager) Validate(ctx context.Context, code, userID string) (*Coupon, error) {
	c, err := m.repo.FindActive(ctx, code, userID)
	if err != nil {
		return nil, err
	}
	if !c.Valid(m.now()) {
		return nil, ErrNotFound
	}
	return c, nil
}

// ApplyTo returns the total after applying the coupon's percentage discount
// to a checkout priced in minor units. It fails with ErrInvalidCoupon when
// the coupon is nil or its percentage is out of range.
func (m *Manager) ApplyTo(items []pricing.Item, c *Coupon) (pricing.Quote, error) {
	if c == nil || c.DiscountPercentage < 0 || c.DiscountPercentage > 100 {
		return pricing.Quote{}, ErrInvalidCoupon
	}
	return pricing.Price(items, c.DiscountPercentage, true), nil
}

// AutoIssue grants the user a fresh 10% reward coupon valid for 30 days,
// superseding any coupon they already hold. Safe to call when the user has
// no prior coupon.
func (m *Manager) AutoIssue(ctx context.Context, userID string) (*Coupon, error) {
	code, err := generateCode()
	if err != nil {
		return nil, errors.Wrap(err, "generate coupon code")
	}

	c := &Coupon{
		Code:               code,
		UserID:             userID,
		DiscountPercentage: rewardDiscountPercentage,
		ExpiresAt:          m.now().Add(rewardValidity),
		Active:             true,
	}
	if err := m.repo.Replace(ctx, c); err != nil {
		return nil, errors.Wrap(err, "replace coupon")
	}
	return c, nil
}

// Deactivate marks the coupon inactive. Idempotent: deactivating an
// already-inactive or missing coupon succeeds silently. The transition is
// monotone; nothing reactivates a coupon.
func (m *Manager) Deactivate(ctx context.Context, code, userID string) error {
	return m.repo.Deactivate(ctx, code, userID)
}

// generateCode produces a reward code like GIFT7K2QXZ from a
// cryptographically random suffix.
func generateCode() (string, error) {
	buf := make([]byte, codeSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return codePrefix + string(buf), nil
}

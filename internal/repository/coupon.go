package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmart/storefront/internal/domain/coupon"
)

const (
	findActiveCouponSQL = `SELECT code, user_id, discount_percentage, expires_at, active
		FROM coupons WHERE UPPER(code) = UPPER($1) AND user_id = $2 AND active = TRUE`

	deleteUserCouponSQL = `DELETE FROM coupons WHERE user_id = $1`

	insertCouponSQL = `INSERT INTO coupons (code, user_id, discount_percentage, expires_at, active)
		VALUES ($1, $2, $3, $4, $5)`

	deactivateCouponSQL = `UPDATE coupons SET active = FALSE WHERE code = $1 AND user_id = $2`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindActive looks up the active coupon matching code (case-insensitive)
// and user. Returns coupon.ErrNotFound when no such coupon exists.
func (r *CouponRepository) FindActive(ctx context.Context, code, userID string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, findActiveCouponSQL, code, userID)
	if err != nil {
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}
	return &c, nil
}

// Replace deletes any existing coupon for the user and inserts the new one
// in a single transaction, so a concurrent reader never observes the user
// with zero or two coupons. The UNIQUE constraint on user_id backs this up.
func (r *CouponRepository) Replace(ctx context.Context, c *coupon.Coupon) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning coupon replace: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, deleteUserCouponSQL, c.UserID); err != nil {
		return fmt.Errorf("deleting prior coupon for user %q: %w", c.UserID, err)
	}
	if _, err := tx.Exec(ctx, insertCouponSQL,
		c.Code, c.UserID, c.DiscountPercentage, c.ExpiresAt, c.Active,
	); err != nil {
		return fmt.Errorf("inserting coupon %q: %w", c.Code, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing coupon replace: %w", err)
	}
	return nil
}

// Deactivate sets active=false for the matching coupon. Matching zero rows
// (already inactive or missing) is not an error.
func (r *CouponRepository) Deactivate(ctx context.Context, code, userID string) error {
	if _, err := r.pool.Exec(ctx, deactivateCouponSQL, code, userID); err != nil {
		return fmt.Errorf("deactivating coupon %q: %w", code, err)
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var (
		c         coupon.Coupon
		pct       int32
		expiresAt time.Time
	)
	err := row.Scan(&c.Code, &c.UserID, &pct, &expiresAt, &c.Active)
	c.DiscountPercentage = int(pct)
	c.ExpiresAt = expiresAt
	return c, err
}

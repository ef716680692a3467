package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oakmart/storefront/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, user_id, items, total, coupon_code, external_session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_session_id) DO NOTHING`

	findOrderBySessionSQL = `SELECT id, user_id, items, total, coupon_code, external_session_id, created_at
		FROM orders WHERE external_session_id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements the order ledger backed by PostgreSQL. The
// UNIQUE constraint on external_session_id makes Insert a conditional
// write: under concurrent reconciliation at most one order wins.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert persists the order unless one already exists for its external
// session id, in which case it returns order.ErrDuplicateSession.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	tag, err := r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.UserID, itemsJSON, o.Total, o.CouponCode, o.ExternalSessionID, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrDuplicateSession
	}
	return nil
}

// FindByExternalSessionID returns the order for the given session, or
// order.ErrNotFound.
func (r *OrderRepository) FindByExternalSessionID(ctx context.Context, sessionID string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, findOrderBySessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("finding order for session %q: %w", sessionID, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("finding order for session %q: %w", sessionID, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		total     decimal.Decimal
	)
	err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &total, &o.CouponCode, &o.ExternalSessionID, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	o.Total = total
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}

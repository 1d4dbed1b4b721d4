package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound covers both "line does not exist" and "line belongs to another
// user" so that ids are never globally addressable.
var ErrNotFound = errors.New("cart item not found")

type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Cart, error)
	ListLines(ctx context.Context, userID string) ([]Line, error)
	AddLine(ctx context.Context, userID, productID string, quantity int) (*Line, error)
	UpdateLine(ctx context.Context, userID, lineID string, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// getOrCreateAttempts bounds the retry loop around the upsert; conflicts are
// only possible when two first-accesses by one user race.
const getOrCreateAttempts = 3

func (r *repo) GetOrCreate(ctx context.Context, userID string) (*Cart, error) {
	// The DO UPDATE no-op makes RETURNING yield the existing row on conflict,
	// so concurrent first-access converges on a single cart per user.
	const query = `
INSERT INTO carts (id, user_id)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET user_id = EXCLUDED.user_id
RETURNING id, user_id
`

	var lastErr error
	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		var c Cart
		err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID).Scan(&c.ID, &c.UserID)
		if err == nil {
			return &c, nil
		}
		if !retryableConflict(err) {
			return nil, fmt.Errorf("get or create cart: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("get or create cart: %w", lastErr)
}

func (r *repo) ListLines(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE c.user_id = $1
ORDER BY ci.created_at, ci.id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return lines, nil
}

func (r *repo) AddLine(ctx context.Context, userID, productID string, quantity int) (*Line, error) {
	c, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Re-adding a product increments the existing line instead of creating a
	// duplicate; the increment happens in SQL so concurrent adds never lose
	// updates.
	const query = `
INSERT INTO cart_items (id, cart_id, product_id, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id, cart_id, product_id, quantity
`

	var l Line
	err = r.db.QueryRowContext(ctx, query, uuid.NewString(), c.ID, productID, quantity).
		Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		return nil, fmt.Errorf("insert cart_item: %w", err)
	}
	return &l, nil
}

func (r *repo) UpdateLine(ctx context.Context, userID, lineID string, quantity int) (*Line, error) {
	// Ownership is part of the predicate: a line in another user's cart
	// matches zero rows, identical to a missing id.
	const query = `
UPDATE cart_items ci
SET quantity = $1
FROM carts c
WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $3
RETURNING ci.id, ci.cart_id, ci.product_id, ci.quantity
`

	var l Line
	err := r.db.QueryRowContext(ctx, query, quantity, lineID, userID).
		Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update cart_item: %w", err)
	}
	return &l, nil
}

func (r *repo) RemoveLine(ctx context.Context, userID, lineID string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM cart_items ci
USING carts c
WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2
`, lineID, userID)
	if err != nil {
		return fmt.Errorf("delete cart_item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// retryableConflict reports whether the error is a unique violation or
// serialization failure worth retrying.
func retryableConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" || pqErr.Code == "40001"
}

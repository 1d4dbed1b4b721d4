package favorite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrNotFound covers both "line does not exist" and "line belongs to
	// another user".
	ErrNotFound = errors.New("favorite item not found")
	// ErrDuplicate is returned when re-pointing a line at a product that is
	// already favorited.
	ErrDuplicate = errors.New("product already in favorites")
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Favorites, error)
	ListLines(ctx context.Context, userID string) ([]Line, error)
	AddLine(ctx context.Context, userID, productID string) (*Line, error)
	UpdateLine(ctx context.Context, userID, lineID, productID string) (*Line, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const getOrCreateAttempts = 3

func (r *repo) GetOrCreate(ctx context.Context, userID string) (*Favorites, error) {
	const query = `
INSERT INTO favorites (id, user_id)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET user_id = EXCLUDED.user_id
RETURNING id, user_id
`

	var lastErr error
	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		var f Favorites
		err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID).Scan(&f.ID, &f.UserID)
		if err == nil {
			return &f, nil
		}
		if !retryableConflict(err) {
			return nil, fmt.Errorf("get or create favorites: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("get or create favorites: %w", lastErr)
}

func (r *repo) ListLines(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT fi.id, fi.favorite_id, fi.product_id
FROM favorite_items fi
JOIN favorites f ON f.id = fi.favorite_id
WHERE f.user_id = $1
ORDER BY fi.created_at, fi.id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("select favorite_items: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.FavoriteID, &l.ProductID); err != nil {
			return nil, fmt.Errorf("scan favorite_item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return lines, nil
}

func (r *repo) AddLine(ctx context.Context, userID, productID string) (*Line, error) {
	f, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Favoriting the same product twice is idempotent: DO NOTHING suppresses
	// the duplicate and the fallback select returns the existing line.
	const insert = `
INSERT INTO favorite_items (id, favorite_id, product_id)
VALUES ($1, $2, $3)
ON CONFLICT (favorite_id, product_id) DO NOTHING
RETURNING id, favorite_id, product_id
`

	var l Line
	err = r.db.QueryRowContext(ctx, insert, uuid.NewString(), f.ID, productID).
		Scan(&l.ID, &l.FavoriteID, &l.ProductID)
	if err == nil {
		return &l, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("insert favorite_item: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
SELECT id, favorite_id, product_id
FROM favorite_items
WHERE favorite_id = $1 AND product_id = $2
`, f.ID, productID).Scan(&l.ID, &l.FavoriteID, &l.ProductID)
	if err != nil {
		return nil, fmt.Errorf("select favorite_item: %w", err)
	}
	return &l, nil
}

func (r *repo) UpdateLine(ctx context.Context, userID, lineID, productID string) (*Line, error) {
	const query = `
UPDATE favorite_items fi
SET product_id = $1
FROM favorites f
WHERE fi.id = $2 AND fi.favorite_id = f.id AND f.user_id = $3
RETURNING fi.id, fi.favorite_id, fi.product_id
`

	var l Line
	err := r.db.QueryRowContext(ctx, query, productID, lineID, userID).
		Scan(&l.ID, &l.FavoriteID, &l.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if uniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update favorite_item: %w", err)
	}
	return &l, nil
}

func (r *repo) RemoveLine(ctx context.Context, userID, lineID string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM favorite_items fi
USING favorites f
WHERE fi.id = $1 AND fi.favorite_id = f.id AND f.user_id = $2
`, lineID, userID)
	if err != nil {
		return fmt.Errorf("delete favorite_item: %w", err)
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

func retryableConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" || pqErr.Code == "40001"
}

func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

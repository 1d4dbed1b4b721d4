package integration

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/favorite"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testutil"
)

// memCatalog serves fixed products so tests do not depend on a running
// catalog service.
type memCatalog struct {
	products map[string]catalog.Product
}

func (m *memCatalog) GetProduct(_ context.Context, productID string) (catalog.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func testCatalog() *memCatalog {
	return &memCatalog{products: map[string]catalog.Product{
		"prod-1": {ID: "prod-1", Name: "Keyboard", Price: 10},
		"prod-2": {ID: "prod-2", Name: "Mouse", Price: 5},
	}}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestCartLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	svc := cart.NewService(cart.NewRepository(db), testCatalog(), nil, quietLogger())
	const userID = "user-lifecycle"

	// First access provisions an empty cart.
	view, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)
	assert.Equal(t, userID, view.UserID)
	assert.Empty(t, view.Items)
	assert.EqualValues(t, 0, view.TotalPrice)

	// The cart is stable across requests.
	again, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, again.ID)

	_, err = svc.AddItem(ctx, userID, "prod-1", 2)
	require.NoError(t, err)
	line2, err := svc.AddItem(ctx, userID, "prod-2", 3)
	require.NoError(t, err)

	view, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.EqualValues(t, 2*10+3*5, view.TotalPrice)

	// Re-adding a product grows the existing line instead of duplicating it.
	_, err = svc.AddItem(ctx, userID, "prod-1", 1)
	require.NoError(t, err)
	view, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.EqualValues(t, 3*10+3*5, view.TotalPrice)

	updated, err := svc.UpdateItem(ctx, userID, line2.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)
	assert.EqualValues(t, 5, updated.TotalPrice)

	// Removing every line leaves the cart itself in place.
	for _, it := range view.Items {
		require.NoError(t, svc.RemoveItem(ctx, userID, it.ID))
	}
	view, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, again.ID, view.ID)
	assert.Empty(t, view.Items)
	assert.EqualValues(t, 0, view.TotalPrice)
}

func TestConcurrentFirstAccessCreatesOneCart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	repo := cart.NewRepository(db)
	const userID = "user-racer"
	const workers = 8

	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := repo.GetOrCreate(ctx, userID)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM carts WHERE user_id = $1`, userID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	svc := cart.NewService(cart.NewRepository(db), testCatalog(), nil, quietLogger())

	aliceLine, err := svc.AddItem(ctx, "alice", "prod-1", 2)
	require.NoError(t, err)
	bobLine, err := svc.AddItem(ctx, "bob", "prod-1", 5)
	require.NoError(t, err)

	// Same product, separate carts, separate lines.
	assert.NotEqual(t, aliceLine.ID, bobLine.ID)

	// A line id from another user behaves exactly like a missing id.
	err = svc.RemoveItem(ctx, "bob", aliceLine.ID)
	require.ErrorIs(t, err, cart.ErrNotFound)
	_, err = svc.UpdateItem(ctx, "bob", aliceLine.ID, 9)
	require.ErrorIs(t, err, cart.ErrNotFound)

	aliceView, err := svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceView.Items, 1)
	assert.Equal(t, 2, aliceView.Items[0].Quantity)

	bobView, err := svc.GetCart(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobView.Items, 1)
	assert.Equal(t, 5, bobView.Items[0].Quantity)
}

func TestFavoritesLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	svc := favorite.NewService(favorite.NewRepository(db), testCatalog(), nil, quietLogger())
	const userID = "user-favs"

	first, err := svc.AddItem(ctx, userID, "prod-1")
	require.NoError(t, err)

	// Favoriting the same product twice converges on one line.
	second, err := svc.AddItem(ctx, userID, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	view, err := svc.GetFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "prod-1", view.Items[0].Product.ID)

	// Re-pointing the line at an already-favorited product is rejected.
	_, err = svc.AddItem(ctx, userID, "prod-2")
	require.NoError(t, err)
	_, err = svc.UpdateItem(ctx, userID, first.ID, "prod-2")
	require.ErrorIs(t, err, favorite.ErrDuplicate)

	updated, err := svc.UpdateItem(ctx, userID, first.ID, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", updated.Product.ID)

	err = svc.RemoveItem(ctx, "someone-else", first.ID)
	require.ErrorIs(t, err, favorite.ErrNotFound)
	require.NoError(t, svc.RemoveItem(ctx, userID, first.ID))

	view, err = svc.GetFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "prod-2", view.Items[0].Product.ID)
}

func TestEventSequencesAreMonotonicPerUser(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	seq := events.NewSequenceRepository(db)

	var prev int64
	for i := 0; i < 5; i++ {
		next, err := seq.NextSequence(ctx, "user-seq")
		require.NoError(t, err)
		assert.Greater(t, next, prev)
		prev = next
	}

	other, err := seq.NextSequence(ctx, "user-other")
	require.NoError(t, err)
	assert.EqualValues(t, 1, other)
}

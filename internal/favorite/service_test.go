package favorite

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

type fakeRepo struct {
	getOrCreateFunc func(ctx context.Context, userID string) (*Favorites, error)
	listLinesFunc   func(ctx context.Context, userID string) ([]Line, error)
	addLineFunc     func(ctx context.Context, userID, productID string) (*Line, error)
	updateLineFunc  func(ctx context.Context, userID, lineID, productID string) (*Line, error)
	removeLineFunc  func(ctx context.Context, userID, lineID string) error
}

func (f *fakeRepo) GetOrCreate(ctx context.Context, userID string) (*Favorites, error) {
	if f.getOrCreateFunc != nil {
		return f.getOrCreateFunc(ctx, userID)
	}
	return &Favorites{ID: "fav-1", UserID: userID}, nil
}

func (f *fakeRepo) ListLines(ctx context.Context, userID string) ([]Line, error) {
	if f.listLinesFunc != nil {
		return f.listLinesFunc(ctx, userID)
	}
	return nil, nil
}

func (f *fakeRepo) AddLine(ctx context.Context, userID, productID string) (*Line, error) {
	if f.addLineFunc != nil {
		return f.addLineFunc(ctx, userID, productID)
	}
	return &Line{ID: "line-1", FavoriteID: "fav-1", ProductID: productID}, nil
}

func (f *fakeRepo) UpdateLine(ctx context.Context, userID, lineID, productID string) (*Line, error) {
	if f.updateLineFunc != nil {
		return f.updateLineFunc(ctx, userID, lineID, productID)
	}
	return &Line{ID: lineID, FavoriteID: "fav-1", ProductID: productID}, nil
}

func (f *fakeRepo) RemoveLine(ctx context.Context, userID, lineID string) error {
	if f.removeLineFunc != nil {
		return f.removeLineFunc(ctx, userID, lineID)
	}
	return nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID string) (catalog.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type fakeEvents struct {
	favorited   int
	unfavorited int
}

func (f *fakeEvents) PublishProductFavorited(ctx context.Context, userID, lineID, productID string) error {
	f.favorited++
	return nil
}

func (f *fakeEvents) PublishProductUnfavorited(ctx context.Context, userID, lineID string) error {
	f.unfavorited++
	return nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "keyboard", Price: 10},
		"p2": {ID: "p2", Name: "mouse", Price: 5},
	}}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestGetFavorites_EmptyListOnFirstAccess(t *testing.T) {
	svc := NewService(&fakeRepo{}, testCatalog(), nil, discardLogger())

	view, err := svc.GetFavorites(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "fav-1", view.ID)
	assert.Equal(t, "user-1", view.UserID)
	assert.Empty(t, view.Items)
}

func TestAddItem_ResolvesProduct(t *testing.T) {
	events := &fakeEvents{}
	svc := NewService(&fakeRepo{}, testCatalog(), events, discardLogger())

	item, err := svc.AddItem(context.Background(), "user-1", "p2")
	require.NoError(t, err)
	assert.Equal(t, "mouse", item.Product.Name)
	assert.Equal(t, 1, events.favorited)
}

func TestAddItem_UnknownProductIsInvalidReference(t *testing.T) {
	svc := NewService(&fakeRepo{}, testCatalog(), nil, discardLogger())

	_, err := svc.AddItem(context.Background(), "user-1", "ghost")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestUpdateItem_RepointsLine(t *testing.T) {
	svc := NewService(&fakeRepo{}, testCatalog(), nil, discardLogger())

	item, err := svc.UpdateItem(context.Background(), "user-1", "line-1", "p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", item.Product.ID)
}

func TestUpdateItem_PropagatesDuplicate(t *testing.T) {
	repo := &fakeRepo{updateLineFunc: func(ctx context.Context, userID, lineID, productID string) (*Line, error) {
		return nil, ErrDuplicate
	}}
	svc := NewService(repo, testCatalog(), nil, discardLogger())

	_, err := svc.UpdateItem(context.Background(), "user-1", "line-1", "p2")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestRemoveItem_PublishesEvent(t *testing.T) {
	events := &fakeEvents{}
	svc := NewService(&fakeRepo{}, testCatalog(), events, discardLogger())

	require.NoError(t, svc.RemoveItem(context.Background(), "user-1", "line-1"))
	assert.Equal(t, 1, events.unfavorited)
}

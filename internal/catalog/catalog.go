package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a product id does not resolve in the catalog.
var ErrNotFound = errors.New("product not found")

// Product is the read-only view of a catalog product used by cart and
// favorites. Price is in integer minor units; it is never snapshotted, so
// totals always reflect the current catalog price.
type Product struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  int64    `json:"price"`
	Images []string `json:"images"`
}

// Provider resolves product references. The catalog itself is owned by the
// catalog service; this service only reads from it.
type Provider interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

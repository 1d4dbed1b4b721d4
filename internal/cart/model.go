package cart

import (
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// Cart is the per-owner aggregate row. One cart per user, created lazily on
// first access.
type Cart struct {
	ID     string
	UserID string
}

// Line is a single (cart, product) association as stored.
type Line struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
}

// LineView is the API shape of a cart line, with the product resolved from
// the catalog and the total computed from the current price.
type LineView struct {
	ID         string          `json:"id"`
	Product    catalog.Product `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice int64           `json:"total_price"`
}

// View is the API shape of the whole cart. TotalPrice is always computed on
// read; it is never stored.
type View struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user"`
	Items      []LineView `json:"items"`
	TotalPrice int64      `json:"total_price"`
}

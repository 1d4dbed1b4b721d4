package favorite

import (
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// Favorites is the per-owner aggregate row, created lazily on first access.
type Favorites struct {
	ID     string
	UserID string
}

// Line is a single (favorites, product) association. Unlike a cart line it
// carries no quantity.
type Line struct {
	ID         string
	FavoriteID string
	ProductID  string
}

type LineView struct {
	ID      string          `json:"id"`
	Product catalog.Product `json:"product"`
}

type View struct {
	ID     string     `json:"id"`
	UserID string     `json:"user"`
	Items  []LineView `json:"items"`
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

// NewRouter wires the storefront routes. Everything under /api/ requires a
// verified bearer token; the caller identity comes from the auth middleware,
// never from the request itself.
func NewRouter(cartSvc CartService, favSvc FavoriteService, verifier auth.Verifier) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	cartHandler := NewCartHandler(cartSvc)
	favHandler := NewFavoriteHandler(favSvc)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/cart", cartHandler.GetCart)
	api.HandleFunc("GET /api/cart_items", cartHandler.ListItems)
	api.HandleFunc("POST /api/cart_items", cartHandler.AddItem)
	api.HandleFunc("PUT /api/cart_items/{id}", cartHandler.UpdateItem)
	api.HandleFunc("DELETE /api/cart_items/{id}", cartHandler.RemoveItem)

	api.HandleFunc("GET /api/favorite", favHandler.GetFavorites)
	api.HandleFunc("GET /api/favorite_items", favHandler.ListItems)
	api.HandleFunc("POST /api/favorite_items", favHandler.AddItem)
	api.HandleFunc("PUT /api/favorite_items/{id}", favHandler.UpdateItem)
	api.HandleFunc("DELETE /api/favorite_items/{id}", favHandler.RemoveItem)

	mux.Handle("/api/", middleware.Auth(verifier)(api))

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "storefront-service"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

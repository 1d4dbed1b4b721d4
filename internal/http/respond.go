package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/favorite"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

// writeServiceError maps domain errors onto the API error taxonomy:
// validation and bad product references are 400, ownership-scoped misses are
// 404, everything else is 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, cart.ErrInvalidQuantity.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusBadRequest, "product not found")
	case errors.Is(err, favorite.ErrDuplicate):
		writeError(w, http.StatusBadRequest, favorite.ErrDuplicate.Error())
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, favorite.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

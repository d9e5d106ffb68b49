// Package http exposes the storefront services over a chi router.
package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VedantYeola/Wear-Story/internal/service"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
	"github.com/VedantYeola/Wear-Story/pkg/middleware"
)

// Services bundles what the router serves.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Checkout *service.CheckoutService
	Stylist  *service.StylistService
	Sessions *service.SessionManager
	Admin    *service.AdminService
}

func actorFrom(r *http.Request) service.Actor {
	id := middleware.IdentityFromContext(r.Context())
	return service.Actor{ID: id.UserID, Email: id.Email}
}

func itemIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("invalid item id: " + raw)
	}
	return id, nil
}

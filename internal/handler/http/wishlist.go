package http

import (
	"net/http"

	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
	"github.com/VedantYeola/Wear-Story/pkg/validator"
)

type WishlistHandler struct {
	service *service.WishlistService
}

func NewWishlistHandler(svc *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: svc}
}

type ToggleRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

type toggleResponse struct {
	service.WishlistView
	ItemID int64 `json:"item_id"`
	Added  bool  `json:"added"`
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Wishlist(r.Context(), sessionFromContext(r.Context())))
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	view, added, err := h.service.Toggle(r.Context(), sessionFromContext(r.Context()), req.ItemID, actorFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, toggleResponse{WishlistView: view, ItemID: req.ItemID, Added: added})
}

// Contains handles GET /api/v1/wishlist/items/{id}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	in := h.service.Contains(r.Context(), sessionFromContext(r.Context()), id)
	httputil.WriteData(w, http.StatusOK, map[string]any{"item_id": id, "in_wishlist": in})
}

// Remove handles DELETE /api/v1/wishlist/items/{id}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.Remove(r.Context(), sessionFromContext(r.Context()), id))
}

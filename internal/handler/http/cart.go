package http

import (
	"net/http"

	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
	"github.com/VedantYeola/Wear-Story/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{service: svc}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

// UpdateQuantityRequest moves a line's quantity by Delta. The quantity
// never drops below one; removal is a DELETE.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required,min=-1000,max=1000"`
}

// SetOpenRequest opens or closes the cart drawer.
type SetOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Cart(r.Context(), sessionFromContext(r.Context())))
}

// SetOpen handles PATCH /api/v1/cart
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req SetOpenRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.SetOpen(r.Context(), sessionFromContext(r.Context()), *req.Open))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionFromContext(r.Context()), req.ItemID, actorFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, h.service.UpdateQuantity(r.Context(), sessionFromContext(r.Context()), id, req.Delta))
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, h.service.RemoveItem(r.Context(), sessionFromContext(r.Context()), id))
}

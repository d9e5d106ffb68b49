package http

import (
	"net/http"

	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
	"github.com/VedantYeola/Wear-Story/pkg/validator"
)

// AdminHandler serves the passphrase-gated catalog editor.
type AdminHandler struct {
	service *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ListItems handles GET /api/v1/admin/items
func (h *AdminHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, items)
}

// CreateItem handles POST /api/v1/admin/items
func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item, err := h.service.CreateItem(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/admin/items/{id}
func (h *AdminHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	var in service.ItemInput
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/admin/items/{id}
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activity handles GET /api/v1/admin/activity
func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Activity(r.Context()))
}

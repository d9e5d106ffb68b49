package http

import (
	"net/http"
	"strings"

	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
)

// CatalogHandler serves product reads, styling advice and category lookup.
type CatalogHandler struct {
	catalog *service.CatalogService
	stylist *service.StylistService
}

func NewCatalogHandler(catalog *service.CatalogService, stylist *service.StylistService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, stylist: stylist}
}

// ListProducts handles GET /api/v1/products. Only query parameters that
// are present change the session's filter.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var upd service.FilterUpdate
	if q.Has("category") {
		v := q.Get("category")
		upd.Category = &v
	}
	if q.Has("search") {
		v := q.Get("search")
		upd.Search = &v
	}
	if q.Has("sort") {
		v := q.Get("sort")
		upd.Sort = &v
	}

	list := h.catalog.Products(r.Context(), sessionFromContext(r.Context()), upd)
	httputil.WriteData(w, http.StatusOK, list)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item, err := h.catalog.Product(r.Context(), id, actorFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, item)
}

// GetStyling handles GET /api/v1/products/{id}/styling
func (h *CatalogHandler) GetStyling(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	advice, err := h.stylist.Styling(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]any{"item_id": id, "advice": advice})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.catalog.Categories())
}

// MatchCategory handles GET /api/v1/categories/match?q=. A miss is a
// successful response with a null category.
func (h *CatalogHandler) MatchCategory(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var category *string
	if c, ok := h.stylist.MatchCategory(r.Context(), query); ok {
		category = &c
	}
	httputil.WriteData(w, http.StatusOK, map[string]any{"query": query, "category": category})
}

package service

import (
	"context"
	"strconv"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// FilterUpdate carries the filter fields a request set explicitly; nil
// fields keep the session's current value.
type FilterUpdate struct {
	Category *string
	Search   *string
	Sort     *string
}

func (u FilterUpdate) apply(f domain.Filter) domain.Filter {
	if u.Category != nil {
		f.Category = *u.Category
	}
	if u.Search != nil {
		f.Search = *u.Search
	}
	if u.Sort != nil {
		f.Sort = domain.SortMode(*u.Sort)
	}
	return f
}

// ProductList is a projection together with the filter that produced it.
type ProductList struct {
	Items  []domain.Item `json:"items"`
	Filter domain.Filter `json:"filter"`
	Total  int           `json:"total"`
}

// CatalogService serves the catalog through a session's display filter.
type CatalogService struct {
	sessions *SessionManager
	catalog  Catalog
	activity *ActivityRecorder
}

func NewCatalogService(sessions *SessionManager, catalog Catalog, activity *ActivityRecorder) *CatalogService {
	return &CatalogService{sessions: sessions, catalog: catalog, activity: activity}
}

// Products projects the current catalog. With a session the update is
// merged into, and saved as, that session's filter; without one it is
// applied to the default filter.
func (c *CatalogService) Products(ctx context.Context, sessionID string, upd FilterUpdate) ProductList {
	f := upd.apply(domain.DefaultFilter())
	if sessionID != "" {
		c.sessions.with(ctx, sessionID, func(s *Session) {
			s.filter = upd.apply(s.filter)
			f = s.filter
		})
	}

	items := domain.Project(c.catalog.Items(), f)
	return ProductList{Items: items, Filter: f, Total: len(items)}
}

// Product returns one item and records that it was viewed.
func (c *CatalogService) Product(ctx context.Context, id int64, actor Actor) (domain.Item, error) {
	item, ok := c.catalog.Get(id)
	if !ok {
		return domain.Item{}, apperrors.NotFound("item", strconv.FormatInt(id, 10))
	}
	c.activity.Record(ctx, domain.ActionViewProduct, domain.ViewProductDetails(item), actor)
	return item, nil
}

// Categories lists "All" then every category in first-appearance order.
func (c *CatalogService) Categories() []string {
	return c.catalog.Categories()
}

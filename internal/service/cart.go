package service

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// CartView is what the cart endpoints return.
type CartView struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
	Open      bool              `json:"open"`
}

func cartView(s *Session) CartView {
	return CartView{
		Lines:     s.cart.Snapshot(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
		Open:      s.cartOpen,
	}
}

// CartService mutates a session's cart. Every mutation rewrites the cart
// slot before returning.
type CartService struct {
	sessions *SessionManager
	catalog  Catalog
	activity *ActivityRecorder
}

func NewCartService(sessions *SessionManager, catalog Catalog, activity *ActivityRecorder) *CartService {
	return &CartService{sessions: sessions, catalog: catalog, activity: activity}
}

func (c *CartService) Cart(ctx context.Context, sessionID string) CartView {
	var view CartView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		view = cartView(s)
	})
	return view
}

// AddItem adds one unit of a catalog item and opens the cart surface.
func (c *CartService) AddItem(ctx context.Context, sessionID string, itemID int64, actor Actor) (CartView, error) {
	item, ok := c.catalog.Get(itemID)
	if !ok {
		return CartView{}, apperrors.NotFound("item", strconv.FormatInt(itemID, 10))
	}

	var view CartView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		s.cart.Add(item)
		s.cartOpen = true
		c.sessions.persistCart(ctx, s)
		view = cartView(s)
	})

	c.activity.Record(ctx, domain.ActionAddToCart, domain.AddToCartDetails(item), actor)
	return view, nil
}

// UpdateQuantity adds delta to a line's quantity, never going below 1.
// Unknown ids leave the cart as it is.
func (c *CartService) UpdateQuantity(ctx context.Context, sessionID string, itemID int64, delta int) CartView {
	var view CartView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		s.cart.UpdateQuantity(itemID, delta)
		c.sessions.persistCart(ctx, s)
		view = cartView(s)
	})
	return view
}

// RemoveItem drops a line. Unknown ids are ignored.
func (c *CartService) RemoveItem(ctx context.Context, sessionID string, itemID int64) CartView {
	var view CartView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		s.cart.Remove(itemID)
		c.sessions.persistCart(ctx, s)
		view = cartView(s)
	})
	return view
}

// SetOpen shows or hides the cart surface.
func (c *CartService) SetOpen(ctx context.Context, sessionID string, open bool) CartView {
	var view CartView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		s.cartOpen = open
		view = cartView(s)
	})
	return view
}

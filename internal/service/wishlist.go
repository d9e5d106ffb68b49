package service

import (
	"context"
	"strconv"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// WishlistView is what the wishlist endpoints return.
type WishlistView struct {
	Items []domain.Item `json:"items"`
	Count int           `json:"count"`
}

func wishlistView(s *Session) WishlistView {
	return WishlistView{Items: s.wishlist.Snapshot(), Count: s.wishlist.Len()}
}

// WishlistService mutates a session's wishlist. Entries are item snapshots,
// so they outlive catalog changes.
type WishlistService struct {
	sessions *SessionManager
	catalog  Catalog
	activity *ActivityRecorder
}

func NewWishlistService(sessions *SessionManager, catalog Catalog, activity *ActivityRecorder) *WishlistService {
	return &WishlistService{sessions: sessions, catalog: catalog, activity: activity}
}

func (w *WishlistService) Wishlist(ctx context.Context, sessionID string) WishlistView {
	var view WishlistView
	w.sessions.with(ctx, sessionID, func(s *Session) {
		view = wishlistView(s)
	})
	return view
}

// Toggle removes the item if present, else saves a snapshot of it. An item
// that has left the catalog can still be toggled off.
func (w *WishlistService) Toggle(ctx context.Context, sessionID string, itemID int64, actor Actor) (WishlistView, bool, error) {
	item, inCatalog := w.catalog.Get(itemID)

	var (
		view  WishlistView
		added bool
		err   error
	)
	w.sessions.with(ctx, sessionID, func(s *Session) {
		switch {
		case inCatalog:
			added = s.wishlist.Toggle(item)
		case s.wishlist.Contains(itemID):
			s.wishlist.Remove(itemID)
		default:
			err = apperrors.NotFound("item", strconv.FormatInt(itemID, 10))
			return
		}
		w.sessions.persistWishlist(ctx, s)
		view = wishlistView(s)
	})
	if err != nil {
		return WishlistView{}, false, err
	}

	kind := domain.ActionRemoveFromWishlist
	if added {
		kind = domain.ActionAddToWishlist
	}
	w.activity.Record(ctx, kind, domain.WishlistDetails(itemID), actor)
	return view, added, nil
}

func (w *WishlistService) Contains(ctx context.Context, sessionID string, itemID int64) bool {
	var ok bool
	w.sessions.with(ctx, sessionID, func(s *Session) {
		ok = s.wishlist.Contains(itemID)
	})
	return ok
}

// Remove is idempotent and records nothing.
func (w *WishlistService) Remove(ctx context.Context, sessionID string, itemID int64) WishlistView {
	var view WishlistView
	w.sessions.with(ctx, sessionID, func(s *Session) {
		s.wishlist.Remove(itemID)
		w.sessions.persistWishlist(ctx, s)
		view = wishlistView(s)
	})
	return view
}

package repository

import (
	"context"

	"github.com/VedantYeola/Wear-Story/internal/domain"
)

// Persistence slot names. Each session has one of each.
const (
	SlotCart     = "weare-story-cart"
	SlotWishlist = "weare-story-wishlist"
)

// SnapshotRepository stores opaque JSON blobs per session and slot.
type SnapshotRepository interface {
	// Load returns the stored blob, or an ErrNotFound error when the slot is empty.
	Load(ctx context.Context, sessionID, slot string) ([]byte, error)

	// Save overwrites the slot.
	Save(ctx context.Context, sessionID, slot string, data []byte) error

	// Delete drops the given slots for a session.
	Delete(ctx context.Context, sessionID string, slots ...string) error
}

// ItemReader is the catalog data source.
type ItemReader interface {
	// ListItems returns every item ordered by id ascending.
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// ItemRepository is the catalog data source plus the admin write path.
type ItemRepository interface {
	ItemReader
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
}

// ChangeFeed pushes "the catalog may have changed" signals. Payloads are not
// exposed; subscribers refetch everything.
type ChangeFeed interface {
	Subscribe(ctx context.Context, notify func()) (Subscription, error)
}

// Subscription is released when its owner shuts down.
type Subscription interface {
	Unsubscribe() error
}

// ActivitySink is the durable, append-only activity log.
type ActivitySink interface {
	Append(ctx context.Context, entry domain.ActivityEntry) error

	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

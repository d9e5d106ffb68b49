package domain

import (
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ActionKind names a recorded shopper action.
type ActionKind string

const (
	ActionAddToCart          ActionKind = "ADD_TO_CART"
	ActionAddToWishlist      ActionKind = "ADD_TO_WISHLIST"
	ActionRemoveFromWishlist ActionKind = "REMOVE_FROM_WISHLIST"
	ActionViewProduct        ActionKind = "VIEW_PRODUCT"
	ActionInitiateCheckout   ActionKind = "INITIATE_CHECKOUT"
	ActionPurchaseSuccess    ActionKind = "PURCHASE_SUCCESS"
)

const (
	// ActivityRingSize bounds the in-process activity buffer.
	ActivityRingSize = 100
	// ActivityDisplayLimit bounds the merged admin view.
	ActivityDisplayLimit = 50
)

// ActivityEntry is one recorded action. ID lets the admin view drop the
// copy of an entry that reached both the ring and the sink.
type ActivityEntry struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	UserEmail  string         `json:"user_email,omitempty"`
	ActionType ActionKind     `json:"action_type"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityRing is a bounded newest-first buffer safe for concurrent use.
type ActivityRing struct {
	mu      sync.Mutex
	size    int
	entries []ActivityEntry
}

func NewActivityRing(size int) *ActivityRing {
	if size <= 0 {
		size = ActivityRingSize
	}
	return &ActivityRing{size: size}
}

// Push prepends e and drops the oldest entries beyond the ring size.
func (r *ActivityRing) Push(e ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.Insert(r.entries, 0, e)
	if len(r.entries) > r.size {
		r.entries = r.entries[:r.size]
	}
}

// Entries returns the buffer newest first.
func (r *ActivityRing) Entries() []ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// MergeActivity combines the local buffer with entries read back from the
// sink, newest first, capped at limit. Entries with the same non-empty ID
// are shown once.
func MergeActivity(local, remote []ActivityEntry, limit int) []ActivityEntry {
	merged := make([]ActivityEntry, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local))
	for _, src := range [][]ActivityEntry{local, remote} {
		for _, e := range src {
			if e.ID != "" {
				if _, dup := seen[e.ID]; dup {
					continue
				}
				seen[e.ID] = struct{}{}
			}
			merged = append(merged, e)
		}
	}
	slices.SortStableFunc(merged, func(a, b ActivityEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Detail payloads, one per action kind.

func AddToCartDetails(it Item) map[string]any {
	return map[string]any{"productId": it.ID, "name": it.Name, "price": it.Price}
}

func WishlistDetails(id int64) map[string]any {
	return map[string]any{"productId": id}
}

func ViewProductDetails(it Item) map[string]any {
	return map[string]any{"productId": it.ID, "name": it.Name}
}

func InitiateCheckoutDetails(amount decimal.Decimal, itemsCount int) map[string]any {
	return map[string]any{"amount": amount, "itemsCount": itemsCount}
}

// PurchaseSuccessDetails lists what was bought under the transaction id.
func PurchaseSuccessDetails(amount decimal.Decimal, lines []CartLine, txnID string) map[string]any {
	items := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		items = append(items, map[string]any{
			"id":       l.ID,
			"name":     l.Name,
			"price":    l.Price,
			"quantity": l.Quantity,
		})
	}
	return map[string]any{"amount": amount, "items": items, "transactionId": txnID}
}

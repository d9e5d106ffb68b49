// Package domain holds the storefront's commerce state: catalog items, the
// cart and wishlist, the display projection, checkout states and activity
// entries.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// Item is a catalog entry. The storefront treats items as read-only; they
// are replaced wholesale whenever the catalog source changes.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	Image       string          `json:"image"`
}

// Clone returns a copy that shares no slices with it.
func (i Item) Clone() Item {
	if i.Tags != nil {
		i.Tags = append([]string(nil), i.Tags...)
	}
	return i
}

// Validate checks the fields an admin must supply when writing an item.
func (i Item) Validate() error {
	switch {
	case strings.TrimSpace(i.Name) == "":
		return apperrors.InvalidInput("name is required")
	case i.Price.IsNegative():
		return apperrors.InvalidInput("price must not be negative")
	case i.Rating < 0 || i.Rating > 5:
		return apperrors.InvalidInput("rating must be between 0 and 5")
	case i.Reviews < 0:
		return apperrors.InvalidInput("reviews must not be negative")
	}
	return nil
}

// CloneItems deep-copies a collection.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

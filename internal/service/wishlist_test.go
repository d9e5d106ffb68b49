package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

func TestWishlistService_ToggleIsItsOwnInverse(t *testing.T) {
	f := newFixture(t)
	svc := NewWishlistService(f.sessions, f.catalog, f.activity)
	ctx := context.Background()

	view, added, err := svc.Toggle(ctx, "s1", 3, guest)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, view.Count)
	assert.True(t, svc.Contains(ctx, "s1", 3))

	view, added, err = svc.Toggle(ctx, "s1", 3, guest)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Zero(t, view.Count)
	assert.False(t, svc.Contains(ctx, "s1", 3))

	assert.Equal(t, []domain.ActionKind{domain.ActionRemoveFromWishlist, domain.ActionAddToWishlist}, f.kinds())
}

func TestWishlistService_SnapshotOutlivesCatalog(t *testing.T) {
	f := newFixture(t)
	svc := NewWishlistService(f.sessions, f.catalog, f.activity)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, "s1", 2, guest)
	require.NoError(t, err)
	f.catalog.remove(2)

	view := svc.Wishlist(ctx, "s1")
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Silk Dress", view.Items[0].Name)

	_, added, err := svc.Toggle(ctx, "s1", 2, guest)
	require.NoError(t, err)
	assert.False(t, added)

	_, _, err = svc.Toggle(ctx, "s1", 2, guest)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWishlistService_RemoveIsIdempotentAndSilent(t *testing.T) {
	f := newFixture(t)
	svc := NewWishlistService(f.sessions, f.catalog, f.activity)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, "s1", 1, guest)
	require.NoError(t, err)

	assert.Zero(t, svc.Remove(ctx, "s1", 1).Count)
	assert.Zero(t, svc.Remove(ctx, "s1", 1).Count)
	assert.Equal(t, []domain.ActionKind{domain.ActionAddToWishlist}, f.kinds())

	raw, err := f.snapshots.Load(ctx, "s1", repository.SlotWishlist)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

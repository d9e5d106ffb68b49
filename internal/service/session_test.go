package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/repository"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

func TestSessionManager_RestoresSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.snapshots.Save(ctx, "s1", repository.SlotCart,
		[]byte(`[{"id":1,"name":"Wool Coat","category":"Outerwear","price":"10","quantity":2},{"id":1,"price":10,"quantity":1}]`)))
	require.NoError(t, f.snapshots.Save(ctx, "s1", repository.SlotWishlist,
		[]byte(`[{"id":7,"name":"Gone Boots","price":55.5}]`)))

	cart := NewCartService(f.sessions, f.catalog, f.activity)
	wish := NewWishlistService(f.sessions, f.catalog, f.activity)

	view := cart.Cart(ctx, "s1")
	require.Len(t, view.Lines, 1, "duplicate lines merge on restore")
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, "30", view.Total.String())

	w := wish.Wishlist(ctx, "s1")
	require.Len(t, w.Items, 1)
	assert.Equal(t, "Gone Boots", w.Items[0].Name)
}

func TestSessionManager_MalformedSnapshotIsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.snapshots.Save(ctx, "s1", repository.SlotCart, []byte(`{not json`)))
	require.NoError(t, f.snapshots.Save(ctx, "s1", repository.SlotWishlist, []byte(`{"entries":[]}`)))

	cart := NewCartService(f.sessions, f.catalog, f.activity)
	wish := NewWishlistService(f.sessions, f.catalog, f.activity)
	assert.Empty(t, cart.Cart(ctx, "s1").Lines)
	assert.Zero(t, wish.Wishlist(ctx, "s1").Count)
}

func TestSessionManager_StoreFailuresNeverFailCartOperations(t *testing.T) {
	snaps := new(mockSnapshots)
	snaps.On("Load", mock.Anything, "s1", mock.Anything).Return(nil, errors.New("redis: connection refused"))
	snaps.On("Save", mock.Anything, "s1", repository.SlotCart, mock.Anything).Return(errors.New("redis: connection refused"))

	sessions := NewSessionManager(snaps, DefaultSessionConfig(), newTestLogger())
	cart := NewCartService(sessions, &fakeCatalog{items: testItems()}, NewActivityRecorder(nil, newTestLogger()))

	view, err := cart.AddItem(context.Background(), "s1", 1, guest)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	snaps.AssertNumberOfCalls(t, "Load", 2)
	snaps.AssertNumberOfCalls(t, "Save", 1)
}

func TestSessionManager_EvictsIdleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	f.sessions.now = func() time.Time { return clock }

	cart := NewCartService(f.sessions, f.catalog, f.activity)
	_, err := cart.AddItem(ctx, "idle", 1, guest)
	require.NoError(t, err)
	cart.Cart(ctx, "busy")
	assert.Equal(t, 2, f.sessions.Len())

	clock = clock.Add(f.sessions.cfg.IdleTTL - time.Second)
	cart.Cart(ctx, "busy")
	clock = clock.Add(2 * time.Second)

	assert.Equal(t, 1, f.sessions.Evict())
	assert.Equal(t, 1, f.sessions.Len())

	assert.Len(t, cart.Cart(ctx, "idle").Lines, 1, "evicted session comes back from its snapshot")
}

func TestSessionManager_RequestWaitingOnEvictedSessionRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := NewCartService(f.sessions, f.catalog, f.activity)
	cart.Cart(ctx, "s1")

	f.sessions.mu.Lock()
	old := f.sessions.sessions["s1"]
	f.sessions.mu.Unlock()

	// Hold the session so the request below queues on its lock, then evict
	// it the way Evict does before letting the request through.
	old.mu.Lock()
	done := make(chan CartView)
	go func() { done <- cart.SetOpen(ctx, "s1", true) }()
	time.Sleep(20 * time.Millisecond)

	f.sessions.mu.Lock()
	f.sessions.dropLocked("s1", old)
	f.sessions.mu.Unlock()
	old.mu.Unlock()

	var view CartView
	select {
	case view = <-done:
	case <-time.After(time.Second):
		t.Fatal("request never completed")
	}
	assert.True(t, view.Open)

	f.sessions.mu.Lock()
	current, ok := f.sessions.sessions["s1"]
	f.sessions.mu.Unlock()
	require.True(t, ok, "the retried request registers a live session")
	assert.NotSame(t, old, current)
	assert.True(t, cart.Cart(ctx, "s1").Open, "state set by the retried request is kept")
}

func TestSessionManager_EndedSessionIsNotReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := NewCartService(f.sessions, f.catalog, f.activity)
	cart.SetOpen(ctx, "s1", true)

	f.sessions.mu.Lock()
	old := f.sessions.sessions["s1"]
	f.sessions.mu.Unlock()

	require.NoError(t, f.sessions.End(ctx, "s1", false))
	old.mu.Lock()
	assert.True(t, old.gone)
	old.mu.Unlock()
	assert.False(t, cart.Cart(ctx, "s1").Open)
}

func TestSessionManager_KeepsSessionsWithCheckoutInFlight(t *testing.T) {
	f := newFixture(t)
	f.sessions.cfg.ProcessingDelay = time.Hour
	ctx := context.Background()
	clock := time.Now()
	f.sessions.now = func() time.Time { return clock }

	cart := NewCartService(f.sessions, f.catalog, f.activity)
	checkout := NewCheckoutService(f.sessions, f.activity, newTestLogger())
	_, err := cart.AddItem(ctx, "s1", 1, guest)
	require.NoError(t, err)
	_, err = checkout.Start(ctx, "s1", guest)
	require.NoError(t, err)
	_, err = checkout.Submit(ctx, "s1", validForm(), guest)
	require.NoError(t, err)

	clock = clock.Add(2 * f.sessions.cfg.IdleTTL)
	assert.Zero(t, f.sessions.Evict())
}

func TestSessionManager_End(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := NewCartService(f.sessions, f.catalog, f.activity)

	_, err := cart.AddItem(ctx, "s1", 1, guest)
	require.NoError(t, err)

	require.NoError(t, f.sessions.End(ctx, "s1", false))
	assert.Zero(t, f.sessions.Len())
	assert.Len(t, cart.Cart(ctx, "s1").Lines, 1, "ending keeps the slots")

	require.NoError(t, f.sessions.End(ctx, "s1", true))
	_, err = f.snapshots.Load(ctx, "s1", repository.SlotCart)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, cart.Cart(ctx, "s1").Lines)
}

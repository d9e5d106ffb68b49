package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

var txnPattern = regexp.MustCompile(`^TXN-\d+-[0-9A-Z]{9}$`)

func validForm() domain.PaymentForm {
	return domain.PaymentForm{Name: "Ada", CardNumber: "4242 4242 4242 4242", Expiry: "12/30", CVC: "123"}
}

func newCheckoutFixture(t *testing.T) (*fixture, *CartService, *CheckoutService) {
	t.Helper()
	f := newFixture(t)
	cart := NewCartService(f.sessions, f.catalog, f.activity)
	checkout := NewCheckoutService(f.sessions, f.activity, newTestLogger())

	_, err := cart.AddItem(context.Background(), "s1", 1, guest)
	require.NoError(t, err)
	_, err = cart.AddItem(context.Background(), "s1", 3, guest)
	require.NoError(t, err)
	return f, cart, checkout
}

func TestCheckoutService_CompletesAndClearsCart(t *testing.T) {
	f, cart, checkout := newCheckoutFixture(t)
	ctx := context.Background()

	view, err := checkout.Start(ctx, "s1", guest)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutForm, view.State)
	assert.Equal(t, "30", view.Amount.String())
	assert.Equal(t, 2, view.ItemsCount)
	assert.False(t, cart.Cart(ctx, "s1").Open, "starting checkout hides the cart")

	view, err = checkout.Submit(ctx, "s1", validForm(), guest)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutProcessing, view.State)
	assert.Regexp(t, txnPattern, view.TransactionID)
	txn := view.TransactionID

	require.Eventually(t, func() bool {
		return checkout.View(ctx, "s1").State == domain.CheckoutClosed
	}, time.Second, time.Millisecond)

	final := checkout.View(ctx, "s1")
	assert.Equal(t, txn, final.TransactionID)
	assert.Empty(t, cart.Cart(ctx, "s1").Lines)

	entries := f.activity.Recent(ctx)
	require.NotEmpty(t, entries)
	assert.Equal(t, domain.ActionPurchaseSuccess, entries[0].ActionType)
	assert.Equal(t, txn, entries[0].Details["transactionId"])
	assert.Len(t, entries[0].Details["items"], 2)
}

func TestCheckoutService_PassesThroughSuccess(t *testing.T) {
	_, _, checkout := newCheckoutFixture(t)
	checkout.sessions.cfg.SuccessDelay = 200 * time.Millisecond
	ctx := context.Background()

	_, err := checkout.Start(ctx, "s1", guest)
	require.NoError(t, err)
	_, err = checkout.Submit(ctx, "s1", validForm(), guest)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return checkout.View(ctx, "s1").State == domain.CheckoutSuccess
	}, time.Second, time.Millisecond)
}

func TestCheckoutService_CloseBeforeSuccessAbandons(t *testing.T) {
	f, cart, checkout := newCheckoutFixture(t)
	checkout.sessions.cfg.ProcessingDelay = 50 * time.Millisecond
	ctx := context.Background()

	_, err := checkout.Start(ctx, "s1", guest)
	require.NoError(t, err)
	_, err = checkout.Submit(ctx, "s1", validForm(), guest)
	require.NoError(t, err)

	view := checkout.Close(ctx, "s1")
	assert.Equal(t, domain.CheckoutClosed, view.State)
	assert.Empty(t, view.TransactionID)

	time.Sleep(150 * time.Millisecond)
	assert.Len(t, cart.Cart(ctx, "s1").Lines, 2)
	assert.NotContains(t, f.kinds(), domain.ActionPurchaseSuccess)
}

func TestCheckoutService_CloseAfterSuccessStillCompletes(t *testing.T) {
	_, cart, checkout := newCheckoutFixture(t)
	checkout.sessions.cfg.SuccessDelay = 50 * time.Millisecond
	ctx := context.Background()

	_, err := checkout.Start(ctx, "s1", guest)
	require.NoError(t, err)
	_, err = checkout.Submit(ctx, "s1", validForm(), guest)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return checkout.View(ctx, "s1").State == domain.CheckoutSuccess
	}, time.Second, time.Millisecond)

	checkout.Close(ctx, "s1")
	require.Eventually(t, func() bool {
		return len(cart.Cart(ctx, "s1").Lines) == 0
	}, time.Second, time.Millisecond)
}

func TestCheckoutService_StateGuards(t *testing.T) {
	f := newFixture(t)
	checkout := NewCheckoutService(f.sessions, f.activity, newTestLogger())
	ctx := context.Background()

	_, err := checkout.Start(ctx, "empty", guest)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = checkout.Submit(ctx, "empty", validForm(), guest)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, _, co := newCheckoutFixture(t)
	_, err = co.Start(ctx, "s1", guest)
	require.NoError(t, err)
	_, err = co.Submit(ctx, "s1", validForm(), guest)
	require.NoError(t, err)

	_, err = co.Start(ctx, "s1", guest)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = co.Submit(ctx, "s1", validForm(), guest)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCheckoutService_InitiateRecordsLineCount(t *testing.T) {
	f, _, checkout := newCheckoutFixture(t)

	_, err := checkout.Start(context.Background(), "s1", Actor{ID: "user_1", Email: "a@b.co"})
	require.NoError(t, err)

	e := f.activity.Recent(context.Background())[0]
	assert.Equal(t, domain.ActionInitiateCheckout, e.ActionType)
	assert.Equal(t, 2, e.Details["itemsCount"])
	assert.Equal(t, "user_1", e.UserID)
	assert.Equal(t, "a@b.co", e.UserEmail)
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// checkoutFlow is a session's simulated payment. Timer callbacks carry the
// generation they were scheduled in and do nothing once it has moved on.
type checkoutFlow struct {
	state         domain.CheckoutState
	transactionID string
	amount        decimal.Decimal
	itemsCount    int
	timer         *time.Timer
	generation    uint64
}

func (f *checkoutFlow) inFlight() bool {
	return f.state == domain.CheckoutProcessing || f.state == domain.CheckoutSuccess
}

func (f *checkoutFlow) abandon() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.generation++
	f.transactionID = ""
	f.state = domain.CheckoutClosed
}

func (f *checkoutFlow) view() domain.CheckoutView {
	return domain.CheckoutView{
		State:         f.state,
		TransactionID: f.transactionID,
		Amount:        f.amount,
		ItemsCount:    f.itemsCount,
	}
}

// CheckoutService drives form -> processing -> success -> closed. Nothing
// is charged; completion clears the cart.
type CheckoutService struct {
	sessions *SessionManager
	activity *ActivityRecorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewCheckoutService(sessions *SessionManager, activity *ActivityRecorder, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{sessions: sessions, activity: activity, logger: logger, now: time.Now}
}

// Start opens the payment form for the current cart and closes the cart
// surface.
func (c *CheckoutService) Start(ctx context.Context, sessionID string, actor Actor) (domain.CheckoutView, error) {
	var (
		view domain.CheckoutView
		err  error
	)
	c.sessions.with(ctx, sessionID, func(s *Session) {
		if s.checkout.inFlight() {
			err = apperrors.Conflict("a checkout is already in progress")
			return
		}
		if s.cart.Len() == 0 {
			err = apperrors.InvalidInput("cart is empty")
			return
		}

		s.checkout.abandon()
		s.checkout.state = domain.CheckoutForm
		s.checkout.amount = s.cart.Total()
		s.checkout.itemsCount = s.cart.Len()
		s.cartOpen = false
		view = s.checkout.view()
	})
	if err != nil {
		return domain.CheckoutView{}, err
	}

	c.activity.Record(ctx, domain.ActionInitiateCheckout,
		domain.InitiateCheckoutDetails(view.Amount, view.ItemsCount), actor)
	return view, nil
}

// Submit accepts the (already validated) payment form, fabricates the
// transaction id and schedules the two simulated delays.
func (c *CheckoutService) Submit(ctx context.Context, sessionID string, _ domain.PaymentForm, actor Actor) (domain.CheckoutView, error) {
	var (
		view domain.CheckoutView
		err  error
	)
	c.sessions.with(ctx, sessionID, func(s *Session) {
		if s.checkout.state != domain.CheckoutForm {
			err = apperrors.Conflict("checkout is not awaiting payment details")
			return
		}

		f := &s.checkout
		f.state = domain.CheckoutProcessing
		f.transactionID = domain.NewTransactionID(c.now())
		gen := f.generation
		bg := context.WithoutCancel(ctx)

		f.timer = time.AfterFunc(c.sessions.cfg.ProcessingDelay, func() {
			c.succeed(bg, s, gen, actor)
		})
		view = f.view()

		c.logger.InfoContext(ctx, "checkout processing",
			slog.String("transaction_id", f.transactionID),
			slog.String("amount", f.amount.String()),
		)
	})
	return view, err
}

func (c *CheckoutService) succeed(ctx context.Context, s *Session, gen uint64, actor Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &s.checkout
	if f.generation != gen || f.state != domain.CheckoutProcessing {
		return
	}
	f.state = domain.CheckoutSuccess
	f.timer = time.AfterFunc(c.sessions.cfg.SuccessDelay, func() {
		c.complete(ctx, s, gen, actor)
	})
}

func (c *CheckoutService) complete(ctx context.Context, s *Session, gen uint64, actor Actor) {
	s.mu.Lock()
	f := &s.checkout
	if f.generation != gen || f.state != domain.CheckoutSuccess {
		s.mu.Unlock()
		return
	}

	total := s.cart.Total()
	details := domain.PurchaseSuccessDetails(total, s.cart.Snapshot(), f.transactionID)
	txnID := f.transactionID

	s.cart.Clear()
	c.sessions.persistCart(ctx, s)
	c.activity.Record(ctx, domain.ActionPurchaseSuccess, details, actor)

	f.timer = nil
	f.state = domain.CheckoutClosed
	f.amount = total
	s.mu.Unlock()

	c.logger.InfoContext(ctx, "checkout completed", slog.String("transaction_id", txnID))
}

// View returns the session's checkout state.
func (c *CheckoutService) View(ctx context.Context, sessionID string) domain.CheckoutView {
	var view domain.CheckoutView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		view = s.checkout.view()
	})
	return view
}

// Close dismisses the checkout. Before success the flow is abandoned and
// the cart left untouched; once success is showing, completion still
// happens.
func (c *CheckoutService) Close(ctx context.Context, sessionID string) domain.CheckoutView {
	var view domain.CheckoutView
	c.sessions.with(ctx, sessionID, func(s *Session) {
		switch s.checkout.state {
		case domain.CheckoutForm, domain.CheckoutProcessing:
			s.checkout.abandon()
			c.logger.InfoContext(ctx, "checkout abandoned")
		}
		view = s.checkout.view()
	})
	return view
}

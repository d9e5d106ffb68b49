package http

import (
	"net/http"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
	"github.com/VedantYeola/Wear-Story/pkg/validator"
)

// CheckoutHandler drives the simulated payment flow.
type CheckoutHandler struct {
	service *service.CheckoutService
}

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

// Start handles POST /api/v1/checkout
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Start(r.Context(), sessionFromContext(r.Context()), actorFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// Submit handles POST /api/v1/checkout/submit. The response reports the
// processing state; clients poll GET /api/v1/checkout for the outcome.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form domain.PaymentForm
	if err := validator.DecodeAndValidate(r, &form); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	view, err := h.service.Submit(r.Context(), sessionFromContext(r.Context()), form, actorFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusAccepted, view)
}

// Get handles GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.View(r.Context(), sessionFromContext(r.Context())))
}

// Close handles DELETE /api/v1/checkout
func (h *CheckoutHandler) Close(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Close(r.Context(), sessionFromContext(r.Context())))
}

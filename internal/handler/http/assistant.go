package http

import (
	"net/http"

	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
	"github.com/VedantYeola/Wear-Story/pkg/validator"
)

// AssistantHandler serves the stylist conversation.
type AssistantHandler struct {
	service *service.StylistService
}

func NewAssistantHandler(svc *service.StylistService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Messages handles GET /api/v1/assistant/messages
func (h *AssistantHandler) Messages(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Messages(r.Context(), sessionFromContext(r.Context())))
}

// Send handles POST /api/v1/assistant/messages and returns the reply turn.
func (h *AssistantHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	reply, err := h.service.Send(r.Context(), sessionFromContext(r.Context()), req.Text)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, reply)
}

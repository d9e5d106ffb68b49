package http

import (
	"net/http"

	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
)

type SessionHandler struct {
	sessions *service.SessionManager
}

func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// End handles DELETE /api/v1/session. ?purge=true also deletes the
// persisted cart and wishlist.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	purge := r.URL.Query().Get("purge") == "true"
	if err := h.sessions.End(r.Context(), sessionFromContext(r.Context()), purge); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
	"github.com/VedantYeola/Wear-Story/pkg/httputil"
	"github.com/VedantYeola/Wear-Story/pkg/logger"
	"github.com/VedantYeola/Wear-Story/pkg/middleware"
)

const (
	SessionHeader = "X-Session-ID"
	AdminHeader   = "X-Admin-Passphrase"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

type sessionKey struct{}

// RequireSession rejects requests without a usable X-Session-ID and stores
// the id in the context for handlers and the request logger.
func RequireSession(next http.Handler) http.Handler {
	return sessionMiddleware(next, true)
}

// OptionalSession is RequireSession for routes that also serve anonymous
// callers. A malformed header is still rejected.
func OptionalSession(next http.Handler) http.Handler {
	return sessionMiddleware(next, false)
}

func sessionMiddleware(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" {
			if required {
				httputil.WriteError(w, r, apperrors.InvalidInput(SessionHeader+" header is required"))
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		if !sessionIDPattern.MatchString(id) {
			httputil.WriteError(w, r, apperrors.InvalidInput("malformed "+SessionHeader+" header"))
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, id)
		ctx = logger.WithSessionID(ctx, id)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("session_id", id)))
		w.Header().Set(SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext returns "" when the request carried no session.
func sessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionOrIP keys rate limits by session, falling back to the client address.
func sessionOrIP(r *http.Request) string {
	if id := sessionFromContext(r.Context()); id != "" {
		return "session:" + id
	}
	return "ip:" + middleware.ClientIP(r)
}

// Authenticator checks the admin passphrase.
type Authenticator interface {
	Authenticate(passphrase string) error
}

// AdminGate admits requests whose X-Admin-Passphrase passes auth.
func AdminGate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authenticate(r.Header.Get(AdminHeader)); err != nil {
				logger.FromContext(r.Context()).WarnContext(r.Context(), "admin access denied",
					slog.String("remote_addr", r.RemoteAddr),
				)
				httputil.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"

	"github.com/VedantYeola/Wear-Story/pkg/logger"
)

type identityKey struct{}

// Identity is the shopper identity attached to activity entries. No
// credential backs it; the headers are taken at face value.
type Identity struct {
	UserID string
	Email  string
}

// GuestUserID is recorded when no user id is presented.
const GuestUserID = "guest"

// Actor reads X-User-ID and X-User-Email into the request context,
// defaulting to the guest identity.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{UserID: r.Header.Get("X-User-ID"), Email: r.Header.Get("X-User-Email")}
		if id.UserID == "" {
			id.UserID = GuestUserID
		}
		ctx := context.WithValue(r.Context(), identityKey{}, id)
		ctx = logger.WithActor(ctx, id.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the guest identity when Actor did not run.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Identity{UserID: GuestUserID}
}

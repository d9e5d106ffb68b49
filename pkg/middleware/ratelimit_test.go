package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/pkg/httputil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	byHeader := func(r *http.Request) string { return r.Header.Get("X-Session-ID") }
	h := RateLimit(RateLimitConfig{Rate: 0.5, Burst: 2}, byHeader, discardLogger())(okHandler())

	send := func(session string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/assistant/messages", nil)
		req.Header.Set("X-Session-ID", session)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("a").Code)
	assert.Equal(t, http.StatusOK, send("a").Code)

	rec := send("a")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	var body httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)

	// Other keys have their own bucket.
	assert.Equal(t, http.StatusOK, send("b").Code)
}

func TestRateLimit_ZeroRateDisabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{}, nil, discardLogger())(okHandler())
	for range 20 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBucketStore_SweepsIdleBuckets(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newBucketStore(RateLimitConfig{Rate: 1, Burst: 1, IdleTTL: time.Minute})
	s.now = func() time.Time { return now }

	s.get("a")
	s.get("b")
	assert.Equal(t, 2, s.len())

	now = now.Add(2 * time.Minute)
	s.get("c")
	assert.Equal(t, 1, s.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.9:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.9:1234", "198.51.100.7"},
		{"garbage forwarded", map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.9:1234", "10.0.0.9"},
		{"remote only", nil, "192.0.2.1:80", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/VedantYeola/Wear-Story/pkg/httputil"
)

// RateLimitConfig sets a token bucket per key. A zero Rate disables limiting.
type RateLimitConfig struct {
	Rate  float64 // tokens per second
	Burst int
	// IdleTTL drops buckets not touched for this long.
	IdleTTL time.Duration
}

// KeyFunc picks the bucket a request draws from.
type KeyFunc func(r *http.Request) string

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type bucketStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	cfg       RateLimitConfig
	lastSweep time.Time
	now       func() time.Time
}

func newBucketStore(cfg RateLimitConfig) *bucketStore {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &bucketStore{buckets: make(map[string]*bucket), cfg: cfg, now: time.Now}
}

// get returns key's limiter, sweeping idle buckets at most once per IdleTTL.
func (s *bucketStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.cfg.IdleTTL {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) > s.cfg.IdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (s *bucketStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// RateLimit answers 429 with Retry-After once key's bucket is empty.
func RateLimit(cfg RateLimitConfig, key KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.Rate <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if key == nil {
		key = ClientIP
	}
	store := newBucketStore(cfg)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.Rate)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !store.get(k).Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("key", k),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", retryAfter)
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "RATE_LIMITED", Message: "too many requests"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

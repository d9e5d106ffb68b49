// Package service holds the storefront's per-session commerce state and the
// operations the HTTP layer exposes on it.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VedantYeola/Wear-Story/internal/assistant"
	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_sessions_active",
	Help: "Sessions currently held in memory.",
})

// Catalog is the read side of the catalog store.
type Catalog interface {
	Items() []domain.Item
	Get(id int64) (domain.Item, bool)
	Categories() []string
}

// SessionConfig tunes session lifetime and the simulated checkout.
type SessionConfig struct {
	IdleTTL         time.Duration
	ProcessingDelay time.Duration
	SuccessDelay    time.Duration
	MaxHistory      int
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		IdleTTL:         30 * time.Minute,
		ProcessingDelay: 2 * time.Second,
		SuccessDelay:    2 * time.Second,
		MaxHistory:      50,
	}
}

// Session is one shopper's state. All fields are guarded by mu.
type Session struct {
	id string

	mu       sync.Mutex
	cart     domain.Cart
	wishlist domain.Wishlist
	cartOpen bool
	filter   domain.Filter
	history  []assistant.Turn
	checkout checkoutFlow
	lastSeen time.Time
	// gone is set once the session has left the manager's map.
	gone bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SessionManager owns every live session. Sessions are created on first
// use, restored from the snapshot slots, and evicted after IdleTTL without
// a request unless a checkout is in flight.
type SessionManager struct {
	snapshots repository.SnapshotRepository
	cfg       SessionConfig
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(snapshots repository.SnapshotRepository, cfg SessionConfig, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// with runs fn on the session under its lock, creating and restoring the
// session first if needed.
func (m *SessionManager) with(ctx context.Context, id string, fn func(s *Session)) {
	s := m.acquire(ctx, id)
	defer s.mu.Unlock()
	s.lastSeen = m.now()
	fn(s)
}

// acquire returns the session locked. A new session is registered before
// it is restored so concurrent requests wait on its lock instead of
// restoring twice. A session evicted or ended while we waited for its lock
// is skipped and looked up again.
func (m *SessionManager) acquire(ctx context.Context, id string) *Session {
	for {
		m.mu.Lock()
		s, ok := m.sessions[id]
		if ok {
			m.mu.Unlock()
			s.mu.Lock()
			if s.gone {
				s.mu.Unlock()
				continue
			}
			return s
		}

		s = &Session{
			id:      id,
			filter:  domain.DefaultFilter(),
			history: []assistant.Turn{greetingTurn},
		}
		s.checkout.state = domain.CheckoutClosed
		s.mu.Lock()
		m.sessions[id] = s
		activeSessions.Set(float64(len(m.sessions)))
		m.mu.Unlock()

		m.restore(ctx, s)
		return s
	}
}

func (m *SessionManager) restore(ctx context.Context, s *Session) {
	var lines []domain.CartLine
	if m.loadSlot(ctx, s.id, repository.SlotCart, &lines) {
		s.cart = domain.RestoreCart(lines)
	}
	var entries []domain.Item
	if m.loadSlot(ctx, s.id, repository.SlotWishlist, &entries) {
		s.wishlist = domain.RestoreWishlist(entries)
	}
	m.logger.DebugContext(ctx, "session restored",
		slog.String("session_id", s.id),
		slog.Int("cart_lines", s.cart.Len()),
		slog.Int("wishlist_entries", s.wishlist.Len()),
	)
}

// loadSlot decodes a slot into dst. Absent, unreadable and malformed slots
// all count as empty.
func (m *SessionManager) loadSlot(ctx context.Context, id, slot string, dst any) bool {
	data, err := m.snapshots.Load(ctx, id, slot)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			m.logger.WarnContext(ctx, "failed to load snapshot, starting empty",
				slog.String("slot", slot),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		m.logger.InfoContext(ctx, "discarding malformed snapshot",
			slog.String("slot", slot),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// persistCart rewrites the cart slot. Callers hold s.mu. Failures are
// logged; the in-memory cart stays authoritative.
func (m *SessionManager) persistCart(ctx context.Context, s *Session) {
	m.saveSlot(ctx, s.id, repository.SlotCart, s.cart.Snapshot())
}

func (m *SessionManager) persistWishlist(ctx context.Context, s *Session) {
	m.saveSlot(ctx, s.id, repository.SlotWishlist, s.wishlist.Snapshot())
}

func (m *SessionManager) saveSlot(ctx context.Context, id, slot string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = m.snapshots.Save(ctx, id, slot, data)
	}
	if err != nil {
		m.logger.WarnContext(ctx, "failed to persist snapshot",
			slog.String("slot", slot),
			slog.String("error", err.Error()),
		)
	}
}

// End drops a session from memory and stops its checkout. With purge the
// persisted slots are deleted too.
func (m *SessionManager) End(ctx context.Context, id string, purge bool) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	activeSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if ok {
		s.mu.Lock()
		s.gone = true
		s.checkout.abandon()
		s.mu.Unlock()
	}

	if purge {
		if err := m.snapshots.Delete(ctx, id, repository.SlotCart, repository.SlotWishlist); err != nil {
			return fmt.Errorf("purge session %s: %w", id, err)
		}
	}
	return nil
}

// Evict removes sessions idle for longer than IdleTTL and returns how many
// went. Sessions with a checkout in flight are kept.
func (m *SessionManager) Evict() int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.lastSeen.Before(cutoff) && !s.checkout.inFlight() {
			m.dropLocked(id, s)
			evicted++
		}
		s.mu.Unlock()
	}
	activeSessions.Set(float64(len(m.sessions)))
	return evicted
}

// dropLocked removes s from the map. Both m.mu and s.mu must be held.
func (m *SessionManager) dropLocked(id string, s *Session) {
	s.gone = true
	s.checkout.abandon()
	delete(m.sessions, id)
}

// Run evicts idle sessions until ctx is done.
func (m *SessionManager) Run(ctx context.Context) {
	interval := max(m.cfg.IdleTTL/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Evict(); n > 0 {
				m.logger.Debug("evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}

// Close stops every pending checkout timer.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.mu.Lock()
		s.checkout.abandon()
		s.mu.Unlock()
	}
}

// Len reports how many sessions are in memory.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

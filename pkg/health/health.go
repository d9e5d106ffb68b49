// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker probes one dependency.
type Checker func(ctx context.Context) error

type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Status   Status `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Error    string `json:"error,omitempty"`
}

type registration struct {
	check    Checker
	optional bool
}

// Handler aggregates named checkers. A failing required checker makes the
// service not ready; a failing optional one only degrades it, which suits
// dependencies the storefront can run without (the catalog falls back to
// bundled items, the assistant to canned replies).
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]registration
	timeout  time.Duration
}

func NewHandler() *Handler {
	return &Handler{checkers: map[string]registration{}, timeout: 5 * time.Second}
}

// Register adds a required dependency.
func (h *Handler) Register(name string, checker Checker) {
	h.register(name, checker, false)
}

// RegisterOptional adds a dependency whose failure reports degraded, not down.
func (h *Handler) RegisterOptional(name string, checker Checker) {
	h.register(name, checker, true)
}

func (h *Handler) register(name string, checker Checker, optional bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = registration{check: checker, optional: optional}
}

// LivenessHandler answers 200 while the process is up.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs all checkers concurrently and answers 503 only when
// a required one fails.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		h.mu.RLock()
		regs := make(map[string]registration, len(h.checkers))
		for k, v := range h.checkers {
			regs[k] = v
		}
		h.mu.RUnlock()

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			checks = make(map[string]CheckResult, len(regs))
		)
		for name, reg := range regs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res := CheckResult{Status: StatusUp, Optional: reg.optional}
				if err := reg.check(ctx); err != nil {
					res.Status = StatusDown
					res.Error = err.Error()
				}
				mu.Lock()
				checks[name] = res
				mu.Unlock()
			}()
		}
		wg.Wait()

		overall := StatusUp
		for _, res := range checks {
			if res.Status != StatusDown {
				continue
			}
			if !res.Optional {
				overall = StatusDown
				break
			}
			overall = StatusDegraded
		}

		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, Response{Status: overall, Timestamp: time.Now().UTC(), Checks: checks})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Package catalog keeps the in-memory item collection the storefront
// serves, refreshed in full from the data source whenever a change
// notification arrives.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_refresh_total",
			Help: "Catalog refetches by outcome.",
		},
		[]string{"result"},
	)

	catalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_catalog_items",
			Help: "Items currently served.",
		},
	)
)

const defaultFetchTimeout = 10 * time.Second

// ChangeHook observes every catalog replacement.
type ChangeHook func(items []domain.Item)

// Store serves the bundled fallback collection until the source answers,
// then the latest successful fetch. A failed fetch leaves the previous
// collection in place.
//
// Refetches run one at a time on a single worker. Notifications that
// arrive while a fetch is in flight collapse into one follow-up fetch, so a
// slow response can never overwrite a newer one.
type Store struct {
	source repository.ItemReader
	feed   repository.ChangeFeed
	logger *slog.Logger

	fetchTimeout time.Duration

	mu     sync.RWMutex
	items  []domain.Item
	loaded bool
	hooks  []ChangeHook

	trigger chan struct{}
	closed  atomic.Bool

	lifecycle sync.Mutex
	started   bool
	sub       repository.Subscription
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewStore builds a store over source. feed may be nil, in which case the
// collection only changes through Invalidate.
func NewStore(source repository.ItemReader, feed repository.ChangeFeed, logger *slog.Logger) *Store {
	items := Fallback()
	catalogItems.Set(float64(len(items)))
	return &Store{
		source:       source,
		feed:         feed,
		logger:       logger,
		fetchTimeout: defaultFetchTimeout,
		items:        items,
		trigger:      make(chan struct{}, 1),
	}
}

// Start subscribes to the change feed and issues the initial fetch. It does
// not wait for the fetch. A feed that cannot be subscribed is logged and
// the store runs without live updates.
func (s *Store) Start(ctx context.Context) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.started || s.closed.Load() {
		return
	}
	s.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})

	if s.feed != nil {
		sub, err := s.feed.Subscribe(runCtx, s.Invalidate)
		if err != nil {
			s.logger.Warn("catalog change feed unavailable, serving without live updates",
				slog.String("error", err.Error()),
			)
		} else {
			s.sub = sub
		}
	}

	go s.run(runCtx)
	s.Invalidate()
}

// Invalidate requests a full refetch. It never blocks.
func (s *Store) Invalidate() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Store) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.refresh(ctx)
		}
	}
}

func (s *Store) refresh(ctx context.Context) {
	if s.source == nil {
		return
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	items, err := s.source.ListItems(fetchCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		refreshTotal.WithLabelValues("error").Inc()
		s.logger.Warn("catalog fetch failed, keeping previous collection",
			slog.String("error", err.Error()),
		)
		return
	}
	if s.closed.Load() {
		return
	}
	s.replace(items)
}

func (s *Store) replace(items []domain.Item) {
	items = domain.CloneItems(items)

	s.mu.Lock()
	s.items = items
	s.loaded = true
	hooks := append([]ChangeHook(nil), s.hooks...)
	s.mu.Unlock()

	refreshTotal.WithLabelValues("ok").Inc()
	catalogItems.Set(float64(len(items)))
	s.logger.Debug("catalog replaced", slog.Int("items", len(items)))

	for _, h := range hooks {
		h(domain.CloneItems(items))
	}
}

// OnChange registers a hook run after each replacement, on the refresh
// worker.
func (s *Store) OnChange(h ChangeHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Items returns a copy of the current collection in id order.
func (s *Store) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneItems(s.items)
}

// Get looks an item up by id.
func (s *Store) Get(id int64) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return domain.Item{}, false
}

// Categories lists "All" and the categories of the current collection.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Categories(s.items)
}

// Loaded reports whether a fetch from the source has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Close releases the feed subscription and stops the worker. Fetches that
// complete afterwards are discarded.
func (s *Store) Close() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.closed.Swap(true) || !s.started {
		return nil
	}

	var err error
	if s.sub != nil {
		err = s.sub.Unsubscribe()
	}
	s.cancel()
	<-s.done
	return err
}

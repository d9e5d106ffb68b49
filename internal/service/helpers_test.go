package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository/memory"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- fakes ---

type fakeCatalog struct {
	mu    sync.Mutex
	items []domain.Item
}

func (c *fakeCatalog) Items() []domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneItems(c.items)
}

func (c *fakeCatalog) Get(id int64) (domain.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return domain.Item{}, false
}

func (c *fakeCatalog) Categories() []string {
	return domain.Categories(c.Items())
}

func (c *fakeCatalog) remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Append(ctx context.Context, e domain.ActivityEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockSink) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]domain.ActivityEntry)
	return entries, args.Error(1)
}

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) Load(ctx context.Context, sessionID, slot string) ([]byte, error) {
	args := m.Called(ctx, sessionID, slot)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockSnapshots) Save(ctx context.Context, sessionID, slot string, data []byte) error {
	return m.Called(ctx, sessionID, slot, data).Error(0)
}

func (m *mockSnapshots) Delete(ctx context.Context, sessionID string, slots ...string) error {
	return m.Called(ctx, sessionID, slots).Error(0)
}

// --- fixtures ---

func testItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Wool Coat", Category: "Outerwear", Price: decimal.RequireFromString("10"), Tags: []string{"winter"}},
		{ID: 2, Name: "Silk Dress", Category: "Dresses", Price: decimal.RequireFromString("30"), Tags: []string{"evening"}},
		{ID: 3, Name: "Linen Shirt", Category: "Tops", Price: decimal.RequireFromString("20"), Tags: []string{"summer"}},
		{ID: 5, Name: "Cotton Tee", Category: "Tops", Price: decimal.RequireFromString("9.99"), Tags: []string{"basics"}},
	}
}

type fixture struct {
	catalog   *fakeCatalog
	snapshots *memory.SnapshotRepository
	sessions  *SessionManager
	activity  *ActivityRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := DefaultSessionConfig()
	cfg.ProcessingDelay = 5 * time.Millisecond
	cfg.SuccessDelay = 5 * time.Millisecond

	snaps := memory.NewSnapshotRepository()
	f := &fixture{
		catalog:   &fakeCatalog{items: testItems()},
		snapshots: snaps,
		sessions:  NewSessionManager(snaps, cfg, newTestLogger()),
		activity:  NewActivityRecorder(nil, newTestLogger()),
	}
	t.Cleanup(f.sessions.Close)
	return f
}

func (f *fixture) kinds() []domain.ActionKind {
	var out []domain.ActionKind
	for _, e := range f.activity.Recent(context.Background()) {
		out = append(out, e.ActionType)
	}
	return out
}

var guest = Actor{}

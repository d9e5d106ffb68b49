package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errListenClosed = errors.New("listen connection closed")

type fakeListenConn struct {
	notes    chan *pgconn.Notification
	execs    []string
	released atomic.Bool
}

func (c *fakeListenConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	return pgconn.NewCommandTag("LISTEN"), nil
}

func (c *fakeListenConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	select {
	case n, ok := <-c.notes:
		if !ok {
			return nil, errListenClosed
		}
		return n, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeListenConn) Release() { c.released.Store(true) }

type fakeAcquirer struct {
	mu    sync.Mutex
	conns []*fakeListenConn
	err   error
}

func (a *fakeAcquirer) acquire(context.Context) (listenConn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	c := &fakeListenConn{notes: make(chan *pgconn.Notification, 4)}
	a.conns = append(a.conns, c)
	return c, nil
}

func (a *fakeAcquirer) conn(i int) *fakeListenConn {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i >= len(a.conns) {
		return nil
	}
	return a.conns[i]
}

func (a *fakeAcquirer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}

func newTestFeed(a *fakeAcquirer) *ListenFeed {
	return &ListenFeed{
		acquire:  a.acquire,
		channel:  ChangeChannel,
		retryMin: time.Millisecond,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestListenFeed_NotifiesOnChannel(t *testing.T) {
	acq := &fakeAcquirer{}
	feed := newTestFeed(acq)

	var calls atomic.Int32
	sub, err := feed.Subscribe(context.Background(), func() { calls.Add(1) })
	require.NoError(t, err)

	c := acq.conn(0)
	require.NotNil(t, c)
	assert.Equal(t, []string{`LISTEN "products_changed"`}, c.execs)

	c.notes <- &pgconn.Notification{Channel: "other"}
	c.notes <- &pgconn.Notification{Channel: ChangeChannel, Payload: "INSERT"}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, sub.Unsubscribe())
	assert.True(t, c.released.Load())
	require.NoError(t, sub.Unsubscribe())
}

func TestListenFeed_ReconnectSignalsChange(t *testing.T) {
	acq := &fakeAcquirer{}
	feed := newTestFeed(acq)

	var calls atomic.Int32
	sub, err := feed.Subscribe(context.Background(), func() { calls.Add(1) })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	close(acq.conn(0).notes)

	require.Eventually(t, func() bool { return acq.count() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.True(t, acq.conn(0).released.Load())
}

func TestListenFeed_SubscribeError(t *testing.T) {
	feed := newTestFeed(&fakeAcquirer{err: errors.New("too many connections")})

	_, err := feed.Subscribe(context.Background(), func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire listen connection")
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VedantYeola/Wear-Story/internal/repository"
)

// ChangeChannel is the NOTIFY channel the products trigger signals on.
const ChangeChannel = "products_changed"

const (
	listenRetryMin = 500 * time.Millisecond
	listenRetryMax = 30 * time.Second
)

// listenConn is a dedicated connection in LISTEN mode.
type listenConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Release()
}

type poolConn struct {
	*pgxpool.Conn
}

func (c poolConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return c.Conn.Conn().WaitForNotification(ctx)
}

// ListenFeed implements repository.ChangeFeed with LISTEN/NOTIFY. It holds
// one pool connection per subscription and reconnects with backoff when the
// connection drops. Every reconnect is reported as a change, since
// notifications may have been missed in between.
type ListenFeed struct {
	acquire func(ctx context.Context) (listenConn, error)
	channel  string
	retryMin time.Duration
	logger   *slog.Logger
}

// NewListenFeed creates a change feed over pool.
func NewListenFeed(pool *pgxpool.Pool, logger *slog.Logger) *ListenFeed {
	return &ListenFeed{
		acquire: func(ctx context.Context) (listenConn, error) {
			c, err := pool.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			return poolConn{c}, nil
		},
		channel:  ChangeChannel,
		retryMin: listenRetryMin,
		logger:   logger,
	}
}

type listenSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *listenSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

// Subscribe establishes the first LISTEN synchronously so configuration
// errors surface to the caller, then keeps listening in the background.
func (f *ListenFeed) Subscribe(ctx context.Context, notify func()) (repository.Subscription, error) {
	conn, err := f.listen(ctx)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	sub := &listenSubscription{cancel: cancel, done: make(chan struct{})}
	go f.loop(runCtx, conn, notify, sub.done)
	return sub, nil
}

func (f *ListenFeed) listen(ctx context.Context) (listenConn, error) {
	conn, err := f.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", f.channel, err)
	}
	return conn, nil
}

func (f *ListenFeed) loop(ctx context.Context, conn listenConn, notify func(), done chan struct{}) {
	defer close(done)
	backoff := f.retryMin

	for {
		err := f.wait(ctx, conn, notify)
		conn.Release()
		if ctx.Err() != nil {
			return
		}
		f.logger.Warn("catalog listen connection lost, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("backoff", backoff),
		)

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			conn, err = f.listen(ctx)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			backoff = min(backoff*2, listenRetryMax)
			f.logger.Warn("catalog listen reconnect failed",
				slog.String("error", err.Error()),
				slog.Duration("backoff", backoff),
			)
		}
		backoff = f.retryMin
		notify()
	}
}

func (f *ListenFeed) wait(ctx context.Context, conn listenConn, notify func()) error {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if n.Channel != f.channel {
			continue
		}
		notify()
	}
}

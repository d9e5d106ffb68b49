package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/VedantYeola/Wear-Story/internal/repository"
	pkgkafka "github.com/VedantYeola/Wear-Story/pkg/kafka"
)

type consumer interface {
	Start(ctx context.Context) error
	Close() error
}

// Feed implements repository.ChangeFeed over the item topics. Every
// storefront instance needs every event, so each Feed joins its own
// consumer group. Payloads are ignored: any item event means "refetch".
type Feed struct {
	topics      []string
	newConsumer func(topic string, h pkgkafka.Handler) consumer
	logger      *slog.Logger
}

// NewFeed creates a Kafka change feed. groupPrefix is suffixed with a
// random id.
func NewFeed(brokers []string, groupPrefix string, logger *slog.Logger) *Feed {
	group := groupPrefix + "-" + uuid.NewString()
	return &Feed{
		topics: ItemTopics(),
		newConsumer: func(topic string, h pkgkafka.Handler) consumer {
			return pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
				Brokers:  brokers,
				GroupID:  group,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 1 << 20,
			}, h, logger)
		},
		logger: logger,
	}
}

type feedSubscription struct {
	cancel    context.CancelFunc
	consumers []consumer
	wg        sync.WaitGroup
	once      sync.Once
	err       error
}

func (s *feedSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		for _, c := range s.consumers {
			if err := c.Close(); err != nil && s.err == nil {
				s.err = err
			}
		}
		s.wg.Wait()
	})
	return s.err
}

// Subscribe starts one consumer per item topic.
func (f *Feed) Subscribe(ctx context.Context, notify func()) (repository.Subscription, error) {
	runCtx, cancel := context.WithCancel(ctx)
	sub := &feedSubscription{cancel: cancel}

	handler := func(ctx context.Context, ev *pkgkafka.Event) error {
		f.logger.DebugContext(ctx, "catalog change event received",
			slog.String("event_type", ev.EventType),
			slog.String("aggregate_id", ev.AggregateID),
		)
		notify()
		return nil
	}

	for _, topic := range f.topics {
		c := f.newConsumer(topic, handler)
		sub.consumers = append(sub.consumers, c)
		sub.wg.Add(1)
		go func() {
			defer sub.wg.Done()
			if err := c.Start(runCtx); err != nil && runCtx.Err() == nil {
				f.logger.Error("catalog event consumer stopped",
					slog.String("topic", topic),
					slog.String("error", err.Error()),
				)
			}
		}()
	}
	return sub, nil
}

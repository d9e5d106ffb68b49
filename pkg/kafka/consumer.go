package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries bounds handler attempts before a message is committed
// and skipped.
const maxHandlerRetries = 3

// Handler processes one decoded event.
type Handler func(ctx context.Context, event *Event) error

type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic in a consumer group and feeds events to a Handler.
type Consumer struct {
	reader    messageReader
	topic     string
	group     string
	handler   Handler
	logger    *slog.Logger
	backoff   time.Duration
	closeOnce sync.Once
}

func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, cfg.Topic, cfg.GroupID, handler, logger)
}

func newConsumer(r messageReader, topic, group string, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  r,
		topic:   topic,
		group:   group,
		handler: handler,
		logger:  logger,
		backoff: 100 * time.Millisecond,
	}
}

// Start consumes until ctx is canceled. Undecodable messages and messages
// whose handler fails maxHandlerRetries times are committed and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("topic", c.topic), slog.String("group", c.group))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return c.Close()
			}
			c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		event, err := DecodeEvent(msg.Value)
		if err != nil {
			consumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
			c.logger.Error("failed to unmarshal event",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
			c.commit(ctx, msg)
			continue
		}

		if err := c.handle(ctx, msg, event); err != nil {
			if ctx.Err() != nil {
				return c.Close()
			}
			consumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
			c.logger.Error("handler failed after all retries, skipping message",
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		} else {
			consumerMessagesProcessed.WithLabelValues(c.topic, c.group).Inc()
		}
		c.commit(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message, event *Event) error {
	var err error
	for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
		if err = c.handler(ctx, event); err == nil {
			return nil
		}
		c.logger.Warn("handler failed, will retry",
			slog.String("event_type", event.EventType),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt < maxHandlerRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}
	}
	return err
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message", slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
	}
}

// Close is safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}

// TopicPrefix namespaces every storefront topic.
const TopicPrefix = "wearstory"

// Topic builds "<prefix>.<aggregate>.<action>".
func Topic(aggregate, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, aggregate, action)
}

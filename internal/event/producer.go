// Package event publishes catalog item events to Kafka and consumes them as
// a catalog change feed.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	pkgkafka "github.com/VedantYeola/Wear-Story/pkg/kafka"
	"github.com/VedantYeola/Wear-Story/pkg/logger"
)

// Kafka topics for catalog item events.
var (
	TopicItemCreated = pkgkafka.Topic(AggregateTypeItem, "created")
	TopicItemUpdated = pkgkafka.Topic(AggregateTypeItem, "updated")
	TopicItemDeleted = pkgkafka.Topic(AggregateTypeItem, "deleted")
)

// ItemTopics lists every topic the change feed listens on.
func ItemTopics() []string {
	return []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}
}

const (
	AggregateTypeItem = "item"
	SourceStorefront  = "storefront"
)

// ItemData is the payload for item.created and item.updated.
type ItemData struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Tags     []string        `json:"tags"`
}

// ItemDeletedData is the payload for item.deleted.
type ItemDeletedData struct {
	ID int64 `json:"id"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes item events.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func (p *Producer) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	return p.publish(ctx, TopicItemCreated, item.ID, itemData(item))
}

func (p *Producer) PublishItemUpdated(ctx context.Context, item *domain.Item) error {
	return p.publish(ctx, TopicItemUpdated, item.ID, itemData(item))
}

func (p *Producer) PublishItemDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicItemDeleted, id, ItemDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic string, id int64, data any) error {
	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(id, 10), AggregateTypeItem, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.logger.InfoContext(ctx, "item event published",
		slog.String("topic", topic),
		slog.Int64("item_id", id),
		slog.String("event_id", event.EventID),
	)
	return nil
}

func itemData(it *domain.Item) ItemData {
	return ItemData{ID: it.ID, Name: it.Name, Category: it.Category, Price: it.Price, Tags: it.Tags}
}

package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	pkgkafka "github.com/VedantYeola/Wear-Story/pkg/kafka"
	"github.com/VedantYeola/Wear-Story/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, ev *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic: topic, event: ev})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProducer_Topics(t *testing.T) {
	assert.Equal(t, []string{
		"wearstory.item.created",
		"wearstory.item.updated",
		"wearstory.item.deleted",
	}, ItemTopics())
}

func TestProducer_PublishItemCreated(t *testing.T) {
	fp := &fakePublisher{}
	p := &Producer{kafka: fp, logger: discardLogger()}

	item := &domain.Item{ID: 9, Name: "Linen Shirt", Category: "Tops", Price: decimal.RequireFromString("45.00"), Tags: []string{"tops", "manual"}}
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, p.PublishItemCreated(ctx, item))

	require.Len(t, fp.sent, 1)
	ev := fp.sent[0].event
	assert.Equal(t, TopicItemCreated, fp.sent[0].topic)
	assert.Equal(t, TopicItemCreated, ev.EventType)
	assert.Equal(t, "9", ev.AggregateID)
	assert.Equal(t, AggregateTypeItem, ev.AggregateType)
	assert.Equal(t, "corr-1", ev.CorrelationID)

	var data ItemData
	require.NoError(t, ev.Decode(&data))
	assert.Equal(t, "Linen Shirt", data.Name)
	assert.True(t, item.Price.Equal(data.Price))
}

func TestProducer_PublishItemDeleted(t *testing.T) {
	fp := &fakePublisher{}
	p := &Producer{kafka: fp, logger: discardLogger()}

	require.NoError(t, p.PublishItemDeleted(context.Background(), 4))
	require.Len(t, fp.sent, 1)
	assert.Equal(t, TopicItemDeleted, fp.sent[0].topic)
	assert.Empty(t, fp.sent[0].event.CorrelationID)

	var data ItemDeletedData
	require.NoError(t, fp.sent[0].event.Decode(&data))
	assert.Equal(t, int64(4), data.ID)
}

func TestProducer_PublishError(t *testing.T) {
	p := &Producer{kafka: &fakePublisher{err: errors.New("broker down")}, logger: discardLogger()}

	err := p.PublishItemUpdated(context.Background(), &domain.Item{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish wearstory.item.updated")
}

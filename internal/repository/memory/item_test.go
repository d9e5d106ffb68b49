package memory

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

func TestItemRepository_CRUDAndNotify(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository([]domain.Item{
		{ID: 5, Name: "five", Price: decimal.NewFromInt(5)},
		{ID: 2, Name: "two", Price: decimal.NewFromInt(2)},
	})

	var notified atomic.Int32
	sub, err := repo.Subscribe(ctx, func() { notified.Add(1) })
	require.NoError(t, err)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID, "ordered by id")

	created := domain.Item{Name: "new", Price: decimal.NewFromInt(1)}
	require.NoError(t, repo.Create(ctx, &created))
	assert.Equal(t, int64(6), created.ID)

	created.Name = "renamed"
	require.NoError(t, repo.Update(ctx, &created))
	got, err := repo.GetByID(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, repo.Delete(ctx, 2))
	assert.ErrorIs(t, repo.Delete(ctx, 2), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Item{ID: 99}), apperrors.ErrNotFound)
	_, err = repo.GetByID(ctx, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, int32(3), notified.Load())

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, repo.Delete(ctx, 5))
	assert.Equal(t, int32(3), notified.Load())
}

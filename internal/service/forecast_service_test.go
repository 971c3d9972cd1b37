package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warely/stockcast/internal/cache"
	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/forecast"
)

var serviceNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	items   []domain.InventoryItem
	records []forecast.RawRecord
	err     error
}

func (f *fakeRepo) GetItems(ctx context.Context, warehouseID string) ([]domain.InventoryItem, error) {
	return f.items, f.err
}

func (f *fakeRepo) GetRawTransactions(ctx context.Context, warehouseID string, since time.Time) ([]forecast.RawRecord, error) {
	return f.records, f.err
}

type countingCache struct {
	cache.ForecastCache
	stored map[string][]domain.PredictionResult
	gets   int
	sets   int
}

func newCountingCache() *countingCache {
	return &countingCache{stored: make(map[string][]domain.PredictionResult)}
}

func (c *countingCache) GetPredictions(ctx context.Context, filter domain.ForecastFilter) ([]domain.PredictionResult, bool, error) {
	c.gets++
	preds, ok := c.stored[filter.WarehouseID]
	return preds, ok, nil
}

func (c *countingCache) SetPredictions(ctx context.Context, filter domain.ForecastFilter, preds []domain.PredictionResult) error {
	c.sets++
	c.stored[filter.WarehouseID] = preds
	return nil
}

func steadyRecords(itemID string, weeks int) []forecast.RawRecord {
	records := make([]forecast.RawRecord, 0, weeks)
	for w := 0; w < weeks; w++ {
		records = append(records, forecast.RawRecord{
			"item_id":   itemID,
			"quantity":  10.0,
			"type":      "outgoing",
			"timestamp": serviceNow.AddDate(0, 0, -7*w),
		})
	}
	return records
}

func newTestService(repo *fakeRepo, c cache.ForecastCache) *ForecastService {
	return NewForecastService(repo, c).
		WithEngine(forecast.NewEngineAt(func() time.Time { return serviceNow }))
}

func TestForecastService_GetPredictions(t *testing.T) {
	filter := domain.ForecastFilter{WarehouseID: "wh-1"}

	t.Run("computes and caches a run", func(t *testing.T) {
		repo := &fakeRepo{
			items:   []domain.InventoryItem{{ID: "a1", Name: "Widget", CurrentStock: 100}},
			records: steadyRecords("a1", 13),
		}
		cc := newCountingCache()
		svc := newTestService(repo, cc)

		preds, err := svc.GetPredictions(context.Background(), filter)
		require.NoError(t, err)
		require.Len(t, preds, 1)
		assert.Equal(t, "a1", preds[0].ItemID)
		assert.Equal(t, 1, cc.sets)

		// second call is served from the cache
		again, err := svc.GetPredictions(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, preds, again)
		assert.Equal(t, 1, cc.sets)
		assert.Equal(t, 2, cc.gets)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		repo := &fakeRepo{err: errors.New("connection refused")}
		svc := newTestService(repo, nil)

		_, err := svc.GetPredictions(context.Background(), filter)
		assert.Error(t, err)
	})

	t.Run("insufficient history returns an empty list, not an error", func(t *testing.T) {
		repo := &fakeRepo{
			items:   []domain.InventoryItem{{ID: "a1", CurrentStock: 100}},
			records: steadyRecords("a1", 2),
		}
		svc := newTestService(repo, nil)

		preds, err := svc.GetPredictions(context.Background(), filter)
		require.NoError(t, err)
		assert.Empty(t, preds)
	})
}

func TestForecastService_GetSufficiency(t *testing.T) {
	repo := &fakeRepo{records: steadyRecords("a1", 13)}
	svc := newTestService(repo, nil)

	s, err := svc.GetSufficiency(context.Background(), "wh-1")
	require.NoError(t, err)
	assert.True(t, s.HasSufficientData)
	assert.Equal(t, 84, s.DataAgeDays)
}

func TestForecastService_Rankings(t *testing.T) {
	repo := &fakeRepo{
		items: []domain.InventoryItem{
			{ID: "a1", Name: "Widget", CurrentStock: 100},
			{ID: "b2", Name: "Gadget", CurrentStock: 300},
		},
		records: append(steadyRecords("a1", 13), forecast.RawRecord{
			"item_id": "b2", "quantity": 4.0, "type": "outgoing",
			"timestamp": serviceNow, "unit_price": 25.0,
		}),
	}
	svc := newTestService(repo, nil)

	best, err := svc.GetBestSellers(context.Background(), "wh-1")
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "a1", best[0].ItemID)
	assert.Equal(t, 130.0, best[0].TotalSold)
	assert.Equal(t, 100.0, best[1].Revenue)

	slow, err := svc.GetSlowMovers(context.Background(), "wh-1")
	require.NoError(t, err)
	require.Len(t, slow, 2)
	assert.Equal(t, "b2", slow[0].ItemID)
}

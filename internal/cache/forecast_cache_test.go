package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warely/stockcast/internal/domain"
)

func TestBuildForecastKey(t *testing.T) {
	base := domain.ForecastFilter{WarehouseID: "wh-1", WindowDays: 90, MinTransactions: 2}

	t.Run("same filter hashes to the same key", func(t *testing.T) {
		assert.Equal(t, buildForecastKey(base), buildForecastKey(base))
	})

	t.Run("parameters change the key", func(t *testing.T) {
		other := base
		other.WindowDays = 60
		assert.NotEqual(t, buildForecastKey(base), buildForecastKey(other))

		other = base
		other.MinTransactions = 5
		assert.NotEqual(t, buildForecastKey(base), buildForecastKey(other))
	})

	t.Run("key is namespaced by warehouse", func(t *testing.T) {
		other := base
		other.WarehouseID = "wh-2"
		assert.NotEqual(t, buildForecastKey(base), buildForecastKey(other))
		assert.Contains(t, buildForecastKey(base), ":wh-1:")
	})

	t.Run("warehouse id is trimmed", func(t *testing.T) {
		other := base
		other.WarehouseID = "  wh-1 "
		assert.Equal(t, buildForecastKey(base), buildForecastKey(other))
	})
}

func TestNoopForecastCache(t *testing.T) {
	c := NewNoopForecastCache()
	ctx := context.Background()
	filter := domain.ForecastFilter{WarehouseID: "wh-1"}

	preds, ok, err := c.GetPredictions(ctx, filter)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, preds)

	require.NoError(t, c.SetPredictions(ctx, filter, []domain.PredictionResult{{ItemID: "a"}}))
	require.NoError(t, c.InvalidateWarehouse(ctx, "wh-1"))
	require.NoError(t, c.InvalidateAll(ctx))

	// still a miss after set; noop stores nothing
	_, ok, err = c.GetPredictions(ctx, filter)
	require.NoError(t, err)
	assert.False(t, ok)
}

package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warely/stockcast/internal/config"
	"github.com/warely/stockcast/internal/domain"
)

const (
	forecastKeyPrefix     = "forecast:predictions"
	forecastScanBatchSize = 100
)

// ForecastCache keeps recent prediction runs so repeated dashboard loads for
// the same warehouse and parameters skip recomputation. Predictions are
// derived data; staleness is bounded by the TTL and losing an entry only
// costs one recompute.
type ForecastCache interface {
	GetPredictions(ctx context.Context, filter domain.ForecastFilter) ([]domain.PredictionResult, bool, error)
	SetPredictions(ctx context.Context, filter domain.ForecastFilter, preds []domain.PredictionResult) error
	InvalidateWarehouse(ctx context.Context, warehouseID string) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetPredictions(ctx context.Context, filter domain.ForecastFilter) ([]domain.PredictionResult, bool, error) {
	key := buildForecastKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var preds []domain.PredictionResult
	if err := json.Unmarshal(payload, &preds); err != nil {
		return nil, false, fmt.Errorf("decode prediction cache: %w", err)
	}

	return preds, true, nil
}

func (c *redisForecastCache) SetPredictions(ctx context.Context, filter domain.ForecastFilter, preds []domain.PredictionResult) error {
	key := buildForecastKey(filter)
	payload, err := json.Marshal(preds)
	if err != nil {
		return fmt.Errorf("encode prediction cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateWarehouse(ctx context.Context, warehouseID string) error {
	prefix := fmt.Sprintf("%s:%s:", forecastKeyPrefix, strings.TrimSpace(warehouseID))
	return deleteKeysWithPrefix(ctx, c.client, prefix, forecastScanBatchSize)
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatchSize)
}

func (n *noopForecastCache) GetPredictions(ctx context.Context, filter domain.ForecastFilter) ([]domain.PredictionResult, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetPredictions(ctx context.Context, filter domain.ForecastFilter, preds []domain.PredictionResult) error {
	return nil
}

func (n *noopForecastCache) InvalidateWarehouse(ctx context.Context, warehouseID string) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildForecastKey namespaces entries per warehouse so invalidation after an
// ingest for one warehouse does not evict every other warehouse's runs.
func buildForecastKey(filter domain.ForecastFilter) string {
	return fmt.Sprintf("%s:%s:%s", forecastKeyPrefix, strings.TrimSpace(filter.WarehouseID), forecastFilterHash(filter))
}

func forecastFilterHash(filter domain.ForecastFilter) string {
	raw := fmt.Sprintf("window_days=%d|min_transactions=%d", filter.WindowDays, filter.MinTransactions)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

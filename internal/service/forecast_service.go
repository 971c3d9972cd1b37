package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warely/stockcast/internal/cache"
	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/forecast"
	"github.com/warely/stockcast/internal/repository"
)

// ForecastService wires the repository snapshot into the pure forecast
// engine and caches finished prediction runs. Cache failures are logged and
// absorbed; they never fail a request.
type ForecastService struct {
	repo   repository.InventoryRepository
	cache  cache.ForecastCache
	engine *forecast.Engine
}

func NewForecastService(repo repository.InventoryRepository, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		repo:   repo,
		cache:  cacheImpl,
		engine: forecast.NewEngine(),
	}
}

// WithEngine swaps the forecast engine, used by tests to pin the clock.
func (s *ForecastService) WithEngine(engine *forecast.Engine) *ForecastService {
	s.engine = engine
	return s
}

func (s *ForecastService) GetPredictions(ctx context.Context, filter domain.ForecastFilter) ([]domain.PredictionResult, error) {
	if preds, ok, err := s.cache.GetPredictions(ctx, filter); err == nil && ok {
		return preds, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get predictions failed")
	}

	items, records, err := s.loadSnapshot(ctx, filter.WarehouseID)
	if err != nil {
		return nil, err
	}

	preds := s.engine.GeneratePredictions(items, records, forecast.Options{
		WindowDays:      filter.WindowDays,
		MinTransactions: filter.MinTransactions,
	})

	if err := s.cache.SetPredictions(ctx, filter, preds); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set predictions failed")
	}

	return preds, nil
}

func (s *ForecastService) GetSufficiency(ctx context.Context, warehouseID string) (domain.DataSufficiency, error) {
	records, err := s.repo.GetRawTransactions(ctx, warehouseID, time.Time{})
	if err != nil {
		return domain.DataSufficiency{}, err
	}
	return s.engine.CheckDataSufficiency(forecast.Normalize(records)), nil
}

func (s *ForecastService) GetBestSellers(ctx context.Context, warehouseID string) ([]domain.RankedItem, error) {
	items, records, err := s.loadSnapshot(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return forecast.BestSellers(items, forecast.Normalize(records)), nil
}

func (s *ForecastService) GetSlowMovers(ctx context.Context, warehouseID string) ([]domain.RankedItem, error) {
	items, records, err := s.loadSnapshot(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return forecast.SlowMovers(items, forecast.Normalize(records)), nil
}

func (s *ForecastService) loadSnapshot(ctx context.Context, warehouseID string) ([]domain.InventoryItem, []forecast.RawRecord, error) {
	items, err := s.repo.GetItems(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.repo.GetRawTransactions(ctx, warehouseID, time.Time{})
	if err != nil {
		return nil, nil, err
	}

	return items, records, nil
}

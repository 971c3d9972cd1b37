// cmd/stockcast/export.go
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/warely/stockcast/internal/config"
	"github.com/warely/stockcast/internal/forecast"
	"github.com/warely/stockcast/internal/repository/postgres"
	"github.com/warely/stockcast/internal/storage"
)

// runExport computes a fresh prediction snapshot from the database and
// publishes it as CSV to the configured S3-compatible bucket.
func runExport(c *cli.Context) error {
	cfg := config.Load()
	if !cfg.Export.Enabled {
		return fmt.Errorf("export is disabled, set EXPORT_ENABLED=true")
	}

	warehouseID := c.String("warehouse")

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)
	items, err := repo.GetItems(c.Context, warehouseID)
	if err != nil {
		return err
	}
	records, err := repo.GetRawTransactions(c.Context, warehouseID, time.Time{})
	if err != nil {
		return err
	}

	predictions := forecast.NewEngine().GeneratePredictions(items, records, forecast.Options{
		WindowDays:      cfg.Forecast.WindowDays,
		MinTransactions: cfg.Forecast.MinTransactions,
	})

	store, err := storage.NewMinioClient(cfg.Export)
	if err != nil {
		return err
	}

	key, err := storage.ExportPredictionsCSV(c.Context, store, warehouseID, time.Now(), predictions)
	if err != nil {
		return err
	}

	log.Printf("Exported %d predictions to %s", len(predictions), key)
	return nil
}

// cmd/stockcast/seed.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/warely/stockcast/internal/cache"
	"github.com/warely/stockcast/internal/config"
	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/forecast"
	"github.com/warely/stockcast/internal/ingest"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newWarehouseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "warehouse",
		Usage:    "Warehouse identifier the snapshot belongs to",
		Required: true,
		EnvVars:  []string{"WAREHOUSE_ID"},
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
    id            TEXT NOT NULL,
    warehouse_id  TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    sku           TEXT NOT NULL DEFAULT '',
    current_stock INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (id, warehouse_id)
);

CREATE TABLE IF NOT EXISTS inventory_transactions (
    id               BIGSERIAL PRIMARY KEY,
    warehouse_id     TEXT NOT NULL,
    item_id          TEXT NOT NULL,
    quantity         DOUBLE PRECISION NOT NULL,
    transaction_type TEXT NOT NULL,
    transaction_date TIMESTAMPTZ NOT NULL,
    unit_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
    reference        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_inventory_transactions_warehouse_date
    ON inventory_transactions (warehouse_id, transaction_date);
`

// runSeed loads item and transaction snapshots into Postgres. Transactions
// pass through the forecast normalizer first so the ledger only ever holds
// rows the engine can use.
func runSeed(c *cli.Context) error {
	warehouseID := c.String("warehouse")

	items, err := ingest.ReadItemsCSV(c.String("items"))
	if err != nil {
		return err
	}
	records, err := ingest.ReadTransactionsCSV(c.String("transactions"))
	if err != nil {
		return err
	}
	txns := forecast.Normalize(records)

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Printf("Seeding %d items and %d transactions for warehouse %s...", len(items), len(txns), warehouseID)

	if err := seedItems(ctx, tx, warehouseID, items); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}
	if err := seedTransactions(ctx, tx, warehouseID, txns); err != nil {
		return fmt.Errorf("failed to seed transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Cached prediction runs for this warehouse are stale now.
	if forecastCache, err := cache.NewForecastCache(config.Load().Cache); err != nil {
		log.Printf("warning: could not reach cache: %v", err)
	} else if err := forecastCache.InvalidateWarehouse(ctx, warehouseID); err != nil {
		log.Printf("warning: could not invalidate cached predictions: %v", err)
	}

	log.Println("Seeding complete")
	return nil
}

func seedItems(ctx context.Context, tx *sql.Tx, warehouseID string, items []domain.InventoryItem) error {
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO inventory_items (id, warehouse_id, name, sku, current_stock)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id, warehouse_id) DO UPDATE SET
            name = EXCLUDED.name,
            sku = EXCLUDED.sku,
            current_stock = EXCLUDED.current_stock
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ID, warehouseID, item.Name, item.SKU, item.CurrentStock); err != nil {
			return fmt.Errorf("item %s: %w", item.ID, err)
		}
	}
	return nil
}

func seedTransactions(ctx context.Context, tx *sql.Tx, warehouseID string, txns []domain.InventoryTransaction) error {
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO inventory_transactions
            (warehouse_id, item_id, quantity, transaction_type, transaction_date, unit_price, reference)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, txn := range txns {
		if _, err := stmt.ExecContext(ctx,
			warehouseID, txn.ItemID, txn.Quantity, string(txn.Direction),
			txn.Timestamp, txn.UnitPrice, txn.Reference,
		); err != nil {
			return fmt.Errorf("transaction for item %s: %w", txn.ItemID, err)
		}
	}
	return nil
}

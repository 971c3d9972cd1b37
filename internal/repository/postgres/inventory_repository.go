// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/forecast"
	"github.com/warely/stockcast/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetItems(ctx context.Context, warehouseID string) ([]domain.InventoryItem, error) {
	query := `
        SELECT
            id, name, sku, current_stock
        FROM inventory_items
        WHERE warehouse_id = $1
        ORDER BY name
    `

	var items []domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, warehouseID); err != nil {
		return nil, fmt.Errorf("error getting inventory items: %w", err)
	}

	return items, nil
}

// GetRawTransactions returns ledger rows as generic maps. The transactions
// table accrues columns from several upstream integrations, so rows are
// handed to the forecast normalizer untyped instead of forcing a struct
// mapping that would break on the next schema addition.
func (r *inventoryRepository) GetRawTransactions(ctx context.Context, warehouseID string, since time.Time) ([]forecast.RawRecord, error) {
	// Full ledger scans dominate pool usage under load, so they go through
	// the shared semaphore.
	if err := r.db.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer r.db.sem.Release(1)

	query := `
        SELECT
            item_id, quantity, transaction_type, transaction_date,
            unit_price, reference
        FROM inventory_transactions
        WHERE warehouse_id = $1
    `

	args := []interface{}{warehouseID}
	if !since.IsZero() {
		query += " AND transaction_date >= $2"
		args = append(args, since)
	}
	query += " ORDER BY transaction_date"

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error getting inventory transactions: %w", err)
	}
	defer rows.Close()

	var records []forecast.RawRecord
	for rows.Next() {
		rec := make(map[string]interface{})
		if err := rows.MapScan(rec); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		records = append(records, forecast.RawRecord(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return records, nil
}

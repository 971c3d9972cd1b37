package repository

import (
	"context"
	"time"

	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/forecast"
)

// InventoryRepository loads the two read-only inputs of the forecasting
// engine: the item catalog and the transaction ledger. Transactions are
// returned in the store's native row shape; the engine's normalizer absorbs
// the field-name and type variance, so this interface never needs to chase
// schema drift in the ledger.
type InventoryRepository interface {
	// GetItems returns the current catalog snapshot for one warehouse.
	GetItems(ctx context.Context, warehouseID string) ([]domain.InventoryItem, error)

	// GetRawTransactions returns ledger rows for one warehouse recorded at or
	// after since. A zero since returns the full history.
	GetRawTransactions(ctx context.Context, warehouseID string, since time.Time) ([]forecast.RawRecord, error)
}

// internal/domain/models.go
package domain

import "time"

// TransactionDirection classifies an inventory movement.
type TransactionDirection string

const (
	DirectionIncoming TransactionDirection = "incoming"
	DirectionOutgoing TransactionDirection = "outgoing"
)

// RestockUrgency buckets how soon an item runs out.
type RestockUrgency string

const (
	UrgencyCritical RestockUrgency = "critical"
	UrgencyWarning  RestockUrgency = "warning"
	UrgencyNormal   RestockUrgency = "normal"
)

// InventoryItem is a read-only snapshot of one catalog entry.
type InventoryItem struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	SKU          string `json:"sku" db:"sku"`
	CurrentStock int    `json:"current_stock" db:"current_stock"`
}

// InventoryTransaction is a normalized, immutable stock movement event.
// Quantity is always a positive magnitude; the sign lives in Direction.
type InventoryTransaction struct {
	ItemID    string               `json:"item_id" db:"item_id"`
	Quantity  float64              `json:"quantity" db:"quantity"`
	Direction TransactionDirection `json:"direction" db:"direction"`
	Timestamp time.Time            `json:"timestamp" db:"timestamp"`
	UnitPrice float64              `json:"unit_price" db:"unit_price"`
	Reference string               `json:"reference,omitempty" db:"reference"`
}

// DataSufficiency reports whether the transaction history is deep enough
// to run predictions at all.
type DataSufficiency struct {
	HasSufficientData bool   `json:"has_sufficient_data"`
	DataAgeDays       int    `json:"data_age_days"`
	DaysUntilReady    int    `json:"days_until_ready"`
	Message           string `json:"message"`
}

// PredictionResult is one item's restock forecast. Results are computed
// fresh on every run and never persisted by the engine.
type PredictionResult struct {
	ItemID                 string         `json:"item_id"`
	Name                   string         `json:"name"`
	SKU                    string         `json:"sku"`
	CurrentStock           int            `json:"current_stock"`
	DailyUsageRate         float64        `json:"daily_usage_rate"`
	WeeklyUsageRate        float64        `json:"weekly_usage_rate"`
	DaysUntilRestock       int            `json:"days_until_restock"`
	PredictedRestockDate   time.Time      `json:"predicted_restock_date"`
	RestockUrgency         RestockUrgency `json:"restock_urgency"`
	Confidence             int            `json:"confidence"`
	SuggestedOrderQuantity int            `json:"suggested_order_quantity"`
}

// RankedItem is one row of a best-seller or slow-mover view.
type RankedItem struct {
	ItemID       string  `json:"item_id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	CurrentStock int     `json:"current_stock"`
	TotalSold    float64 `json:"total_sold"`
	Revenue      float64 `json:"revenue"`
	Velocity     float64 `json:"velocity"`
}

// ForecastFilter carries the query parameters for a forecast request.
type ForecastFilter struct {
	WarehouseID     string `json:"warehouse_id"`
	WindowDays      int    `json:"window_days"`
	MinTransactions int    `json:"min_transactions"`
}

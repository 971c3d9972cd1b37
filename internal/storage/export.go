// internal/storage/export.go
package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/warely/stockcast/internal/domain"
)

var exportHeader = []string{
	"item_id",
	"name",
	"sku",
	"current_stock",
	"daily_usage_rate",
	"weekly_usage_rate",
	"days_until_restock",
	"predicted_restock_date",
	"restock_urgency",
	"confidence",
	"suggested_order_quantity",
}

// ExportPredictionsCSV renders a prediction snapshot as CSV and uploads it
// under snapshots/<warehouse>/predictions-<timestamp>.csv. It returns the
// object key of the uploaded snapshot.
func ExportPredictionsCSV(ctx context.Context, store ObjectStorage, warehouseID string, at time.Time, predictions []domain.PredictionResult) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return "", fmt.Errorf("failed writing export header: %w", err)
	}
	for _, p := range predictions {
		row := []string{
			p.ItemID,
			p.Name,
			p.SKU,
			strconv.Itoa(p.CurrentStock),
			strconv.FormatFloat(p.DailyUsageRate, 'f', 4, 64),
			strconv.FormatFloat(p.WeeklyUsageRate, 'f', 4, 64),
			strconv.Itoa(p.DaysUntilRestock),
			p.PredictedRestockDate.UTC().Format(time.RFC3339),
			string(p.RestockUrgency),
			strconv.Itoa(p.Confidence),
			strconv.Itoa(p.SuggestedOrderQuantity),
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed writing export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed flushing export: %w", err)
	}

	key := fmt.Sprintf("snapshots/%s/predictions-%s.csv", warehouseID, at.UTC().Format("20060102-150405"))
	if err := store.UploadObject(ctx, key, &buf, int64(buf.Len()), "text/csv"); err != nil {
		return "", err
	}
	return key, nil
}

// internal/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/forecast"
)

// Snapshot exports from the warehouse systems disagree on header naming
// (spaces vs underscores, abbreviations, casing), so columns are resolved by
// normalized name rather than position.

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

type headerIndex struct {
	header []string
}

func (h headerIndex) col(names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, col := range h.header {
		if _, ok := targets[normalizeColumnName(col)]; ok {
			return i
		}
	}
	return -1
}

// ReadTransactionsCSV reads a transaction snapshot file into raw records for
// the forecast normalizer. Values stay as strings; all defensive parsing
// happens in one place, inside the normalizer.
func ReadTransactionsCSV(path string) ([]forecast.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := headerIndex{header: header}
	idxItemID := idx.col("item_id", "product_id", "item")
	idxQty := idx.col("quantity", "qty", "units")
	idxType := idx.col("type", "direction", "transaction_type")
	idxTimestamp := idx.col("timestamp", "transaction_date", "date", "created_at")
	idxPrice := idx.col("unit_price", "price", "harga")
	idxRef := idx.col("reference", "ref", "note")

	get := func(record []string, i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	records := make([]forecast.RawRecord, 0)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading transaction record: %w", err)
		}

		rec := forecast.RawRecord{
			"item_id":   get(record, idxItemID),
			"quantity":  get(record, idxQty),
			"type":      get(record, idxType),
			"timestamp": get(record, idxTimestamp),
		}
		if price := get(record, idxPrice); price != "" {
			rec["unit_price"] = price
		}
		if ref := get(record, idxRef); ref != "" {
			rec["reference"] = ref
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadItemsCSV reads a catalog snapshot into inventory items. Rows without
// an id are skipped; a malformed stock value reads as zero.
func ReadItemsCSV(path string) ([]domain.InventoryItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open items file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := headerIndex{header: header}
	idxID := idx.col("id", "item_id")
	idxName := idx.col("name", "product_name", "nama")
	idxSKU := idx.col("sku")
	idxStock := idx.col("current_stock", "stock", "stok")

	get := func(record []string, i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	items := make([]domain.InventoryItem, 0)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading item record: %w", err)
		}

		id := get(record, idxID)
		if id == "" {
			continue
		}

		stock, _ := strconv.Atoi(strings.ReplaceAll(get(record, idxStock), ",", ""))
		if stock < 0 {
			stock = 0
		}

		items = append(items, domain.InventoryItem{
			ID:           id,
			Name:         get(record, idxName),
			SKU:          get(record, idxSKU),
			CurrentStock: stock,
		})
	}

	return items, nil
}

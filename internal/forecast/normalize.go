package forecast

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/warely/stockcast/internal/domain"
)

// RawRecord is one transaction row exactly as the upstream store returned it:
// a sqlx MapScan row, a parsed CSV line, or a decoded JSON object. Field names
// and value types vary by source; Normalize absorbs all of that variance so
// the rest of the engine only ever sees domain.InventoryTransaction.
type RawRecord map[string]interface{}

var (
	itemIDFields    = []string{"item_id", "product_id", "inventory_item_id"}
	quantityFields  = []string{"quantity", "qty", "units"}
	typeFields      = []string{"direction", "type", "transaction_type"}
	timestampFields = []string{"timestamp", "transaction_date", "date", "created_at"}
	unitPriceFields = []string{"unit_price", "price"}
	referenceFields = []string{"reference", "ref", "note"}

	outgoingMarkers = map[string]bool{
		"outgoing":  true,
		"out":       true,
		"sale":      true,
		"stock_out": true,
	}
)

// Normalize maps heterogeneous raw transaction records into canonical
// transactions. Malformed records are dropped silently: missing item id,
// zero or unparseable quantity, or no parseable timestamp in any candidate
// field all disqualify a record. It never fails on bad rows.
func Normalize(records []RawRecord) []domain.InventoryTransaction {
	out := make([]domain.InventoryTransaction, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}

		itemID := firstString(rec, itemIDFields)
		if itemID == "" {
			continue
		}

		qty := math.Abs(firstFloat(rec, quantityFields))
		if qty <= 0 {
			continue
		}

		ts, ok := firstTimestamp(rec, timestampFields)
		if !ok {
			continue
		}

		direction := domain.DirectionIncoming
		if marker := strings.ToLower(strings.TrimSpace(firstString(rec, typeFields))); outgoingMarkers[marker] {
			direction = domain.DirectionOutgoing
		}

		out = append(out, domain.InventoryTransaction{
			ItemID:    itemID,
			Quantity:  qty,
			Direction: direction,
			Timestamp: ts,
			UnitPrice: firstFloat(rec, unitPriceFields),
			Reference: firstString(rec, referenceFields),
		})
	}
	return out
}

func firstString(rec RawRecord, fields []string) string {
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(rec RawRecord, fields []string) float64 {
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			if n, ok := asFloat(v); ok {
				return n
			}
		}
	}
	return 0
}

func firstTimestamp(rec RawRecord, fields []string) (time.Time, bool) {
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			if ts, ok := parseTimestamp(v); ok {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// asFloat accepts finite numbers only. ParseFloat happily returns NaN and
// the infinities for "NaN"/"Inf" inputs, and one NaN quantity would poison
// every aggregate downstream, so non-finite values are rejected here.
func asFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case []byte:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// timestampLayouts are tried in order; the first successful parse wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp resolves a raw timestamp value into a time.Time. Strings go
// through the layout chain, retrying with sub-second fractions stripped, since
// some upstream exports emit fractional seconds no layout matches. Numeric
// values are treated as Unix epoch (millis when large enough to be one).
func parseTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return parseTimestampString(t)
	case []byte:
		return parseTimestampString(string(t))
	case int64:
		return fromEpoch(t), true
	case float64:
		return fromEpoch(int64(t)), true
	default:
		return time.Time{}, false
	}
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}

	// Retry with the fractional-second component removed.
	if stripped := stripFractionalSeconds(s); stripped != s {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, stripped); err == nil {
				return ts, true
			}
		}
	}

	return time.Time{}, false
}

// stripFractionalSeconds removes a ".123..." run that directly follows the
// seconds component, keeping any trailing zone designator.
func stripFractionalSeconds(s string) string {
	dot := strings.Index(s, ".")
	if dot == -1 {
		return s
	}
	end := dot + 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == dot+1 {
		return s
	}
	return s[:dot] + s[end:]
}

func fromEpoch(n int64) time.Time {
	// Heuristic: values past the year ~2286 in seconds are epoch millis.
	if n > 1e12 {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

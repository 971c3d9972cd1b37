package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warely/stockcast/internal/domain"
)

func TestNormalize(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	t.Run("maps heterogeneous field names", func(t *testing.T) {
		records := []RawRecord{
			{"item_id": "a1", "quantity": 5.0, "type": "outgoing", "timestamp": ts, "unit_price": 2.5},
			{"product_id": "b2", "qty": int64(3), "transaction_type": "purchase", "transaction_date": "2026-03-14T10:30:00Z"},
			{"item_id": []byte("c3"), "units": "7", "direction": "sale", "date": "2026-03-14", "ref": "INV-19"},
		}

		txns := Normalize(records)
		require.Len(t, txns, 3)

		assert.Equal(t, "a1", txns[0].ItemID)
		assert.Equal(t, 5.0, txns[0].Quantity)
		assert.Equal(t, domain.DirectionOutgoing, txns[0].Direction)
		assert.Equal(t, 2.5, txns[0].UnitPrice)

		assert.Equal(t, "b2", txns[1].ItemID)
		assert.Equal(t, 3.0, txns[1].Quantity)
		assert.Equal(t, domain.DirectionIncoming, txns[1].Direction)
		assert.True(t, txns[1].Timestamp.Equal(ts))

		assert.Equal(t, "c3", txns[2].ItemID)
		assert.Equal(t, 7.0, txns[2].Quantity)
		assert.Equal(t, domain.DirectionOutgoing, txns[2].Direction)
		assert.Equal(t, "INV-19", txns[2].Reference)
	})

	t.Run("negative quantities become positive magnitudes", func(t *testing.T) {
		txns := Normalize([]RawRecord{
			{"item_id": "a1", "quantity": -4.0, "type": "outgoing", "timestamp": ts},
		})
		require.Len(t, txns, 1)
		assert.Equal(t, 4.0, txns[0].Quantity)
	})

	t.Run("drops malformed records silently", func(t *testing.T) {
		txns := Normalize([]RawRecord{
			nil,
			{"quantity": 5.0, "timestamp": ts},                         // no item id
			{"item_id": "a1", "timestamp": ts},                         // no quantity
			{"item_id": "a1", "quantity": 0.0, "timestamp": ts},        // zero quantity
			{"item_id": "a1", "quantity": 5.0},                         // no timestamp
			{"item_id": "a1", "quantity": 5.0, "timestamp": "nonsense"}, // unparseable timestamp
		})
		assert.Empty(t, txns)
	})

	t.Run("drops non-finite quantities", func(t *testing.T) {
		txns := Normalize([]RawRecord{
			{"item_id": "a1", "quantity": "NaN", "type": "outgoing", "timestamp": ts},
			{"item_id": "a2", "quantity": "Inf", "type": "outgoing", "timestamp": ts},
			{"item_id": "a3", "quantity": "-Inf", "type": "outgoing", "timestamp": ts},
			{"item_id": "a4", "quantity": math.NaN(), "type": "outgoing", "timestamp": ts},
			{"item_id": "a5", "quantity": math.Inf(1), "type": "outgoing", "timestamp": ts},
		})
		assert.Empty(t, txns)
	})

	t.Run("non-finite unit price reads as zero", func(t *testing.T) {
		txns := Normalize([]RawRecord{
			{"item_id": "a1", "quantity": 2.0, "timestamp": ts, "unit_price": math.NaN()},
		})
		require.Len(t, txns, 1)
		assert.Equal(t, 0.0, txns[0].UnitPrice)
	})

	t.Run("unknown direction markers default to incoming", func(t *testing.T) {
		txns := Normalize([]RawRecord{
			{"item_id": "a1", "quantity": 1.0, "type": "adjustment", "timestamp": ts},
			{"item_id": "a2", "quantity": 1.0, "timestamp": ts},
		})
		require.Len(t, txns, 2)
		assert.Equal(t, domain.DirectionIncoming, txns[0].Direction)
		assert.Equal(t, domain.DirectionIncoming, txns[1].Direction)
	})
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 3, 14, 10, 30, 15, 0, time.UTC)

	cases := []struct {
		name  string
		value interface{}
	}{
		{"rfc3339", "2026-03-14T10:30:15Z"},
		{"rfc3339 fractional", "2026-03-14T10:30:15.123456Z"},
		{"space separated", "2026-03-14 10:30:15"},
		{"space separated fractional", "2026-03-14 10:30:15.999"},
		{"time.Time", want},
		{"epoch millis", want.UnixMilli()},
		{"epoch seconds", want.Unix()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseTimestamp(tc.value)
			require.True(t, ok)
			assert.True(t, got.Equal(want), "got %v", got)
		})
	}

	t.Run("date only keeps midnight", func(t *testing.T) {
		got, ok := parseTimestamp("2026-03-14")
		require.True(t, ok)
		assert.True(t, got.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, v := range []interface{}{"", "not a date", struct{}{}, nil, time.Time{}} {
			_, ok := parseTimestamp(v)
			assert.False(t, ok, "value %v", v)
		}
	})
}

func TestStripFractionalSeconds(t *testing.T) {
	assert.Equal(t, "2026-03-14T10:30:15Z", stripFractionalSeconds("2026-03-14T10:30:15.123456Z"))
	assert.Equal(t, "2026-03-14 10:30:15", stripFractionalSeconds("2026-03-14 10:30:15.9"))
	assert.Equal(t, "2026-03-14T10:30:15Z", stripFractionalSeconds("2026-03-14T10:30:15Z"))
}

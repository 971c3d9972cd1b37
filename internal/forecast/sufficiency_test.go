package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warely/stockcast/internal/domain"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngineAt(func() time.Time { return testNow })
}

func outgoingAt(itemID string, qty float64, ts time.Time) domain.InventoryTransaction {
	return domain.InventoryTransaction{
		ItemID:    itemID,
		Quantity:  qty,
		Direction: domain.DirectionOutgoing,
		Timestamp: ts,
	}
}

func TestCheckDataSufficiency(t *testing.T) {
	e := testEngine()

	t.Run("empty history", func(t *testing.T) {
		s := e.CheckDataSufficiency(nil)
		assert.False(t, s.HasSufficientData)
		assert.Equal(t, 0, s.DataAgeDays)
		assert.Equal(t, minHistoryDays, s.DaysUntilReady)
		assert.NotEmpty(t, s.Message)
	})

	t.Run("below threshold regardless of volume", func(t *testing.T) {
		txns := make([]domain.InventoryTransaction, 0, 500)
		for i := 0; i < 500; i++ {
			txns = append(txns, outgoingAt("a1", 1, testNow.AddDate(0, 0, -20)))
		}
		s := e.CheckDataSufficiency(txns)
		assert.False(t, s.HasSufficientData)
		assert.Equal(t, 20, s.DataAgeDays)
		assert.Equal(t, 10, s.DaysUntilReady)
	})

	t.Run("exactly thirty days is sufficient", func(t *testing.T) {
		s := e.CheckDataSufficiency([]domain.InventoryTransaction{
			outgoingAt("a1", 1, testNow.AddDate(0, 0, -30)),
		})
		assert.True(t, s.HasSufficientData)
		assert.Equal(t, 30, s.DataAgeDays)
		assert.Equal(t, 0, s.DaysUntilReady)
	})

	t.Run("age comes from the oldest transaction", func(t *testing.T) {
		s := e.CheckDataSufficiency([]domain.InventoryTransaction{
			outgoingAt("a1", 1, testNow.AddDate(0, 0, -5)),
			outgoingAt("a1", 1, testNow.AddDate(0, 0, -45)),
			outgoingAt("a1", 1, testNow.AddDate(0, 0, -12)),
		})
		assert.True(t, s.HasSufficientData)
		assert.Equal(t, 45, s.DataAgeDays)
	})

	t.Run("partial days floor toward zero", func(t *testing.T) {
		s := e.CheckDataSufficiency([]domain.InventoryTransaction{
			outgoingAt("a1", 1, testNow.Add(-29*24*time.Hour-23*time.Hour)),
		})
		assert.False(t, s.HasSufficientData)
		assert.Equal(t, 29, s.DataAgeDays)
		assert.Equal(t, 1, s.DaysUntilReady)
	})

	t.Run("zero timestamps are ignored", func(t *testing.T) {
		s := e.CheckDataSufficiency([]domain.InventoryTransaction{
			{ItemID: "a1", Quantity: 1, Direction: domain.DirectionOutgoing},
		})
		assert.False(t, s.HasSufficientData)
		assert.Equal(t, minHistoryDays, s.DaysUntilReady)
	})
}

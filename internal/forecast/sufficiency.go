package forecast

import (
	"fmt"

	"github.com/warely/stockcast/internal/domain"
)

// minHistoryDays is the hard gate on historical depth. Below this the engine
// emits no predictions at all; there is no partial-confidence path.
const minHistoryDays = 30

const millisPerDay = 24 * 60 * 60 * 1000

// CheckDataSufficiency decides whether the transaction history spans enough
// time to run predictions. Data age is whole days between now and the oldest
// valid transaction, computed from the raw millisecond difference rather than
// a calendar day count so timezone shifts cannot produce off-by-one results.
func (e *Engine) CheckDataSufficiency(txns []domain.InventoryTransaction) domain.DataSufficiency {
	if len(txns) == 0 {
		return domain.DataSufficiency{
			HasSufficientData: false,
			DataAgeDays:       0,
			DaysUntilReady:    minHistoryDays,
			Message:           fmt.Sprintf("No transaction history yet. Predictions need at least %d days of data.", minHistoryDays),
		}
	}

	now := e.now()

	// Re-validate timestamps defensively; normalization should have dropped
	// anything unparseable but a zero value still means "no usable instant".
	var oldest *domain.InventoryTransaction
	for i := range txns {
		if txns[i].Timestamp.IsZero() {
			continue
		}
		if oldest == nil || txns[i].Timestamp.Before(oldest.Timestamp) {
			oldest = &txns[i]
		}
	}

	if oldest == nil {
		return domain.DataSufficiency{
			HasSufficientData: false,
			DataAgeDays:       0,
			DaysUntilReady:    minHistoryDays,
			Message:           "No transactions with valid timestamps found.",
		}
	}

	dataAge := int(now.Sub(oldest.Timestamp).Milliseconds() / millisPerDay)
	if dataAge < 0 {
		dataAge = 0
	}

	daysUntilReady := minHistoryDays - dataAge
	if daysUntilReady < 0 {
		daysUntilReady = 0
	}

	if dataAge < minHistoryDays {
		return domain.DataSufficiency{
			HasSufficientData: false,
			DataAgeDays:       dataAge,
			DaysUntilReady:    daysUntilReady,
			Message: fmt.Sprintf("Only %d days of history collected. Predictions unlock in %d more days.",
				dataAge, daysUntilReady),
		}
	}

	return domain.DataSufficiency{
		HasSufficientData: true,
		DataAgeDays:       dataAge,
		DaysUntilReady:    0,
		Message:           fmt.Sprintf("%d days of history available.", dataAge),
	}
}

package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/warely/stockcast/internal/domain"
)

const (
	// DefaultWindowDays is the analysis window when the caller does not
	// override it.
	DefaultWindowDays = 90
	// DefaultMinTransactions is the minimum number of outgoing transactions
	// an item needs in the window before a prediction is emitted for it.
	DefaultMinTransactions = 2

	// reorderHorizonWeeks is the fixed horizon for suggested order quantity.
	reorderHorizonWeeks = 4

	// unboundedDays is the days-until-restock sentinel for a usage rate of
	// zero. Items with a zero rate are skipped before emitting, so this only
	// shields the arithmetic.
	unboundedDays = math.MaxInt32
)

// Engine runs demand-forecast computations over in-memory snapshots. It is
// pure and stateless between calls; concurrent use is safe as long as each
// invocation gets its own snapshot.
type Engine struct {
	nowFn func() time.Time
}

// NewEngine returns an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{nowFn: time.Now}
}

// NewEngineAt returns an engine with a fixed clock, for deterministic runs.
func NewEngineAt(nowFn func() time.Time) *Engine {
	return &Engine{nowFn: nowFn}
}

func (e *Engine) now() time.Time {
	if e.nowFn != nil {
		return e.nowFn()
	}
	return time.Now()
}

// Options tunes one prediction run.
type Options struct {
	WindowDays      int
	MinTransactions int
}

func (o Options) withDefaults() Options {
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.MinTransactions <= 0 {
		o.MinTransactions = DefaultMinTransactions
	}
	return o
}

// GeneratePredictions runs the full pipeline: normalize, gate on historical
// depth, then analyze each item's weekly pattern and project its restock
// point. Items with too few outgoing transactions or a non-positive adjusted
// rate are silently omitted. An insufficient history returns an empty list,
// never an error.
//
// The result is ordered by urgency tier (critical, warning, normal) and then
// by ascending days until restock within a tier; consumers render it
// top-to-bottom as an action queue.
func (e *Engine) GeneratePredictions(items []domain.InventoryItem, records []RawRecord, opts Options) []domain.PredictionResult {
	opts = opts.withDefaults()

	txns := Normalize(records)
	results := make([]domain.PredictionResult, 0, len(items))

	if sufficiency := e.CheckDataSufficiency(txns); !sufficiency.HasSufficientData {
		return results
	}

	now := e.now()
	windowStart := now.AddDate(0, 0, -opts.WindowDays)
	numWeeks := float64((opts.WindowDays + 6) / 7)

	// Per-run cache of each item's outgoing transactions inside the window.
	// Built once so the per-item loop never rescans the full history.
	outgoingByItem := make(map[string][]domain.InventoryTransaction)
	for _, tx := range txns {
		if tx.Direction != domain.DirectionOutgoing {
			continue
		}
		if tx.Timestamp.Before(windowStart) || tx.Timestamp.After(now) {
			continue
		}
		outgoingByItem[tx.ItemID] = append(outgoingByItem[tx.ItemID], tx)
	}

	for _, item := range items {
		outgoing := outgoingByItem[item.ID]
		if len(outgoing) < opts.MinTransactions {
			continue
		}

		var totalUnits float64
		for _, tx := range outgoing {
			totalUnits += tx.Quantity
		}
		baseRate := totalUnits / numWeeks

		pattern := analyzeWeeklyPattern(outgoing, opts.WindowDays, now)
		adjustedRate := projectUsageRate(baseRate, pattern.Trend, pattern.UsageShift)
		if adjustedRate <= 0 {
			continue
		}

		weeksUntilRestock := float64(item.CurrentStock) / adjustedRate
		daysUntilRestock := unboundedDays
		if adjustedRate > 0 {
			daysUntilRestock = int(math.Floor(weeksUntilRestock * 7))
		}

		urgency := domain.UrgencyNormal
		switch {
		case weeksUntilRestock <= 1:
			urgency = domain.UrgencyCritical
		case weeksUntilRestock <= 2:
			urgency = domain.UrgencyWarning
		}

		results = append(results, domain.PredictionResult{
			ItemID:                 item.ID,
			Name:                   item.Name,
			SKU:                    item.SKU,
			CurrentStock:           item.CurrentStock,
			DailyUsageRate:         adjustedRate / 7,
			WeeklyUsageRate:        adjustedRate,
			DaysUntilRestock:       daysUntilRestock,
			PredictedRestockDate:   now.AddDate(0, 0, daysUntilRestock),
			RestockUrgency:         urgency,
			Confidence:             int(math.Round(confidenceScore(len(outgoing), pattern.CoefficientOfVariation) * 100)),
			SuggestedOrderQuantity: int(math.Ceil(adjustedRate * reorderHorizonWeeks)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := urgencyRank(results[i].RestockUrgency), urgencyRank(results[j].RestockUrgency)
		if ri != rj {
			return ri < rj
		}
		return results[i].DaysUntilRestock < results[j].DaysUntilRestock
	})

	return results
}

func urgencyRank(u domain.RestockUrgency) int {
	switch u {
	case domain.UrgencyCritical:
		return 0
	case domain.UrgencyWarning:
		return 1
	default:
		return 2
	}
}

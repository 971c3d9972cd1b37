package forecast

import (
	"math"
	"time"

	"github.com/warely/stockcast/internal/domain"
)

// recentWeeks is how many trailing weekly buckets count as "recent" when
// computing the usage shift.
const recentWeeks = 4

// usagePattern summarizes one item's weekly outgoing usage inside the
// analysis window.
type usagePattern struct {
	// Trend is the OLS slope of the weekly series expressed as a fraction of
	// the series mean, i.e. relative per-week change rather than units.
	Trend float64
	// CoefficientOfVariation is population stddev / mean of the weekly series.
	CoefficientOfVariation float64
	// UsageShift is the relative change of the recent weeks' mean against the
	// older weeks' mean.
	UsageShift float64
	// Weekly is the bucketed series, oldest week first. Weeks with no
	// transactions are present as true zeros.
	Weekly []float64
}

// analyzeWeeklyPattern buckets an item's outgoing transactions into weekly
// bins counted backward from now and derives the trend, volatility, and
// recency signals the projector consumes.
func analyzeWeeklyPattern(outgoing []domain.InventoryTransaction, windowDays int, now time.Time) usagePattern {
	numWeeks := (windowDays + 6) / 7
	if numWeeks < 1 {
		numWeeks = 1
	}

	weekly := make([]float64, numWeeks)
	for _, tx := range outgoing {
		age := now.Sub(tx.Timestamp)
		if age < 0 {
			continue
		}
		weeksAgo := int(age.Hours() / (24 * 7))
		if weeksAgo >= numWeeks {
			continue
		}
		// Index 0 is the oldest week in the window.
		weekly[numWeeks-1-weeksAgo] += tx.Quantity
	}

	mean := seriesMean(weekly)

	return usagePattern{
		Trend:                  normalizedTrend(weekly, mean),
		CoefficientOfVariation: coefficientOfVariation(weekly, mean),
		UsageShift:             usageShift(weekly),
		Weekly:                 weekly,
	}
}

// normalizedTrend is the least-squares slope over the series indexed 0..n-1,
// divided by the series mean so it reads as relative change per week. Fewer
// than 3 buckets or a zero mean yields 0.
func normalizedTrend(weekly []float64, mean float64) float64 {
	n := len(weekly)
	if n < 3 || mean == 0 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range weekly {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	return slope / mean
}

func coefficientOfVariation(weekly []float64, mean float64) float64 {
	if mean == 0 {
		return 0
	}

	var sumSq float64
	for _, y := range weekly {
		d := y - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(weekly)))
	return stddev / mean
}

// usageShift compares the mean of the most recent weeks against the mean of
// everything older. With no older weeks the recent mean stands in for the
// baseline, which makes the shift 0 by construction.
func usageShift(weekly []float64) float64 {
	n := len(weekly)
	split := n - recentWeeks
	if split < 0 {
		split = 0
	}

	recentMean := seriesMean(weekly[split:])

	olderMean := recentMean
	if split > 0 {
		olderMean = seriesMean(weekly[:split])
	}

	if olderMean == 0 {
		return 0
	}
	return (recentMean - olderMean) / olderMean
}

func seriesMean(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

package forecast

// Weighting and bounds for the trend/shift adjustment. The regression trend
// carries more weight than the short recency shift, and the combined factor
// is clamped so one volatile week cannot produce an absurd extrapolation.
const (
	trendWeight = 0.6
	shiftWeight = 0.4

	adjustmentFloor = -0.30
	adjustmentCeil  = 0.50
)

// Confidence model constants. Confidence saturates at 0.95: this is a
// heuristic, not a fitted model with validated error bounds, so it never
// claims near-certainty.
const (
	countFactorDivisor = 30.0
	countFactorCap     = 0.6
	consistencyBase    = 0.4
	consistencyPenalty = 0.5
	confidenceCap      = 0.95
)

// projectUsageRate adjusts the raw average weekly rate by the combined
// trend and usage-shift signals.
func projectUsageRate(baseRate, trend, shift float64) float64 {
	combined := trendWeight*trend + shiftWeight*shift
	if combined < adjustmentFloor {
		combined = adjustmentFloor
	}
	if combined > adjustmentCeil {
		combined = adjustmentCeil
	}
	return baseRate * (1 + combined)
}

// confidenceScore derives a 0..0.95 confidence from how many outgoing
// transactions back the estimate and how consistent the weekly pattern is.
func confidenceScore(txCount int, cv float64) float64 {
	countFactor := float64(txCount) / countFactorDivisor
	if countFactor > countFactorCap {
		countFactor = countFactorCap
	}

	consistency := consistencyBase - cv*consistencyPenalty
	if consistency < 0 {
		consistency = 0
	}

	confidence := countFactor + consistency
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	return confidence
}

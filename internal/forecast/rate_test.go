package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectUsageRate(t *testing.T) {
	t.Run("flat signals pass the base rate through", func(t *testing.T) {
		assert.InDelta(t, 10.0, projectUsageRate(10, 0, 0), 1e-9)
	})

	t.Run("weights favor the trend", func(t *testing.T) {
		// combined = 0.6*0.1 + 0.4*0.2 = 0.14
		assert.InDelta(t, 11.4, projectUsageRate(10, 0.1, 0.2), 1e-9)
	})

	t.Run("upside clamps at fifty percent", func(t *testing.T) {
		assert.InDelta(t, 15.0, projectUsageRate(10, 5, 5), 1e-9)
	})

	t.Run("downside clamps at minus thirty percent", func(t *testing.T) {
		assert.InDelta(t, 7.0, projectUsageRate(10, -5, -5), 1e-9)
	})

	t.Run("adjusted rate is never negative for non-negative base", func(t *testing.T) {
		for _, trend := range []float64{-100, -1, 0, 1, 100} {
			for _, shift := range []float64{-100, -1, 0, 1, 100} {
				assert.GreaterOrEqual(t, projectUsageRate(10, trend, shift), 0.0)
				assert.GreaterOrEqual(t, projectUsageRate(0, trend, shift), 0.0)
			}
		}
	})
}

func TestConfidenceScore(t *testing.T) {
	t.Run("count factor saturates at 0.6", func(t *testing.T) {
		assert.InDelta(t, 0.2, confidenceScore(6, 10), 1e-9)  // 6/30, no consistency
		assert.InDelta(t, 0.95, confidenceScore(300, 0), 1e-9) // capped
	})

	t.Run("volatility erodes the consistency factor", func(t *testing.T) {
		assert.InDelta(t, 0.4+0.4, confidenceScore(12, 0), 1e-9)
		assert.InDelta(t, 0.4+0.15, confidenceScore(12, 0.5), 1e-9)
		assert.InDelta(t, 0.4, confidenceScore(12, 2), 1e-9)
	})

	t.Run("always within zero and the cap", func(t *testing.T) {
		for _, count := range []int{0, 1, 15, 30, 1000} {
			for _, cv := range []float64{0, 0.3, 1, 50} {
				got := confidenceScore(count, cv)
				assert.GreaterOrEqual(t, got, 0.0)
				assert.LessOrEqual(t, got, 0.95)
			}
		}
	})
}

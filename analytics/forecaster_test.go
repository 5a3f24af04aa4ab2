package analytics

import (
	"testing"
	"time"

	"bookstore/models"

	"github.com/stretchr/testify/assert"
)

func seriesOf(quantities ...int) []models.DailySales {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.DailySales, len(quantities))
	for i, q := range quantities {
		series[i] = models.DailySales{Date: start.AddDate(0, 0, i), Quantity: q}
	}
	return series
}

func TestForecastEmptySeries(t *testing.T) {
	f := Forecast(nil)

	assert.Equal(t, 0, f.Predicted7Days)
	assert.Equal(t, 0, f.Predicted30Days)
	assert.Equal(t, 0.0, f.Confidence)
	assert.Equal(t, models.TrendStable, f.Trend)
}

func TestForecastConstantSeries(t *testing.T) {
	// 2 units/day for 10 present days: the exponential weights cancel out,
	// the seasonal factor is exactly 1, and variance is zero.
	f := Forecast(seriesOf(2, 2, 2, 2, 2, 2, 2, 2, 2, 2))

	assert.Equal(t, 14, f.Predicted7Days)
	assert.Equal(t, 60, f.Predicted30Days)
	assert.Equal(t, 1.0, f.Confidence)
	assert.Equal(t, models.TrendStable, f.Trend)
}

func TestForecastSingleEntry(t *testing.T) {
	f := Forecast(seriesOf(5))

	// One entry: avgDaily = recentAvg = 5, no variance.
	assert.Equal(t, 35, f.Predicted7Days)
	assert.Equal(t, 150, f.Predicted30Days)
	assert.Equal(t, 1.0, f.Confidence)
	assert.Equal(t, models.TrendStable, f.Trend)
}

func TestForecastAllZeroSeries(t *testing.T) {
	f := Forecast(seriesOf(0, 0, 0))

	assert.Equal(t, 0, f.Predicted7Days)
	assert.Equal(t, 0, f.Predicted30Days)
	// avgDaily is 0, stdDev is 0: confidence is 1 by the formula.
	assert.Equal(t, 1.0, f.Confidence)
	assert.Equal(t, models.TrendStable, f.Trend)
}

func TestForecastTrendStableUnderSevenEntries(t *testing.T) {
	// Wildly different halves, but fewer than 7 entries never produce a
	// trend.
	f := Forecast(seriesOf(1, 1, 1, 20, 20, 20))
	assert.Equal(t, models.TrendStable, f.Trend)
}

func TestForecastIncreasingTrend(t *testing.T) {
	f := Forecast(seriesOf(1, 1, 1, 1, 5, 5, 5, 5))
	assert.Equal(t, models.TrendIncreasing, f.Trend)
}

func TestForecastDecreasingTrendAndSeasonalClampFloor(t *testing.T) {
	// Seven days of 10 followed by seven quiet days. The recent average is
	// 0, so the seasonal factor clamps at 0.5 of the weighted average.
	f := Forecast(seriesOf(10, 10, 10, 10, 10, 10, 10, 0, 0, 0, 0, 0, 0, 0))

	// avgDaily = 10 * sum(e^(i/14), i=0..6) / sum(e^(i/14), i=0..13)
	//          = 3.77541..., halved and scaled to the horizons.
	assert.Equal(t, 13, f.Predicted7Days)
	assert.Equal(t, 57, f.Predicted30Days)
	assert.Equal(t, 0.0, f.Confidence)
	assert.Equal(t, models.TrendDecreasing, f.Trend)
}

func TestForecastZeroFirstHalfUsesUnitBase(t *testing.T) {
	// A first half of zeros divides by 1 instead of 0 when computing the
	// trend change percentage.
	f := Forecast(seriesOf(0, 0, 0, 0, 1, 1, 1, 1))
	assert.Equal(t, models.TrendIncreasing, f.Trend)
}

func TestForecastUnclampedSeasonalTracksRecentAverage(t *testing.T) {
	// When the seasonal factor is inside [0.5, 2], adjustedDaily collapses
	// to exactly the recent average.
	f := Forecast(seriesOf(10, 0))

	// recentAvg = 5, ratio = 5/3.775... = 1.32 (unclamped)
	assert.Equal(t, 35, f.Predicted7Days)
	assert.Equal(t, 150, f.Predicted30Days)
}

func TestForecastConfidenceStaysInRange(t *testing.T) {
	cases := [][]int{
		{1, 50, 1, 50, 1, 50},
		{100, 0, 0, 0, 0, 0, 0, 0},
		{3},
		{0, 0, 7, 0, 0, 9},
	}
	for _, quantities := range cases {
		f := Forecast(seriesOf(quantities...))
		assert.GreaterOrEqual(t, f.Confidence, 0.0)
		assert.LessOrEqual(t, f.Confidence, 1.0)
		assert.GreaterOrEqual(t, f.Predicted7Days, 0)
		assert.GreaterOrEqual(t, f.Predicted30Days, 0)
	}
}

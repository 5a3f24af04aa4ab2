package analytics

import (
	"math"

	"bookstore/models"
)

// Forecast turns a sparse daily-sales series into a demand estimate.
//
// The series holds one entry per day that had at least one completed sale,
// in ascending date order. Days without sales are absent, not zero-filled,
// and the weighting below runs over present entries only. Zero-filling the
// series would change every downstream prediction.
func Forecast(series []models.DailySales) models.DemandForecast {
	if len(series) == 0 {
		return models.DemandForecast{Trend: models.TrendStable}
	}

	n := len(series)

	// Exponentially weighted daily average; later entries weigh more.
	var weightedSum, weightTotal float64
	for i, d := range series {
		w := math.Exp(float64(i) / float64(n))
		weightedSum += float64(d.Quantity) * w
		weightTotal += w
	}
	avgDaily := weightedSum / weightTotal

	// Plain mean over the last 7 present entries.
	recentStart := n - 7
	if recentStart < 0 {
		recentStart = 0
	}
	var recentSum int
	for _, d := range series[recentStart:] {
		recentSum += d.Quantity
	}
	recentAvg := float64(recentSum) / float64(n-recentStart)

	seasonalFactor := 1.0
	if avgDaily > 0 {
		seasonalFactor = recentAvg / avgDaily
	}
	if seasonalFactor < 0.5 {
		seasonalFactor = 0.5
	}
	if seasonalFactor > 2.0 {
		seasonalFactor = 2.0
	}

	adjustedDaily := avgDaily * seasonalFactor

	return models.DemandForecast{
		Predicted7Days:  int(math.Round(adjustedDaily * 7)),
		Predicted30Days: int(math.Round(adjustedDaily * 30)),
		Confidence:      forecastConfidence(series, avgDaily),
		Trend:           forecastTrend(series),
	}
}

// forecastConfidence scores how steady the series is around the weighted
// average: 1.0 for a perfectly constant series, approaching 0 as variance
// grows. Rounded to two decimal places.
func forecastConfidence(series []models.DailySales, avgDaily float64) float64 {
	var sumSquares float64
	for _, d := range series {
		diff := float64(d.Quantity) - avgDaily
		sumSquares += diff * diff
	}
	stdDev := math.Sqrt(sumSquares / float64(len(series)))

	c := 1 - stdDev/(avgDaily+1)
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}

// forecastTrend compares the mean of the first and second halves of the
// series. Series shorter than 7 entries are always "stable".
func forecastTrend(series []models.DailySales) string {
	if len(series) < 7 {
		return models.TrendStable
	}

	mid := len(series) / 2
	firstMean := meanQuantity(series[:mid])
	secondMean := meanQuantity(series[mid:])

	base := firstMean
	if base == 0 {
		base = 1
	}
	changePercent := (secondMean - firstMean) / base * 100

	switch {
	case changePercent > 20:
		return models.TrendIncreasing
	case changePercent < -20:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func meanQuantity(series []models.DailySales) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum int
	for _, d := range series {
		sum += d.Quantity
	}
	return float64(sum) / float64(len(series))
}

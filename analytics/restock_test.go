package analytics

import (
	"testing"

	"bookstore/models"

	"github.com/stretchr/testify/assert"
)

func TestRecommendQuantityBelowMinimum(t *testing.T) {
	// 5 on hand, minimum 10: target is min+predicted capped at max.
	got := RecommendQuantity(5, 10, 100, 20)
	assert.Equal(t, 25, got)
}

func TestRecommendQuantityHealthyStock(t *testing.T) {
	// 50 on hand, demand 20: projected 30 stays above the minimum.
	got := RecommendQuantity(50, 10, 100, 20)
	assert.Equal(t, 0, got)
}

func TestRecommendQuantityProjectedDipBelowMinimum(t *testing.T) {
	// 25 on hand minus 20 demand lands at 5, under the minimum of 10.
	got := RecommendQuantity(25, 10, 100, 20)
	assert.Equal(t, 5, got)
}

func TestRecommendQuantityCappedAtMaxStock(t *testing.T) {
	got := RecommendQuantity(5, 10, 15, 100)
	assert.Equal(t, 10, got)
}

func TestRecommendQuantityNeverNegative(t *testing.T) {
	// Stock already above the capped target.
	got := RecommendQuantity(20, 10, 15, 100)
	assert.Equal(t, 0, got)
}

func TestEstimateDaysUntilStockout(t *testing.T) {
	assert.Equal(t, 10, EstimateDaysUntilStockout(10, 30))
	assert.Equal(t, 3, EstimateDaysUntilStockout(10, 90)) // floor(3.33)
	assert.Equal(t, 0, EstimateDaysUntilStockout(0, 30))
	assert.Equal(t, models.StockoutNever, EstimateDaysUntilStockout(10, 0))
}

func TestUrgencyTiers(t *testing.T) {
	assert.Equal(t, models.UrgencyCritical, UrgencyFor(0))
	assert.Equal(t, models.UrgencyCritical, UrgencyFor(3))
	assert.Equal(t, models.UrgencyHigh, UrgencyFor(4))
	assert.Equal(t, models.UrgencyHigh, UrgencyFor(7))
	assert.Equal(t, models.UrgencyMedium, UrgencyFor(8))
	assert.Equal(t, models.UrgencyMedium, UrgencyFor(14))
	assert.Equal(t, models.UrgencyLow, UrgencyFor(15))
	assert.Equal(t, models.UrgencyLow, UrgencyFor(models.StockoutNever))
}

func TestPlanRestockIncludesCost(t *testing.T) {
	inv := models.Inventory{
		BookID:       "b1",
		BookTitle:    "Dune",
		CurrentStock: 5,
		MinStock:     10,
		MaxStock:     100,
	}
	rec := PlanRestock(inv, models.DemandForecast{Predicted30Days: 20}, 12.50)

	assert.Equal(t, 25, rec.RecommendedQuantity)
	assert.Equal(t, 7, rec.EstimatedDaysUntilStockout)
	assert.Equal(t, models.UrgencyHigh, rec.Urgency)
	assert.Equal(t, 312.50, rec.EstimatedCost)
}

func TestNeedsAttention(t *testing.T) {
	// At or under minimum is always listed, whatever the urgency.
	assert.True(t, NeedsAttention(models.RestockRecommendation{
		CurrentStock: 10, MinStock: 10, Urgency: models.UrgencyLow,
	}))
	// Above minimum needs high or critical urgency.
	assert.True(t, NeedsAttention(models.RestockRecommendation{
		CurrentStock: 20, MinStock: 10, Urgency: models.UrgencyCritical,
	}))
	assert.False(t, NeedsAttention(models.RestockRecommendation{
		CurrentStock: 20, MinStock: 10, Urgency: models.UrgencyMedium,
	}))
}

func TestSortRecommendations(t *testing.T) {
	recs := []models.RestockRecommendation{
		{BookID: "low", Urgency: models.UrgencyLow, EstimatedDaysUntilStockout: 30},
		{BookID: "crit-late", Urgency: models.UrgencyCritical, EstimatedDaysUntilStockout: 3},
		{BookID: "high", Urgency: models.UrgencyHigh, EstimatedDaysUntilStockout: 6},
		{BookID: "crit-early", Urgency: models.UrgencyCritical, EstimatedDaysUntilStockout: 1},
	}

	SortRecommendations(recs)

	ids := []string{recs[0].BookID, recs[1].BookID, recs[2].BookID, recs[3].BookID}
	assert.Equal(t, []string{"crit-early", "crit-late", "high", "low"}, ids)
}

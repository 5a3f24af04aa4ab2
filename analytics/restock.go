package analytics

import (
	"math"
	"sort"

	"bookstore/models"
)

// RecommendQuantity returns how many units to reorder for one book.
// A reorder is triggered when stock is already under the minimum, or when
// the 30-day demand projection would push it under. The target level is
// minStock + predicted30, capped at maxStock; the result is never negative.
func RecommendQuantity(currentStock, minStock, maxStock, predicted30 int) int {
	if currentStock >= minStock && currentStock-predicted30 >= minStock {
		return 0
	}

	target := minStock + predicted30
	if target > maxStock {
		target = maxStock
	}
	if target <= currentStock {
		return 0
	}
	return target - currentStock
}

// EstimateDaysUntilStockout converts a 30-day prediction into runway days.
// Books with no measurable demand get the StockoutNever sentinel.
func EstimateDaysUntilStockout(currentStock, predicted30 int) int {
	dailyDemand := float64(predicted30) / 30
	if dailyDemand <= 0 {
		return models.StockoutNever
	}
	return int(math.Floor(float64(currentStock) / dailyDemand))
}

// UrgencyFor maps runway days to an urgency tier.
func UrgencyFor(daysUntilStockout int) string {
	switch {
	case daysUntilStockout <= 3:
		return models.UrgencyCritical
	case daysUntilStockout <= 7:
		return models.UrgencyHigh
	case daysUntilStockout <= 14:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

// UrgencyRank orders urgency tiers, most pressing first.
func UrgencyRank(urgency string) int {
	switch urgency {
	case models.UrgencyCritical:
		return 0
	case models.UrgencyHigh:
		return 1
	case models.UrgencyMedium:
		return 2
	default:
		return 3
	}
}

// PlanRestock builds the full recommendation row for one book.
func PlanRestock(inv models.Inventory, forecast models.DemandForecast, unitPrice float64) models.RestockRecommendation {
	recommended := RecommendQuantity(inv.CurrentStock, inv.MinStock, inv.MaxStock, forecast.Predicted30Days)
	days := EstimateDaysUntilStockout(inv.CurrentStock, forecast.Predicted30Days)

	return models.RestockRecommendation{
		BookID:                     inv.BookID,
		BookTitle:                  inv.BookTitle,
		CurrentStock:               inv.CurrentStock,
		MinStock:                   inv.MinStock,
		RecommendedQuantity:        recommended,
		Urgency:                    UrgencyFor(days),
		EstimatedDaysUntilStockout: days,
		EstimatedCost:              float64(recommended) * unitPrice,
	}
}

// NeedsAttention reports whether a recommendation belongs in the portfolio
// list. Books above minimum stock with low or medium urgency are left out.
func NeedsAttention(rec models.RestockRecommendation) bool {
	if rec.CurrentStock <= rec.MinStock {
		return true
	}
	return rec.Urgency == models.UrgencyHigh || rec.Urgency == models.UrgencyCritical
}

// SortRecommendations orders rows by urgency tier, then by shortest runway.
func SortRecommendations(recs []models.RestockRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := UrgencyRank(recs[i].Urgency), UrgencyRank(recs[j].Urgency)
		if ri != rj {
			return ri < rj
		}
		return recs[i].EstimatedDaysUntilStockout < recs[j].EstimatedDaysUntilStockout
	})
}

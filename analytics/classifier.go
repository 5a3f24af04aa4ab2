package analytics

import (
	"math"
	"sort"
	"time"

	"bookstore/models"
)

const (
	abcThresholdA = 80.0
	abcThresholdB = 95.0

	fastRotationRate = 4.0
	slowRotationRate = 1.0
	deadStockDays    = 180
	rotationTopN     = 20
)

// ABCBuckets partitions the catalog into Pareto categories by revenue
// contribution: A covers the first 80% of cumulative revenue, B the next
// 15%, C the tail. Every book lands in exactly one bucket and the three
// buckets always come back in A, B, C order.
//
// A window with zero total revenue yields three empty buckets with all
// percentages at zero rather than dividing by zero.
func ABCBuckets(revenues []models.BookRevenue) []models.ABCBucket {
	buckets := []models.ABCBucket{
		{Category: "A", Books: []models.BookRevenueShare{}},
		{Category: "B", Books: []models.BookRevenueShare{}},
		{Category: "C", Books: []models.BookRevenueShare{}},
	}

	sorted := make([]models.BookRevenue, len(revenues))
	copy(sorted, revenues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Revenue > sorted[j].Revenue
	})

	var total float64
	for _, r := range sorted {
		total += r.Revenue
	}
	if total == 0 {
		return buckets
	}

	var cumulative float64
	for _, r := range sorted {
		cumulative += r.Revenue
		cumulativePct := cumulative / total * 100

		share := models.BookRevenueShare{
			BookID:               r.BookID,
			Title:                r.Title,
			Revenue:              r.Revenue,
			PercentageOfTotal:    r.Revenue / total * 100,
			CumulativePercentage: cumulativePct,
		}

		idx := 2
		if cumulativePct <= abcThresholdA {
			idx = 0
		} else if cumulativePct <= abcThresholdB {
			idx = 1
		}
		buckets[idx].Books = append(buckets[idx].Books, share)
	}

	for i := range buckets {
		var bucketRevenue float64
		for _, b := range buckets[i].Books {
			bucketRevenue += b.Revenue
		}
		buckets[i].Summary = models.ABCSummary{
			TotalRevenue:         bucketRevenue,
			PercentageOfRevenue:  bucketRevenue / total * 100,
			BookCount:            len(buckets[i].Books),
			PercentageOfProducts: float64(len(buckets[i].Books)) / float64(len(sorted)) * 100,
		}
	}

	return buckets
}

// RotationProfileFor computes the turnover profile of one book.
// rotationRate annualizes the last 30 days of sales against current stock;
// a book with no stock gets rate 0 and daysToSell 0, a stocked book with no
// recent sales gets the StockoutNever sentinel for daysToSell.
func RotationProfileFor(bookID, title string, sales30, currentStock int, lastSale *time.Time, now time.Time) models.RotationProfile {
	p := models.RotationProfile{
		BookID:       bookID,
		BookTitle:    title,
		CurrentStock: currentStock,
		LastSaleDate: lastSale,
	}

	if currentStock > 0 {
		p.RotationRate = float64(sales30) / float64(currentStock) * 12
	}

	switch {
	case currentStock == 0:
		p.DaysToSell = 0
	case sales30 == 0:
		p.DaysToSell = models.StockoutNever
	default:
		p.DaysToSell = int(math.Ceil(float64(currentStock) / (float64(sales30) / 30)))
	}

	if lastSale != nil {
		p.DaysSinceLastSale = int(now.Sub(*lastSale).Hours() / 24)
	}

	return p
}

// BuildRotationReport segments rotation profiles into fast movers, slow
// movers, and dead stock. Fast and slow lists are capped at 20 entries;
// dead stock is not capped.
func BuildRotationReport(profiles []models.RotationProfile) models.StockRotationReport {
	report := models.StockRotationReport{
		FastMoving: []models.RotationProfile{},
		SlowMoving: []models.RotationProfile{},
		DeadStock:  []models.RotationProfile{},
	}

	for _, p := range profiles {
		if p.RotationRate >= fastRotationRate {
			report.FastMoving = append(report.FastMoving, p)
		}
		if p.RotationRate < slowRotationRate && p.CurrentStock > 0 {
			report.SlowMoving = append(report.SlowMoving, p)
		}
		if p.CurrentStock > 0 && (p.LastSaleDate == nil || p.DaysSinceLastSale > deadStockDays) {
			report.DeadStock = append(report.DeadStock, p)
		}
	}

	sort.SliceStable(report.FastMoving, func(i, j int) bool {
		return report.FastMoving[i].RotationRate > report.FastMoving[j].RotationRate
	})
	sort.SliceStable(report.SlowMoving, func(i, j int) bool {
		return report.SlowMoving[i].RotationRate < report.SlowMoving[j].RotationRate
	})
	// Books that never sold rank as the most stale.
	sort.SliceStable(report.DeadStock, func(i, j int) bool {
		di, dj := report.DeadStock[i], report.DeadStock[j]
		if (di.LastSaleDate == nil) != (dj.LastSaleDate == nil) {
			return di.LastSaleDate == nil
		}
		return di.DaysSinceLastSale > dj.DaysSinceLastSale
	})

	if len(report.FastMoving) > rotationTopN {
		report.FastMoving = report.FastMoving[:rotationTopN]
	}
	if len(report.SlowMoving) > rotationTopN {
		report.SlowMoving = report.SlowMoving[:rotationTopN]
	}

	report.Summary = models.RotationReportSummary{
		TotalBooks:      len(profiles),
		FastMovingCount: len(report.FastMoving),
		SlowMovingCount: len(report.SlowMoving),
		DeadStockCount:  len(report.DeadStock),
	}

	return report
}

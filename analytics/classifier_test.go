package analytics

import (
	"testing"
	"time"

	"bookstore/models"

	"github.com/stretchr/testify/assert"
)

func TestABCBucketsPartition(t *testing.T) {
	revenues := []models.BookRevenue{
		{BookID: "b2", Title: "Second", Revenue: 50},
		{BookID: "b1", Title: "First", Revenue: 100},
		{BookID: "b4", Title: "Fourth", Revenue: 20},
		{BookID: "b3", Title: "Third", Revenue: 30},
	}

	buckets := ABCBuckets(revenues)

	assert.Len(t, buckets, 3)
	assert.Equal(t, "A", buckets[0].Category)
	assert.Equal(t, "B", buckets[1].Category)
	assert.Equal(t, "C", buckets[2].Category)

	// Cumulative shares: 50%, 75%, 90%, 100%.
	assert.Len(t, buckets[0].Books, 2)
	assert.Equal(t, "b1", buckets[0].Books[0].BookID)
	assert.Equal(t, "b2", buckets[0].Books[1].BookID)
	assert.InDelta(t, 50.0, buckets[0].Books[0].PercentageOfTotal, 1e-9)
	assert.InDelta(t, 75.0, buckets[0].Books[1].CumulativePercentage, 1e-9)

	assert.Len(t, buckets[1].Books, 1)
	assert.Equal(t, "b3", buckets[1].Books[0].BookID)
	assert.InDelta(t, 90.0, buckets[1].Books[0].CumulativePercentage, 1e-9)

	assert.Len(t, buckets[2].Books, 1)
	assert.Equal(t, "b4", buckets[2].Books[0].BookID)
	assert.InDelta(t, 100.0, buckets[2].Books[0].CumulativePercentage, 1e-9)

	assert.InDelta(t, 150.0, buckets[0].Summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 75.0, buckets[0].Summary.PercentageOfRevenue, 1e-9)
	assert.Equal(t, 2, buckets[0].Summary.BookCount)
	assert.InDelta(t, 50.0, buckets[0].Summary.PercentageOfProducts, 1e-9)
	assert.InDelta(t, 25.0, buckets[2].Summary.PercentageOfProducts, 1e-9)
}

func TestABCBucketsZeroRevenue(t *testing.T) {
	buckets := ABCBuckets([]models.BookRevenue{
		{BookID: "b1", Revenue: 0},
		{BookID: "b2", Revenue: 0},
	})

	assert.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Empty(t, b.Books)
		assert.Equal(t, 0.0, b.Summary.PercentageOfRevenue)
		assert.Equal(t, 0, b.Summary.BookCount)
	}
}

func TestABCBucketsSingleBook(t *testing.T) {
	buckets := ABCBuckets([]models.BookRevenue{{BookID: "only", Revenue: 42}})

	assert.Len(t, buckets[0].Books, 0)
	assert.Len(t, buckets[1].Books, 0)
	// 100% cumulative lands past both thresholds.
	assert.Len(t, buckets[2].Books, 1)
	assert.Equal(t, "only", buckets[2].Books[0].BookID)
}

func TestRotationProfileFor(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	lastSale := now.AddDate(0, 0, -10)

	p := RotationProfileFor("b1", "Dune", 20, 5, &lastSale, now)
	assert.InDelta(t, 48.0, p.RotationRate, 1e-9) // 20/5*12
	assert.Equal(t, 8, p.DaysToSell)              // ceil(5 / (20/30))
	assert.Equal(t, 10, p.DaysSinceLastSale)

	noStock := RotationProfileFor("b2", "Empty", 20, 0, &lastSale, now)
	assert.Equal(t, 0.0, noStock.RotationRate)
	assert.Equal(t, 0, noStock.DaysToSell)

	noSales := RotationProfileFor("b3", "Quiet", 0, 10, nil, now)
	assert.Equal(t, 0.0, noSales.RotationRate)
	assert.Equal(t, models.StockoutNever, noSales.DaysToSell)
	assert.Equal(t, 0, noSales.DaysSinceLastSale)
}

func TestBuildRotationReportSegments(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -5)
	stale := now.AddDate(0, 0, -200)

	profiles := []models.RotationProfile{
		RotationProfileFor("fast1", "", 10, 10, &recent, now),  // rate 12
		RotationProfileFor("fast2", "", 20, 10, &recent, now),  // rate 24
		RotationProfileFor("slow1", "", 0, 10, &recent, now),   // rate 0
		RotationProfileFor("mid", "", 2, 10, &recent, now),     // rate 2.4
		RotationProfileFor("dead1", "", 0, 5, &stale, now),     // stale 200 days
		RotationProfileFor("dead-never", "", 0, 5, nil, now),   // never sold
		RotationProfileFor("no-stock", "", 0, 0, nil, now),     // ignored everywhere
	}

	report := BuildRotationReport(profiles)

	assert.Equal(t, "fast2", report.FastMoving[0].BookID)
	assert.Equal(t, "fast1", report.FastMoving[1].BookID)
	assert.Len(t, report.FastMoving, 2)

	// Slow movers sorted ascending, stocked books only.
	slowIDs := make([]string, 0, len(report.SlowMoving))
	for _, p := range report.SlowMoving {
		slowIDs = append(slowIDs, p.BookID)
	}
	assert.Contains(t, slowIDs, "slow1")
	assert.Contains(t, slowIDs, "dead1")
	assert.NotContains(t, slowIDs, "no-stock")
	assert.NotContains(t, slowIDs, "mid")

	// Never-sold stock ranks as the most stale dead entry.
	assert.Len(t, report.DeadStock, 2)
	assert.Equal(t, "dead-never", report.DeadStock[0].BookID)
	assert.Equal(t, "dead1", report.DeadStock[1].BookID)

	assert.Equal(t, 7, report.Summary.TotalBooks)
	assert.Equal(t, 2, report.Summary.FastMovingCount)
	assert.Equal(t, 2, report.Summary.DeadStockCount)
}

func TestBuildRotationReportCapsLists(t *testing.T) {
	now := time.Now()
	profiles := make([]models.RotationProfile, 0, 25)
	for i := 0; i < 25; i++ {
		recent := now.AddDate(0, 0, -1)
		profiles = append(profiles, RotationProfileFor("fast", "", 50+i, 10, &recent, now))
	}

	report := BuildRotationReport(profiles)
	assert.Len(t, report.FastMoving, 20)
	// The cap keeps the highest rates.
	assert.InDelta(t, float64(74)/10*12, report.FastMoving[0].RotationRate, 1e-9)
}

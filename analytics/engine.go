package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"bookstore/metrics"
	"bookstore/models"
)

// ErrBookNotFound is returned when a bookId does not match any book.
var ErrBookNotFound = errors.New("book not found")

// DefaultLookbackDays is the sales-history window fed to the forecaster.
const DefaultLookbackDays = 90

// SalesReader reads completed-sale history. Implementations must exclude
// pending, cancelled, and refunded sales from every result.
type SalesReader interface {
	// DailySeries returns per-day summed quantities for one book over the
	// last `days` days, ascending by date. Days without sales are absent.
	DailySeries(ctx context.Context, bookID string, days int) ([]models.DailySales, error)
	// RevenueByBook aggregates per-book revenue inside a window.
	RevenueByBook(ctx context.Context, start, end time.Time) ([]models.BookRevenue, error)
	// SaleLines returns the raw completed sale lines inside a window.
	SaleLines(ctx context.Context, start, end time.Time) ([]SaleLine, error)
	// UnitsSoldSince counts units of one book sold since a point in time.
	UnitsSoldSince(ctx context.Context, bookID string, since time.Time) (int, error)
	// SaleDateBounds returns the first and last completed-sale timestamps
	// for one book; nil when the book never sold.
	SaleDateBounds(ctx context.Context, bookID string) (first, last *time.Time, err error)
	// MetricsSince sums revenue, orders, and units since a point in time.
	MetricsSince(ctx context.Context, since time.Time) (models.PeriodMetrics, error)
	// TopSellers lists the highest-revenue books since a point in time.
	TopSellers(ctx context.Context, since time.Time, limit int) ([]models.TopSeller, error)
}

// InventoryReader reads current stock levels.
type InventoryReader interface {
	Stock(ctx context.Context, bookID string) (*models.Inventory, error)
	AllStock(ctx context.Context) ([]models.Inventory, error)
	LowStockCount(ctx context.Context) (int, error)
}

// BookReader reads catalog entries.
type BookReader interface {
	Book(ctx context.Context, bookID string) (*models.Book, error)
	ActiveBooks(ctx context.Context) ([]models.Book, error)
}

// AnalyticsStore persists per-book analytics records, the engine's only
// durable output.
type AnalyticsStore interface {
	Upsert(ctx context.Context, rec *models.BookAnalytics) error
	All(ctx context.Context) ([]models.BookAnalytics, error)
}

// Engine computes forecasts, restock recommendations, and classification
// reports from read-only repositories. It holds no state of its own; every
// call recomputes from source data.
type Engine struct {
	sales     SalesReader
	inventory InventoryReader
	books     BookReader
	store     AnalyticsStore
	metrics   *metrics.Registry
}

// NewEngine wires the engine to its data sources.
func NewEngine(sales SalesReader, inventory InventoryReader, books BookReader, store AnalyticsStore, reg *metrics.Registry) *Engine {
	if reg == nil {
		reg = metrics.Default
	}
	return &Engine{
		sales:     sales,
		inventory: inventory,
		books:     books,
		store:     store,
		metrics:   reg,
	}
}

// ForecastDemand forecasts demand for a single book. Returns
// ErrBookNotFound when the book does not exist; an empty sales history is
// not an error and yields a zero-confidence forecast.
func (e *Engine) ForecastDemand(ctx context.Context, bookID string) (*models.DemandForecast, error) {
	book, err := e.books.Book(ctx, bookID)
	if err != nil {
		return nil, err
	}

	series, err := e.sales.DailySeries(ctx, bookID, DefaultLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales history for book %s: %w", bookID, err)
	}

	forecast := Forecast(series)
	forecast.BookID = book.ID
	forecast.BookTitle = book.Title

	e.metrics.ForecastsComputed.Inc()
	return &forecast, nil
}

// ForecastCatalog forecasts demand for every active book, sorted by 30-day
// prediction, highest first. A failure on one book is logged and skipped;
// it never aborts the batch.
func (e *Engine) ForecastCatalog(ctx context.Context) ([]models.DemandForecast, error) {
	books, err := e.books.ActiveBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	forecasts := make([]models.DemandForecast, 0, len(books))
	for _, book := range books {
		series, err := e.sales.DailySeries(ctx, book.ID, DefaultLookbackDays)
		if err != nil {
			log.Printf("Skipping forecast for book %s (%s): %v", book.ID, book.Title, err)
			e.metrics.BatchItemsSkipped.Inc()
			continue
		}

		forecast := Forecast(series)
		forecast.BookID = book.ID
		forecast.BookTitle = book.Title
		forecasts = append(forecasts, forecast)
		e.metrics.ForecastsComputed.Inc()
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].Predicted30Days > forecasts[j].Predicted30Days
	})

	return forecasts, nil
}

// RestockRecommendations builds the urgency-ranked portfolio restock list.
// Only books at or under minimum stock, or with high/critical urgency, are
// included. Per-book failures are logged and skipped.
func (e *Engine) RestockRecommendations(ctx context.Context) ([]models.RestockRecommendation, error) {
	stock, err := e.inventory.AllStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	e.metrics.RestockRuns.Inc()

	recs := make([]models.RestockRecommendation, 0, len(stock))
	for _, inv := range stock {
		book, err := e.books.Book(ctx, inv.BookID)
		if err != nil {
			log.Printf("Skipping restock for book %s: %v", inv.BookID, err)
			e.metrics.BatchItemsSkipped.Inc()
			continue
		}

		series, err := e.sales.DailySeries(ctx, inv.BookID, DefaultLookbackDays)
		if err != nil {
			log.Printf("Skipping restock for book %s (%s): %v", inv.BookID, book.Title, err)
			e.metrics.BatchItemsSkipped.Inc()
			continue
		}

		forecast := Forecast(series)
		rec := PlanRestock(inv, forecast, book.Price)
		if NeedsAttention(rec) {
			recs = append(recs, rec)
		}
	}

	SortRecommendations(recs)
	return recs, nil
}

// ABCAnalysis partitions windowed revenue into the three Pareto buckets.
func (e *Engine) ABCAnalysis(ctx context.Context, start, end time.Time) ([]models.ABCBucket, error) {
	revenues, err := e.sales.RevenueByBook(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return ABCBuckets(revenues), nil
}

// StockRotationReport segments every book with a persisted analytics record
// by rotation behavior, using current stock levels.
func (e *Engine) StockRotationReport(ctx context.Context) (*models.StockRotationReport, error) {
	records, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read analytics records: %w", err)
	}

	stock, err := e.inventory.AllStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	stockByBook := make(map[string]models.Inventory, len(stock))
	for _, inv := range stock {
		stockByBook[inv.BookID] = inv
	}

	now := time.Now()
	profiles := make([]models.RotationProfile, 0, len(records))
	for _, rec := range records {
		inv := stockByBook[rec.BookID]
		profiles = append(profiles, RotationProfileFor(
			rec.BookID, inv.BookTitle, rec.SalesLast30Days, inv.CurrentStock, rec.LastSaleDate, now,
		))
	}

	report := BuildRotationReport(profiles)
	return &report, nil
}

// RefreshAnalytics recomputes and persists the analytics record for every
// active book. Per-book failures are logged and skipped; the number of
// refreshed records is returned.
func (e *Engine) RefreshAnalytics(ctx context.Context) (int, error) {
	books, err := e.books.ActiveBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list books: %w", err)
	}

	e.metrics.AnalyticsRefresh.Inc()

	now := time.Now()
	since30 := now.AddDate(0, 0, -30)
	updated := 0

	for _, book := range books {
		rec, err := e.computeAnalytics(ctx, book, since30, now)
		if err != nil {
			log.Printf("Skipping analytics refresh for book %s (%s): %v", book.ID, book.Title, err)
			e.metrics.BatchItemsSkipped.Inc()
			continue
		}
		if err := e.store.Upsert(ctx, rec); err != nil {
			log.Printf("Failed to persist analytics for book %s: %v", book.ID, err)
			e.metrics.BatchItemsSkipped.Inc()
			continue
		}
		updated++
	}

	return updated, nil
}

func (e *Engine) computeAnalytics(ctx context.Context, book models.Book, since30, now time.Time) (*models.BookAnalytics, error) {
	sales30, err := e.sales.UnitsSoldSince(ctx, book.ID, since30)
	if err != nil {
		return nil, err
	}

	first, last, err := e.sales.SaleDateBounds(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	currentStock, minStock, maxStock := 0, 0, 0
	inv, err := e.inventory.Stock(ctx, book.ID)
	if err == nil {
		currentStock, minStock, maxStock = inv.CurrentStock, inv.MinStock, inv.MaxStock
	} else if !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	series, err := e.sales.DailySeries(ctx, book.ID, DefaultLookbackDays)
	if err != nil {
		return nil, err
	}
	forecast := Forecast(series)

	profile := RotationProfileFor(book.ID, book.Title, sales30, currentStock, last, now)

	return &models.BookAnalytics{
		BookID:             book.ID,
		RotationRate:       profile.RotationRate,
		DaysToSell:         profile.DaysToSell,
		SalesLast30Days:    sales30,
		FirstSaleDate:      first,
		LastSaleDate:       last,
		PredictedDemand30:  forecast.Predicted30Days,
		RecommendedRestock: RecommendQuantity(currentStock, minStock, maxStock, forecast.Predicted30Days),
		LastCalculated:     now,
	}, nil
}

// Dashboard summarizes today/week/month sales plus top sellers and the
// low-stock count.
func (e *Engine) Dashboard(ctx context.Context) (*models.DashboardMetrics, error) {
	start := time.Now()
	defer func() {
		e.metrics.ReportLatencySec.Observe(time.Since(start).Seconds())
	}()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayMetrics, err := e.sales.MetricsSince(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to read today's metrics: %w", err)
	}
	weekMetrics, err := e.sales.MetricsSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly metrics: %w", err)
	}
	monthMetrics, err := e.sales.MetricsSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("failed to read monthly metrics: %w", err)
	}

	topSellers, err := e.sales.TopSellers(ctx, now.AddDate(0, 0, -30), 5)
	if err != nil {
		return nil, fmt.Errorf("failed to read top sellers: %w", err)
	}

	lowStock, err := e.inventory.LowStockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}

	return &models.DashboardMetrics{
		Today:         todayMetrics,
		Week:          weekMetrics,
		Month:         monthMetrics,
		TopSellers:    topSellers,
		LowStockCount: lowStock,
	}, nil
}

// SalesAnalytics builds the range report over completed sales.
func (e *Engine) SalesAnalytics(ctx context.Context, start, end time.Time) (*models.SalesAnalytics, error) {
	lines, err := e.sales.SaleLines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read sale lines: %w", err)
	}
	report := BuildSalesAnalytics(start, end, lines)
	return &report, nil
}

// Profitability applies the assumed cost ratio across groupings.
func (e *Engine) Profitability(ctx context.Context, start, end time.Time) (*models.ProfitabilityReport, error) {
	lines, err := e.sales.SaleLines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read sale lines: %w", err)
	}
	report := BuildProfitability(start, end, lines)
	return &report, nil
}

// Seasonality rolls the last twelve months of completed sales up by
// calendar position.
func (e *Engine) Seasonality(ctx context.Context) (*models.SeasonalityReport, error) {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)

	lines, err := e.sales.SaleLines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read sale lines: %w", err)
	}
	report := BuildSeasonality(lines)
	return &report, nil
}

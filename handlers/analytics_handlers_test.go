package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore/analytics"
	"bookstore/metrics"
	"bookstore/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves the analytics engine from fixed data, no database.
type stubSource struct {
	books  map[string]models.Book
	series map[string][]models.DailySales
}

func (s *stubSource) DailySeries(_ context.Context, bookID string, _ int) ([]models.DailySales, error) {
	return s.series[bookID], nil
}

func (s *stubSource) RevenueByBook(_ context.Context, _, _ time.Time) ([]models.BookRevenue, error) {
	return nil, nil
}

func (s *stubSource) SaleLines(_ context.Context, _, _ time.Time) ([]analytics.SaleLine, error) {
	return nil, nil
}

func (s *stubSource) UnitsSoldSince(_ context.Context, _ string, _ time.Time) (int, error) {
	return 0, nil
}

func (s *stubSource) SaleDateBounds(_ context.Context, _ string) (*time.Time, *time.Time, error) {
	return nil, nil, nil
}

func (s *stubSource) MetricsSince(_ context.Context, _ time.Time) (models.PeriodMetrics, error) {
	return models.PeriodMetrics{}, nil
}

func (s *stubSource) TopSellers(_ context.Context, _ time.Time, _ int) ([]models.TopSeller, error) {
	return nil, nil
}

func (s *stubSource) Stock(_ context.Context, _ string) (*models.Inventory, error) {
	return nil, analytics.ErrBookNotFound
}

func (s *stubSource) AllStock(_ context.Context) ([]models.Inventory, error) {
	return nil, nil
}

func (s *stubSource) LowStockCount(_ context.Context) (int, error) {
	return 0, nil
}

func (s *stubSource) Book(_ context.Context, bookID string) (*models.Book, error) {
	book, ok := s.books[bookID]
	if !ok {
		return nil, analytics.ErrBookNotFound
	}
	return &book, nil
}

func (s *stubSource) ActiveBooks(_ context.Context) ([]models.Book, error) {
	return nil, nil
}

func (s *stubSource) Upsert(_ context.Context, _ *models.BookAnalytics) error {
	return nil
}

func (s *stubSource) All(_ context.Context) ([]models.BookAnalytics, error) {
	return nil, nil
}

func setupForecastApp(t *testing.T, src *stubSource) *fiber.App {
	t.Helper()
	prev := engine
	engine = analytics.NewEngine(src, src, src, src, metrics.NewRegistry())
	t.Cleanup(func() { engine = prev })

	app := fiber.New()
	app.Get("/analytics/books/:bookId/forecast", HandleForecastBook)
	return app
}

func TestHandleForecastBookNotFound(t *testing.T) {
	app := setupForecastApp(t, &stubSource{books: map[string]models.Book{}})

	resp, err := app.Test(httptest.NewRequest("GET", "/analytics/books/missing/forecast", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleForecastBookSuccess(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.DailySales, 10)
	for i := range series {
		series[i] = models.DailySales{Date: start.AddDate(0, 0, i), Quantity: 2}
	}

	src := &stubSource{
		books:  map[string]models.Book{"b1": {ID: "b1", Title: "Dune", IsActive: true}},
		series: map[string][]models.DailySales{"b1": series},
	}
	app := setupForecastApp(t, src)

	resp, err := app.Test(httptest.NewRequest("GET", "/analytics/books/b1/forecast", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Status string                `json:"status"`
		Data   models.DemandForecast `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))

	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "Dune", envelope.Data.BookTitle)
	assert.Equal(t, 14, envelope.Data.Predicted7Days)
	assert.Equal(t, 60, envelope.Data.Predicted30Days)
	assert.Equal(t, 1.0, envelope.Data.Confidence)
}

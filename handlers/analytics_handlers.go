package handlers

import (
	"context"
	"errors"
	"log"

	"bookstore/analytics"
	"bookstore/metrics"
	"bookstore/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// engine is the shared analytics engine, wired to Postgres at startup.
var engine *analytics.Engine

// InitAnalytics wires the analytics engine to the database pool. Called
// once from main before the server starts.
func InitAnalytics(db *pgxpool.Pool) {
	store := analytics.NewPGStore(db)
	engine = analytics.NewEngine(store, store, store, store, metrics.Default)
}

// HandleForecastBook returns the demand forecast for a single book.
// GET /api/v1/analytics/books/:bookId/forecast
func HandleForecastBook(c *fiber.Ctx) error {
	bookID := c.Params("bookId")

	forecast, err := engine.ForecastDemand(context.Background(), bookID)
	if err != nil {
		if errors.Is(err, analytics.ErrBookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Book not found"})
		}
		log.Printf("Error forecasting demand for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to forecast demand"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": forecast})
}

// HandleForecastCatalog returns forecasts for every active book, sorted by
// 30-day prediction.
// GET /api/v1/analytics/forecast
func HandleForecastCatalog(c *fiber.Ctx) error {
	forecasts, err := engine.ForecastCatalog(context.Background())
	if err != nil {
		log.Printf("Error forecasting catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to forecast catalog"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": forecasts})
}

// HandleRestockRecommendations returns the urgency-ranked restock list.
// GET /api/v1/analytics/restock
func HandleRestockRecommendations(c *fiber.Ctx) error {
	recs, err := engine.RestockRecommendations(context.Background())
	if err != nil {
		log.Printf("Error building restock recommendations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build restock recommendations"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": recs})
}

// HandleABCAnalysis returns the Pareto revenue partition for a window.
// GET /api/v1/analytics/abc?startDate=...&endDate=...
func HandleABCAnalysis(c *fiber.Ctx) error {
	start, end, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date format"})
	}

	buckets, err := engine.ABCAnalysis(context.Background(), start, end)
	if err != nil {
		log.Printf("Error building ABC analysis: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build ABC analysis"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": buckets})
}

// HandleStockRotation returns the fast/slow/dead stock segmentation.
// GET /api/v1/analytics/rotation
func HandleStockRotation(c *fiber.Ctx) error {
	report, err := engine.StockRotationReport(context.Background())
	if err != nil {
		log.Printf("Error building stock rotation report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build rotation report"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": report})
}

// HandleRefreshAnalytics recomputes and persists per-book analytics.
// POST /api/v1/analytics/refresh
func HandleRefreshAnalytics(c *fiber.Ctx) error {
	updated, err := engine.RefreshAnalytics(context.Background())
	if err != nil {
		log.Printf("Error refreshing analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to refresh analytics"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"updated": updated}})
}

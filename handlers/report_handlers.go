package handlers

import (
	"context"
	"log"

	"bookstore/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleGetDashboard returns the back-office landing page summary.
// GET /api/v1/reports/dashboard
func HandleGetDashboard(c *fiber.Ctx) error {
	summary, err := engine.Dashboard(context.Background())
	if err != nil {
		log.Printf("Error building dashboard metrics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build dashboard"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

// HandleGetSalesAnalytics returns the range report over completed sales.
// GET /api/v1/reports/sales?startDate=...&endDate=...
func HandleGetSalesAnalytics(c *fiber.Ctx) error {
	start, end, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date format"})
	}

	report, err := engine.SalesAnalytics(context.Background(), start, end)
	if err != nil {
		log.Printf("Error building sales analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build sales analytics"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": report})
}

// HandleGetProfitability returns the assumed-margin profitability report.
// GET /api/v1/reports/profitability?startDate=...&endDate=...
func HandleGetProfitability(c *fiber.Ctx) error {
	start, end, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date format"})
	}

	report, err := engine.Profitability(context.Background(), start, end)
	if err != nil {
		log.Printf("Error building profitability report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build profitability report"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": report})
}

// HandleGetSeasonality returns month-of-year and day-of-week rollups over
// the last twelve months.
// GET /api/v1/reports/seasonality
func HandleGetSeasonality(c *fiber.Ctx) error {
	report, err := engine.Seasonality(context.Background())
	if err != nil {
		log.Printf("Error building seasonality report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build seasonality report"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": report})
}

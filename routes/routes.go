package routes

import (
	"bookstore/handlers"
	"bookstore/metrics"
	"bookstore/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Default.Handler()))

	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)
	auth.Post("/register", middleware.JWTMiddleware, middleware.AdminRequired, handlers.HandleRegister)

	// --- Catalog Routes ---
	books := api.Group("/books", middleware.JWTMiddleware)
	books.Get("/", handlers.HandleListBooks)
	books.Get("/:bookId", handlers.HandleGetBook)
	books.Post("/", middleware.StaffRequired, handlers.HandleCreateBook)
	books.Put("/:bookId", middleware.StaffRequired, handlers.HandleUpdateBook)
	books.Delete("/:bookId", middleware.AdminRequired, handlers.HandleDeleteBook)

	// --- Inventory Routes ---
	inventory := api.Group("/inventory", middleware.JWTMiddleware)
	inventory.Get("/low-stock", handlers.HandleListLowStock) // Must be before /:bookId
	inventory.Get("/:bookId", handlers.HandleGetInventory)
	inventory.Put("/:bookId", middleware.StaffRequired, handlers.HandleUpsertInventory)
	inventory.Post("/:bookId/adjust", middleware.StaffRequired, handlers.HandleAdjustStock)

	// --- Sales Routes ---
	sales := api.Group("/sales", middleware.JWTMiddleware)
	sales.Post("/", middleware.StaffRequired, handlers.HandleCreateSale)
	sales.Get("/", handlers.HandleListSales)
	sales.Get("/:saleId", handlers.HandleGetSale)
	sales.Put("/:saleId/status", middleware.StaffRequired, handlers.HandleUpdateSaleStatus)

	// --- Analytics Routes ---
	analytics := api.Group("/analytics", middleware.JWTMiddleware)
	analytics.Get("/forecast", handlers.HandleForecastCatalog)
	analytics.Get("/restock", handlers.HandleRestockRecommendations)
	analytics.Get("/abc", handlers.HandleABCAnalysis)
	analytics.Get("/rotation", handlers.HandleStockRotation)
	analytics.Post("/refresh", middleware.AdminRequired, handlers.HandleRefreshAnalytics)
	analytics.Get("/books/:bookId/forecast", handlers.HandleForecastBook)
	analytics.Get("/books/:bookId/insight", handlers.HandleGetBookInsight)

	// --- Report Routes ---
	reports := api.Group("/reports", middleware.JWTMiddleware)
	reports.Get("/dashboard", handlers.HandleGetDashboard)
	reports.Get("/sales", handlers.HandleGetSalesAnalytics)
	reports.Get("/profitability", handlers.HandleGetProfitability)
	reports.Get("/seasonality", handlers.HandleGetSeasonality)
}

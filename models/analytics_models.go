package models

import "time"

// DailySales is one day of completed-sale quantity for a book. Days without
// sales are absent from the series, not zero-filled; the forecaster's
// weighting depends on that.
type DailySales struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// Trend labels produced by the demand forecaster.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// DemandForecast is the short-horizon demand estimate for one book.
type DemandForecast struct {
	BookID          string  `json:"book_id"`
	BookTitle       string  `json:"book_title,omitempty"`
	Predicted7Days  int     `json:"predicted_7_days"`
	Predicted30Days int     `json:"predicted_30_days"`
	Confidence      float64 `json:"confidence"`
	Trend           string  `json:"trend"`
}

// Urgency tiers, ordered from most to least pressing.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// StockoutNever is the sentinel for "no measurable demand, effectively
// infinite runway".
const StockoutNever = 999

// RestockRecommendation is one row of the portfolio restock list.
type RestockRecommendation struct {
	BookID                     string  `json:"book_id"`
	BookTitle                  string  `json:"book_title,omitempty"`
	CurrentStock               int     `json:"current_stock"`
	MinStock                   int     `json:"min_stock"`
	RecommendedQuantity        int     `json:"recommended_quantity"`
	Urgency                    string  `json:"urgency"`
	EstimatedDaysUntilStockout int     `json:"estimated_days_until_stockout"`
	EstimatedCost              float64 `json:"estimated_cost"`
}

// BookRevenue is a book's completed-sale revenue inside a reporting window.
type BookRevenue struct {
	BookID  string  `json:"book_id"`
	Title   string  `json:"title"`
	Revenue float64 `json:"revenue"`
}

// BookRevenueShare is a BookRevenue annotated with its Pareto position.
type BookRevenueShare struct {
	BookID               string  `json:"book_id"`
	Title                string  `json:"title"`
	Revenue              float64 `json:"revenue"`
	PercentageOfTotal    float64 `json:"percentage_of_total"`
	CumulativePercentage float64 `json:"cumulative_percentage"`
}

// ABCSummary describes one bucket of the Pareto partition.
type ABCSummary struct {
	TotalRevenue         float64 `json:"total_revenue"`
	PercentageOfRevenue  float64 `json:"percentage_of_revenue"`
	BookCount            int     `json:"book_count"`
	PercentageOfProducts float64 `json:"percentage_of_products"`
}

// ABCBucket is one of the three Pareto categories (A, B, or C).
type ABCBucket struct {
	Category string             `json:"category"`
	Books    []BookRevenueShare `json:"books"`
	Summary  ABCSummary         `json:"summary"`
}

// RotationProfile describes how quickly a book's stock turns over.
type RotationProfile struct {
	BookID            string     `json:"book_id"`
	BookTitle         string     `json:"book_title,omitempty"`
	RotationRate      float64    `json:"rotation_rate"`
	DaysToSell        int        `json:"days_to_sell"`
	CurrentStock      int        `json:"current_stock"`
	LastSaleDate      *time.Time `json:"last_sale_date,omitempty"`
	DaysSinceLastSale int        `json:"days_since_last_sale,omitempty"`
}

// StockRotationReport segments the catalog by rotation behavior.
type StockRotationReport struct {
	FastMoving []RotationProfile     `json:"fast_moving"`
	SlowMoving []RotationProfile     `json:"slow_moving"`
	DeadStock  []RotationProfile     `json:"dead_stock"`
	Summary    RotationReportSummary `json:"summary"`
}

type RotationReportSummary struct {
	TotalBooks      int `json:"total_books"`
	FastMovingCount int `json:"fast_moving_count"`
	SlowMovingCount int `json:"slow_moving_count"`
	DeadStockCount  int `json:"dead_stock_count"`
}

// --- Aggregate reporting shapes ---

// PeriodMetrics is revenue and order count for a single window.
type PeriodMetrics struct {
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
	Units   int     `json:"units"`
}

// TopSeller is one row of the dashboard best-seller list.
type TopSeller struct {
	BookID       string  `json:"book_id"`
	Title        string  `json:"title"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// DashboardMetrics is the landing-page summary.
type DashboardMetrics struct {
	Today         PeriodMetrics `json:"today"`
	Week          PeriodMetrics `json:"week"`
	Month         PeriodMetrics `json:"month"`
	TopSellers    []TopSeller   `json:"top_sellers"`
	LowStockCount int           `json:"low_stock_count"`
}

// DailyRevenue is one day of the sales-analytics breakdown.
type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
	Units   int       `json:"units"`
}

// SalesAnalytics is the range report over completed sales.
type SalesAnalytics struct {
	StartDate         time.Time      `json:"start_date"`
	EndDate           time.Time      `json:"end_date"`
	TotalRevenue      float64        `json:"total_revenue"`
	TotalOrders       int            `json:"total_orders"`
	TotalUnits        int            `json:"total_units"`
	AverageOrderValue float64        `json:"average_order_value"`
	DailyBreakdown    []DailyRevenue `json:"daily_breakdown"`
}

// GroupProfit is profitability for one category/author/publisher group.
type GroupProfit struct {
	Name          string  `json:"name"`
	Revenue       float64 `json:"revenue"`
	EstimatedCost float64 `json:"estimated_cost"`
	GrossProfit   float64 `json:"gross_profit"`
	Margin        float64 `json:"margin"`
}

// ProfitabilityReport applies the assumed cost ratio across groupings.
type ProfitabilityReport struct {
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	CostRatio    float64       `json:"cost_ratio"`
	TotalRevenue float64       `json:"total_revenue"`
	TotalProfit  float64       `json:"total_profit"`
	ByCategory   []GroupProfit `json:"by_category"`
	ByAuthor     []GroupProfit `json:"by_author"`
	ByPublisher  []GroupProfit `json:"by_publisher"`
}

// SeasonBucket is one month-of-year or day-of-week rollup entry.
type SeasonBucket struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Units   int     `json:"units"`
	Orders  int     `json:"orders"`
}

// SeasonalityReport rolls completed sales up by calendar position.
type SeasonalityReport struct {
	ByMonth      []SeasonBucket `json:"by_month"`
	ByDayOfWeek  []SeasonBucket `json:"by_day_of_week"`
	BestMonth    string         `json:"best_month"`
	WorstMonth   string         `json:"worst_month"`
	BestWeekday  string         `json:"best_weekday"`
	WorstWeekday string         `json:"worst_weekday"`
}

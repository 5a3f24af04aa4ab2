package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// --- Core Models ---

// User represents a back-office user (admin or staff).
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book is a catalog entry.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Publisher string    `json:"publisher"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Inventory tracks stock levels for a single book.
type Inventory struct {
	BookID       string    `json:"book_id"`
	BookTitle    string    `json:"book_title,omitempty"`
	CurrentStock int       `json:"current_stock"`
	MinStock     int       `json:"min_stock"`
	MaxStock     int       `json:"max_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sale statuses. Only completed sales feed the analytics engine.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Sale is a customer order with its line items.
type Sale struct {
	ID          string     `json:"id"`
	Reference   string     `json:"reference"`
	Status      string     `json:"status"`
	TotalAmount float64    `json:"total_amount"`
	Items       []SaleItem `json:"items,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SaleItem is a single line of a sale.
type SaleItem struct {
	ID        string  `json:"id"`
	SaleID    string  `json:"sale_id"`
	BookID    string  `json:"book_id"`
	BookTitle string  `json:"book_title,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// BookAnalytics is the persisted, durable output of the analytics engine.
type BookAnalytics struct {
	BookID             string     `json:"book_id"`
	RotationRate       float64    `json:"rotation_rate"`
	DaysToSell         int        `json:"days_to_sell"`
	SalesLast30Days    int        `json:"sales_last_30_days"`
	FirstSaleDate      *time.Time `json:"first_sale_date,omitempty"`
	LastSaleDate       *time.Time `json:"last_sale_date,omitempty"`
	PredictedDemand30  int        `json:"predicted_demand_30"`
	RecommendedRestock int        `json:"recommended_restock"`
	LastCalculated     time.Time  `json:"last_calculated"`
}

// --- Requests ---

type CreateBookRequest struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

type UpdateBookRequest struct {
	Title     *string  `json:"title,omitempty"`
	Author    *string  `json:"author,omitempty"`
	Publisher *string  `json:"publisher,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
}

type UpsertInventoryRequest struct {
	CurrentStock *int `json:"current_stock,omitempty"`
	MinStock     *int `json:"min_stock,omitempty"`
	MaxStock     *int `json:"max_stock,omitempty"`
}

type AdjustStockRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

type CreateSaleRequest struct {
	Items []CreateSaleItemRequest `json:"items"`
}

type CreateSaleItemRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// --- Responses ---

type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

type PaginatedBooksResponse struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

type PaginatedSalesResponse struct {
	Sales      []Sale     `json:"sales"`
	Pagination Pagination `json:"pagination"`
}

package analytics

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"bookstore/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements the engine's reader and store interfaces on top of the
// shared pgx pool.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// DailySeries reads the per-day quantity series for one book. Only
// completed sales count; days are the sale's creation date; multiple lines
// for the same book on the same day are summed.
func (s *PGStore) DailySeries(ctx context.Context, bookID string, days int) ([]models.DailySales, error) {
	query := `
		SELECT DATE(s.created_at) AS sale_day, SUM(si.quantity)::int AS quantity
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		WHERE s.status = 'completed'
		  AND si.book_id = $1
		  AND s.created_at >= NOW() - make_interval(days => $2)
		GROUP BY sale_day
		ORDER BY sale_day
	`

	rows, err := s.db.Query(ctx, query, bookID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := []models.DailySales{}
	for rows.Next() {
		var d models.DailySales
		if err := rows.Scan(&d.Date, &d.Quantity); err != nil {
			log.Printf("Error scanning daily sales row for book %s: %v", bookID, err)
			continue
		}
		series = append(series, d)
	}
	return series, rows.Err()
}

func (s *PGStore) RevenueByBook(ctx context.Context, start, end time.Time) ([]models.BookRevenue, error) {
	query := `
		SELECT b.id, b.title, COALESCE(SUM(si.subtotal), 0) AS revenue
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		JOIN books b ON si.book_id = b.id
		WHERE s.status = 'completed'
		  AND s.created_at BETWEEN $1 AND $2
		GROUP BY b.id, b.title
		ORDER BY revenue DESC
	`

	rows, err := s.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenues := []models.BookRevenue{}
	for rows.Next() {
		var r models.BookRevenue
		if err := rows.Scan(&r.BookID, &r.Title, &r.Revenue); err != nil {
			log.Printf("Error scanning revenue row: %v", err)
			continue
		}
		revenues = append(revenues, r)
	}
	return revenues, rows.Err()
}

func (s *PGStore) SaleLines(ctx context.Context, start, end time.Time) ([]SaleLine, error) {
	query := `
		SELECT s.id, s.created_at, si.quantity, si.subtotal, b.category, b.author, b.publisher
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		JOIN books b ON si.book_id = b.id
		WHERE s.status = 'completed'
		  AND s.created_at BETWEEN $1 AND $2
		ORDER BY s.created_at
	`

	rows, err := s.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []SaleLine{}
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.SaleID, &l.CreatedAt, &l.Quantity, &l.Subtotal, &l.Category, &l.Author, &l.Publisher); err != nil {
			log.Printf("Error scanning sale line row: %v", err)
			continue
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *PGStore) UnitsSoldSince(ctx context.Context, bookID string, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(si.quantity), 0)::int
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		WHERE s.status = 'completed'
		  AND si.book_id = $1
		  AND s.created_at >= $2
	`

	var units int
	if err := s.db.QueryRow(ctx, query, bookID, since).Scan(&units); err != nil {
		return 0, err
	}
	return units, nil
}

func (s *PGStore) SaleDateBounds(ctx context.Context, bookID string) (*time.Time, *time.Time, error) {
	query := `
		SELECT MIN(s.created_at), MAX(s.created_at)
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		WHERE s.status = 'completed'
		  AND si.book_id = $1
	`

	var first, last sql.NullTime
	if err := s.db.QueryRow(ctx, query, bookID).Scan(&first, &last); err != nil {
		return nil, nil, err
	}

	var firstPtr, lastPtr *time.Time
	if first.Valid {
		firstPtr = &first.Time
	}
	if last.Valid {
		lastPtr = &last.Time
	}
	return firstPtr, lastPtr, nil
}

func (s *PGStore) MetricsSince(ctx context.Context, since time.Time) (models.PeriodMetrics, error) {
	var m models.PeriodMetrics

	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales
		WHERE status = 'completed' AND created_at >= $1
	`
	if err := s.db.QueryRow(ctx, query, since).Scan(&m.Revenue, &m.Orders); err != nil {
		return m, err
	}

	unitsQuery := `
		SELECT COALESCE(SUM(si.quantity), 0)::int
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		WHERE s.status = 'completed' AND s.created_at >= $1
	`
	if err := s.db.QueryRow(ctx, unitsQuery, since).Scan(&m.Units); err != nil {
		return m, err
	}

	return m, nil
}

func (s *PGStore) TopSellers(ctx context.Context, since time.Time, limit int) ([]models.TopSeller, error) {
	query := `
		SELECT b.id, b.title,
		       COALESCE(SUM(si.quantity), 0)::int AS quantity_sold,
		       COALESCE(SUM(si.subtotal), 0) AS revenue
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		JOIN books b ON si.book_id = b.id
		WHERE s.status = 'completed' AND s.created_at >= $1
		GROUP BY b.id, b.title
		ORDER BY revenue DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := []models.TopSeller{}
	for rows.Next() {
		var t models.TopSeller
		if err := rows.Scan(&t.BookID, &t.Title, &t.QuantitySold, &t.Revenue); err != nil {
			log.Printf("Error scanning top seller row: %v", err)
			continue
		}
		sellers = append(sellers, t)
	}
	return sellers, rows.Err()
}

func (s *PGStore) Stock(ctx context.Context, bookID string) (*models.Inventory, error) {
	query := `
		SELECT i.book_id, b.title, i.current_stock, i.min_stock, i.max_stock, i.updated_at
		FROM inventory i
		JOIN books b ON i.book_id = b.id
		WHERE i.book_id = $1
	`

	var inv models.Inventory
	err := s.db.QueryRow(ctx, query, bookID).Scan(
		&inv.BookID, &inv.BookTitle, &inv.CurrentStock, &inv.MinStock, &inv.MaxStock, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (s *PGStore) AllStock(ctx context.Context) ([]models.Inventory, error) {
	query := `
		SELECT i.book_id, b.title, i.current_stock, i.min_stock, i.max_stock, i.updated_at
		FROM inventory i
		JOIN books b ON i.book_id = b.id
		WHERE b.is_active = TRUE
		ORDER BY b.title
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stock := []models.Inventory{}
	for rows.Next() {
		var inv models.Inventory
		if err := rows.Scan(&inv.BookID, &inv.BookTitle, &inv.CurrentStock, &inv.MinStock, &inv.MaxStock, &inv.UpdatedAt); err != nil {
			log.Printf("Error scanning inventory row: %v", err)
			continue
		}
		stock = append(stock, inv)
	}
	return stock, rows.Err()
}

func (s *PGStore) LowStockCount(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM inventory i
		JOIN books b ON i.book_id = b.id
		WHERE b.is_active = TRUE AND i.current_stock <= i.min_stock
	`

	var count int
	if err := s.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *PGStore) Book(ctx context.Context, bookID string) (*models.Book, error) {
	query := `
		SELECT id, title, author, publisher, category, price, is_active, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var b models.Book
	err := s.db.QueryRow(ctx, query, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Price, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *PGStore) ActiveBooks(ctx context.Context) ([]models.Book, error) {
	query := `
		SELECT id, title, author, publisher, category, price, is_active, created_at, updated_at
		FROM books
		WHERE is_active = TRUE
		ORDER BY title
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Price, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			log.Printf("Error scanning book row: %v", err)
			continue
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *PGStore) Upsert(ctx context.Context, rec *models.BookAnalytics) error {
	query := `
		INSERT INTO book_analytics (
			book_id, rotation_rate, days_to_sell, sales_last_30_days,
			first_sale_date, last_sale_date, predicted_demand_30,
			recommended_restock, last_calculated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (book_id) DO UPDATE SET
			rotation_rate = EXCLUDED.rotation_rate,
			days_to_sell = EXCLUDED.days_to_sell,
			sales_last_30_days = EXCLUDED.sales_last_30_days,
			first_sale_date = EXCLUDED.first_sale_date,
			last_sale_date = EXCLUDED.last_sale_date,
			predicted_demand_30 = EXCLUDED.predicted_demand_30,
			recommended_restock = EXCLUDED.recommended_restock,
			last_calculated = EXCLUDED.last_calculated
	`

	_, err := s.db.Exec(ctx, query,
		rec.BookID, rec.RotationRate, rec.DaysToSell, rec.SalesLast30Days,
		rec.FirstSaleDate, rec.LastSaleDate, rec.PredictedDemand30,
		rec.RecommendedRestock, rec.LastCalculated,
	)
	return err
}

func (s *PGStore) All(ctx context.Context) ([]models.BookAnalytics, error) {
	query := `
		SELECT book_id, rotation_rate, days_to_sell, sales_last_30_days,
		       first_sale_date, last_sale_date, predicted_demand_30,
		       recommended_restock, last_calculated
		FROM book_analytics
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.BookAnalytics{}
	for rows.Next() {
		var rec models.BookAnalytics
		var first, last sql.NullTime
		if err := rows.Scan(
			&rec.BookID, &rec.RotationRate, &rec.DaysToSell, &rec.SalesLast30Days,
			&first, &last, &rec.PredictedDemand30, &rec.RecommendedRestock, &rec.LastCalculated,
		); err != nil {
			log.Printf("Error scanning analytics row: %v", err)
			continue
		}
		if first.Valid {
			rec.FirstSaleDate = &first.Time
		}
		if last.Valid {
			rec.LastSaleDate = &last.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

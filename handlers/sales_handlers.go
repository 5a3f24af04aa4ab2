package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"bookstore/database"
	"bookstore/models"
	"bookstore/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HandleCreateSale records a sale and decrements stock for each line, all
// inside one transaction. The sale starts in 'pending' status.
func HandleCreateSale(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	var req models.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Sale must have at least one item"})
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Item quantities must be positive"})
		}
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	reference, err := utils.GenerateSaleReference(ctx, tx)
	if err != nil {
		log.Printf("Error generating sale reference: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
	}

	sale := models.Sale{
		ID:        uuid.New().String(),
		Reference: reference,
		Status:    models.SaleStatusPending,
		Items:     []models.SaleItem{},
	}

	for _, item := range req.Items {
		// Current catalog price is captured on the line
		var title string
		var price float64
		err := tx.QueryRow(ctx, "SELECT title, price FROM books WHERE id = $1 AND is_active = TRUE", item.BookID).Scan(&title, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Book not found: " + item.BookID})
			}
			log.Printf("Error fetching book %s for sale: %v", item.BookID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
		}

		// Decrement stock, refusing to oversell
		var remaining int
		err = tx.QueryRow(ctx, `
			UPDATE inventory
			SET current_stock = current_stock - $1, updated_at = NOW()
			WHERE book_id = $2 AND current_stock >= $1
			RETURNING current_stock
		`, item.Quantity, item.BookID).Scan(&remaining)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Insufficient stock for book: " + title})
			}
			log.Printf("Error decrementing stock for book %s: %v", item.BookID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
		}

		line := models.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			BookID:    item.BookID,
			BookTitle: title,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Subtotal:  price * float64(item.Quantity),
		}
		sale.Items = append(sale.Items, line)
		sale.TotalAmount += line.Subtotal
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO sales (id, reference, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, sale.ID, sale.Reference, sale.Status, sale.TotalAmount).Scan(&sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		log.Printf("Error inserting sale: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
	}

	for _, line := range sale.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, book_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, line.ID, line.SaleID, line.BookID, line.Quantity, line.UnitPrice, line.Subtotal)
		if err != nil {
			log.Printf("Error inserting sale item for sale %s: %v", sale.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit sale"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": sale})
}

// Allowed sale status transitions.
var saleTransitions = map[string]map[string]bool{
	models.SaleStatusPending:   {models.SaleStatusCompleted: true, models.SaleStatusCancelled: true},
	models.SaleStatusCompleted: {models.SaleStatusRefunded: true},
}

// HandleUpdateSaleStatus moves a sale through its lifecycle. Cancelling or
// refunding returns the sold units to stock.
func HandleUpdateSaleStatus(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	saleID := c.Params("saleId")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var currentStatus string
	err = tx.QueryRow(ctx, "SELECT status FROM sales WHERE id = $1 FOR UPDATE", saleID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Sale not found"})
		}
		log.Printf("Error fetching sale %s: %v", saleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update sale"})
	}

	if !saleTransitions[currentStatus][req.Status] {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Invalid status transition from " + currentStatus + " to " + req.Status})
	}

	// Cancelled and refunded sales put their units back on the shelf
	if req.Status == models.SaleStatusCancelled || req.Status == models.SaleStatusRefunded {
		_, err = tx.Exec(ctx, `
			UPDATE inventory i
			SET current_stock = i.current_stock + si.quantity, updated_at = NOW()
			FROM sale_items si
			WHERE si.sale_id = $1 AND si.book_id = i.book_id
		`, saleID)
		if err != nil {
			log.Printf("Error restocking for sale %s: %v", saleID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to restock items"})
		}
	}

	_, err = tx.Exec(ctx, "UPDATE sales SET status = $1, updated_at = NOW() WHERE id = $2", req.Status, saleID)
	if err != nil {
		log.Printf("Error updating sale %s status: %v", saleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update sale"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"sale_id": saleID, "sale_status": req.Status}})
}

// HandleGetSale returns one sale with its line items.
func HandleGetSale(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	saleID := c.Params("saleId")

	var sale models.Sale
	err := db.QueryRow(ctx, `
		SELECT id, reference, status, total_amount, created_at, updated_at
		FROM sales WHERE id = $1
	`, saleID).Scan(&sale.ID, &sale.Reference, &sale.Status, &sale.TotalAmount, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Sale not found"})
		}
		log.Printf("Error fetching sale %s: %v", saleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch sale"})
	}

	rows, err := db.Query(ctx, `
		SELECT si.id, si.sale_id, si.book_id, b.title, si.quantity, si.unit_price, si.subtotal
		FROM sale_items si
		JOIN books b ON si.book_id = b.id
		WHERE si.sale_id = $1
	`, saleID)
	if err != nil {
		log.Printf("Error fetching items for sale %s: %v", saleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch sale items"})
	}
	defer rows.Close()

	sale.Items = []models.SaleItem{}
	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.BookID, &item.BookTitle, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			log.Printf("Error scanning sale item: %v", err)
			continue
		}
		sale.Items = append(sale.Items, item)
	}

	return c.JSON(fiber.Map{"status": "success", "data": sale})
}

// HandleListSales returns a paginated sale list with optional status and
// date filters.
func HandleListSales(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	status := c.Query("status")

	start, end, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date format"})
	}

	where := "WHERE created_at BETWEEN $1 AND $2"
	args := []interface{}{start, end}
	if status != "" {
		args = append(args, status)
		where += " AND status = $3"
	}

	var totalItems int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM sales "+where, args...).Scan(&totalItems); err != nil {
		log.Printf("Error counting sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch sales"})
	}

	pagination := utils.CreatePagination(totalItems, page, pageSize)

	args = append(args, pagination.PageSize, (pagination.CurrentPage-1)*pagination.PageSize)
	query := "SELECT id, reference, status, total_amount, created_at, updated_at FROM sales " + where +
		" ORDER BY created_at DESC" +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch sales"})
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		var sale models.Sale
		if err := rows.Scan(&sale.ID, &sale.Reference, &sale.Status, &sale.TotalAmount, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
			log.Printf("Error scanning sale row: %v", err)
			continue
		}
		sales = append(sales, sale)
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"sales": sales, "pagination": pagination}})
}

package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"bookstore/database"
	"bookstore/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// HandleGetInventory returns stock levels for one book.
func HandleGetInventory(c *fiber.Ctx) error {
	bookID := c.Params("bookId")

	query := `
		SELECT i.book_id, b.title, i.current_stock, i.min_stock, i.max_stock, i.updated_at
		FROM inventory i
		JOIN books b ON i.book_id = b.id
		WHERE i.book_id = $1
	`

	var inv models.Inventory
	err := database.GetDB().QueryRow(context.Background(), query, bookID).Scan(
		&inv.BookID, &inv.BookTitle, &inv.CurrentStock, &inv.MinStock, &inv.MaxStock, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No inventory record for this book"})
		}
		log.Printf("Error fetching inventory for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch inventory"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": inv})
}

// HandleUpsertInventory creates or updates stock levels for a book.
func HandleUpsertInventory(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	bookID := c.Params("bookId")

	var req models.UpsertInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	// Start from the existing record (or zeros) so partial updates work.
	current := models.Inventory{BookID: bookID}
	err := db.QueryRow(ctx,
		"SELECT current_stock, min_stock, max_stock FROM inventory WHERE book_id = $1", bookID,
	).Scan(&current.CurrentStock, &current.MinStock, &current.MaxStock)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Error reading inventory for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read inventory"})
	}

	if req.CurrentStock != nil {
		current.CurrentStock = *req.CurrentStock
	}
	if req.MinStock != nil {
		current.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		current.MaxStock = *req.MaxStock
	}

	if current.CurrentStock < 0 || current.MinStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Stock levels cannot be negative"})
	}
	if current.MaxStock < current.MinStock {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "max_stock cannot be below min_stock"})
	}

	query := `
		INSERT INTO inventory (book_id, current_stock, min_stock, max_stock, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (book_id) DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			min_stock = EXCLUDED.min_stock,
			max_stock = EXCLUDED.max_stock,
			updated_at = NOW()
		RETURNING book_id, current_stock, min_stock, max_stock, updated_at
	`

	var inv models.Inventory
	err = db.QueryRow(ctx, query, bookID, current.CurrentStock, current.MinStock, current.MaxStock).Scan(
		&inv.BookID, &inv.CurrentStock, &inv.MinStock, &inv.MaxStock, &inv.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error upserting inventory for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update inventory"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": inv})
}

// HandleAdjustStock applies a signed stock adjustment and records the
// movement inside one transaction.
func HandleAdjustStock(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	userID, _ := c.Locals("userID").(string)
	bookID := c.Params("bookId")

	var req models.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	// Update stock quantity, refusing to go negative
	var newQuantity int
	updateQuery := `
		UPDATE inventory
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE book_id = $2 AND current_stock + $1 >= 0
		RETURNING current_stock
	`
	if err := tx.QueryRow(ctx, updateQuery, req.Quantity, bookID).Scan(&newQuantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "No inventory record for this book or adjustment would go negative"})
		}
		log.Printf("Error adjusting stock for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to adjust stock"})
	}

	// Log the movement
	logQuery := `
		INSERT INTO stock_movements (book_id, user_id, movement_type, quantity_changed, new_quantity, reason, movement_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, logQuery, bookID, userID, "adjustment", req.Quantity, newQuantity, req.Reason, time.Now())
	if err != nil {
		log.Printf("Error logging stock movement for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to log stock movement"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"book_id": bookID, "current_stock": newQuantity}})
}

// HandleListLowStock lists books at or below their minimum stock level.
func HandleListLowStock(c *fiber.Ctx) error {
	query := `
		SELECT i.book_id, b.title, i.current_stock, i.min_stock, i.max_stock, i.updated_at
		FROM inventory i
		JOIN books b ON i.book_id = b.id
		WHERE b.is_active = TRUE AND i.current_stock <= i.min_stock
		ORDER BY i.current_stock - i.min_stock
	`

	rows, err := database.GetDB().Query(context.Background(), query)
	if err != nil {
		log.Printf("Error fetching low stock list: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch low stock list"})
	}
	defer rows.Close()

	items := []models.Inventory{}
	for rows.Next() {
		var inv models.Inventory
		if err := rows.Scan(&inv.BookID, &inv.BookTitle, &inv.CurrentStock, &inv.MinStock, &inv.MaxStock, &inv.UpdatedAt); err != nil {
			log.Printf("Error scanning low stock row: %v", err)
			continue
		}
		items = append(items, inv)
	}

	return c.JSON(fiber.Map{"status": "success", "data": items})
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"bookstore/database"
	"bookstore/models"
	"bookstore/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HandleListBooks returns a paginated page of the catalog, with optional
// title/author search and category filter.
func HandleListBooks(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	search := c.Query("search")
	category := c.Query("category")

	where := "WHERE is_active = TRUE"
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d)", len(args), len(args))
	}
	if category != "" {
		args = append(args, category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var totalItems int
	countQuery := "SELECT COUNT(*) FROM books " + where
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		log.Printf("Error counting books: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch books"})
	}

	pagination := utils.CreatePagination(totalItems, page, pageSize)

	args = append(args, pagination.PageSize, (pagination.CurrentPage-1)*pagination.PageSize)
	query := fmt.Sprintf(`
		SELECT id, title, author, publisher, category, price, is_active, created_at, updated_at
		FROM books %s
		ORDER BY title
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching books: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch books"})
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

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"books": books, "pagination": pagination}})
}

// HandleGetBook returns a single book by id.
func HandleGetBook(c *fiber.Ctx) error {
	bookID := c.Params("bookId")

	query := `
		SELECT id, title, author, publisher, category, price, is_active, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var b models.Book
	err := database.GetDB().QueryRow(context.Background(), query, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Price, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Book not found"})
		}
		log.Printf("Error fetching book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch book"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": b})
}

// HandleCreateBook adds a catalog entry.
func HandleCreateBook(c *fiber.Ctx) error {
	var req models.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	if req.Title == "" || req.Author == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing required fields (title, author)"})
	}
	if req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Price cannot be negative"})
	}

	query := `
		INSERT INTO books (id, title, author, publisher, category, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, author, publisher, category, price, is_active, created_at, updated_at
	`

	var b models.Book
	err := database.GetDB().QueryRow(context.Background(), query,
		uuid.New().String(), req.Title, req.Author, req.Publisher, req.Category, req.Price,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Price, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		log.Printf("Error creating book: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create book"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": b})
}

// HandleUpdateBook updates the provided fields of a book.
func HandleUpdateBook(c *fiber.Ctx) error {
	bookID := c.Params("bookId")

	var req models.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	set := "updated_at = NOW()"
	args := []interface{}{}
	addField := func(column string, value interface{}) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if req.Title != nil {
		addField("title", *req.Title)
	}
	if req.Author != nil {
		addField("author", *req.Author)
	}
	if req.Publisher != nil {
		addField("publisher", *req.Publisher)
	}
	if req.Category != nil {
		addField("category", *req.Category)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Price cannot be negative"})
		}
		addField("price", *req.Price)
	}
	if req.IsActive != nil {
		addField("is_active", *req.IsActive)
	}

	args = append(args, bookID)
	query := fmt.Sprintf(`
		UPDATE books SET %s
		WHERE id = $%d
		RETURNING id, title, author, publisher, category, price, is_active, created_at, updated_at
	`, set, len(args))

	var b models.Book
	err := database.GetDB().QueryRow(context.Background(), query, args...).Scan(
		&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Price, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Book not found"})
		}
		log.Printf("Error updating book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update book"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": b})
}

// HandleDeleteBook soft-deletes a book so history stays intact.
func HandleDeleteBook(c *fiber.Ctx) error {
	bookID := c.Params("bookId")

	tag, err := database.GetDB().Exec(context.Background(),
		"UPDATE books SET is_active = FALSE, updated_at = NOW() WHERE id = $1", bookID)
	if err != nil {
		log.Printf("Error deleting book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete book"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Book not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Book deleted"})
}

package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenerateSaleReference generates a unique sale reference in the format SALE-YYYY-NNNN
// where YYYY is the current year and NNNN is a sequential number.
func GenerateSaleReference(ctx context.Context, db interface{}) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SALE-%d-", year)

	// Query to find the latest reference for this year
	query := `
		SELECT reference
		FROM sales
		WHERE reference LIKE $1
		ORDER BY reference DESC
		LIMIT 1
	`
	pattern := fmt.Sprintf("SALE-%d-%%", year)

	var lastReference string
	var err error

	// Handle both pgxpool.Pool and pgx.Tx types
	switch v := db.(type) {
	case *pgxpool.Pool:
		err = v.QueryRow(ctx, query, pattern).Scan(&lastReference)
	case pgx.Tx:
		err = v.QueryRow(ctx, query, pattern).Scan(&lastReference)
	default:
		return "", fmt.Errorf("unsupported database type")
	}

	// If no sale exists for this year, start at 0001
	if err != nil {
		if err.Error() == "no rows in result set" {
			return fmt.Sprintf("%s%04d", prefix, 1), nil
		}
		return "", fmt.Errorf("failed to query last sale reference: %w", err)
	}

	// Extract the sequential number from the last reference
	var lastSeq int
	_, err = fmt.Sscanf(lastReference, prefix+"%d", &lastSeq)
	if err != nil {
		// If parsing fails, start fresh
		return fmt.Sprintf("%s%04d", prefix, 1), nil
	}

	// Increment and return
	newSeq := lastSeq + 1
	return fmt.Sprintf("%s%04d", prefix, newSeq), nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookstore/analytics"
	"bookstore/config"
	"bookstore/database"
	"bookstore/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// BookInsight is the AI narrative layered over the deterministic forecast.
type BookInsight struct {
	ReportName      string                `json:"reportName"`
	GeneratedAt     time.Time             `json:"generatedAt"`
	BookTitle       string                `json:"bookTitle"`
	CurrentStock    int                   `json:"currentStock"`
	Forecast        models.DemandForecast `json:"forecast"`
	Summary         string                `json:"summary"`
	PositiveFactors []string              `json:"positive_factors"`
	NegativeFactors []string              `json:"negative_factors"`
}

// HandleGetBookInsight asks Gemini for a qualitative read on a book's
// demand picture. The numbers come from the deterministic forecaster; the
// model only supplies the narrative.
// GET /api/v1/analytics/books/:bookId/insight
func HandleGetBookInsight(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	bookID := c.Params("bookId")

	forecast, err := engine.ForecastDemand(ctx, bookID)
	if err != nil {
		if errors.Is(err, analytics.ErrBookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Book not found"})
		}
		log.Printf("Error forecasting demand for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to forecast demand"})
	}

	var currentStock int
	_ = db.QueryRow(ctx, "SELECT current_stock FROM inventory WHERE book_id = $1", bookID).Scan(&currentStock)

	store := analytics.NewPGStore(db)
	series, err := store.DailySeries(ctx, bookID, analytics.DefaultLookbackDays)
	if err != nil {
		log.Printf("Error fetching sales history for book %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to get historical data"})
	}

	prompt := constructInsightPrompt(forecast, currentStock, series)

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to connect to AI service"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.5-flash-lite")

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Error from Gemini API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate insight from AI"})
	}

	insight, err := parseInsightResponse(resp, forecast, currentStock)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "data": insight})
}

// constructInsightPrompt builds the Gemini prompt from the deterministic
// forecast and raw history.
func constructInsightPrompt(forecast *models.DemandForecast, currentStock int, series []models.DailySales) string {
	dataStr := ""
	for _, d := range series {
		dataStr += fmt.Sprintf("On %s, %d units were sold.\n", d.Date.Format("2006-01-02"), d.Quantity)
	}
	if dataStr == "" {
		dataStr = "No sales data available for the last 90 days."
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert bookstore inventory analyst. Review the forecast below and provide a brief qualitative analysis.

        **Analysis Context:**
        - Book Title: %s
        - Current Stock Level: %d units
        - Predicted demand next 7 days: %d units
        - Predicted demand next 30 days: %d units
        - Forecast confidence: %.2f
        - Trend: %s
        - Today's Date: %s

        **Historical Sales Data (last 90 days):**
        %s

        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, forecast.BookTitle, currentStock, forecast.Predicted7Days, forecast.Predicted30Days,
		forecast.Confidence, forecast.Trend, time.Now().Format("2006-01-02"), dataStr, jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseInsightResponse parses the JSON from Gemini into a structured response.
func parseInsightResponse(resp *genai.GenerateContentResponse, forecast *models.DemandForecast, currentStock int) (*BookInsight, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var geminiText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			geminiText += string(txt)
		}
	}

	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	// Clean the response to get only the JSON object
	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Printf("Could not extract JSON from Gemini response: %s", geminiText)
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var geminiJSON struct {
		Summary         string   `json:"summary"`
		PositiveFactors []string `json:"positive_factors"`
		NegativeFactors []string `json:"negative_factors"`
	}

	if err := json.Unmarshal([]byte(jsonStr), &geminiJSON); err != nil {
		log.Printf("Error parsing Gemini JSON: %v\nRaw JSON: %s", err, jsonStr)
		return nil, fmt.Errorf("failed to parse AI insight data")
	}

	return &BookInsight{
		ReportName:      "Demand Insight",
		GeneratedAt:     time.Now(),
		BookTitle:       forecast.BookTitle,
		CurrentStock:    currentStock,
		Forecast:        *forecast,
		Summary:         geminiJSON.Summary,
		PositiveFactors: geminiJSON.PositiveFactors,
		NegativeFactors: geminiJSON.NegativeFactors,
	}, nil
}

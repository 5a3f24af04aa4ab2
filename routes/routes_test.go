package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMetricsEndpointIsPublic(t *testing.T) {
	app := fiber.New()
	SetupRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := fiber.New()
	SetupRoutes(app)

	paths := []string{
		"/api/v1/books",
		"/api/v1/inventory/low-stock",
		"/api/v1/analytics/restock",
		"/api/v1/reports/dashboard",
	}
	for _, path := range paths {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, "path %s", path)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	app := fiber.New()
	SetupRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/nothing-here", nil))
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

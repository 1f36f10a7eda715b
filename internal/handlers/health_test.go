package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedpulse/articles-api/internal/handlers"
)

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", handlers.HealthCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	decodeBody(t, resp, &got)
	assert.Equal(t, "ok", got["status"])
}

func TestReadyCheck(t *testing.T) {
	// Reuse the handler test app so /ready pings a live (in-memory) database.
	_, db, _ := newTestApp(t)

	app := fiber.New()
	app.Get("/ready", handlers.ReadyCheck(db))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	decodeBody(t, resp, &got)
	assert.Equal(t, "ready", got["status"])
}

func TestInfo(t *testing.T) {
	app := fiber.New()
	app.Get("/info", handlers.Info("staging"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/info", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got handlers.InfoResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, handlers.ServiceName, got.Service)
	assert.Equal(t, "staging", got.Environment)
	assert.Equal(t, handlers.Version, got.Version)
	assert.NotEmpty(t, got.GoVersion)
	assert.NotEmpty(t, got.StartedAt)
	assert.GreaterOrEqual(t, got.UptimeSeconds, int64(0))
}

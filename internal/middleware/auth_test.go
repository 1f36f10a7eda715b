package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedpulse/articles-api/internal/config"
	"github.com/feedpulse/articles-api/internal/middleware"
)

const testSecret = "test-secret"

// newAuthApp builds a tiny app with one open and one admin-only route behind
// the Auth middleware.
func newAuthApp(secret string) *fiber.App {
	cfg := &config.Config{JWTSecret: secret}
	app := fiber.New()
	app.Use(middleware.Auth(cfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"role":    c.Locals("userRole"),
			"subject": c.Locals("subject"),
		})
	})
	app.Post("/admin-only", middleware.RequireRole(middleware.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

// signToken mints an HS256 token with the given role and lifetime.
func signToken(t *testing.T, secret, role string, ttl time.Duration) string {
	t.Helper()
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "scoring-pipeline",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-ttl)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func request(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuth(t *testing.T) {
	t.Run("MissingHeader", func(t *testing.T) {
		app := newAuthApp(testSecret)
		resp := request(t, app, http.MethodGet, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		app := newAuthApp(testSecret)
		resp := request(t, app, http.MethodGet, "/whoami", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		app := newAuthApp(testSecret)
		token := signToken(t, "some-other-secret", middleware.RoleAdmin, time.Hour)
		resp := request(t, app, http.MethodGet, "/whoami", token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		app := newAuthApp(testSecret)
		token := signToken(t, testSecret, middleware.RoleAdmin, -time.Hour)
		resp := request(t, app, http.MethodGet, "/whoami", token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ValidToken", func(t *testing.T) {
		app := newAuthApp(testSecret)
		token := signToken(t, testSecret, middleware.RoleEditor, time.Hour)
		resp := request(t, app, http.MethodGet, "/whoami", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]string
		decodeBody(t, resp, &got)
		assert.Equal(t, middleware.RoleEditor, got["role"])
		assert.Equal(t, "scoring-pipeline", got["subject"])
	})

	t.Run("EmptyRoleDefaultsToViewer", func(t *testing.T) {
		app := newAuthApp(testSecret)
		token := signToken(t, testSecret, "", time.Hour)
		resp := request(t, app, http.MethodGet, "/whoami", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]string
		decodeBody(t, resp, &got)
		assert.Equal(t, middleware.RoleViewer, got["role"])
	})

	t.Run("DisabledWithoutSecret", func(t *testing.T) {
		// No JWT_SECRET configured: requests pass through with the admin role.
		app := newAuthApp("")
		resp := request(t, app, http.MethodGet, "/whoami", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]string
		decodeBody(t, resp, &got)
		assert.Equal(t, middleware.RoleAdmin, got["role"])
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("AllowsMatchingRole", func(t *testing.T) {
		app := newAuthApp(testSecret)
		token := signToken(t, testSecret, middleware.RoleAdmin, time.Hour)
		resp := request(t, app, http.MethodPost, "/admin-only", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RejectsInsufficientRole", func(t *testing.T) {
		app := newAuthApp(testSecret)
		token := signToken(t, testSecret, middleware.RoleViewer, time.Hour)
		resp := request(t, app, http.MethodPost, "/admin-only", token)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("RejectsWhenAuthSkipped", func(t *testing.T) {
		// RequireRole without Auth in front denies by default.
		app := fiber.New()
		app.Post("/locked", middleware.RequireRole(middleware.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusOK)
		})
		resp := request(t, app, http.MethodPost, "/locked", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

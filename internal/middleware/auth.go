// Package middleware contains HTTP middleware functions for the FeedPulse
// Articles API. Middleware sits between the HTTP server and route handlers —
// it runs on every request that passes through it, making it the right place
// for cross-cutting concerns like authentication, request identification, and
// role checks.
package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	// jwt parses and verifies JSON Web Tokens from the Authorization header
	"github.com/golang-jwt/jwt/v5"

	"github.com/feedpulse/articles-api/internal/config"
)

// Role values carried in the token's "role" claim.
// These are claim-level roles, not database records — the API has no user
// table, so whoever mints the tokens (the platform's auth service) decides
// which role each caller gets.
const (
	RoleAdmin  = "admin"  // Full access, including destructive operations
	RoleEditor = "editor" // Can create and modify article records
	RoleViewer = "viewer" // Read-only access
)

// Claims defines the data we expect inside a token payload.
// Besides the standard registered fields (Subject, ExpiresAt, IssuedAt, ...) we
// read one custom claim, "role", which drives the RequireRole checks below.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT fields: Subject (caller ID), ExpiresAt, IssuedAt, etc.
	Role                 string `json:"role"` // Custom claim: "admin", "editor", or "viewer"
}

// Auth returns a Fiber middleware handler that:
//  1. Validates the JWT from the "Authorization: Bearer <token>" header,
//     verifying the HS256 signature against the configured secret
//  2. Stores the caller's subject and role in the request context (c.Locals)
//     so downstream handlers and RequireRole can read them without re-parsing
//
// When no JWT_SECRET is configured the middleware is a no-op that grants the
// admin role: local development runs unauthenticated by design, and flipping
// auth on is purely a deployment concern.
//
// This is a closure — a function that returns another function, capturing cfg
// in its scope so it's available every time a request comes in.
func Auth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Development mode: no secret configured, skip verification entirely.
		if cfg.JWTSecret == "" {
			c.Locals("userRole", RoleAdmin)
			return c.Next()
		}

		// --- Step 1: Extract the token from the Authorization header ---
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		// --- Step 2: Parse and verify the JWT ---
		// The keyfunc pins the algorithm to HMAC before handing back the secret.
		// Without this check a malicious token could claim alg=none (or an
		// asymmetric algorithm) and bypass signature verification entirely.
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		// --- Step 3: Store caller info in the request context ---
		// c.Locals is a key-value store scoped to this single request.
		// Handlers and RequireRole read "subject" and "userRole" from here.
		role := claims.Role
		if role == "" {
			// Unknown or empty role — default to read-only (least privileged)
			role = RoleViewer
		}
		c.Locals("subject", claims.Subject)
		c.Locals("userRole", role)

		return c.Next()
	}
}

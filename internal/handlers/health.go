// Package handlers contains the HTTP route handler functions for the FeedPulse
// Articles API. Each handler corresponds to one API endpoint and is responsible
// for reading the request, performing any business logic, and writing a response.
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/feedpulse/articles-api/internal/database"
)

// HealthCheck handles GET /health.
// It returns a simple JSON response indicating the server is alive and reachable.
// This endpoint is intentionally lightweight — no database queries, no authentication.
// It's used by:
//   - Docker/Kubernetes liveness probes to decide if the container is healthy
//   - Load balancers to check whether to send traffic to this instance
//   - Developers checking if the server started correctly
//
//	@Summary		Liveness check
//	@Description	Reports whether the server process is alive. Performs no I/O.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func HealthCheck(c *fiber.Ctx) error {
	// fiber.Map is just a shorthand for map[string]interface{}.
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadyCheck returns a handler for GET /ready.
// Unlike the liveness probe, readiness actually touches the database: an
// instance whose Postgres link is gone can still be "alive" but must not
// receive traffic, so a failed ping answers 503 Service Unavailable.
//
//	@Summary		Readiness check
//	@Description	Reports whether the server can reach its database. Returns 503 when the database is unreachable.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/ready [get]
func ReadyCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// A short deadline keeps a hung database from hanging the probe —
		// orchestrators treat a slow probe the same as a failed one anyway.
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}

package handlers

// info.go — Service metadata endpoint.
// Deploy tooling and dashboards hit /info to see what is actually running:
// which version was deployed, in which environment, and for how long.

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is the service version reported by /info. Overridden at build time:
//
//	go build -ldflags "-X github.com/feedpulse/articles-api/internal/handlers.Version=1.4.2"
var Version = "dev"

// ServiceName is the stable identifier reported by /info.
const ServiceName = "feedpulse-articles-api"

// startTime marks process start; uptime in /info is measured from here.
var startTime = time.Now()

// InfoResponse is the body returned by GET /info.
type InfoResponse struct {
	Service       string `json:"service"`        // Stable service identifier
	Version       string `json:"version"`        // Build version (ldflags) or "dev"
	Environment   string `json:"environment"`    // "development", "staging", or "production"
	GoVersion     string `json:"go_version"`     // Runtime Go version, e.g. "go1.24.0"
	StartedAt     string `json:"started_at"`     // ISO 8601 timestamp of process start (UTC)
	UptimeSeconds int64  `json:"uptime_seconds"` // Whole seconds since process start
}

// Info returns a handler for GET /info.
//
//	@Summary		Service information
//	@Description	Returns service name, version, environment, and uptime metadata.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	InfoResponse
//	@Router			/info [get]
func Info(env string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(InfoResponse{
			Service:       ServiceName,
			Version:       Version,
			Environment:   env,
			GoVersion:     runtime.Version(),
			StartedAt:     startTime.UTC().Format(time.RFC3339),
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
		})
	}
}

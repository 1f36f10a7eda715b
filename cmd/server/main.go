// cmd/server/main.go
// This is the entry point for the FeedPulse Articles API server.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder
// holds executable binaries, and internal/ holds packages that are not meant
// to be imported by other projects.
package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing — allows browser dashboards to
	// talk to the API even though they're served from a different origin
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"
	// fiberSwagger serves the Swagger UI backed by the generated docs package
	fiberSwagger "github.com/gofiber/swagger"

	// Blank import: registers the generated OpenAPI document with swaggo so the
	// Swagger UI route below can find it.
	_ "github.com/feedpulse/articles-api/docs"
	"github.com/feedpulse/articles-api/internal/config"
	"github.com/feedpulse/articles-api/internal/database"
	"github.com/feedpulse/articles-api/internal/handlers"
	"github.com/feedpulse/articles-api/internal/middleware"
	"github.com/feedpulse/articles-api/internal/stream"
)

// General API documentation (picked up by swag when regenerating docs/):
//
//	@title			FeedPulse Articles API
//	@version		1.0.0
//	@description	REST API managing scored RSS article records: CRUD over the articles table, liveness/readiness probes, service metadata, and a live article event stream.
//	@description
//	@description	## Authentication
//	@description	When the deployment configures JWT_SECRET, all /api/v1 routes require a Bearer token signed with that secret (HS256). The token's "role" claim must be "admin" or "editor" for mutating operations. Without JWT_SECRET the API runs unauthenticated.
//
//	@contact.name	FeedPulse Engineering
//	@contact.email	engineering@feedpulse.io
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT token. Format: "Bearer {token}"
//
//	@tag.name	articles
//	@tag.description	CRUD and live streaming over scored article records
//
//	@tag.name	system
//	@tag.description	Health checks and service information
func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg := config.Load()

	// Connect to the PostgreSQL database. The returned *gorm.DB is used by the
	// handlers to run queries.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run any pending SQL migration files (in the migrations/ directory) so the
	// database schema is always in sync when the server starts.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create the article event hub and start it in a goroutine. The hub fans
	// article create/update/delete events out to stream subscribers; it runs in
	// the background without blocking the rest of startup.
	hub := stream.NewHub()
	go hub.Run()

	// Create a new Fiber app (our HTTP server).
	app := fiber.New(fiber.Config{
		AppName: "FeedPulse Articles API",
	})

	// --- Global middleware ---
	// These run on every request before any route handler.
	app.Use(middleware.RequestID())
	app.Use(logger.New())
	// cors.New() allows requests from any origin — fine for development.
	// In production, lock this down to your specific domains.
	app.Use(cors.New())

	// --- Public routes (no auth required) ---
	// GET /health is a liveness check for load balancers and orchestrators;
	// GET /ready additionally verifies the database link; GET /info reports
	// what build is running where.
	app.Get("/health", handlers.HealthCheck)
	app.Get("/ready", handlers.ReadyCheck(db))
	app.Get("/info", handlers.Info(cfg.Env))

	// Swagger UI, backed by the generated docs package.
	app.Get("/docs/*", fiberSwagger.HandlerDefault)

	// --- API routes ---
	// All routes under /api/v1 pass through the Auth middleware. When a
	// JWT_SECRET is configured it enforces Bearer tokens; otherwise it's a
	// no-op so local development works out of the box.
	//
	// Route group pattern: app.Group(prefix, middlewares...) applies the
	// middleware to every route registered on the returned group.
	api := app.Group("/api/v1", middleware.Auth(cfg))

	// Reads: any authenticated caller.
	api.Get("/articles", handlers.ListArticles(db))
	api.Get("/articles/stream", handlers.StreamArticles(hub))
	api.Get("/articles/:id", handlers.GetArticle(db))

	// Mutations: admins and editors only.
	canWrite := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleEditor)
	api.Post("/articles", canWrite, handlers.CreateArticle(db, hub))
	api.Put("/articles/:id", canWrite, handlers.ReplaceArticle(db, hub))
	api.Patch("/articles/:id", canWrite, handlers.PatchArticle(db, hub))
	api.Delete("/articles/:id", canWrite, handlers.DeleteArticle(db, hub))

	// Start listening for HTTP connections on the configured port.
	// ":" + cfg.Port produces a string like ":8080" — listen on all interfaces.
	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

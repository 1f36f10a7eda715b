// Package handlers contains HTTP route handler functions for the FeedPulse
// Articles API. This file handles the /api/v1/articles routes — the full CRUD
// surface over scored article records.
//
// An "article" is one record produced by the upstream RSS scoring pipeline:
// the article's metadata, the reasoning and tags the scoring model attached,
// three numeric scores, and the token costs of scoring it. This API is the
// system of record for those rows; the pipeline creates them and operators
// correct or prune them through these endpoints.
//
// Each exported function follows the "handler factory" pattern: it takes its
// dependencies (*gorm.DB, and the event hub for mutations) and returns a
// fiber.Handler. This lets us inject the database without global variables.
//
// Semantics worth calling out:
//   - Timestamps (create_date/update_date) are always server-assigned in UTC;
//     request bodies cannot set them.
//   - PUT replaces every field; PATCH changes only the fields present in the
//     body and silently ignores unknown keys.
//   - Every successful mutation publishes an event on the article stream so
//     live consumers see the change without polling.
package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/feedpulse/articles-api/internal/models"
	"github.com/feedpulse/articles-api/internal/stream"
)

// Pagination bounds for the list endpoint. The upper bound keeps a single
// request from dragging the whole table into memory.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ArticleResponse is what we send back to API consumers.
// We use a dedicated response struct (instead of the raw GORM model) so we
// control exactly which fields are serialised to JSON and how. The JSON keys
// match the legacy column names — dashboards built against the old service
// parse these exact names.
type ArticleResponse struct {
	ArticleID      uint    `json:"article_id"`      // Primary key
	Title          string  `json:"title"`           // Article headline
	Link           string  `json:"link"`            // URL of the article
	Summary        string  `json:"summary"`         // Model-produced summary
	Reasons        string  `json:"reasons"`         // Why the article was selected/scored
	Tags           string  `json:"tags"`            // Comma-separated keywords
	RelevancyScore int     `json:"relevancy_score"` // Relevance to configured interests
	UrgencyScore   int     `json:"urgency_score"`   // Time sensitivity
	OverallScore   int     `json:"overall_score"`   // Combined ranking score
	InputCost      float64 `json:"input_cost"`      // Token cost of the scoring input
	OutputCost     float64 `json:"output_cost"`     // Token cost of the scoring output
	TotalCost      float64 `json:"total_cost"`      // Combined cost
	Model          string  `json:"model"`           // Scoring model identifier
	CreateDate     string  `json:"create_date"`     // ISO 8601 timestamp (UTC)
	UpdateDate     string  `json:"update_date"`     // ISO 8601 timestamp (UTC)
}

// CreateArticleRequest is the JSON body we expect on POST /api/v1/articles and
// PUT /api/v1/articles/:id. Every field is required; the numeric fields are
// pointers so we can tell "the client sent 0" apart from "the client omitted
// the field" — a plain int would silently decode a missing key as 0.
type CreateArticleRequest struct {
	Title          *string  `json:"title"`
	Link           *string  `json:"link"`
	Summary        *string  `json:"summary"`
	Reasons        *string  `json:"reasons"`
	Tags           *string  `json:"tags"`
	RelevancyScore *int     `json:"relevancy_score"`
	UrgencyScore   *int     `json:"urgency_score"`
	OverallScore   *int     `json:"overall_score"`
	InputCost      *float64 `json:"input_cost"`
	OutputCost     *float64 `json:"output_cost"`
	TotalCost      *float64 `json:"total_cost"`
	Model          *string  `json:"model"`
}

// UpdateArticleRequest is the JSON body for PATCH /api/v1/articles/:id.
// Every field is optional: only the keys present in the body are applied.
// It has the same shape as CreateArticleRequest but none of the presence
// checks — a separate type keeps the two contracts from drifting into each
// other accidentally.
type UpdateArticleRequest struct {
	Title          *string  `json:"title"`
	Link           *string  `json:"link"`
	Summary        *string  `json:"summary"`
	Reasons        *string  `json:"reasons"`
	Tags           *string  `json:"tags"`
	RelevancyScore *int     `json:"relevancy_score"`
	UrgencyScore   *int     `json:"urgency_score"`
	OverallScore   *int     `json:"overall_score"`
	InputCost      *float64 `json:"input_cost"`
	OutputCost     *float64 `json:"output_cost"`
	TotalCost      *float64 `json:"total_cost"`
	Model          *string  `json:"model"`
}

// ErrorResponse documents the JSON body returned on failures.
// Handlers build these with fiber.Map; the struct exists so the generated API
// docs can reference a concrete schema.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse documents the confirmation body returned by DELETE.
type DeleteResponse struct {
	Detail string `json:"detail"`
}

// toResponse converts a GORM model into the API response shape, formatting the
// timestamps as ISO 8601 in UTC for easy parsing on the consumer side.
func toResponse(a *models.Article) ArticleResponse {
	return ArticleResponse{
		ArticleID:      a.ID,
		Title:          a.Title,
		Link:           a.Link,
		Summary:        a.Summary,
		Reasons:        a.Reasons,
		Tags:           a.Tags,
		RelevancyScore: a.RelevancyScore,
		UrgencyScore:   a.UrgencyScore,
		OverallScore:   a.OverallScore,
		InputCost:      a.InputCost,
		OutputCost:     a.OutputCost,
		TotalCost:      a.TotalCost,
		Model:          a.Model,
		CreateDate:     a.CreatedAt.UTC().Format(time.RFC3339),
		UpdateDate:     a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// validateCreate checks that every required field is present and returns the
// name of the first missing one. An empty return string means the request is
// complete. The field names in the error messages are the JSON keys, not the
// Go names — that's what the caller typed.
func validateCreate(req *CreateArticleRequest) string {
	switch {
	case req.Title == nil || *req.Title == "":
		return "title"
	case req.Link == nil || *req.Link == "":
		return "link"
	case req.Summary == nil || *req.Summary == "":
		return "summary"
	case req.Reasons == nil || *req.Reasons == "":
		return "reasons"
	case req.Tags == nil || *req.Tags == "":
		return "tags"
	case req.RelevancyScore == nil:
		return "relevancy_score"
	case req.UrgencyScore == nil:
		return "urgency_score"
	case req.OverallScore == nil:
		return "overall_score"
	case req.InputCost == nil:
		return "input_cost"
	case req.OutputCost == nil:
		return "output_cost"
	case req.TotalCost == nil:
		return "total_cost"
	case req.Model == nil || *req.Model == "":
		return "model"
	}
	return ""
}

// articleEvent is the payload published on the stream hub after a mutation.
type articleEvent struct {
	Action  string          `json:"action"` // "created", "updated", or "deleted"
	Article ArticleResponse `json:"article"`
}

// publishArticleEvent fans an article mutation out to stream subscribers.
// The event is published under each of the article's tags plus the firehose
// topic, so both tag followers and catch-all consumers see it exactly once.
// A nil hub (as in some tests) makes this a no-op.
func publishArticleEvent(hub *stream.Hub, action string, article *models.Article) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(articleEvent{Action: action, Article: toResponse(article)})
	if err != nil {
		return
	}
	topics := append(splitTags(article.Tags), stream.TopicFirehose)
	hub.Broadcast(topics, payload)
}

// queryInt reads an integer query parameter. It returns the fallback when the
// parameter is absent, and ok=false when it is present but not an integer —
// unlike fiber's QueryInt, which silently maps garbage to the default.
func queryInt(c *fiber.Ctx, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// splitTags turns the comma-separated tags column into a clean topic list,
// trimming whitespace and dropping empty entries ("AI, NLP," -> ["AI","NLP"]).
func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ListArticles returns a handler for GET /api/v1/articles.
//
//	@Summary		List articles
//	@Description	Returns a paginated list of scored article records, ordered by id. The X-Total-Count response header carries the total number of records.
//	@Tags			articles
//	@Produce		json
//	@Param			page	query	int	false	"Page number to retrieve (>= 1)"			default(1)
//	@Param			limit	query	int	false	"Number of records per page (1-100)"	default(10)
//	@Success		200	{array}		ArticleResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid pagination parameters"
//	@Failure		500	{object}	ErrorResponse	"Server error"
//	@Security		BearerAuth
//	@Router			/api/v1/articles [get]
func ListArticles(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Read pagination from the query string. Absent parameters fall back to
		// the defaults; present ones must be integers inside the allowed
		// ranges — non-numeric and out-of-range values are rejected, not
		// clamped or defaulted.
		page, ok := queryInt(c, "page", defaultPage)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "page must be an integer",
			})
		}
		limit, ok := queryInt(c, "limit", defaultLimit)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be an integer",
			})
		}

		if page < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "page must be >= 1",
			})
		}
		if limit < 1 || limit > maxLimit {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be between 1 and 100",
			})
		}

		// Total row count for the X-Total-Count header — consumers use it to
		// know when to stop paging.
		var total int64
		if err := db.Model(&models.Article{}).Count(&total).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count articles",
			})
		}

		offset := (page - 1) * limit
		var articles []models.Article
		if err := db.Order("article_id").Offset(offset).Limit(limit).Find(&articles).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch articles",
			})
		}

		// Build the response array. make with capacity 0..len so an empty page
		// serialises as [] rather than null.
		response := make([]ArticleResponse, 0, len(articles))
		for i := range articles {
			response = append(response, toResponse(&articles[i]))
		}

		c.Set("X-Total-Count", strconv.FormatInt(total, 10))
		return c.JSON(response)
	}
}

// GetArticle returns a handler for GET /api/v1/articles/:id.
//
//	@Summary		Get an article
//	@Description	Returns a single article record by its id.
//	@Tags			articles
//	@Produce		json
//	@Param			id	path	int	true	"Article id"
//	@Success		200	{object}	ArticleResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid id"
//	@Failure		404	{object}	ErrorResponse	"Article not found"
//	@Failure		500	{object}	ErrorResponse	"Server error"
//	@Security		BearerAuth
//	@Router			/api/v1/articles/{id} [get]
func GetArticle(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Only non-numeric ids are rejected here. Numeric ids that match no row
		// (including 0 and negatives) fall through to the 404 below — the
		// legacy service answered 404 for those, and clients depend on it.
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid article id",
			})
		}

		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound(c, id)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch article",
			})
		}

		return c.JSON(toResponse(&article))
	}
}

// CreateArticle returns a handler for POST /api/v1/articles.
// Requires the "admin" or "editor" role (enforced by RequireRole on the route).
//
//	@Summary		Create an article
//	@Description	Creates a new article record. All fields are required; create_date and update_date are assigned server-side.
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateArticleRequest	true	"Article to create"
//	@Success		201	{object}	ArticleResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid request body"
//	@Failure		500	{object}	ErrorResponse	"Server error"
//	@Security		BearerAuth
//	@Router			/api/v1/articles [post]
func CreateArticle(db *gorm.DB, hub *stream.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// c.BodyParser reads the body and unmarshals JSON fields that match the
		// struct tags.
		var req CreateArticleRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if missing := validateCreate(&req); missing != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": missing + " is required",
			})
		}

		// Build the Article struct — GORM will INSERT this row and populate the
		// ID and both timestamps (CreatedAt/UpdatedAt map to create_date and
		// update_date).
		article := models.Article{
			Title:          *req.Title,
			Link:           *req.Link,
			Summary:        *req.Summary,
			Reasons:        *req.Reasons,
			Tags:           *req.Tags,
			RelevancyScore: *req.RelevancyScore,
			UrgencyScore:   *req.UrgencyScore,
			OverallScore:   *req.OverallScore,
			InputCost:      *req.InputCost,
			OutputCost:     *req.OutputCost,
			TotalCost:      *req.TotalCost,
			Model:          *req.Model,
		}

		if err := db.Create(&article).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create article",
			})
		}

		publishArticleEvent(hub, "created", &article)

		return c.Status(fiber.StatusCreated).JSON(toResponse(&article))
	}
}

// ReplaceArticle returns a handler for PUT /api/v1/articles/:id.
// A PUT is a full replacement: every field is required, exactly like create.
// Requires the "admin" or "editor" role.
//
//	@Summary		Replace an article
//	@Description	Fully replaces an existing article record. All fields are required; update_date is bumped server-side.
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Article id"
//	@Param			request	body	CreateArticleRequest	true	"Full replacement data"
//	@Success		200	{object}	ArticleResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid id or request body"
//	@Failure		404	{object}	ErrorResponse	"Article not found"
//	@Failure		500	{object}	ErrorResponse	"Server error"
//	@Security		BearerAuth
//	@Router			/api/v1/articles/{id} [put]
func ReplaceArticle(db *gorm.DB, hub *stream.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid article id",
			})
		}

		var req CreateArticleRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if missing := validateCreate(&req); missing != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": missing + " is required",
			})
		}

		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound(c, id)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch article",
			})
		}

		// Overwrite every mutable field. The primary key and create_date are
		// untouched; Save bumps update_date automatically.
		article.Title = *req.Title
		article.Link = *req.Link
		article.Summary = *req.Summary
		article.Reasons = *req.Reasons
		article.Tags = *req.Tags
		article.RelevancyScore = *req.RelevancyScore
		article.UrgencyScore = *req.UrgencyScore
		article.OverallScore = *req.OverallScore
		article.InputCost = *req.InputCost
		article.OutputCost = *req.OutputCost
		article.TotalCost = *req.TotalCost
		article.Model = *req.Model

		if err := db.Save(&article).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update article",
			})
		}

		publishArticleEvent(hub, "updated", &article)

		return c.JSON(toResponse(&article))
	}
}

// PatchArticle returns a handler for PATCH /api/v1/articles/:id.
// Only the fields present in the body are applied; everything else keeps its
// current value. Unknown JSON keys are ignored. Requires "admin" or "editor".
//
//	@Summary		Update an article
//	@Description	Partially updates an existing article record. Only the provided fields change; update_date is bumped server-side.
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Article id"
//	@Param			request	body	UpdateArticleRequest	true	"Fields to update"
//	@Success		200	{object}	ArticleResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid id or request body"
//	@Failure		404	{object}	ErrorResponse	"Article not found"
//	@Failure		500	{object}	ErrorResponse	"Server error"
//	@Security		BearerAuth
//	@Router			/api/v1/articles/{id} [patch]
func PatchArticle(db *gorm.DB, hub *stream.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid article id",
			})
		}

		var req UpdateArticleRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound(c, id)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch article",
			})
		}

		// Apply only the fields the client actually sent. A nil pointer means
		// the key was absent from the body.
		if req.Title != nil {
			article.Title = *req.Title
		}
		if req.Link != nil {
			article.Link = *req.Link
		}
		if req.Summary != nil {
			article.Summary = *req.Summary
		}
		if req.Reasons != nil {
			article.Reasons = *req.Reasons
		}
		if req.Tags != nil {
			article.Tags = *req.Tags
		}
		if req.RelevancyScore != nil {
			article.RelevancyScore = *req.RelevancyScore
		}
		if req.UrgencyScore != nil {
			article.UrgencyScore = *req.UrgencyScore
		}
		if req.OverallScore != nil {
			article.OverallScore = *req.OverallScore
		}
		if req.InputCost != nil {
			article.InputCost = *req.InputCost
		}
		if req.OutputCost != nil {
			article.OutputCost = *req.OutputCost
		}
		if req.TotalCost != nil {
			article.TotalCost = *req.TotalCost
		}
		if req.Model != nil {
			article.Model = *req.Model
		}

		if err := db.Save(&article).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update article",
			})
		}

		publishArticleEvent(hub, "updated", &article)

		return c.JSON(toResponse(&article))
	}
}

// DeleteArticle returns a handler for DELETE /api/v1/articles/:id.
// Requires the "admin" or "editor" role.
//
//	@Summary		Delete an article
//	@Description	Deletes an article record by id and returns a confirmation message.
//	@Tags			articles
//	@Produce		json
//	@Param			id	path	int	true	"Article id"
//	@Success		200	{object}	DeleteResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid id"
//	@Failure		404	{object}	ErrorResponse	"Article not found"
//	@Failure		500	{object}	ErrorResponse	"Server error"
//	@Security		BearerAuth
//	@Router			/api/v1/articles/{id} [delete]
func DeleteArticle(db *gorm.DB, hub *stream.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid article id",
			})
		}

		// Fetch first so a delete of a missing row is a 404, not a silent no-op,
		// and so the stream event can carry the record's final state.
		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound(c, id)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch article",
			})
		}

		if err := db.Delete(&article).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete article",
			})
		}

		publishArticleEvent(hub, "deleted", &article)

		return c.JSON(fiber.Map{
			"detail": fmt.Sprintf("articles with id %d deleted successfully", id),
		})
	}
}

// notFound writes the standard 404 body for a missing article id.
// The wording matches the legacy service so existing client error handling
// keeps working.
func notFound(c *fiber.Ctx, id int) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": fmt.Sprintf("articles with id %d not found", id),
	})
}

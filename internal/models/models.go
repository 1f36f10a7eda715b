// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to
// Go values. The struct field tags (the backtick strings like `gorm:"..."`) tell
// GORM how to handle each field: its column name, type, and constraints.
//
// The data model is deliberately small: one table, "articles", holding the
// records produced by the upstream RSS scoring pipeline. Each row stores the
// article's metadata (title, link, summary), the reasoning and tags attached by
// the scoring model, the three numeric scores, and the token costs incurred
// while scoring it. This API is the system of record for those rows — other
// services create, correct, and prune them through the REST endpoints.
package models

import "time"

// Article represents one scored RSS article record.
//
// The column names are explicit (`gorm:"column:..."`) because the table predates
// this service: the scoring pipeline and its dashboards already read columns
// like article_id and create_date, so we map to the legacy names instead of
// letting GORM derive them from the field names.
type Article struct {
	// ID is the auto-incrementing primary key. Kept as the legacy "article_id"
	// column rather than a UUID so existing references stay valid.
	ID uint `gorm:"column:article_id;primaryKey"`

	Title   string `gorm:"size:256;not null"` // Article headline (max 256 characters)
	Link    string `gorm:"size:256;not null"` // URL of the article
	Summary string `gorm:"type:text;not null"` // Text summary produced by the scoring model
	Reasons string `gorm:"type:text;not null"` // Why the article was selected or scored the way it was
	Tags    string `gorm:"size:512;not null"`  // Comma-separated keywords, e.g. "AI,NLP,Research"

	RelevancyScore int `gorm:"not null"` // How relevant the article is to the configured interests
	UrgencyScore   int `gorm:"not null"` // How time-sensitive the article is
	OverallScore   int `gorm:"not null"` // Combined score used for ranking

	InputCost  float64 `gorm:"not null"` // Cost of the tokens sent to the scoring model
	OutputCost float64 `gorm:"not null"` // Cost of the tokens the model produced
	TotalCost  float64 `gorm:"not null"` // InputCost + OutputCost, precomputed by the pipeline

	Model string `gorm:"size:256;not null"` // Identifier of the model that scored the article

	// CreatedAt / UpdatedAt use GORM's automatic timestamp handling: CreatedAt is
	// set on insert, UpdatedAt on insert and on every save. The column overrides
	// map them to the legacy create_date / update_date columns. Clients can never
	// set these — they are always server-assigned.
	CreatedAt time.Time `gorm:"column:create_date"`
	UpdatedAt time.Time `gorm:"column:update_date"`
}

// TableName overrides GORM's default pluralization so the model binds to the
// existing "articles" table exactly.
func (Article) TableName() string {
	return "articles"
}

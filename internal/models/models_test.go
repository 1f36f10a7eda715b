package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feedpulse/articles-api/internal/models"
)

func TestArticleTableName(t *testing.T) {
	// The model must bind to the legacy table, not GORM's derived name.
	assert.Equal(t, "articles", models.Article{}.TableName())
}

func TestArticleTimestamps(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Article{}))

	article := models.Article{
		Title:          "t",
		Link:           "https://example.com/t",
		Summary:        "s",
		Reasons:        "r",
		Tags:           "AI",
		RelevancyScore: 1,
		UrgencyScore:   2,
		OverallScore:   3,
		InputCost:      0.1,
		OutputCost:     0.2,
		TotalCost:      0.3,
		Model:          "gpt-4",
	}
	require.NoError(t, db.Create(&article).Error)

	// GORM assigns the key and both timestamps on insert.
	assert.NotZero(t, article.ID)
	assert.False(t, article.CreatedAt.IsZero())
	assert.False(t, article.UpdatedAt.IsZero())

	// An update bumps update_date but leaves create_date alone.
	created := article.CreatedAt
	article.OverallScore = 9
	require.NoError(t, db.Save(&article).Error)

	var reloaded models.Article
	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 9, reloaded.OverallScore)
	assert.Equal(t, created.Unix(), reloaded.CreatedAt.Unix())
	assert.False(t, reloaded.UpdatedAt.Before(reloaded.CreatedAt))
}

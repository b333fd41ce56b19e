package repository

import (
	"testing"

	"confessio/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
// The raw SQL in this package is written to run identically on postgres and
// sqlite so behavior can be exercised without a server.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&models.Confession{}, &models.ConfessionVote{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

package database

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aptview/server/internal/models"
)

// NewDatabase opens the SQLite database at dbPath with foreign keys enabled.
func NewDatabase(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// MigrateSchema creates or updates the aggregate tables.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Complex{},
		&models.UnitType{},
		&models.Deal{},
		&models.Listing{},
		&models.PriceSnapshot{},
		&models.Favorite{},
	)
}

var testDBCounter int64

// NewTestDB opens a fresh in-memory database. Each call gets its own shared
// cache name so connections from the pool see the same data.
func NewTestDB() (*gorm.DB, error) {
	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:aptview_test_%d?mode=memory&cache=shared", n)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

package repositories

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/addyhq/addy-backend/internal/db"
	"github.com/addyhq/addy-backend/internal/models"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// Conditional-update semantics are the same as on Postgres, which keeps these
// tests fast; the cross-connection race behavior is covered by the
// testcontainers suite.
func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	// Named shared-cache database: every pooled connection sees the same
	// in-memory store, unlike a bare :memory: DSN.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Action{},
		&models.ActionPattern{},
		&models.LedgerEntry{},
		&models.Account{},
		&models.Invoice{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return &db.DB{DB: gdb}
}

package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/addyhq/addy-backend/internal/db"
	"github.com/addyhq/addy-backend/internal/models"
)

// newTestDB opens an in-memory sqlite database for executor tests, which need
// real transactions and conditional updates rather than mocks.
func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	// Named shared-cache database: every pooled connection sees the same
	// in-memory store, unlike a bare :memory: DSN.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
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

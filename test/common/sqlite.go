package common

import (
	"context"
	"testing"

	sqlmigrations "homeview/internal/migrations/sql"
	sqldb "homeview/pkg/db/sql"
	"homeview/pkg/logger"

	"gorm.io/gorm"
)

// NewSQLiteDB returns a migrated in-memory database that lives until the
// test ends. A single connection keeps every query on the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	log := logger.Discard()
	db, err := sqldb.Connect(log, sqldb.Options{
		Driver:       sqldb.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := sqldb.Close(db); err != nil {
			t.Logf("warning: failed to close sqlite: %v", err)
		}
	})

	if err := sqlmigrations.RunMigration(context.Background(), db, log); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return db
}

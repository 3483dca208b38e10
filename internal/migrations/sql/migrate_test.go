package sql

import (
	"context"
	"testing"

	sqldb "homeview/pkg/db/sql"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

func TestRunMigration(t *testing.T) {
	db, err := sqldb.Connect(logger.Discard(), sqldb.Options{Driver: sqldb.DriverSQLite, DSN: ":memory:", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer sqldb.Close(db)

	if err := RunMigration(context.Background(), db, logger.Discard()); err != nil {
		t.Fatalf("RunMigration() error = %v", err)
	}
	// Re-running must be a no-op.
	if err := RunMigration(context.Background(), db, logger.Discard()); err != nil {
		t.Fatalf("second RunMigration() error = %v", err)
	}

	for _, m := range Models() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}
	if !db.Migrator().HasIndex(&model.Schedule{}, "idx_schedules_agent_time") {
		t.Error("missing unique index on schedules (agent_id, schedule_time)")
	}
	if !db.Migrator().HasIndex(&model.Wishlist{}, "idx_wishlists_client_property") {
		t.Error("missing unique index on wishlists (client_id, property_id)")
	}
}

package database

import (
	"testing"

	"gorm.io/gorm"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/logging"
)

// OpenTestDB returns a migrated in-memory sqlite database that is closed when
// the test ends.
func OpenTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, logging.Discard())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

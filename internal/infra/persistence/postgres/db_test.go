package postgres

import (
	"fmt"
	"testing"

	"lockerbox/internal/infra/persistence/model"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB opens an isolated in-memory SQLite database (modernc.org/sqlite)
// and migrates the full schema. Each test gets its own database name so
// state never leaks between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dial := gormsqlite.Dialector{
		DriverName: "sqlite",
		DSN:        fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}

	if err := db.AutoMigrate(
		&model.LockerModel{},
		&model.ParcelModel{},
		&model.AdminUserModel{},
		&model.AuditEventModel{},
	); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	return db
}

package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite"
)

// OpenDB opens a migrated database in a temporary directory. The database
// is closed when the test finishes.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CountRows returns the row count of table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}

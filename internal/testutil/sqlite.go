package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
)

// OpenSQLite returns a migrated database in a fresh temp directory, closed
// when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "mission-control.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTest returns a migrated SQLite database in a per-test temp dir.  The
// pool is closed when the test ends.
func OpenTest(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, SQLite, filepath.Join(t.TempDir(), "portfolio.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(ctx, db, SQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

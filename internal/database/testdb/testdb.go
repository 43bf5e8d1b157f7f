// Package testdb provides migrated throwaway databases for tests.
package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukerupert/homebase/internal/database"
)

// Open returns a migrated database backed by a file in a temporary
// directory. The database is closed when the test finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "homebase.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})

	return db
}

// Package testutil holds shared test fixtures.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/glowbotai/glowbot/internal/state"
)

// OpenTestDB opens a fully migrated throwaway database under t.TempDir. The
// returned closer is separate from t.Cleanup so tests can close early and
// reopen the same file if they need to.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "glowbot.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db, func() {
		_ = db.Close()
	}
}

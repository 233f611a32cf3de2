package testutil

import (
	"database/sql"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing with all
// migrations applied. The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db, DiscardLogger()); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

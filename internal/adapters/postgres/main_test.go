package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

var testDB *DB

// TestMain connects to TEST_DATABASE_URL. Without it the package's tests
// are skipped, since they need a real Postgres.
func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		fmt.Println("TEST_DATABASE_URL not set, skipping postgres tests")
		os.Exit(0)
	}

	nopLogger := zerolog.Nop()
	ctx := context.Background()

	var err error
	testDB, err = NewDB(ctx, url, &nopLogger)
	if err != nil {
		fmt.Printf("TestMain: Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	if err := testDB.EnsureSchema(ctx); err != nil {
		fmt.Printf("TestMain: Failed to create schema: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

// Helper to insert an allow-list row and remove it after the test.
func insertTestUser(t *testing.T, telegramID int64, revoked bool) {
	t.Helper()

	query := `INSERT INTO authorized_users (telegram_id, note, revoked_at)
		VALUES ($1, 'test', CASE WHEN $2 THEN now() ELSE NULL END)`
	if _, err := testDB.pool.Exec(context.Background(), query, telegramID, revoked); err != nil {
		t.Fatalf("insertTestUser failed: %v", err)
	}

	t.Cleanup(func() {
		_, err := testDB.pool.Exec(context.Background(), "DELETE FROM authorized_users WHERE telegram_id = $1", telegramID)
		if err != nil {
			t.Logf("Warning: Failed to cleanup user %d: %v", telegramID, err)
		}
	})
}

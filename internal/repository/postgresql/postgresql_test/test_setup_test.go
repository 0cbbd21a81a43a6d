package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-audit/internal/pkg/database"
)

const testTable = "attendance_export_rows_test"

// TestDatabaseSetup holds the connection to the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	t.Cleanup(func() {
		if err := setup.DropTable(context.Background()); err != nil {
			t.Logf("cleanup: %v", err)
		}
		setup.Close()
	})
	return setup
}

// DropTable removes the staging table used by the tests
func (s *TestDatabaseSetup) DropTable(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{testTable}.Sanitize()))
	return err
}

// Close closes the database connection
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

// Package integration runs the repositories and the HTTP API against a real
// PostgreSQL started with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	applogger "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/logger"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/migration"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testDBName     = "fletes_test"
	testDBUser     = "postgres"
	testDBPassword = "postgres"
)

// TestDB is a migrated database in its own container, opened through the
// same constructor the server uses.
type TestDB struct {
	*persistence.Database
	container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts PostgreSQL, applies the embedded migrations and registers
// cleanup with t.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	tdb := &TestDB{container: container, t: t}
	t.Cleanup(tdb.terminate)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}
	var opts []persistence.DatabaseOption
	if os.Getenv("TEST_DB_DEBUG") != "" {
		opts = append(opts, persistence.WithGormLogger(
			applogger.NewGormLogger(zaptest.NewLogger(t), gormlogger.Info)))
	}
	db, err := persistence.NewDatabase(cfg, opts...)
	require.NoError(t, err, "Failed to connect to database")
	tdb.Database = db

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", nil)
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")

	return tdb
}

func (tdb *TestDB) terminate() {
	if tdb.Database != nil {
		_ = tdb.Database.Close()
	}
	if err := tdb.container.Terminate(context.Background()); err != nil {
		tdb.t.Logf("Warning: Failed to terminate container: %v", err)
	}
}

// CleanTables truncates every application table in one statement and resets
// the id sequences.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT quote_ident(tablename) FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")
	if len(tables) == 0 {
		return
	}

	err = tdb.DB.Exec("TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE").Error
	require.NoError(tdb.t, err, "Failed to truncate tables")
}

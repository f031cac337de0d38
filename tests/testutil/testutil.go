// Package testutil holds shared fixtures for unit tests: testify mocks of
// the repositories, a sqlmock-backed gorm handle and gin request helpers.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens gorm on a sqlmock connection with the postgres dialect.
// It is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: sqlDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// Actors used across handler and service tests.
var (
	AdminActor      = shared.NewActor(1, "Admin")
	LogisticsActor  = shared.NewActor(2, "Logistics")
	PurchasingActor = shared.NewActor(3, "Purchasing")
	PaymentsActor   = shared.NewActor(4, "Payments")
	PendingActor    = shared.NewActor(5, "Pending")
)

// TestAuthMiddleware stands in for JWT authentication and authenticates
// every request as actor.
func TestAuthMiddleware(actor shared.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetActor(c, actor)
		c.Next()
	}
}

// SetActor stores actor where the JWT middleware would
func SetActor(c *gin.Context, actor shared.Actor) {
	c.Set(middleware.ActorKey, actor)
	c.Request = c.Request.WithContext(shared.WithActor(c.Request.Context(), actor))
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// AssertEventually retries condition until it passes or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()
	if !WaitForCondition(t, condition, timeout, interval) {
		require.Fail(t, "Condition not met within timeout", msgAndArgs...)
	}
}

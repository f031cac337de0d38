package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the GORM tracing plugin.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in db.statement
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingConfigFor returns tracing settings for the given gorm driver name.
func DBTracingConfigFor(driver string, enabled bool, slowQuery time.Duration) DBTracingConfig {
	system := "postgresql"
	if driver == "sqlite" {
		system = "sqlite"
	}
	if slowQuery <= 0 {
		slowQuery = 200 * time.Millisecond
	}
	return DBTracingConfig{
		Enabled:         enabled,
		SlowQueryThresh: slowQuery,
		DBSystem:        system,
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db plus timing callbacks that flag
// slow statements and record driver errors on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}

	after := slowQueryCallback(cfg.SlowQueryThresh)
	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("db_timing:before_create", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Register("db_timing:after_create", after) },
		func() error { return cb.Query().Before("gorm:query").Register("db_timing:before_query", markQueryStart) },
		func() error { return cb.Query().After("gorm:query").Register("db_timing:after_query", after) },
		func() error { return cb.Update().Before("gorm:update").Register("db_timing:before_update", markQueryStart) },
		func() error { return cb.Update().After("gorm:update").Register("db_timing:after_update", after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("db_timing:before_delete", markQueryStart) },
		func() error { return cb.Delete().After("gorm:delete").Register("db_timing:after_delete", after) },
		func() error { return cb.Row().Before("gorm:row").Register("db_timing:before_row", markQueryStart) },
		func() error { return cb.Row().After("gorm:row").Register("db_timing:after_row", after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("db_timing:before_raw", markQueryStart) },
		func() error { return cb.Raw().After("gorm:raw").Register("db_timing:after_raw", after) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return fmt.Errorf("register timing callback: %w", err)
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func slowQueryCallback(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}

		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("threshold_ms", threshold.Milliseconds()),
			))
		}
	}
}

package persistence

import (
	"errors"
	"slices"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// duplicateKeyError is a unique violation that remembers which key fired.
// Postgres names the constraint; SQLite only lists the columns.
type duplicateKeyError struct {
	constraint string
	columns    []string
	cause      error
}

func (e *duplicateKeyError) Error() string { return e.cause.Error() }

// Unwrap exposes both shared.ErrDuplicateKey and the driver error
func (e *duplicateKeyError) Unwrap() []error { return []error{shared.ErrDuplicateKey, e.cause} }

// translateError maps driver and GORM errors onto domain sentinels. The unique
// indexes are the last line of defence against duplicate names and numbers.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if dup := asDuplicateKey(err); dup != nil {
		return dup
	}
	return err
}

func asDuplicateKey(err error) *duplicateKeyError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return nil
		}
		return &duplicateKeyError{constraint: pgErr.ConstraintName, columns: detailColumns(pgErr.Detail), cause: err}
	}

	msg := err.Error()
	if _, cols, ok := strings.Cut(msg, "UNIQUE constraint failed: "); ok {
		return &duplicateKeyError{columns: sqliteColumns(cols), cause: err}
	}
	if _, rest, ok := strings.Cut(msg, "violates unique constraint "); ok {
		return &duplicateKeyError{constraint: quotedName(rest), cause: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &duplicateKeyError{cause: err}
	}
	return nil
}

// violatesKey reports whether err is a unique violation of constraint or, when
// the driver does not name it, of exactly columns in any order
func violatesKey(err error, constraint string, columns ...string) bool {
	var dup *duplicateKeyError
	if !errors.As(err, &dup) {
		return false
	}
	if dup.constraint != "" {
		return dup.constraint == constraint
	}
	if len(dup.columns) != len(columns) {
		return false
	}
	for _, c := range columns {
		if !slices.Contains(dup.columns, c) {
			return false
		}
	}
	return true
}

// carrierOrderError singles out the (order_id, carrier_id) key of invoices and
// payment orders from their number key
func carrierOrderError(err error, constraint string) error {
	if violatesKey(err, constraint, "order_id", "carrier_id") {
		return finance.ErrCarrierOrderTaken
	}
	return err
}

// detailColumns reads "Key (a, b)=(1, 2) already exists."
func detailColumns(detail string) []string {
	_, rest, ok := strings.Cut(detail, "Key (")
	if !ok {
		return nil
	}
	cols, _, ok := strings.Cut(rest, ")=")
	if !ok {
		return nil
	}
	return strings.Split(cols, ", ")
}

// sqliteColumns reads "invoices.order_id, invoices.carrier_id"
func sqliteColumns(list string) []string {
	parts := strings.Split(strings.TrimSpace(list), ", ")
	for i, p := range parts {
		if dot := strings.LastIndexByte(p, '.'); dot >= 0 {
			parts[i] = p[dot+1:]
		}
	}
	return parts
}

func quotedName(s string) string {
	if rest, ok := strings.CutPrefix(s, `"`); ok {
		name, _, _ := strings.Cut(rest, `"`)
		return name
	}
	name, _, _ := strings.Cut(s, " ")
	return name
}

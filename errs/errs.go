// Package errs holds the error taxonomy shared by repositories, services and
// handlers, and translates driver errors into it.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrPermissionDenied    = errors.New("permission denied")
)

type ConstraintKind string

const (
	KindUnique     ConstraintKind = "unique"
	KindCheck      ConstraintKind = "check"
	KindForeignKey ConstraintKind = "foreign_key"
	KindNotNull    ConstraintKind = "not_null"
)

// Postgres SQLSTATE codes for integrity constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// ConstraintError describes a rejected write. It matches ErrConstraintViolation.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Table      string
	Column     string
	Detail     string
	err        error
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("%s constraint violation", e.Kind)
	if e.Constraint != "" {
		msg += " (" + e.Constraint + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

func (e *ConstraintError) Unwrap() error {
	return e.err
}

// Check builds a check violation for a field rejected before reaching the store.
func Check(column, detail string) *ConstraintError {
	return &ConstraintError{Kind: KindCheck, Column: column, Constraint: column, Detail: detail}
}

// Unique builds a uniqueness violation detected by the application.
func Unique(constraint, detail string) *ConstraintError {
	return &ConstraintError{Kind: KindUnique, Constraint: constraint, Detail: detail}
}

// FromDB maps gorm and Postgres errors onto the taxonomy. Unknown errors pass through.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var kind ConstraintKind
	switch pgErr.Code {
	case pgUniqueViolation:
		kind = KindUnique
	case pgCheckViolation:
		kind = KindCheck
	case pgForeignKeyViolation:
		kind = KindForeignKey
	case pgNotNullViolation:
		kind = KindNotNull
	default:
		return err
	}

	detail := pgErr.Detail
	if detail == "" {
		detail = pgErr.Message
	}
	return &ConstraintError{
		Kind:       kind,
		Constraint: pgErr.ConstraintName,
		Table:      pgErr.TableName,
		Column:     pgErr.ColumnName,
		Detail:     detail,
		err:        err,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func StatusCode(err error) int {
	var constraintErr *ConstraintError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.As(err, &constraintErr):
		if constraintErr.Kind == KindUnique {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

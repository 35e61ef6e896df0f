package repository

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrForeignKeyViolation is matched by *ForeignKeyViolationError.
var ErrForeignKeyViolation = errors.New("foreign key violation")

// UniqueViolationError reports a write that collided with a unique
// constraint. Fields lists the constrained columns when the driver reports
// them.
type UniqueViolationError struct {
	Constraint string
	Fields     []string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("unique violation on %s", e.Constraint)
	}
	return fmt.Sprintf("unique violation on %s (%s)", e.Constraint, strings.Join(e.Fields, ", "))
}

func (e *UniqueViolationError) Unwrap() error { return e.Err }

// ForeignKeyViolationError reports a write that referenced a missing row or
// removed a referenced one.
type ForeignKeyViolationError struct {
	Constraint string
	Err        error
}

func (e *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("foreign key violation on %s", e.Constraint)
}

func (e *ForeignKeyViolationError) Unwrap() error { return e.Err }

func (e *ForeignKeyViolationError) Is(target error) bool {
	return target == ErrForeignKeyViolation
}

// AsUniqueViolation unwraps err into a *UniqueViolationError.
func AsUniqueViolation(err error) (*UniqueViolationError, bool) {
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		return uv, true
	}
	return nil, false
}

var keyDetailPattern = regexp.MustCompile(`^Key \(([^)]+)\)=`)

// translateError classifies constraint violations from either driver.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, detail, ok := pgErrorFields(err)
	if !ok {
		return err
	}
	switch code {
	case pgUniqueViolation:
		return &UniqueViolationError{Constraint: constraint, Fields: keyFields(detail), Err: err}
	case pgForeignKeyViolation:
		return &ForeignKeyViolationError{Constraint: constraint, Err: err}
	}
	return err
}

func pgErrorFields(err error) (code, constraint, detail string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Detail, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, pgErr.Detail, true
	}
	return "", "", "", false
}

// keyFields extracts the column list from details such as
// "Key (role_name)=(Administrator) already exists.".
func keyFields(detail string) []string {
	match := keyDetailPattern.FindStringSubmatch(detail)
	if match == nil {
		return nil
	}
	parts := strings.Split(match[1], ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// Package dto holds the request payloads accepted by the HTTP API and maps
// them onto table columns.
package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

// DateLayout is the calendar date format accepted by the API.
const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns
// the date at midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, appErrors.Validation(err, "invalid date", map[string]string{
			field: field + " must be a date in YYYY-MM-DD format",
		})
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func setIf[T any](values repository.Values, column string, v *T) {
	if v != nil {
		values[column] = *v
	}
}

func setTrimmed(values repository.Values, column string, v *string) {
	if v != nil {
		values[column] = strings.TrimSpace(*v)
	}
}

func setDate(values repository.Values, column, field string, raw *string) error {
	if raw == nil {
		return nil
	}
	t, err := ParseDate(field, *raw)
	if err != nil {
		return err
	}
	values[column] = t
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

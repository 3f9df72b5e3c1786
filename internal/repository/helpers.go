package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
)

// parseNullableDate parses a stored date column into a normalized *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := calendar.Parse(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDateToString converts a *time.Time to a date-only value for
// SQLite storage. Returns nil (SQL NULL) if the pointer is nil or unset.
func nullableDateToString(t *time.Time) interface{} {
	if t == nil || !calendar.IsSet(*t) {
		return nil
	}
	return calendar.FormatISO(*t)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

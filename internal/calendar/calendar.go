package calendar

import (
	"fmt"
	"math"
	"time"
)

// ISOLayout is the canonical date-only layout used on the wire and in storage.
const ISOLayout = "2006-01-02"

// Canonical time-of-day: every date handled by the engine sits at noon UTC,
// so whole-day arithmetic never drifts across DST or leap-second boundaries.
const canonicalHour = 12

const day = 24 * time.Hour

// Interval is a signed number of whole days.
type Interval int

// Days creates an interval of n days.
func Days(n int) Interval { return Interval(n) }

// Days returns the signed day count.
func (iv Interval) Days() int { return int(iv) }

// Duration converts the interval to a time.Duration.
func (iv Interval) Duration() time.Duration { return time.Duration(iv) * day }

// Neg returns the interval pointing the other way.
func (iv Interval) Neg() Interval { return -iv }

// IsZero reports whether the interval is empty.
func (iv Interval) IsZero() bool { return iv == 0 }

func (iv Interval) String() string {
	if iv == 1 || iv == -1 {
		return fmt.Sprintf("%+d day", int(iv))
	}
	return fmt.Sprintf("%+d days", int(iv))
}

// Normalize maps t onto the canonical time-of-day of its UTC calendar day.
// The zero time stays zero.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), canonicalHour, 0, 0, 0, time.UTC)
}

// Date builds a normalized date from its components.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, canonicalHour, 0, 0, 0, time.UTC)
}

// Add returns t shifted by iv.
func Add(t time.Time, iv Interval) time.Time {
	return t.Add(iv.Duration())
}

// Sub returns t shifted back by iv.
func Sub(t time.Time, iv Interval) time.Time {
	return t.Add(-iv.Duration())
}

// Between returns the signed interval a - b, rounded to whole days.
func Between(a, b time.Time) Interval {
	return Interval(math.Round(a.Sub(b).Hours() / 24))
}

// IsSet reports whether t carries a real date. Dates in 1970 are treated as
// the "unset" sentinel older feeds emit for missing values.
func IsSet(t time.Time) bool {
	return !t.IsZero() && t.Year() != 1970
}

// FormatISO renders t as YYYY-MM-DD, or "" when unset.
func FormatISO(t time.Time) string {
	if !IsSet(t) {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

// Parse accepts YYYY-MM-DD or RFC3339 and returns a normalized date.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(ISOLayout, s); err == nil {
		return Normalize(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Normalize(t), nil
}

// ParseOptional parses s when present and non-empty; nil otherwise.
func ParseOptional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Min returns the earlier of two dates.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of two dates.
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

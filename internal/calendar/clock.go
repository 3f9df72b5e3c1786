package calendar

import "time"

// Clock abstracts "now" so that date fallbacks are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today returns the normalized current date of c.
func Today(c Clock) time.Time {
	if c == nil {
		c = SystemClock{}
	}
	return Normalize(c.Now())
}

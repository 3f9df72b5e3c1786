package cli

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/plangraph/internal/calendar"
)

// dateValue is a pflag.Value that parses YYYY-MM-DD (or RFC3339) into a
// normalized date.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(p *time.Time) *dateValue {
	return &dateValue{t: p}
}

func (d *dateValue) String() string {
	if d.t == nil {
		return ""
	}
	return calendar.FormatISO(*d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := calendar.Parse(s)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

// dateFlag returns a pointer to the parsed date when the flag was given.
func dateFlag(flags *pflag.FlagSet, name string, t time.Time) *time.Time {
	if !flags.Changed(name) {
		return nil
	}
	return &t
}

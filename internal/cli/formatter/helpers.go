package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/plangraph/internal/calendar"
)

// DateLayout is the Go layout used for every printed date.
var DateLayout = calendar.ISOLayout

// SetDateLayout overrides DateLayout; an empty layout is ignored.
func SetDateLayout(layout string) {
	if layout != "" {
		DateLayout = layout
	}
}

// FormatDate renders t with DateLayout, or "-" when unset.
func FormatDate(t time.Time) string {
	if !calendar.IsSet(t) {
		return "-"
	}
	return t.UTC().Format(DateLayout)
}

// formatISO re-renders a canonical YYYY-MM-DD string with DateLayout.
func formatISO(s string) string {
	if s == "" {
		return "-"
	}
	t, err := calendar.Parse(s)
	if err != nil {
		return s
	}
	return FormatDate(t)
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly distance between t and now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

package service

import (
	"fmt"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/alexanderramin/plangraph/internal/graph"
)

// dateChanges converts flushed entries into store writes. Milestone entries
// carry no start date and leave the stored start alone.
func dateChanges(entries []graph.ChangeEntry) ([]domain.DateChange, error) {
	changes := make([]domain.DateChange, 0, len(entries))
	for _, e := range entries {
		c := domain.DateChange{ID: e.ID}
		if e.StartDate != "" {
			start, err := calendar.Parse(e.StartDate)
			if err != nil {
				return nil, fmt.Errorf("change of issue %s: %w", e.ID, err)
			}
			c.StartDate = &start
		}
		due, err := calendar.Parse(e.DueDate)
		if err != nil {
			return nil, fmt.Errorf("change of issue %s: %w", e.ID, err)
		}
		c.DueDate = &due
		changes = append(changes, c)
	}
	return changes, nil
}

// authoritativeSpans maps stored issues to the dates the graph should hold.
func authoritativeSpans(issues []*domain.Issue) map[string]graph.Span {
	spans := make(map[string]graph.Span, len(issues))
	for _, is := range issues {
		n := graph.NodeFromIssue(is)
		span := graph.Span{Start: n.Start, Due: n.Due}
		if is.Milestone {
			span.Start = span.Due
		}
		spans[is.ID] = span
	}
	return spans
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// Converted holds the domain rows produced from a snapshot.
type Converted struct {
	Issues    []*domain.Issue
	Relations []*domain.Relation
}

// Convert transforms a validated Snapshot into domain objects ready for persistence.
// Call ValidateSnapshot first; Convert assumes the snapshot is valid.
func Convert(s *Snapshot) (*Converted, error) {
	now := time.Now().UTC()
	out := &Converted{
		Issues:    make([]*domain.Issue, 0, len(s.Issues)),
		Relations: make([]*domain.Relation, 0, len(s.Relations)),
	}

	for i, is := range s.Issues {
		id := domain.CoalesceStr(is.ID, uuid.New().String())

		start, err := calendar.ParseOptional(is.StartDate)
		if err != nil {
			return nil, fmt.Errorf("issues[%d].start_date: %w", i, err)
		}
		due, err := calendar.ParseOptional(is.DueDate)
		if err != nil {
			return nil, fmt.Errorf("issues[%d].due_date: %w", i, err)
		}
		if is.Milestone {
			// A milestone lives on its due date; a lone start date stands in.
			if due == nil {
				due = start
			}
			start = nil
		}

		var parentID *string
		if is.ParentID != nil && *is.ParentID != "" {
			pid := *is.ParentID
			parentID = &pid
		}

		out.Issues = append(out.Issues, &domain.Issue{
			ID:        id,
			Subject:   domain.CoalesceStr(is.Subject, id),
			StartDate: start,
			DueDate:   due,
			ParentID:  parentID,
			Leaf:      domain.BoolFromPtrWithDefault(true, is.Leaf),
			Milestone: is.Milestone,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	markContainers(out.Issues)

	for i, r := range s.Relations {
		t, err := domain.ParseRelationType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("relations[%d].type: %w", i, err)
		}
		out.Relations = append(out.Relations, &domain.Relation{
			ID:     domain.CoalesceStr(r.ID, uuid.New().String()),
			FromID: r.From,
			ToID:   r.To,
			Type:   t,
			Delay:  domain.IntFromPtrWithDefault(0, r.Delay),
		})
	}

	return out, nil
}

// markContainers clears the leaf flag of every issue that is referenced as a
// parent within the snapshot.
func markContainers(issues []*domain.Issue) {
	byID := make(map[string]*domain.Issue, len(issues))
	for _, is := range issues {
		byID[is.ID] = is
	}
	for _, is := range issues {
		if !is.HasParent() {
			continue
		}
		if parent, ok := byID[*is.ParentID]; ok {
			parent.Leaf = false
		}
	}
}

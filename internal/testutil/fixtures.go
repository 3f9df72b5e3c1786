package testutil

import (
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// Issue options
type IssueOption func(*domain.Issue)

// WithDates sets both dates of the issue.
func WithDates(start, due time.Time) IssueOption {
	return func(i *domain.Issue) {
		s, d := calendar.Normalize(start), calendar.Normalize(due)
		i.StartDate = &s
		i.DueDate = &d
	}
}

func WithDueDate(due time.Time) IssueOption {
	return func(i *domain.Issue) {
		d := calendar.Normalize(due)
		i.DueDate = &d
	}
}

func WithParent(id string) IssueOption {
	return func(i *domain.Issue) {
		i.ParentID = &id
	}
}

func WithSubject(s string) IssueOption {
	return func(i *domain.Issue) {
		i.Subject = s
	}
}

// AsMilestone marks the issue a milestone and drops its start date.
func AsMilestone() IssueOption {
	return func(i *domain.Issue) {
		i.Milestone = true
		i.StartDate = nil
	}
}

// AsContainer marks the issue as having children.
func AsContainer() IssueOption {
	return func(i *domain.Issue) {
		i.Leaf = false
	}
}

// NewTestIssue returns an undated leaf issue.
func NewTestIssue(id string, opts ...IssueOption) *domain.Issue {
	now := time.Now().UTC()
	i := &domain.Issue{
		ID:        id,
		Subject:   "Issue " + id,
		Leaf:      true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Relation options
type RelationOption func(*domain.Relation)

func WithDelay(days int) RelationOption {
	return func(r *domain.Relation) {
		r.Delay = days
	}
}

func WithRelationID(id string) RelationOption {
	return func(r *domain.Relation) {
		r.ID = id
	}
}

// NewTestRelation returns a relation without an id; the store assigns one.
func NewTestRelation(from, to string, t domain.RelationType, opts ...RelationOption) *domain.Relation {
	r := &domain.Relation{
		FromID: from,
		ToID:   to,
		Type:   t,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

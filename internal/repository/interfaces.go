package repository

import (
	"context"

	"github.com/alexanderramin/plangraph/internal/domain"
)

type IssueRepo interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context) ([]*domain.Issue, error)
	// UpdateDates writes the changes and returns the stored issues as read
	// back after the write, in the order of changes. Unknown ids are skipped.
	UpdateDates(ctx context.Context, changes []domain.DateChange) ([]*domain.Issue, error)
	SetLeaf(ctx context.Context, id string, leaf bool) error
	Delete(ctx context.Context, id string) error
}

type RelationRepo interface {
	// Create assigns an id when r.ID is empty.
	Create(ctx context.Context, r *domain.Relation) error
	GetByID(ctx context.Context, id string) (*domain.Relation, error)
	List(ctx context.Context) ([]*domain.Relation, error)
	Delete(ctx context.Context, id string) error
}

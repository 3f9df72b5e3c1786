package service

import (
	"context"

	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/alexanderramin/plangraph/internal/graph"
	"github.com/alexanderramin/plangraph/internal/importer"
)

// ImportResult holds the outcome of a snapshot import.
type ImportResult struct {
	IssueCount    int
	RelationCount int
	DanglingCount int
}

// MoveResult holds the persisted change-set of one edit and the ids whose
// local dates were overwritten by what the store returned.
type MoveResult struct {
	Changes    []graph.ChangeEntry
	Reconciled []string
}

// PlanningService owns the loaded constraint graph and keeps it in step with
// the store. Every method loads the graph on first use.
type PlanningService interface {
	Load(ctx context.Context) error
	Import(ctx context.Context, path string) (*ImportResult, error)
	ImportSnapshot(ctx context.Context, s *importer.Snapshot) (*ImportResult, error)

	Move(ctx context.Context, id string, change graph.Change) (*MoveResult, error)
	Drag(ctx context.Context, id string, mode graph.DragMode, days int) (*MoveResult, error)
	Limits(ctx context.Context, id string) (graph.Limits, error)

	CreateRelation(ctx context.Context, from, to string, t domain.RelationType) (*domain.Relation, error)
	DeleteRelation(ctx context.Context, id string) error

	AddIssue(ctx context.Context, issue *domain.Issue) (*MoveResult, error)
	RemoveIssue(ctx context.Context, id string) error

	Issues(ctx context.Context) ([]*graph.Node, error)
	Relations(ctx context.Context) ([]*graph.Relation, error)
	Dangling(ctx context.Context) ([]*graph.Relation, error)
}

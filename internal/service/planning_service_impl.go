package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/plangraph/internal/db"
	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/alexanderramin/plangraph/internal/graph"
	"github.com/alexanderramin/plangraph/internal/importer"
	"github.com/alexanderramin/plangraph/internal/repository"
)

// WriteRecorder counts rows written to the store.
type WriteRecorder interface {
	RecordStoreWrites(table string, rows int)
}

type noopWriteRecorder struct{}

func (noopWriteRecorder) RecordStoreWrites(string, int) {}

type planningService struct {
	mu        sync.Mutex
	g         *graph.Graph
	issues    repository.IssueRepo
	relations repository.RelationRepo
	uow       db.UnitOfWork
	writes    WriteRecorder
	observer  UseCaseObserver
	loaded    bool
}

// NewPlanningService wires a graph to its store. The graph is filled from the
// repositories on first use.
func NewPlanningService(
	g *graph.Graph,
	issues repository.IssueRepo,
	relations repository.RelationRepo,
	uow db.UnitOfWork,
	writes WriteRecorder,
	observers ...UseCaseObserver,
) PlanningService {
	if writes == nil {
		writes = noopWriteRecorder{}
	}
	return &planningService{
		g:         g,
		issues:    issues,
		relations: relations,
		uow:       uow,
		writes:    writes,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *planningService) Load(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "load", startedAt, fields, err) }()

	if err = s.load(ctx); err != nil {
		return err
	}
	fields["issue_count"] = len(s.g.Nodes())
	fields["relation_count"] = len(s.g.Relations())
	return nil
}

// load replaces the graph contents with the store contents.
func (s *planningService) load(ctx context.Context) error {
	issues, err := s.issues.List(ctx)
	if err != nil {
		return fmt.Errorf("loading issues: %w", err)
	}
	rels, err := s.relations.List(ctx)
	if err != nil {
		return fmt.Errorf("loading relations: %w", err)
	}

	s.g.Reset()
	for _, is := range issues {
		s.g.AddNode(graph.NodeFromIssue(is))
	}
	for _, r := range rels {
		s.g.AddRelation(graph.RelationFromDomain(r))
	}
	s.g.Build()
	s.loaded = true
	return nil
}

func (s *planningService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

func (s *planningService) Import(ctx context.Context, path string) (*ImportResult, error) {
	snap, err := importer.LoadSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSnapshot(ctx, snap)
}

func (s *planningService) ImportSnapshot(ctx context.Context, snap *importer.Snapshot) (result *ImportResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "import", startedAt, fields, err) }()

	if errs := importer.ValidateSnapshot(snap); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	var conv *importer.Converted
	conv, err = importer.Convert(snap)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}
	fields["issue_count"] = len(conv.Issues)
	fields["relation_count"] = len(conv.Relations)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txIssues := repository.NewSQLiteIssueRepo(tx)
		txRelations := repository.NewSQLiteRelationRepo(tx)

		for _, is := range conv.Issues {
			if err := txIssues.Create(ctx, is); err != nil {
				return fmt.Errorf("creating issue %q: %w", is.ID, err)
			}
		}
		for _, r := range conv.Relations {
			if err := txRelations.Create(ctx, r); err != nil {
				return fmt.Errorf("creating relation %s -> %s: %w", r.FromID, r.ToID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writes.RecordStoreWrites("issues", len(conv.Issues))
	s.writes.RecordStoreWrites("relations", len(conv.Relations))

	if err = s.load(ctx); err != nil {
		return nil, err
	}
	return &ImportResult{
		IssueCount:    len(conv.Issues),
		RelationCount: len(conv.Relations),
		DanglingCount: len(s.g.Dangling()),
	}, nil
}

func (s *planningService) Move(ctx context.Context, id string, change graph.Change) (result *MoveResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{"issue": id, "change": change.String()}
	defer func() { s.observe(ctx, "move", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if _, err = s.g.Move(id, change, s.g.NextPass()); err != nil {
		s.g.Restore()
		return nil, err
	}

	var stored []*domain.Issue
	stored, err = s.persist(ctx)
	if err != nil {
		s.g.Restore()
		return nil, err
	}
	entries := s.g.Flush()
	fields["changed"] = len(entries)
	return s.reconcile(entries, stored), nil
}

func (s *planningService) Drag(ctx context.Context, id string, mode graph.DragMode, days int) (result *MoveResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{"issue": id, "mode": mode.String(), "days": days}
	defer func() { s.observe(ctx, "drag", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	var gesture *graph.DragGesture
	gesture, err = s.g.BeginDrag(id, mode)
	if err != nil {
		return nil, err
	}
	if _, err = gesture.Update(days); err != nil {
		_, _ = gesture.Abort()
		return nil, err
	}

	var stored []*domain.Issue
	stored, err = s.persist(ctx)
	if err != nil {
		_, _ = gesture.Abort()
		return nil, err
	}
	var entries []graph.ChangeEntry
	entries, err = gesture.Commit()
	if err != nil {
		return nil, err
	}
	fields["changed"] = len(entries)
	return s.reconcile(entries, stored), nil
}

func (s *planningService) Limits(ctx context.Context, id string) (graph.Limits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return graph.Limits{}, err
	}
	return s.g.ComputeLimits(id, graph.Both, s.g.NextPass())
}

// persist writes the pending change-set in one transaction and returns the
// rows as the store holds them afterwards. The graph is left untouched.
func (s *planningService) persist(ctx context.Context) ([]*domain.Issue, error) {
	entries := s.g.Changes().Entries()
	if len(entries) == 0 {
		return nil, nil
	}
	changes, err := dateChanges(entries)
	if err != nil {
		return nil, err
	}

	var stored []*domain.Issue
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		stored, err = repository.NewSQLiteIssueRepo(tx).UpdateDates(ctx, changes)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("persisting %d changed issues: %w", len(changes), err)
	}
	s.writes.RecordStoreWrites("issues", len(stored))
	return stored, nil
}

func (s *planningService) reconcile(entries []graph.ChangeEntry, stored []*domain.Issue) *MoveResult {
	return &MoveResult{
		Changes:    entries,
		Reconciled: s.g.Reconcile(authoritativeSpans(stored)),
	}
}

func (s *planningService) CreateRelation(ctx context.Context, from, to string, t domain.RelationType) (rel *domain.Relation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{"from": from, "to": to, "type": string(t)}
	defer func() { s.observe(ctx, "create-relation", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	for _, endpoint := range []string{from, to} {
		if _, ok := s.g.Lookup(endpoint); !ok {
			return nil, fmt.Errorf("relation %s -> %s: issue %s: %w", from, to, endpoint, domain.ErrDanglingRelation)
		}
	}

	var gesture *graph.RelationGesture
	gesture, err = s.g.BeginRelation(t)
	if err != nil {
		return nil, err
	}
	if err = gesture.SelectSource(from); err != nil {
		return nil, err
	}
	var req graph.RelationRequest
	req, err = gesture.SelectTarget(to)
	if err != nil {
		return nil, err
	}

	rel = &domain.Relation{FromID: req.FromID, ToID: req.ToID, Type: req.Type, Delay: req.Delay}
	if err = s.relations.Create(ctx, rel); err != nil {
		return nil, fmt.Errorf("creating relation: %w", err)
	}
	s.writes.RecordStoreWrites("relations", 1)
	fields["relation"] = rel.ID
	fields["delay"] = rel.Delay

	s.g.AddRelation(graph.RelationFromDomain(rel))
	s.g.Build()
	return rel, nil
}

func (s *planningService) DeleteRelation(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "delete-relation", startedAt, map[string]any{"relation": id}, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return err
	}
	if err = s.relations.Delete(ctx, id); err != nil {
		return err
	}
	s.writes.RecordStoreWrites("relations", 1)
	s.g.RemoveRelation(id)
	s.g.Build()
	return nil
}

// AddIssue stores a new issue and adds it to the graph. A dated issue placed
// under a parent stretches its ancestors to contain it; those changes are
// persisted like a move.
func (s *planningService) AddIssue(ctx context.Context, issue *domain.Issue) (result *MoveResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "add-issue", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if err = prepareIssue(issue); err != nil {
		return nil, err
	}
	fields["issue"] = issue.ID
	if _, exists := s.g.Lookup(issue.ID); exists {
		return nil, fmt.Errorf("issue %s already exists", issue.ID)
	}

	var parent *graph.Node
	if issue.HasParent() {
		parent, _ = s.g.Lookup(*issue.ParentID)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txIssues := repository.NewSQLiteIssueRepo(tx)
		if err := txIssues.Create(ctx, issue); err != nil {
			return fmt.Errorf("creating issue %q: %w", issue.ID, err)
		}
		if parent != nil && parent.Leaf {
			if err := txIssues.SetLeaf(ctx, parent.ID, false); err != nil {
				return fmt.Errorf("marking parent %q as container: %w", parent.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writes.RecordStoreWrites("issues", 1)

	s.g.AddNode(graph.NodeFromIssue(issue))
	s.g.Build()

	if parent == nil || (issue.StartDate == nil && issue.DueDate == nil) {
		return &MoveResult{}, nil
	}
	if err = s.g.FitAncestors(issue.ID, s.g.NextPass()); err != nil {
		s.g.Restore()
		return nil, err
	}
	var stored []*domain.Issue
	stored, err = s.persist(ctx)
	if err != nil {
		s.g.Restore()
		return nil, err
	}
	entries := s.g.Flush()
	fields["changed"] = len(entries)
	return s.reconcile(entries, stored), nil
}

// RemoveIssue deletes the issue. Its relations stay in the store and become
// dangling; its children become roots.
func (s *planningService) RemoveIssue(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "remove-issue", startedAt, map[string]any{"issue": id}, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return err
	}
	if err = s.issues.Delete(ctx, id); err != nil {
		return err
	}
	s.writes.RecordStoreWrites("issues", 1)
	s.g.RemoveNode(id)
	s.g.Build()
	return nil
}

func (s *planningService) Issues(ctx context.Context) ([]*graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.g.Nodes(), nil
}

func (s *planningService) Relations(ctx context.Context) ([]*graph.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.g.Relations(), nil
}

func (s *planningService) Dangling(ctx context.Context) ([]*graph.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.g.Dangling(), nil
}

// prepareIssue fills defaults and rejects impossible dates.
func prepareIssue(issue *domain.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	issue.Subject = domain.CoalesceStr(issue.Subject, issue.ID)
	if issue.Milestone {
		if issue.DueDate == nil {
			issue.DueDate = issue.StartDate
		}
		issue.StartDate = nil
		issue.Leaf = true
		return nil
	}
	if issue.StartDate != nil && issue.DueDate != nil && !issue.StartDate.Before(*issue.DueDate) {
		return fmt.Errorf("issue %s: %w", issue.ID, domain.ErrInvalidRange)
	}
	return nil
}

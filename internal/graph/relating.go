package graph

import (
	"fmt"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// RelationState is the lifecycle of a relation-creation gesture.
type RelationState int

const (
	RelationIdle RelationState = iota
	RelationSelectingSource
	RelationSelectingTarget
	RelationCreated
)

// RelationRequest is what the persistence collaborator receives when a
// relation gesture completes. The server assigns the id.
type RelationRequest struct {
	FromID string              `json:"from_id"`
	ToID   string              `json:"to_id"`
	Type   domain.RelationType `json:"type"`
	Delay  int                 `json:"delay"`
}

// RelationGesture picks a source and a target for a new relation.
type RelationGesture struct {
	g      *Graph
	typ    domain.RelationType
	state  RelationState
	source string
}

// BeginRelation starts a gesture for the given type. Unknown types and
// types that cannot be stored are rejected before anything changes.
func (g *Graph) BeginRelation(t domain.RelationType) (*RelationGesture, error) {
	if !t.IsStorable() {
		return nil, fmt.Errorf("creating relation: %w: %q", domain.ErrUnknownRelationType, t)
	}
	return &RelationGesture{g: g, typ: t, state: RelationSelectingSource}, nil
}

// State returns the gesture state.
func (rg *RelationGesture) State() RelationState { return rg.state }

// SelectSource picks the issue the relation starts from.
func (rg *RelationGesture) SelectSource(id string) error {
	if rg.state != RelationSelectingSource {
		return fmt.Errorf("selecting source: %w", domain.ErrGestureState)
	}
	if _, err := rg.g.mustLookup(id); err != nil {
		return err
	}
	rg.source = id
	rg.state = RelationSelectingTarget
	return nil
}

// Allowed reports whether id would be accepted as the target.
func (rg *RelationGesture) Allowed(id string) bool {
	return rg.check(id) == nil
}

// SelectTarget completes the gesture. A target that breaks the predicate is
// rejected with domain.ErrRelationRejected and the gesture keeps waiting
// for another target.
func (rg *RelationGesture) SelectTarget(id string) (RelationRequest, error) {
	if rg.state != RelationSelectingTarget {
		return RelationRequest{}, fmt.Errorf("selecting target: %w", domain.ErrGestureState)
	}
	if err := rg.check(id); err != nil {
		rg.g.recorder.RecordRejection("relation")
		return RelationRequest{}, err
	}

	today := rg.g.today()
	source := rg.g.nodes[rg.source].Span(today)
	target := rg.g.nodes[id].Span(today)

	req := RelationRequest{FromID: rg.source, ToID: id, Type: rg.typ}
	if rg.typ == domain.RelationPrecedes {
		// Keep the gap that exists right now.
		req.Delay = calendar.Between(target.Start, source.Due).Days() - 1
	}
	rg.state = RelationCreated
	return req, nil
}

func (rg *RelationGesture) check(id string) error {
	if rg.state != RelationSelectingTarget {
		return fmt.Errorf("checking target: %w", domain.ErrGestureState)
	}
	targetNode, err := rg.g.mustLookup(id)
	if err != nil {
		return err
	}
	if id == rg.source {
		return fmt.Errorf("%w: issue %s cannot relate to itself", domain.ErrRelationRejected, id)
	}
	sourceNode := rg.g.nodes[rg.source]

	today := rg.g.today()
	source := sourceNode.Span(today)
	target := targetNode.Span(today)
	switch rg.typ {
	case domain.RelationBlocks:
		if target.Due.Before(source.Due) {
			return fmt.Errorf("%w: %s is due before blocking issue %s", domain.ErrRelationRejected, id, rg.source)
		}
	case domain.RelationPrecedes:
		if target.Start.Before(source.Due) {
			return fmt.Errorf("%w: %s starts before preceding issue %s is due", domain.ErrRelationRejected, id, rg.source)
		}
	case domain.RelationRelates, domain.RelationCopiedTo,
		domain.RelationDuplicates, domain.RelationParentLink:
	}

	for _, rid := range sourceNode.Outgoing {
		r := rg.g.relations[rid]
		if r.ToID == id && r.Type == rg.typ {
			return fmt.Errorf("%w: %s relation from %s to %s already exists", domain.ErrRelationRejected, rg.typ, rg.source, id)
		}
	}
	return nil
}

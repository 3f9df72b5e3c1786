package domain

import "fmt"

// RelationType is the closed set of relation kinds between two issues.
type RelationType string

const (
	RelationPrecedes   RelationType = "precedes"
	RelationBlocks     RelationType = "blocks"
	RelationRelates    RelationType = "relates"
	RelationCopiedTo   RelationType = "copied_to"
	RelationDuplicates RelationType = "duplicates"
	// RelationParentLink is drawn for containment; it is never stored.
	RelationParentLink RelationType = "parent_link"
)

// StorableRelationTypes lists the types accepted by the relation table.
var StorableRelationTypes = []RelationType{
	RelationPrecedes,
	RelationBlocks,
	RelationRelates,
	RelationCopiedTo,
	RelationDuplicates,
}

// ParseRelationType validates s against the known relation types.
func ParseRelationType(s string) (RelationType, error) {
	switch t := RelationType(s); t {
	case RelationPrecedes, RelationBlocks, RelationRelates,
		RelationCopiedTo, RelationDuplicates, RelationParentLink:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRelationType, s)
}

// IsTemporal reports whether the relation constrains dates.
func (t RelationType) IsTemporal() bool {
	return t == RelationPrecedes || t == RelationBlocks
}

// IsStorable reports whether the relation may be persisted.
func (t RelationType) IsStorable() bool {
	switch t {
	case RelationPrecedes, RelationBlocks, RelationRelates,
		RelationCopiedTo, RelationDuplicates:
		return true
	}
	return false
}

// IsSymmetric reports whether the relation is undirected for display.
func (t RelationType) IsSymmetric() bool {
	switch t {
	case RelationRelates, RelationCopiedTo, RelationDuplicates:
		return true
	}
	return false
}

// Relation is a typed edge from one issue to another. Delay is a signed day
// count and only meaningful for precedes.
type Relation struct {
	ID     string
	FromID string
	ToID   string
	Type   RelationType
	Delay  int
}

// Validate checks the relation before it enters the graph or the store.
func (r *Relation) Validate() error {
	if !r.Type.IsStorable() {
		return fmt.Errorf("%w: %q", ErrUnknownRelationType, r.Type)
	}
	if r.FromID == "" || r.ToID == "" {
		return fmt.Errorf("relation endpoints are required")
	}
	return nil
}

package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the top-level JSON structure of an import file: the issue
// table and the relation table of one schedule.
type Snapshot struct {
	Issues    []IssueImport    `json:"issues" validate:"required,min=1"`
	Relations []RelationImport `json:"relations,omitempty"`
}

// IssueImport defines an issue in the import file. An issue without an id
// gets a generated one and cannot be referenced by relations or children.
type IssueImport struct {
	ID        string  `json:"id,omitempty" validate:"omitempty,max=64"`
	Subject   string  `json:"subject,omitempty" validate:"max=255"`
	StartDate *string `json:"start_date,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	ParentID  *string `json:"parent_id,omitempty"`
	Leaf      *bool   `json:"leaf,omitempty"`
	Milestone bool    `json:"milestone,omitempty"`
}

// RelationImport defines a typed relation. Endpoints may reference issues
// that are not part of the snapshot; such relations are kept dangling.
type RelationImport struct {
	ID    string `json:"id,omitempty" validate:"omitempty,max=64"`
	From  string `json:"from" validate:"required,max=64"`
	To    string `json:"to" validate:"required,max=64"`
	Type  string `json:"type" validate:"required,oneof=precedes blocks relates copied_to duplicates"`
	Delay *int   `json:"delay,omitempty"`
}

// LoadSnapshot reads and parses an import JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(data)
}

// ParseSnapshot parses import JSON.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &s, nil
}

package graph

import (
	"sort"

	"github.com/alexanderramin/plangraph/internal/calendar"
)

// ChangeEntry is one flushed issue in canonical date-only form. Milestones
// carry only a due date.
type ChangeEntry struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date,omitempty"`
	DueDate   string `json:"due_date"`
}

// ChangeSet collects the nodes touched since the last flush, keyed by id.
// Entries reflect each node's final dates, so repeated edits of one node
// collapse to its last state.
type ChangeSet struct {
	dirty map[string]*Node
}

func newChangeSet() *ChangeSet {
	return &ChangeSet{dirty: make(map[string]*Node)}
}

func (cs *ChangeSet) mark(n *Node) {
	cs.dirty[n.ID] = n
}

func (cs *ChangeSet) unmark(id string) {
	delete(cs.dirty, id)
}

// Len returns the number of touched nodes.
func (cs *ChangeSet) Len() int { return len(cs.dirty) }

// Contains reports whether the node was touched.
func (cs *ChangeSet) Contains(id string) bool {
	_, ok := cs.dirty[id]
	return ok
}

// IDs returns the touched ids in ascending order.
func (cs *ChangeSet) IDs() []string {
	ids := make([]string, 0, len(cs.dirty))
	for id := range cs.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entries renders the touched nodes, ordered by id.
func (cs *ChangeSet) Entries() []ChangeEntry {
	entries := make([]ChangeEntry, 0, len(cs.dirty))
	for _, id := range cs.IDs() {
		n := cs.dirty[id]
		e := ChangeEntry{ID: id, DueDate: calendar.FormatISO(n.Due)}
		if !n.Milestone {
			e.StartDate = calendar.FormatISO(n.Start)
		}
		entries = append(entries, e)
	}
	return entries
}

// Flush returns the pending entries and commits the open edit: backups are
// dropped and the change-set is emptied.
func (g *Graph) Flush() []ChangeEntry {
	entries := g.changes.Entries()
	for _, n := range g.nodes {
		n.backup = nil
	}
	g.changes = newChangeSet()
	g.recorder.RecordFlush(len(entries))
	return entries
}

// Restore aborts the open edit: every node with a backup gets its original
// dates back and the change-set is emptied. It returns the restored ids.
func (g *Graph) Restore() []string {
	var restored []string
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.backup == nil {
			continue
		}
		n.Start, n.Due = n.backup.Start, n.backup.Due
		n.backup = nil
		n.computedAt = 0
		restored = append(restored, id)
	}
	g.changes = newChangeSet()
	return restored
}

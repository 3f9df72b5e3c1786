package graph

import (
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// Span is a pair of dates. For a milestone Start equals Due.
type Span struct {
	Start time.Time
	Due   time.Time
}

// Duration returns Due - Start in whole days.
func (s Span) Duration() calendar.Interval {
	return calendar.Between(s.Due, s.Start)
}

// Limits is the feasible window computed by the bound solver. A zero field
// means the side is unbounded.
type Limits struct {
	MinStart time.Time
	MaxStart time.Time
	MinDue   time.Time
	MaxDue   time.Time
}

// Node is a schedulable issue inside the graph.
type Node struct {
	ID        string
	Subject   string
	Start     time.Time // zero when unset
	Due       time.Time // zero when unset
	Milestone bool
	Leaf      bool
	ParentID  string // may reference a node that is not loaded

	// Derived by Build; ids into the node and relation tables.
	Children []string
	Incoming []string
	Outgoing []string

	limits     Limits
	computedAt Pass

	movedAt Pass
	backup  *Span
}

// NodeFromIssue converts a stored issue into a graph node.
func NodeFromIssue(i *domain.Issue) *Node {
	n := &Node{
		ID:        i.ID,
		Subject:   i.Subject,
		Milestone: i.Milestone,
		Leaf:      i.Leaf,
	}
	if i.StartDate != nil {
		n.Start = calendar.Normalize(*i.StartDate)
	}
	if i.DueDate != nil {
		n.Due = calendar.Normalize(*i.DueDate)
	}
	if i.HasParent() {
		n.ParentID = *i.ParentID
	}
	return n
}

// Limits returns the window computed by the last bound pass over this node.
func (n *Node) Limits() Limits {
	return n.limits
}

// Backup returns the dates captured when the node was first touched by the
// currently open edit.
func (n *Node) Backup() (Span, bool) {
	if n.backup == nil {
		return Span{}, false
	}
	return *n.backup, true
}

// Span returns the effective dates of the node. Missing dates are anchored
// to today: start falls back to today, due to start + 1 day. A milestone is
// zero-width at its due date.
func (n *Node) Span(today time.Time) Span {
	start, due := n.Start, n.Due
	if n.Milestone {
		if !calendar.IsSet(due) {
			due = start
		}
		if !calendar.IsSet(due) {
			due = today
		}
		return Span{Start: due, Due: due}
	}
	if !calendar.IsSet(start) {
		start = today
	}
	if !calendar.IsSet(due) || !due.After(start) {
		due = calendar.Add(start, calendar.Days(1))
	}
	return Span{Start: start, Due: due}
}

func (n *Node) setSpan(s Span) {
	n.Due = s.Due
	if n.Milestone {
		n.Start = s.Due
		return
	}
	n.Start = s.Start
}

// Relation is a typed edge in the relation table.
type Relation struct {
	ID     string
	FromID string
	ToID   string
	Type   domain.RelationType
	Delay  int
}

// RelationFromDomain converts a stored relation.
func RelationFromDomain(r *domain.Relation) *Relation {
	return &Relation{
		ID:     r.ID,
		FromID: r.FromID,
		ToID:   r.ToID,
		Type:   r.Type,
		Delay:  r.Delay,
	}
}

// gap is the whole-day distance a precedes relation keeps between the
// predecessor's due date and the successor's start.
func (r *Relation) gap() calendar.Interval {
	return calendar.Days(r.Delay + 1)
}

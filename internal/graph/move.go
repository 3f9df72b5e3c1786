package graph

import (
	"fmt"
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// Change is either a relative shift applied to both dates or an explicit
// (start, due) pair.
type Change struct {
	shift    calendar.Interval
	span     Span
	explicit bool
}

// Shift moves start and due by the same interval. Descendants follow.
func Shift(iv calendar.Interval) Change {
	return Change{shift: iv}
}

// Reschedule sets both dates explicitly. Descendants do not follow.
func Reschedule(start, due time.Time) Change {
	return Change{
		span:     Span{Start: calendar.Normalize(start), Due: calendar.Normalize(due)},
		explicit: true,
	}
}

// IsRelative reports whether the change is a shift.
func (c Change) IsRelative() bool { return !c.explicit }

// Interval returns the shift of a relative change.
func (c Change) Interval() calendar.Interval { return c.shift }

// Span returns the target dates of an explicit change.
func (c Change) Span() Span { return c.span }

func (c Change) String() string {
	if c.explicit {
		return fmt.Sprintf("%s..%s", calendar.FormatISO(c.span.Start), calendar.FormatISO(c.span.Due))
	}
	return c.shift.String()
}

// Move applies change to the node and cascades it through relations,
// ancestors and (for shifts) descendants. Each node moves at most once per
// pass, so diamonds apply a change once and relation cycles terminate.
// A cycle may leave some constraints unsatisfied; that is not detected.
//
// An explicit change whose start is not before its due date is rejected
// with domain.ErrInvalidRange and nothing is modified.
func (g *Graph) Move(id string, change Change, pass Pass) (*ChangeSet, error) {
	n, err := g.mustLookup(id)
	if err != nil {
		return g.changes, err
	}
	if change.explicit && !change.span.Start.Before(change.span.Due) {
		g.recorder.RecordRejection("invalid_range")
		g.logger.Debug("rejecting reschedule", "issue", id, "change", change.String())
		return g.changes, fmt.Errorf("moving issue %s to %s: %w", id, change, domain.ErrInvalidRange)
	}

	g.recorder.RecordPass(PassMove)
	g.logger.Debug("moving issue", "issue", id, "change", change.String(), "pass", uint64(pass))
	today := g.today()
	g.move(n, change, pass, today)
	g.settle(pass, today)
	return g.changes, nil
}

// settle re-fits the ancestors of every node touched in the pass until no
// container changes. Cascades reach nodes in any order, so a container
// fitted early can be outgrown by a child moved later.
func (g *Graph) settle(pass Pass, today time.Time) {
	for round := 0; round <= len(g.nodes); round++ {
		changed := false
		for _, id := range g.changes.IDs() {
			if n, ok := g.nodes[id]; ok && g.fitAncestors(n, pass, today) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
	g.logger.Warn("containers did not settle", "pass", uint64(pass))
}

func (g *Graph) move(n *Node, change Change, pass Pass, today time.Time) {
	if n.movedAt == pass {
		return
	}
	n.movedAt = pass

	current := n.Span(today)
	var next Span
	if change.explicit {
		next = change.span
		if n.Milestone {
			next.Start = next.Due
		}
		if next == current {
			return
		}
	} else {
		if change.shift.IsZero() {
			return
		}
		next = Span{
			Start: calendar.Add(current.Start, change.shift),
			Due:   calendar.Add(current.Due, change.shift),
		}
	}

	g.touch(n)
	n.setSpan(next)
	g.recorder.RecordNodeMoved()

	g.cascade(n, next, pass, today)
	g.fitAncestors(n, pass, today)

	if !change.explicit {
		for _, cid := range n.Children {
			if child, ok := g.nodes[cid]; ok {
				g.move(child, change, pass, today)
			}
		}
	}
}

// cascade pushes n's new span through its relations.
func (g *Graph) cascade(n *Node, next Span, pass Pass, today time.Time) {
	for _, rid := range n.Outgoing {
		r := g.relations[rid]
		to, ok := g.nodes[r.ToID]
		if !ok {
			continue
		}
		switch r.Type {
		case domain.RelationBlocks:
			// Ratchet: push the blocked issue only when it now ends first.
			toSpan := to.Span(today)
			if toSpan.Due.Before(next.Due) {
				g.move(to, Shift(calendar.Between(next.Due, toSpan.Due)), pass, today)
			}
		case domain.RelationPrecedes:
			// Rigid: the successor starts exactly gap days after this due date.
			target := calendar.Add(next.Due, r.gap())
			g.move(to, Shift(calendar.Between(target, to.Span(today).Start)), pass, today)
		case domain.RelationRelates, domain.RelationCopiedTo,
			domain.RelationDuplicates, domain.RelationParentLink:
		}
	}

	for _, rid := range n.Incoming {
		r := g.relations[rid]
		from, ok := g.nodes[r.FromID]
		if !ok {
			continue
		}
		switch r.Type {
		case domain.RelationBlocks:
			fromSpan := from.Span(today)
			if next.Due.Before(fromSpan.Due) {
				g.move(from, Shift(calendar.Between(next.Due, fromSpan.Due)), pass, today)
			}
		case domain.RelationPrecedes:
			target := calendar.Sub(next.Start, r.gap())
			g.move(from, Shift(calendar.Between(target, from.Span(today).Due)), pass, today)
		case domain.RelationRelates, domain.RelationCopiedTo,
			domain.RelationDuplicates, domain.RelationParentLink:
		}
	}
}

// touch captures the backup on the first change of the open edit and marks
// the node dirty.
func (g *Graph) touch(n *Node) {
	if n.backup == nil {
		n.backup = &Span{Start: n.Start, Due: n.Due}
	}
	g.changes.mark(n)
}

// FitAncestors re-fits every ancestor of the node to the union of its
// children's spans, walking up to the root. Each re-fit is an explicit
// reschedule through the propagator, so ancestors cascade their own
// relations but never shift their descendants.
func (g *Graph) FitAncestors(id string, pass Pass) error {
	n, err := g.mustLookup(id)
	if err != nil {
		return err
	}
	today := g.today()
	g.fitAncestors(n, pass, today)
	g.settle(pass, today)
	return nil
}

// fitAncestors reports whether any ancestor changed.
func (g *Graph) fitAncestors(n *Node, pass Pass, today time.Time) bool {
	changed := false
	// A parent chain can loop when parent ids form a cycle; no chain is
	// longer than the node table.
	steps := len(g.nodes)
	for parent := g.parentOf(n); parent != nil && steps > 0; parent = g.parentOf(parent) {
		steps--
		union, ok := g.childrenSpan(parent, today)
		if !ok {
			continue
		}
		if union == parent.Span(today) {
			continue
		}
		changed = true
		if parent.movedAt == pass {
			// A later sibling grew past a parent fitted earlier in this pass.
			// Fitting is idempotent, so it bypasses the once-per-pass guard.
			g.touch(parent)
			parent.setSpan(union)
			g.recorder.RecordNodeMoved()
			g.cascade(parent, parent.Span(today), pass, today)
			continue
		}
		g.move(parent, Change{span: union, explicit: true}, pass, today)
	}
	return changed
}

// childrenSpan returns [min child start, max child due]. A zero-width union
// (only milestones on one day) is widened to one day so that it remains a
// valid explicit span.
func (g *Graph) childrenSpan(parent *Node, today time.Time) (Span, bool) {
	var union Span
	found := false
	for _, cid := range parent.Children {
		child, ok := g.nodes[cid]
		if !ok {
			continue
		}
		s := child.Span(today)
		if !found {
			union = s
			found = true
			continue
		}
		union.Start = calendar.Min(union.Start, s.Start)
		union.Due = calendar.Max(union.Due, s.Due)
	}
	if found && !parent.Milestone && !union.Start.Before(union.Due) {
		union.Due = calendar.Add(union.Start, calendar.Days(1))
	}
	return union, found
}

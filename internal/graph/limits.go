package graph

import (
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// Direction limits which side of the constraint graph the bound solver
// follows.
type Direction int

const (
	// Backward follows the parent's lower bound and incoming relations.
	Backward Direction = -1
	// Both is only used for the entry call of a drag gesture.
	Both Direction = 0
	// Forward follows the parent's upper bound and outgoing relations.
	Forward Direction = 1
)

// ComputeLimits computes the tightest feasible window for the node without
// moving anything. A node already computed at pass or later is not
// recomputed, which bounds the traversal on cycles.
//
// Nodes reached with a one-sided direction treat an unconstrained side as
// fixed: it falls back to the parent's current dates, or the node's own.
// That is what turns the current position of a chain's head into a bound
// for everything behind it. A node computed with Both keeps an
// unconstrained side unbounded.
func (g *Graph) ComputeLimits(id string, dir Direction, pass Pass) (Limits, error) {
	n, err := g.mustLookup(id)
	if err != nil {
		return Limits{}, err
	}
	g.recorder.RecordPass(PassLimits)
	g.logger.Debug("computing limits", "issue", id, "direction", int(dir), "pass", uint64(pass))
	g.computeLimits(n, dir, pass, g.today())
	return n.limits, nil
}

func (g *Graph) computeLimits(n *Node, dir Direction, pass Pass, today time.Time) {
	if n.computedAt >= pass {
		return
	}
	n.computedAt = pass
	n.limits = Limits{}

	span := n.Span(today)
	duration := span.Duration()
	lim := &n.limits

	parent := g.parentOf(n)
	if parent != nil {
		g.computeLimits(parent, dir, pass, today)
		if dir <= 0 {
			raise(&lim.MinStart, parent.limits.MinStart)
		}
		if dir >= 0 {
			lower(&lim.MaxDue, parent.limits.MaxDue)
		}
	}

	if dir <= 0 {
		for _, rid := range n.Incoming {
			r := g.relations[rid]
			from, ok := g.nodes[r.FromID]
			if !ok {
				continue
			}
			switch r.Type {
			case domain.RelationBlocks:
				// The predecessor must end before this node can end.
				g.computeLimits(from, Backward, pass, today)
				if calendar.IsSet(from.limits.MinDue) {
					raise(&lim.MinStart, calendar.Sub(from.limits.MinDue, duration))
				}
			case domain.RelationPrecedes:
				// The predecessor must end before this node can begin.
				g.computeLimits(from, Backward, pass, today)
				if calendar.IsSet(from.limits.MinDue) {
					raise(&lim.MinStart, calendar.Add(from.limits.MinDue, r.gap()))
				}
			case domain.RelationRelates, domain.RelationCopiedTo,
				domain.RelationDuplicates, domain.RelationParentLink:
			}
		}
	}

	if dir >= 0 {
		for _, rid := range n.Outgoing {
			r := g.relations[rid]
			to, ok := g.nodes[r.ToID]
			if !ok {
				continue
			}
			switch r.Type {
			case domain.RelationBlocks:
				g.computeLimits(to, Forward, pass, today)
				lower(&lim.MaxDue, to.limits.MaxDue)
			case domain.RelationPrecedes:
				g.computeLimits(to, Forward, pass, today)
				if calendar.IsSet(to.limits.MaxStart) {
					lower(&lim.MaxDue, calendar.Sub(to.limits.MaxStart, r.gap()))
				}
			case domain.RelationRelates, domain.RelationCopiedTo,
				domain.RelationDuplicates, domain.RelationParentLink:
			}
		}
	}

	if dir != Both {
		if !calendar.IsSet(lim.MinStart) {
			if parent != nil && calendar.IsSet(parent.Start) {
				lim.MinStart = parent.Start
			} else {
				lim.MinStart = span.Start
			}
		}
		if !calendar.IsSet(lim.MaxDue) {
			if parent != nil && calendar.IsSet(parent.Due) {
				lim.MaxDue = parent.Due
			} else {
				lim.MaxDue = span.Due
			}
		}
	}

	if calendar.IsSet(lim.MinStart) {
		lim.MinDue = calendar.Add(lim.MinStart, duration)
	}
	if calendar.IsSet(lim.MaxDue) {
		lim.MaxStart = calendar.Sub(lim.MaxDue, duration)
	}
}

// raise moves a lower bound up to limit when limit is tighter.
func raise(bound *time.Time, limit time.Time) {
	if !calendar.IsSet(limit) {
		return
	}
	if !calendar.IsSet(*bound) || limit.After(*bound) {
		*bound = limit
	}
}

// lower moves an upper bound down to limit when limit is tighter.
func lower(bound *time.Time, limit time.Time) {
	if !calendar.IsSet(limit) {
		return
	}
	if !calendar.IsSet(*bound) || limit.Before(*bound) {
		*bound = limit
	}
}

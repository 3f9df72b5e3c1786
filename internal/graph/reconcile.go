package graph

import (
	"sort"

	"github.com/alexanderramin/plangraph/internal/calendar"
)

// Reconcile overwrites local dates with authoritative ones. Ids that are not
// loaded are ignored. Updated nodes lose their computed bounds so the next
// pass derives them again. It returns the updated ids in ascending order.
func (g *Graph) Reconcile(authoritative map[string]Span) []string {
	var updated []string
	for id, span := range authoritative {
		n, ok := g.nodes[id]
		if !ok {
			g.logger.Debug("ignoring reconciliation for unknown issue", "issue", id)
			continue
		}
		start := calendar.Normalize(span.Start)
		due := calendar.Normalize(span.Due)
		if n.Start.Equal(start) && n.Due.Equal(due) {
			continue
		}
		n.Start, n.Due = start, due
		n.computedAt = 0
		updated = append(updated, id)
	}
	sort.Strings(updated)
	return updated
}

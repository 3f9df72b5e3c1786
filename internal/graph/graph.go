// Package graph holds the temporal constraint graph of a schedule: issues
// linked by containment and typed relations, the bound solver used to clamp
// interactive edits, and the propagator that keeps relations and ancestor
// spans consistent after a date change.
//
// A Graph is not safe for concurrent use. Every pass runs to completion
// synchronously; callers serialize access.
package graph

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// Pass identifies one bounded traversal. Nodes stamp the pass at which they
// were last computed or moved so that a traversal visits each node once.
type Pass uint64

// Graph owns the node table and the relation table. All references between
// nodes and relations are id lookups into these tables.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	relations map[string]*Relation
	relOrder  []string

	changes *ChangeSet
	pass    Pass

	clock    calendar.Clock
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Graph.
type Option func(*Graph)

// WithClock sets the clock used for the "today" fallback of undated issues.
func WithClock(c calendar.Clock) Option {
	return func(g *Graph) { g.clock = c }
}

// WithLogger sets the logger for debug traces of passes and rejections.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(g *Graph) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:     make(map[string]*Node),
		relations: make(map[string]*Relation),
		changes:   newChangeSet(),
		clock:     calendar.SystemClock{},
		logger:    slog.New(slog.DiscardHandler),
		recorder:  NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NextPass returns a fresh pass id. Pass ids grow monotonically for the life
// of the graph, including across Reset.
func (g *Graph) NextPass() Pass {
	g.pass++
	return g.pass
}

func (g *Graph) today() time.Time {
	return calendar.Today(g.clock)
}

// AddNode inserts n. A node whose id is already present is ignored and
// false is returned.
func (g *Graph) AddNode(n *Node) bool {
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return true
}

// RemoveNode deletes a node. Relations pointing at it become dangling until
// the node reappears; call Build afterwards.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.changes.unmark(id)
	g.nodeOrder = removeID(g.nodeOrder, id)
}

// AddRelation stores r and returns the stored relation. A relation with an
// existing id is not replaced. A relation whose endpoints are missing is
// stored anyway; Build leaves it out of the adjacency.
func (g *Graph) AddRelation(r *Relation) *Relation {
	if existing, ok := g.relations[r.ID]; ok {
		return existing
	}
	g.relations[r.ID] = r
	g.relOrder = append(g.relOrder, r.ID)

	from, fromOK := g.nodes[r.FromID]
	to, toOK := g.nodes[r.ToID]
	if fromOK && toOK {
		from.Outgoing = appendUnique(from.Outgoing, r.ID)
		to.Incoming = appendUnique(to.Incoming, r.ID)
	}
	return r
}

// RemoveRelation deletes the relation and detaches it from its endpoints.
func (g *Graph) RemoveRelation(id string) {
	r, ok := g.relations[id]
	if !ok {
		return
	}
	if from, ok := g.nodes[r.FromID]; ok {
		from.Outgoing = removeID(from.Outgoing, id)
	}
	if to, ok := g.nodes[r.ToID]; ok {
		to.Incoming = removeID(to.Incoming, id)
	}
	delete(g.relations, id)
	g.relOrder = removeID(g.relOrder, id)
}

// Reset clears both tables and the pending change-set.
func (g *Graph) Reset() {
	g.nodes = make(map[string]*Node)
	g.nodeOrder = nil
	g.relations = make(map[string]*Relation)
	g.relOrder = nil
	g.changes = newChangeSet()
}

// Lookup returns the node with the given id. Callers must treat the node as
// read-only; dates change only through Move and Reconcile.
func (g *Graph) Lookup(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Relation returns the relation with the given id.
func (g *Graph) Relation(id string) (*Relation, bool) {
	r, ok := g.relations[id]
	return r, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Roots returns the nodes without a loaded parent, in insertion order.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if g.parentOf(n) == nil {
			out = append(out, n)
		}
	}
	return out
}

// Relations returns all stored relations in insertion order, dangling ones
// included.
func (g *Graph) Relations() []*Relation {
	out := make([]*Relation, 0, len(g.relOrder))
	for _, id := range g.relOrder {
		out = append(out, g.relations[id])
	}
	return out
}

// Dangling returns the relations that reference a missing node.
func (g *Graph) Dangling() []*Relation {
	var out []*Relation
	for _, id := range g.relOrder {
		r := g.relations[id]
		if !g.attached(r) {
			out = append(out, r)
		}
	}
	return out
}

// Changes returns the pending change-set.
func (g *Graph) Changes() *ChangeSet {
	return g.changes
}

func (g *Graph) attached(r *Relation) bool {
	_, fromOK := g.nodes[r.FromID]
	_, toOK := g.nodes[r.ToID]
	return fromOK && toOK
}

func (g *Graph) parentOf(n *Node) *Node {
	if n.ParentID == "" || n.ParentID == n.ID {
		return nil
	}
	return g.nodes[n.ParentID]
}

func (g *Graph) mustLookup(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

package graph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func chainID(i int) string { return fmt.Sprintf("n%d", i) }

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// tautPrecedesChain lays out n0 precedes n1 precedes ... with every gap
// exactly delay + 1 days.
func tautPrecedesChain(durations, delays []int) *Graph {
	g := New(WithClock(calendar.FixedClock(testToday)))
	start := jan(1)
	for i, d := range durations {
		due := calendar.Add(start, calendar.Days(atLeastOne(d)))
		g.AddNode(&Node{ID: chainID(i), Start: start, Due: due, Leaf: true})
		delay := 0
		if i < len(delays) {
			delay = delays[i]
		}
		if i+1 < len(durations) {
			g.AddRelation(rel(fmt.Sprintf("r%d", i), chainID(i), chainID(i+1), domain.RelationPrecedes, delay))
		}
		start = calendar.Add(due, calendar.Days(delay+1))
	}
	g.Build()
	return g
}

func TestMoveProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("precedes offset is rigid after a shift", prop.ForAll(
		func(durations, delays []int, pick, days int) bool {
			if len(durations) == 0 {
				return true
			}
			g := tautPrecedesChain(durations, delays)
			if _, err := g.Move(chainID(pick%len(durations)), Shift(calendar.Days(days)), g.NextPass()); err != nil {
				return false
			}
			for _, r := range g.Relations() {
				from, _ := g.Lookup(r.FromID)
				to, _ := g.Lookup(r.ToID)
				if !to.Start.Equal(calendar.Add(from.Due, r.gap())) {
					return false
				}
			}
			for i, d := range durations {
				n, _ := g.Lookup(chainID(i))
				if n.Span(testToday).Duration() != calendar.Days(atLeastOne(d)) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.IntRange(1, 5)),
		gen.SliceOfN(4, gen.IntRange(0, 3)),
		gen.IntRange(0, 4),
		gen.IntRange(-10, 10),
	))

	properties.Property("blocks only ever pushes forward", prop.ForAll(
		func(durations, slack []int, days int) bool {
			g := New(WithClock(calendar.FixedClock(testToday)))
			due := jan(5)
			for i, d := range durations {
				if i > 0 && i-1 < len(slack) {
					due = calendar.Add(due, calendar.Days(slack[i-1]))
				}
				start := calendar.Sub(due, calendar.Days(atLeastOne(d)))
				g.AddNode(&Node{ID: chainID(i), Start: start, Due: due, Leaf: true})
				if i > 0 {
					g.AddRelation(rel(fmt.Sprintf("r%d", i), chainID(i-1), chainID(i), domain.RelationBlocks, 0))
				}
			}
			g.Build()

			before := make(map[string]Span)
			for _, n := range g.Nodes() {
				before[n.ID] = Span{n.Start, n.Due}
			}
			if _, err := g.Move(chainID(0), Shift(calendar.Days(days)), g.NextPass()); err != nil {
				return false
			}

			for _, r := range g.Relations() {
				from, _ := g.Lookup(r.FromID)
				to, _ := g.Lookup(r.ToID)
				if to.Due.Before(from.Due) {
					return false
				}
				if to.Due.Before(before[to.ID].Due) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.IntRange(1, 6)),
		gen.SliceOfN(4, gen.IntRange(0, 4)),
		gen.IntRange(-10, 10),
	))

	properties.Property("zero shift leaves the change-set empty", prop.ForAll(
		func(durations, delays []int, pick int) bool {
			if len(durations) == 0 {
				return true
			}
			g := tautPrecedesChain(durations, delays)
			cs, err := g.Move(chainID(pick%len(durations)), Shift(calendar.Days(0)), g.NextPass())
			return err == nil && cs.Len() == 0
		},
		gen.SliceOfN(5, gen.IntRange(1, 5)),
		gen.SliceOfN(4, gen.IntRange(0, 3)),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}

func TestLimitsProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	types := []domain.RelationType{
		domain.RelationPrecedes, domain.RelationBlocks, domain.RelationRelates,
	}

	properties.Property("derived bounds keep the duration", prop.ForAll(
		func(offsets, durations, kinds []int, pick int) bool {
			n := len(offsets)
			if n == 0 || len(durations) < n {
				return true
			}
			g := New(WithClock(calendar.FixedClock(testToday)))
			for i := 0; i < n; i++ {
				start := jan(1 + offsets[i])
				g.AddNode(&Node{ID: chainID(i), Start: start, Due: calendar.Add(start, calendar.Days(atLeastOne(durations[i]))), Leaf: true})
			}
			for i := 1; i < n && i-1 < len(kinds); i++ {
				typ := types[kinds[i-1]%len(types)]
				g.AddRelation(rel(fmt.Sprintf("r%d", i), chainID(i-1), chainID(i), typ, 0))
			}
			g.Build()

			id := chainID(pick % n)
			lim, err := g.ComputeLimits(id, Both, g.NextPass())
			if err != nil {
				return false
			}
			node, _ := g.Lookup(id)
			duration := node.Span(testToday).Duration()
			if calendar.IsSet(lim.MinStart) && calendar.Between(lim.MinDue, lim.MinStart) != duration {
				return false
			}
			if calendar.IsSet(lim.MaxDue) && calendar.Between(lim.MaxDue, lim.MaxStart) != duration {
				return false
			}
			return true
		},
		gen.SliceOfN(6, gen.IntRange(0, 30)),
		gen.SliceOfN(6, gen.IntRange(1, 7)),
		gen.SliceOfN(5, gen.IntRange(0, 2)),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}

// TestMove_Invariants_ContainmentAfterSingleEdit builds random hierarchies
// whose containers already cover their children, links siblings with
// precedes and blocks relations, and checks that any single leaf edit or
// shift keeps every container covering its children.
func TestMove_Invariants_ContainmentAfterSingleEdit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 300; trial++ {
		size := rng.Intn(10) + 2
		parents := make([]int, size)
		parents[0] = -1
		hasChildren := make([]bool, size)
		for i := 1; i < size; i++ {
			parents[i] = rng.Intn(i)
			hasChildren[parents[i]] = true
		}

		spans := make([]Span, size)
		for i := size - 1; i >= 0; i-- {
			if hasChildren[i] {
				continue
			}
			start := jan(1 + rng.Intn(40))
			spans[i] = Span{start, calendar.Add(start, calendar.Days(rng.Intn(6)+1))}
		}
		// Children always have a larger index than their parent.
		for i := size - 1; i >= 0; i-- {
			if !hasChildren[i] {
				continue
			}
			first := true
			for c := i + 1; c < size; c++ {
				if parents[c] != i {
					continue
				}
				if first {
					spans[i] = spans[c]
					first = false
					continue
				}
				spans[i].Start = calendar.Min(spans[i].Start, spans[c].Start)
				spans[i].Due = calendar.Max(spans[i].Due, spans[c].Due)
			}
		}

		g := New(WithClock(calendar.FixedClock(testToday)))
		for i := 0; i < size; i++ {
			n := &Node{ID: chainID(i), Start: spans[i].Start, Due: spans[i].Due, Leaf: !hasChildren[i]}
			if parents[i] >= 0 {
				n.ParentID = chainID(parents[i])
			}
			g.AddNode(n)
		}
		// Temporal edges between siblings, always from the lower index, so
		// the relation graph stays acyclic.
		for a := 1; a < size; a++ {
			for b := a + 1; b < size; b++ {
				if parents[a] != parents[b] || rng.Intn(3) != 0 {
					continue
				}
				typ := domain.RelationPrecedes
				if rng.Intn(2) == 0 {
					typ = domain.RelationBlocks
				}
				g.AddRelation(rel(fmt.Sprintf("r%d_%d", a, b), chainID(a), chainID(b), typ, rng.Intn(3)))
			}
		}
		g.Build()

		target := rng.Intn(size)
		var change Change
		if !hasChildren[target] && rng.Intn(2) == 0 {
			start := jan(1 + rng.Intn(60))
			change = Reschedule(start, calendar.Add(start, calendar.Days(rng.Intn(10)+1)))
		} else {
			change = Shift(calendar.Days(rng.Intn(21) - 10))
		}
		_, err := g.Move(chainID(target), change, g.NextPass())
		assert.NoError(t, err, "trial %d", trial)

		for _, n := range g.Nodes() {
			for _, cid := range n.Children {
				c, _ := g.Lookup(cid)
				assert.False(t, c.Start.Before(n.Start),
					"trial %d: child %s starts before container %s after %s on %s", trial, cid, n.ID, change, chainID(target))
				assert.False(t, c.Due.After(n.Due),
					"trial %d: child %s ends after container %s after %s on %s", trial, cid, n.ID, change, chainID(target))
			}
		}
	}
}

package graph

import (
	"testing"
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeSet_EntriesCanonicalAndSorted(t *testing.T) {
	g := newTestGraph(t, []*Node{
		task("B", jan(10), jan(15)),
		task("A", jan(1), jan(5)),
		task("M", time.Time{}, jan(20), asMilestone()),
	}, rel("r1", "A", "B", domain.RelationPrecedes, 0))

	shift(t, g, "A", 3)
	shift(t, g, "M", 1)

	assert.Equal(t, []ChangeEntry{
		{ID: "A", StartDate: "2024-01-04", DueDate: "2024-01-08"},
		{ID: "B", StartDate: "2024-01-09", DueDate: "2024-01-14"},
		{ID: "M", DueDate: "2024-01-21"},
	}, g.Changes().Entries())
}

func TestChangeSet_RepeatedEditsCollapse(t *testing.T) {
	g := newTestGraph(t, []*Node{task("A", jan(1), jan(5))})

	shift(t, g, "A", 3)
	shift(t, g, "A", -1)

	entries := g.Changes().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-03", entries[0].StartDate)
	assert.Equal(t, "2024-01-07", entries[0].DueDate)
}

func TestFlush_ClearsChangesAndBackups(t *testing.T) {
	rec := newCountingRecorder()
	g := New(WithClock(calendar.FixedClock(testToday)), WithRecorder(rec))
	g.AddNode(task("A", jan(1), jan(5)))
	g.Build()

	shift(t, g, "A", 2)
	a, _ := g.Lookup("A")
	backup, ok := a.Backup()
	require.True(t, ok)
	assert.Equal(t, Span{jan(1), jan(5)}, backup)

	entries := g.Flush()
	require.Len(t, entries, 1)
	assert.Equal(t, 0, g.Changes().Len())
	_, ok = a.Backup()
	assert.False(t, ok)
	assert.Equal(t, []int{1}, rec.flushed)

	// The next edit takes a fresh backup from the committed dates.
	shift(t, g, "A", 1)
	backup, _ = a.Backup()
	assert.Equal(t, Span{jan(3), jan(7)}, backup)
}

func TestRestore_RollsBackEveryTouchedNode(t *testing.T) {
	g := newTestGraph(t, []*Node{
		task("P", jan(1), jan(10), asContainer()),
		task("X", jan(1), jan(10), withParent("P")),
		task("B", jan(11), jan(12)),
	}, rel("r1", "X", "B", domain.RelationPrecedes, 0))

	shift(t, g, "X", 4)
	shift(t, g, "X", 4)
	require.Equal(t, []string{"B", "P", "X"}, g.Changes().IDs())

	restored := g.Restore()
	assert.ElementsMatch(t, []string{"P", "X", "B"}, restored)
	assert.Equal(t, Span{jan(1), jan(10)}, span(t, g, "P"))
	assert.Equal(t, Span{jan(1), jan(10)}, span(t, g, "X"))
	assert.Equal(t, Span{jan(11), jan(12)}, span(t, g, "B"))
	assert.Equal(t, 0, g.Changes().Len())
}

func TestRemoveNode_DropsPendingChange(t *testing.T) {
	g := newTestGraph(t, []*Node{task("A", jan(1), jan(5))})
	shift(t, g, "A", 1)
	require.True(t, g.Changes().Contains("A"))

	g.RemoveNode("A")
	assert.False(t, g.Changes().Contains("A"))
}

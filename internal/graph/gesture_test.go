package graph

import (
	"testing"
	"time"

	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainGraph(t *testing.T) *Graph {
	t.Helper()
	return newTestGraph(t, []*Node{
		task("A", jan(1), jan(5)),
		task("B", jan(10), jan(15)),
	}, rel("r1", "A", "B", domain.RelationPrecedes, 0))
}

func TestDrag_MoveClampsToSuccessor(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("A", DragMove)
	require.NoError(t, err)
	assert.Equal(t, GestureDragging, d.State())
	assert.Equal(t, jan(9), d.Limits().MaxDue)

	cs, err := d.Update(10)
	require.NoError(t, err)
	assert.Equal(t, GestureMoving, d.State())
	assert.Equal(t, []string{"A"}, cs.IDs())
	assert.Equal(t, Span{jan(5), jan(9)}, span(t, g, "A"))
	assert.Equal(t, Span{jan(10), jan(15)}, span(t, g, "B"))

	entries, err := d.Commit()
	require.NoError(t, err)
	assert.Equal(t, []ChangeEntry{{ID: "A", StartDate: "2024-01-05", DueDate: "2024-01-09"}}, entries)
	assert.Equal(t, GestureCommitted, d.State())
	assert.Equal(t, 0, g.Changes().Len())
}

func TestDrag_MoveClampsToPredecessor(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("B", DragMove)
	require.NoError(t, err)
	_, err = d.Update(-20)
	require.NoError(t, err)

	assert.Equal(t, Span{jan(6), jan(11)}, span(t, g, "B"))
	assert.Equal(t, Span{jan(1), jan(5)}, span(t, g, "A"))
}

func TestDrag_UpdatesAreMeasuredFromOrigin(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("A", DragMove)
	require.NoError(t, err)
	_, err = d.Update(2)
	require.NoError(t, err)
	assert.Equal(t, Span{jan(3), jan(7)}, span(t, g, "A"))
	assert.Equal(t, Span{jan(8), jan(13)}, span(t, g, "B"))

	_, err = d.Update(3)
	require.NoError(t, err)
	assert.Equal(t, Span{jan(4), jan(8)}, span(t, g, "A"))
	assert.Equal(t, Span{jan(9), jan(14)}, span(t, g, "B"))

	entries, err := d.Commit()
	require.NoError(t, err)
	assert.Equal(t, []ChangeEntry{
		{ID: "A", StartDate: "2024-01-04", DueDate: "2024-01-08"},
		{ID: "B", StartDate: "2024-01-09", DueDate: "2024-01-14"},
	}, entries)
}

func TestDrag_ResizeEndClampsToLimit(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("A", DragResizeEnd)
	require.NoError(t, err)
	_, err = d.Update(10)
	require.NoError(t, err)

	assert.Equal(t, Span{jan(1), jan(9)}, span(t, g, "A"))
	assert.Equal(t, Span{jan(10), jan(15)}, span(t, g, "B"))
}

func TestDrag_ResizeEndNeverCollapses(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("B", DragResizeEnd)
	require.NoError(t, err)
	_, err = d.Update(-30)
	require.NoError(t, err)

	assert.Equal(t, Span{jan(10), jan(11)}, span(t, g, "B"))
}

func TestDrag_ResizeStartNeverCollapses(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("A", DragResizeStart)
	require.NoError(t, err)
	_, err = d.Update(10)
	require.NoError(t, err)

	assert.Equal(t, Span{jan(4), jan(5)}, span(t, g, "A"))
	// Touching A snaps the slack successor taut.
	assert.Equal(t, Span{jan(6), jan(11)}, span(t, g, "B"))
}

func TestDrag_ResizeStartClampsToPredecessor(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("B", DragResizeStart)
	require.NoError(t, err)
	_, err = d.Update(-8)
	require.NoError(t, err)

	assert.Equal(t, Span{jan(6), jan(15)}, span(t, g, "B"))
}

func TestDrag_AbortRestores(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("A", DragMove)
	require.NoError(t, err)
	_, err = d.Update(2)
	require.NoError(t, err)

	restored, err := d.Abort()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, restored)
	assert.Equal(t, Span{jan(1), jan(5)}, span(t, g, "A"))
	assert.Equal(t, Span{jan(10), jan(15)}, span(t, g, "B"))
	assert.Equal(t, GestureAborted, d.State())
	assert.Equal(t, 0, g.Changes().Len())
}

func TestDrag_ResizeRefusedForContainersAndMilestones(t *testing.T) {
	g := newTestGraph(t, []*Node{
		task("P", jan(1), jan(10), asContainer()),
		task("X", jan(1), jan(10), withParent("P")),
		task("M", time.Time{}, jan(5), asMilestone()),
	})

	for _, id := range []string{"P", "M"} {
		for _, mode := range []DragMode{DragResizeStart, DragResizeEnd} {
			_, err := g.BeginDrag(id, mode)
			assert.ErrorIs(t, err, domain.ErrResizeNotAllowed, "%s %s", id, mode)
		}
		_, err := g.BeginDrag(id, DragMove)
		assert.NoError(t, err)
	}
}

func TestDrag_ContainerMoveCarriesChildren(t *testing.T) {
	g := newTestGraph(t, []*Node{
		task("P", jan(1), jan(10), asContainer()),
		task("X", jan(1), jan(4), withParent("P")),
		task("Y", jan(6), jan(10), withParent("P")),
	})

	d, err := g.BeginDrag("P", DragMove)
	require.NoError(t, err)
	_, err = d.Update(3)
	require.NoError(t, err)

	assert.Equal(t, Span{jan(4), jan(13)}, span(t, g, "P"))
	assert.Equal(t, Span{jan(4), jan(7)}, span(t, g, "X"))
	assert.Equal(t, Span{jan(9), jan(13)}, span(t, g, "Y"))
}

func TestDrag_WrongState(t *testing.T) {
	g := chainGraph(t)

	d, err := g.BeginDrag("A", DragMove)
	require.NoError(t, err)
	_, err = d.Commit()
	require.NoError(t, err)

	_, err = d.Update(1)
	assert.ErrorIs(t, err, domain.ErrGestureState)
	_, err = d.Commit()
	assert.ErrorIs(t, err, domain.ErrGestureState)
	_, err = d.Abort()
	assert.ErrorIs(t, err, domain.ErrGestureState)
}

func TestDrag_UnknownNode(t *testing.T) {
	g := chainGraph(t)
	_, err := g.BeginDrag("nope", DragMove)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseDragMode(t *testing.T) {
	for in, want := range map[string]DragMode{
		"move": DragMove, "start": DragResizeStart, "end": DragResizeEnd,
	} {
		got, err := ParseDragMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDragMode("sideways")
	assert.Error(t, err)
}

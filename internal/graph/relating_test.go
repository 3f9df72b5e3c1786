package graph

import (
	"testing"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relatingGraph(t *testing.T) *Graph {
	t.Helper()
	return newTestGraph(t, []*Node{
		task("A", jan(1), jan(5)),
		task("X", jan(3), jan(8)),
		task("C", jan(10), jan(12)),
		task("E", jan(2), jan(4)),
	}, rel("r1", "A", "C", domain.RelationRelates, 0))
}

func TestRelationGesture_PrecedesRejectsEarlyTarget(t *testing.T) {
	rec := newCountingRecorder()
	g := relatingGraph(t)
	g.recorder = rec

	rg, err := g.BeginRelation(domain.RelationPrecedes)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("A"))
	assert.Equal(t, RelationSelectingTarget, rg.State())

	assert.False(t, rg.Allowed("X"))
	_, err = rg.SelectTarget("X")
	require.ErrorIs(t, err, domain.ErrRelationRejected)
	assert.Equal(t, RelationSelectingTarget, rg.State())
	assert.Equal(t, 1, rec.rejections["relation"])

	req, err := rg.SelectTarget("C")
	require.NoError(t, err)
	assert.Equal(t, RelationRequest{FromID: "A", ToID: "C", Type: domain.RelationPrecedes, Delay: 4}, req)
	assert.Equal(t, RelationCreated, rg.State())
}

func TestRelationGesture_PrecedesDelayFromCurrentGap(t *testing.T) {
	g := newTestGraph(t, []*Node{
		task("A", jan(1), jan(5)),
		task("B", jan(5), jan(9)),
	})
	rg, err := g.BeginRelation(domain.RelationPrecedes)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("A"))

	req, err := rg.SelectTarget("B")
	require.NoError(t, err)
	assert.Equal(t, -1, req.Delay)

	// The stored relation keeps the gap that was drawn.
	g.AddRelation(&Relation{ID: "r1", FromID: req.FromID, ToID: req.ToID, Type: req.Type, Delay: req.Delay})
	_, err = g.Move("A", Shift(calendar.Days(1)), g.NextPass())
	require.NoError(t, err)
	assert.Equal(t, Span{jan(6), jan(10)}, span(t, g, "B"))
}

func TestRelationGesture_BlocksPredicate(t *testing.T) {
	g := relatingGraph(t)
	rg, err := g.BeginRelation(domain.RelationBlocks)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("A"))

	assert.False(t, rg.Allowed("E"), "target due before source due")
	assert.True(t, rg.Allowed("X"))

	req, err := rg.SelectTarget("X")
	require.NoError(t, err)
	assert.Equal(t, 0, req.Delay)
	assert.Equal(t, domain.RelationBlocks, req.Type)
}

func TestRelationGesture_RejectsSelfLoop(t *testing.T) {
	g := relatingGraph(t)
	rg, err := g.BeginRelation(domain.RelationRelates)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("A"))

	_, err = rg.SelectTarget("A")
	assert.ErrorIs(t, err, domain.ErrRelationRejected)
}

func TestRelationGesture_RejectsDuplicateOfSameType(t *testing.T) {
	g := relatingGraph(t)

	rg, err := g.BeginRelation(domain.RelationRelates)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("A"))
	_, err = rg.SelectTarget("C")
	assert.ErrorIs(t, err, domain.ErrRelationRejected)

	// Another type between the same pair is fine.
	rg, err = g.BeginRelation(domain.RelationBlocks)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("A"))
	assert.True(t, rg.Allowed("C"))

	// So is the reverse direction.
	rg, err = g.BeginRelation(domain.RelationRelates)
	require.NoError(t, err)
	require.NoError(t, rg.SelectSource("C"))
	assert.True(t, rg.Allowed("A"))
}

func TestBeginRelation_RejectsUnknownTypes(t *testing.T) {
	g := relatingGraph(t)
	for _, typ := range []domain.RelationType{domain.RelationParentLink, "follows", ""} {
		_, err := g.BeginRelation(typ)
		assert.ErrorIs(t, err, domain.ErrUnknownRelationType, "type %q", typ)
	}
	assert.Len(t, g.Relations(), 1)
}

func TestRelationGesture_WrongState(t *testing.T) {
	g := relatingGraph(t)
	rg, err := g.BeginRelation(domain.RelationBlocks)
	require.NoError(t, err)

	_, err = rg.SelectTarget("C")
	assert.ErrorIs(t, err, domain.ErrGestureState)
	assert.False(t, rg.Allowed("C"))

	assert.ErrorIs(t, rg.SelectSource("nope"), domain.ErrNotFound)
	assert.Equal(t, RelationSelectingSource, rg.State())

	require.NoError(t, rg.SelectSource("A"))
	assert.ErrorIs(t, rg.SelectSource("C"), domain.ErrGestureState)

	_, err = rg.SelectTarget("C")
	require.NoError(t, err)
	_, err = rg.SelectTarget("C")
	assert.ErrorIs(t, err, domain.ErrGestureState)
}

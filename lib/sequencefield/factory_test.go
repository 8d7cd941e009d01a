package sequencefield

import (
	"testing"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryOffsetsAroundContent(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushOffset(42)
	factory.PushOffset(0)
	factory.PushContent(removeMark(&rev, 0, 1))
	factory.PushOffset(42)
	factory.PushOffset(42)

	var list = factory.List()
	require.Len(t, list, 2)
	assert.Equal(t, 42, list[0].Count)
	assert.True(t, list[0].IsNoOp())
	assert.Equal(t, removeMark(&rev, 0, 1), list[1])
}

func TestFactoryTrailingOffsetMaterializesBeforeContent(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(removeMark(&rev, 0, 1))
	factory.PushOffset(3)
	factory.PushContent(removeMark(&rev, 1, 1))

	var list = factory.List()
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[1].Count)
	assert.True(t, list[1].IsNoOp())
}

func TestFactoryMergesAdjacentOffsets(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushOffset(2)
	factory.PushOffset(5)
	factory.PushContent(removeMark(&rev, 0, 1))

	var list = factory.List()
	require.Len(t, list, 2)
	assert.Equal(t, 7, list[0].Count)
}

func TestFactoryMergesContiguousRemoves(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(removeMark(&rev, 0, 2))
	factory.PushContent(removeMark(&rev, 2, 3))

	var list = factory.List()
	require.Len(t, list, 1)
	assert.Equal(t, removeMark(&rev, 0, 5), list[0])
}

func TestFactoryMergesRemovesWithContiguousOverrides(t *testing.T) {
	var rev = uuid.New()
	var overrideRev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(removeMarkWithOverride(&rev, 0, 1, cellAt(&overrideRev, 10)))
	factory.PushContent(removeMarkWithOverride(&rev, 1, 1, cellAt(&overrideRev, 11)))

	var list = factory.List()
	require.Len(t, list, 1)
	var expected = removeMarkWithOverride(&rev, 0, 2, cellAt(&overrideRev, 10))
	if diff := cmp.Diff(expected, list[0]); diff != "" {
		t.Error("merged mark mismatch: ", diff)
	}
}

func TestFactoryKeepsRemovesWithDiscontinuousOverrides(t *testing.T) {
	var rev = uuid.New()
	var overrideRev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(removeMarkWithOverride(&rev, 0, 1, cellAt(&overrideRev, 10)))
	factory.PushContent(removeMarkWithOverride(&rev, 1, 1, cellAt(&overrideRev, 42)))

	var list = factory.List()
	assert.Len(t, list, 2)
}

func TestFactoryDoesNotMergeAcrossRevisions(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(removeMark(&revA, 0, 1))
	factory.PushContent(removeMark(&revB, 1, 1))

	assert.Len(t, factory.List(), 2)
}

func TestFactoryMergesContiguousInserts(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(freshInsertMark(&rev, 0, 1))
	factory.PushContent(freshInsertMark(&rev, 1, 2))

	var list = factory.List()
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Count)
}

func TestFactoryDoesNotMergeMarksWithChanges(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(removeMark(&rev, 0, 1).WithNodeChange("edit"))
	factory.PushContent(removeMark(&rev, 1, 1))

	assert.Len(t, factory.List(), 2)
}

func TestFactoryTombstonePolicy(t *testing.T) {
	var rev = uuid.New()

	var withTombstones = NewFactory(Config{Ordering: CellOrderingTombstone})
	withTombstones.PushContent(NewTombstone(cellAt(&rev, 0), 2))
	withTombstones.PushContent(removeMark(&rev, 5, 1))
	require.Len(t, withTombstones.List(), 2)

	var withLineage = NewFactory(Config{Ordering: CellOrderingLineage})
	withLineage.PushContent(NewTombstone(cellAt(&rev, 0), 2))
	withLineage.PushContent(removeMark(&rev, 5, 1))
	require.Len(t, withLineage.List(), 1)
}

func TestFactoryMergesAdjacentTombstones(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.PushContent(NewTombstone(cellAt(&rev, 0), 2))
	factory.PushContent(NewTombstone(cellAt(&rev, 2), 1))

	var list = factory.List()
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Count)
}

func TestFactoryZeroCountContentIsDropped(t *testing.T) {
	var factory = NewFactory(tombstoneConfig())
	factory.PushContent(Mark{Count: 0, Effect: Remove{ID: atomid.AsChangeAtomID(0)}})
	assert.Empty(t, factory.List())
}

func TestFactoryPushDispatchesOffsets(t *testing.T) {
	var rev = uuid.New()
	var factory = NewFactory(tombstoneConfig())

	factory.Push(NewNoOpMark(4), removeMark(&rev, 0, 1), NewNoOpMark(2))

	var list = factory.List()
	require.Len(t, list, 2)
	assert.Equal(t, 4, list[0].Count)
}

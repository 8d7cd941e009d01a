package sequencefield

import (
	"testing"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceRevisionsInlinesAnonymousIds(t *testing.T) {
	var rev = uuid.New()
	var change = Changeset{
		freshInsertMark(nil, 0, 2),
		removeMark(nil, 5, 1),
	}

	var inlined = ReplaceRevisions(change, NewRevisionSet(nil), &rev)

	require.Len(t, inlined, 2)
	var insert = inlined[0].Effect.(Insert)
	require.NotNil(t, insert.ID.Revision)
	assert.Equal(t, rev, *insert.ID.Revision)
	// local ids never change, only revisions
	assert.Equal(t, atomid.LocalID(0), insert.ID.LocalID)
	require.NotNil(t, inlined[0].CellID.Revision)
	assert.Equal(t, rev, *inlined[0].CellID.Revision)

	var remove = inlined[1].Effect.(Remove)
	assert.Equal(t, atomid.LocalID(5), remove.ID.LocalID)
	assert.Equal(t, rev, *remove.ID.Revision)
}

func TestReplaceRevisionsLeavesOtherRevisionsAlone(t *testing.T) {
	var keep = uuid.New()
	var from = uuid.New()
	var to = uuid.New()

	var change = Changeset{
		removeMark(&keep, 0, 1),
		removeMark(&from, 0, 1),
	}

	var result = ReplaceRevisions(change, NewRevisionSet(&from), &to)

	assert.Equal(t, keep, *result[0].Effect.(Remove).ID.Revision)
	assert.Equal(t, to, *result[1].Effect.(Remove).ID.Revision)
}

func TestReplaceRevisionsRewritesLineage(t *testing.T) {
	var from = uuid.New()
	var to = uuid.New()

	var cell = cellAt(&from, 3)
	cell.Lineage = []atomid.LineageEvent{{Revision: &from, ID: 0, Count: 2, Offset: 1}}
	var change = Changeset{NewTombstone(cell, 1)}

	var result = ReplaceRevisions(change, NewRevisionSet(&from), &to)

	require.NotNil(t, result[0].CellID)
	assert.Equal(t, to, *result[0].CellID.Revision)
	require.Len(t, result[0].CellID.Lineage, 1)
	assert.Equal(t, to, *result[0].CellID.Lineage[0].Revision)
	assert.Equal(t, atomid.LocalID(3), result[0].CellID.LocalID)
}

func TestReplaceRevisionsRewritesOverridesAndEndpoints(t *testing.T) {
	var from = uuid.New()
	var to = uuid.New()

	var endpoint = atomid.NewChangeAtomID(&from, 9)
	var change = Changeset{
		removeMarkWithOverride(&from, 0, 1, cellAt(&from, 10)),
		{Count: 1, Effect: MoveOut{ID: atomid.NewChangeAtomID(&from, 1), FinalEndpoint: &endpoint}},
	}

	var result = ReplaceRevisions(change, NewRevisionSet(&from), &to)

	var remove = result[0].Effect.(Remove)
	assert.Equal(t, to, *remove.IDOverride.Revision)
	assert.Equal(t, atomid.LocalID(10), remove.IDOverride.LocalID)

	var moveOut = result[1].Effect.(MoveOut)
	assert.Equal(t, to, *moveOut.FinalEndpoint.Revision)
	assert.Equal(t, atomid.LocalID(9), moveOut.FinalEndpoint.LocalID)
}

func TestReplaceRevisionsDoesNotMutateInput(t *testing.T) {
	var to = uuid.New()
	var change = Changeset{freshInsertMark(nil, 0, 1)}
	var original = Changeset{freshInsertMark(nil, 0, 1)}

	ReplaceRevisions(change, NewRevisionSet(nil), &to)

	if diff := cmp.Diff(original, change); diff != "" {
		t.Error("ReplaceRevisions mutated its input: ", diff)
	}
}

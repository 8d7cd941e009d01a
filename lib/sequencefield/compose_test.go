package sequencefield

import (
	"testing"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/revision"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composeAll(t *testing.T, composeChild ComposeChildFn, changes ...Changeset) Changeset {
	t.Helper()
	var tagged = make([]revision.TaggedChange[Changeset], 0, len(changes))
	for _, change := range changes {
		tagged = append(tagged, revision.MakeAnonChange(change))
	}
	return Compose(tagged, composeChild, tombstoneConfig())
}

func TestComposeEmptyInputIsIdentity(t *testing.T) {
	assert.Nil(t, Compose(nil, nil, tombstoneConfig()))

	var rev = uuid.New()
	var single = Changeset{removeMark(&rev, 0, 1)}
	var result = composeAll(t, nil, single)
	if diff := cmp.Diff(single, result); diff != "" {
		t.Error("composing a single changeset must be identity: ", diff)
	}
}

func TestComposeNoOpPlusChange(t *testing.T) {
	var rev = uuid.New()
	var base = Changeset{NewNoOpMark(3)}
	var next = Changeset{NewNoOpMark(1), removeMark(&rev, 0, 1)}

	var result = composeAll(t, nil, base, next)
	var expected = Changeset{NewNoOpMark(1), removeMark(&rev, 0, 1)}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Error("NoOp + X must equal X: ", diff)
	}
}

func TestComposeInsertThenRemoveIsTransient(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	var base = Changeset{freshInsertMark(&revA, 0, 2)}
	var next = Changeset{removeMark(&revB, 0, 2)}

	var result = composeAll(t, nil, base, next)
	require.Len(t, result, 1)

	var transient, ok = result[0].Effect.(AttachAndDetach)
	require.True(t, ok, "expected a transient, got %T", result[0].Effect)
	assert.IsType(t, Insert{}, transient.Attach)
	assert.IsType(t, Remove{}, transient.Detach)
	// the inserted cells' identity survives for later revives
	require.NotNil(t, result[0].CellID)
	assert.True(t, result[0].CellID.Equal(cellAt(&revA, 0)))
}

func TestComposeRemoveThenReviveCancels(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	var base = Changeset{removeMark(&revA, 0, 1)}
	var next = Changeset{reviveMark(cellAt(&revA, 0), &revB, 0, 1)}

	var result = composeAll(t, nil, base, next)
	assert.Empty(t, result)
}

func TestComposeSplitsMismatchedRuns(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	var base = Changeset{removeMark(&revA, 0, 3)}
	var next = Changeset{
		NewTombstone(cellAt(&revA, 0), 1),
		reviveMark(cellAt(&revA, 1), &revB, 0, 1),
	}

	var result = composeAll(t, nil, base, next)
	require.Len(t, result, 3)
	assert.Equal(t, removeMark(&revA, 0, 1), result[0])
	assert.True(t, result[1].IsNoOp(), "revived run must cancel to a no-op")
	assert.Equal(t, removeMark(&revA, 2, 1), result[2])
}

func TestComposeMutedAttachThenRemove(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	// an attach that lost its cells to the sequenced side: the cells are
	// populated by someone else, so the effect carries no weight
	var base = Changeset{{Count: 1, Effect: Insert{ID: atomid.NewChangeAtomID(&revA, 0)}}}
	var next = Changeset{removeMark(&revB, 0, 1)}

	var result = composeAll(t, nil, base, next)
	var expected = Changeset{removeMark(&revB, 0, 1)}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Error("the detach must land on the cells the muted attach covered: ", diff)
	}
}

func TestComposeMutedAttachAlignsWithNoOp(t *testing.T) {
	var revA = uuid.New()
	// both marks cover the same populated cell, so they align into one run
	// that carries no effect and collapses away entirely
	var base = Changeset{{Count: 1, Effect: MoveIn{ID: atomid.NewChangeAtomID(&revA, 0)}}}
	var next = Changeset{NewNoOpMark(1)}

	var result = composeAll(t, nil, base, next)
	assert.Empty(t, result)
}

func TestComposeAssociativity(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	var revC = uuid.New()

	var a = Changeset{NewNoOpMark(1), freshInsertMark(&revA, 0, 1)}
	var b = Changeset{removeMark(&revB, 0, 1)}
	var c = Changeset{NewNoOpMark(1), removeMark(&revC, 0, 1)}

	var leftFirst = composeAll(t, nil, composeAll(t, nil, a, b), c)
	var rightFirst = composeAll(t, nil, a, composeAll(t, nil, b, c))
	var flat = composeAll(t, nil, a, b, c)

	if diff := cmp.Diff(leftFirst, rightFirst); diff != "" {
		t.Error("compose must be associative: ", diff)
	}
	if diff := cmp.Diff(leftFirst, flat); diff != "" {
		t.Error("flat compose must match nested compose: ", diff)
	}
}

func TestComposeInvokesChildComposer(t *testing.T) {
	var base = Changeset{NewNoOpMark(1).WithNodeChange("first")}
	var next = Changeset{NewNoOpMark(1).WithNodeChange("second")}

	var result = composeAll(t, func(first NodeChangeset, second NodeChangeset) NodeChangeset {
		return first.(string) + "+" + second.(string)
	}, base, next)

	require.Len(t, result, 1)
	assert.Equal(t, "first+second", result[0].Changes)
}

func TestComposePanicsOnChildChangesWithoutComposer(t *testing.T) {
	var base = Changeset{NewNoOpMark(1).WithNodeChange("first")}
	var next = Changeset{NewNoOpMark(1).WithNodeChange("second")}

	assert.Panics(t, func() {
		composeAll(t, nil, base, next)
	})
}

func TestComposeDoesNotMutateInputs(t *testing.T) {
	var revA = uuid.New()
	var revB = uuid.New()
	var base = Changeset{freshInsertMark(&revA, 0, 2)}
	var next = Changeset{removeMark(&revB, 0, 2)}

	var baseCopy = Changeset{freshInsertMark(&revA, 0, 2)}
	var nextCopy = Changeset{removeMark(&revB, 0, 2)}

	composeAll(t, nil, base, next)

	if diff := cmp.Diff(baseCopy, base); diff != "" {
		t.Error("compose mutated its first input: ", diff)
	}
	if diff := cmp.Diff(nextCopy, next); diff != "" {
		t.Error("compose mutated its second input: ", diff)
	}
}

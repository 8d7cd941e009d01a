package revision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeAnonChange(t *testing.T) {
	var tagged = MakeAnonChange("change")
	assert.Nil(t, tagged.Revision)
	assert.Nil(t, tagged.RollbackOf)
	assert.Equal(t, "change", tagged.Change)
}

func TestTagChange(t *testing.T) {
	var tagger = NewTagger()
	var rev = tagger.MintRevision()

	var tagged = TagChange(42, rev)
	require.NotNil(t, tagged.Revision)
	assert.Equal(t, rev, *tagged.Revision)
	assert.Nil(t, tagged.RollbackOf)
}

func TestTagRollbackInverse(t *testing.T) {
	var tagger = NewTagger()
	var original = tagger.MintRevision()
	var rollback = tagger.MintRevision()

	var tagged = TagRollbackInverse(42, rollback, original)
	require.NotNil(t, tagged.RollbackOf)
	assert.Equal(t, original, *tagged.RollbackOf)
	assert.Equal(t, rollback, *tagged.Revision)
}

func TestAllocateLocalIDPerRevision(t *testing.T) {
	var tagger = NewTagger()
	var revA = tagger.MintRevision()
	var revB = tagger.MintRevision()

	assert.EqualValues(t, 0, tagger.AllocateLocalID(&revA, 3))
	assert.EqualValues(t, 3, tagger.AllocateLocalID(&revA, 1))
	assert.EqualValues(t, 0, tagger.AllocateLocalID(&revB, 2))
	assert.EqualValues(t, 4, tagger.AllocateLocalID(&revA, 1))
}

func TestAllocateLocalIDAnonymousSpace(t *testing.T) {
	var tagger = NewTagger()
	assert.EqualValues(t, 0, tagger.AllocateLocalID(nil, 5))
	assert.EqualValues(t, 5, tagger.AllocateLocalID(nil, 1))
}

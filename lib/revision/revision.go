package revision

import (
	"sync"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/google/uuid"
)

// TaggedChange pairs a changeset with the revision it was authored under.
// Revision is nil for anonymous in-progress local edits. RollbackOf is set
// when the change is the inverse of an earlier edit.
type TaggedChange[T any] struct {
	Change     T
	Revision   *atomid.RevisionTag
	RollbackOf *atomid.RevisionTag
}

func MakeAnonChange[T any](change T) TaggedChange[T] {
	return TaggedChange[T]{Change: change}
}

func TagChange[T any](change T, revision atomid.RevisionTag) TaggedChange[T] {
	return TaggedChange[T]{Change: change, Revision: &revision}
}

func TagRollbackInverse[T any](inverse T, revision atomid.RevisionTag, rollbackOf atomid.RevisionTag) TaggedChange[T] {
	return TaggedChange[T]{Change: inverse, Revision: &revision, RollbackOf: &rollbackOf}
}

// Tagger mints revision tags and hands out local ids within each tag's id
// space. Safe for concurrent use.
type Tagger struct {
	mu   sync.Mutex
	next map[atomid.RevisionTag]atomid.LocalID
	anon atomid.LocalID
}

func NewTagger() *Tagger {
	return &Tagger{next: make(map[atomid.RevisionTag]atomid.LocalID)}
}

func (t *Tagger) MintRevision() atomid.RevisionTag {
	return uuid.New()
}

// AllocateLocalID returns the next unused local id for the given revision,
// advancing past count ids. A nil revision allocates from the anonymous space.
func (t *Tagger) AllocateLocalID(revision *atomid.RevisionTag, count int) atomid.LocalID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if revision == nil {
		var id = t.anon
		t.anon += atomid.LocalID(count)
		return id
	}
	var id = t.next[*revision]
	t.next[*revision] = id + atomid.LocalID(count)
	return id
}

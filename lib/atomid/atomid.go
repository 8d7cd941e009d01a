package atomid

import (
	"fmt"

	"github.com/google/uuid"
)

// RevisionTag identifies one sequenced edit. The zero value is never used;
// an anonymous (not yet sequenced) change carries a nil *RevisionTag instead.
type RevisionTag = uuid.UUID

// LocalID is an id allocated within the local id space of a single revision.
type LocalID int32

// ChangeAtomID identifies a single cell-changing event. LocalID is only
// unique within its revision's id space.
type ChangeAtomID struct {
	Revision *RevisionTag
	LocalID  LocalID
}

func NewChangeAtomID(revision *RevisionTag, localID LocalID) ChangeAtomID {
	return ChangeAtomID{Revision: revision, LocalID: localID}
}

// AsChangeAtomID normalizes a bare local id to a ChangeAtomID with no revision.
func AsChangeAtomID(localID LocalID) ChangeAtomID {
	return ChangeAtomID{LocalID: localID}
}

func RevisionsEqual(a *RevisionTag, b *RevisionTag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (id ChangeAtomID) Equal(other ChangeAtomID) bool {
	return id.LocalID == other.LocalID && RevisionsEqual(id.Revision, other.Revision)
}

// Offset returns the id of the event n positions after id within the same
// revision. Runs of cells affected by one event carry sequential local ids.
func (id ChangeAtomID) Offset(n int) ChangeAtomID {
	if n < 0 {
		panic(fmt.Sprintf("negative atom id offset %d", n))
	}
	return ChangeAtomID{Revision: id.Revision, LocalID: id.LocalID + LocalID(n)}
}

func (id ChangeAtomID) String() string {
	if id.Revision == nil {
		return fmt.Sprintf("local-%d", id.LocalID)
	}
	return fmt.Sprintf("%s-%d", id.Revision.String()[:8], id.LocalID)
}

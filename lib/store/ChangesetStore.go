package store

import (
	"github.com/ether/seqfield-go/lib/atomid"
)

// StoredRevision is one row of the persisted changeset log. Payload is the
// codec's output for that revision; the store never looks inside it.
type StoredRevision struct {
	Seq        int
	Revision   atomid.RevisionTag
	RollbackOf *atomid.RevisionTag
	Version    int
	Payload    []byte
}

type RevisionMethods interface {
	// SaveRevision appends a revision and returns its assigned sequence
	// number. rollbackOf is set when the payload is the inverse of an
	// earlier revision. Saving a revision that is already present is
	// write-once: the existing row stands and its sequence number is
	// returned.
	SaveRevision(revision atomid.RevisionTag, rollbackOf *atomid.RevisionTag, version int, payload []byte) (*int, error)
	GetRevision(revision atomid.RevisionTag) (*StoredRevision, error)
	GetRevisionBySeq(seq int) (*StoredRevision, error)
	DoesRevisionExist(revision atomid.RevisionTag) (*bool, error)
}

type ChangesetStore interface {
	RevisionMethods
	// Head returns the highest assigned sequence number, 0 when empty.
	Head() (*int, error)
	// ListRevisions returns all stored revisions in sequence order.
	ListRevisions() (*[]StoredRevision, error)
	Close() error
}

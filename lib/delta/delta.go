package delta

import (
	"context"

	"github.com/ether/seqfield-go/lib/atomid"
)

// DetachedNodeID names a node while it lives outside the tree, in the
// detached-node namespace of the revision that detached it.
type DetachedNodeID struct {
	Major *atomid.RevisionTag
	Minor atomid.LocalID
}

// Mark is one run of a materialized field delta. Exactly one of the three
// shapes applies: plain Count cells untouched, Attach filling cells from the
// detached namespace, or Detach moving cells out into it.
type Mark struct {
	Count  int
	Attach *DetachedNodeID
	Detach *DetachedNodeID
}

// FieldChanges is what a tree store consumes after compose and rebase have
// settled: an ordered list of delta marks over one field.
type FieldChanges struct {
	Marks []Mark
}

// TreeStore is the contract the changeset engine needs from a tree store.
// Cursor mechanics and anchor tracking live behind it.
type TreeStore interface {
	ApplyDelta(ctx context.Context, changes FieldChanges) error
}

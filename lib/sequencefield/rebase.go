package sequencefield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/revision"
)

// RebaseChildFn rebases a node-level change over a concurrent node-level
// change targeting the same node.
type RebaseChildFn func(change NodeChangeset, over NodeChangeset) NodeChangeset

// Rebase transforms change, authored against the context before over, into
// an equivalent changeset authored against the context after over. The two
// inputs must share their input context.
//
// Conflicts resolve in favor of the already-sequenced side: over's detach of
// a cell stands and change's redundant detach goes mute against the new cell
// identity; over's attach into an empty cell keeps the cell and change's
// attach lands after it.
func Rebase(change revision.TaggedChange[Changeset], over revision.TaggedChange[Changeset], rebaseChild RebaseChildFn, config Config) Changeset {
	var changeQueue = newMarkQueue(change.Change)
	var overQueue = newMarkQueue(over.Change)
	var out = NewFactory(config)

	for !changeQueue.isEmpty() {
		var changeHead = changeQueue.peek()

		if overQueue.isEmpty() {
			out.Push(changeQueue.dequeue())
			continue
		}

		var overHead = overQueue.peek()
		if overHead.SpawnsCells() {
			// over's new content lands first; it occupies fresh cells the
			// rebased changeset must now step over
			overQueue.dequeue()
			if overHead.IsLiveAttach() {
				out.PushOffset(overHead.Count)
			}
			continue
		}
		if changeHead.SpawnsCells() {
			out.PushContent(changeQueue.dequeue())
			continue
		}

		var aligned = (overHead.CellID == nil) == (changeHead.CellID == nil)
		if aligned && overHead.CellID != nil && !overHead.CellID.Equal(*changeHead.CellID) {
			aligned = false
		}
		if !aligned {
			if changeHead.CellID != nil && overHead.CellID == nil {
				// empty cells over does not track are untouched by it
				out.Push(changeQueue.dequeue())
				continue
			}
			if changeHead.CellID != nil && emptyCellsBefore(*changeHead.CellID, *overHead.CellID) {
				// change's empty run carries lineage placing it ahead of
				// over's; emit it before stepping over over's cells
				out.Push(changeQueue.dequeue())
				continue
			}
			// over touches empty cells change does not track
			overQueue.dequeue()
			if overHead.IsLiveAttach() {
				out.PushOffset(overHead.Count)
			}
			continue
		}

		var n = overHead.Count
		if changeHead.Count < n {
			n = changeHead.Count
		}
		out.Push(rebaseMarkOverMark(changeQueue.dequeueUpTo(n), overQueue.dequeueUpTo(n), over.Revision, rebaseChild))
	}
	return out.List()
}

// rebaseMarkOverMark retargets one aligned run of change's cells across the
// effect over applied to them.
func rebaseMarkOverMark(c Mark, o Mark, overRevision *atomid.RevisionTag, rebaseChild RebaseChildFn) Mark {
	if o.Changes != nil && c.Changes != nil {
		if rebaseChild == nil {
			panic("concurrent child changes target the same cell and no child rebaser was supplied")
		}
		c.Changes = rebaseChild(c.Changes, o.Changes)
	}

	if o.IsLiveDetach() {
		// the cells are empty now; re-anchor to the tombstoned identity
		var newCell = detachedCellID(o, overRevision)
		c.CellID = &newCell
		return c
	}

	if o.IsLiveAttach() {
		// the cells are populated now
		c.CellID = nil
		switch e := c.Effect.(type) {
		case Rename:
			// nothing left to rename on a populated cell
			c.Effect = NoOp{}
		case AttachAndDetach:
			// the attach half goes mute, the detach half now empties the cell
			c.Effect = e.Detach
		}
		return c
	}

	if endsEmpty(o) && o.CellID != nil {
		// rename or transient on empty cells: follow the new identity
		var id = outputCellID(o)
		var renamed = withRevision(*id, overRevision)
		c.CellID = &renamed
		return c
	}

	return c
}

// detachedCellID is the identity cells carry after a live detach.
func detachedCellID(o Mark, overRevision *atomid.RevisionTag) atomid.CellID {
	var id = outputCellID(o)
	if id == nil {
		panic(fmt.Sprintf("detach mark has no output identity: %T", o.Effect))
	}
	return withRevision(*id, overRevision)
}

// withRevision fills in the concrete revision for ids minted anonymously
// inside a now-sequenced changeset.
func withRevision(id atomid.CellID, revisionTag *atomid.RevisionTag) atomid.CellID {
	if id.Revision == nil && revisionTag != nil {
		id.ChangeAtomID.Revision = revisionTag
	}
	return id
}

// VerifyContextChain checks that b was authored against the context a
// leaves behind: every cell b detaches was left populated by a and every
// cell b attaches into was left empty. A violation is a malformed changeset
// upstream and panics rather than corrupting state downstream.
func VerifyContextChain(a revision.TaggedChange[Changeset], b revision.TaggedChange[Changeset]) {
	var aQueue = newMarkQueue(a.Change)
	var bQueue = newMarkQueue(b.Change)

	for !aQueue.isEmpty() && !bQueue.isEmpty() {
		var bHead = bQueue.peek()
		if bHead.SpawnsCells() {
			bQueue.dequeue()
			continue
		}
		var aHead = aQueue.peek()

		var aEmpty = endsEmpty(aHead)
		if aEmpty && bHead.CellID == nil {
			// b elided these tombstones
			aQueue.dequeue()
			continue
		}
		if !aEmpty && bHead.CellID != nil {
			// pre-existing empty cells a elided
			bQueue.dequeue()
			continue
		}

		var n = aHead.Count
		if bHead.Count < n {
			n = bHead.Count
		}
		var aMark = aQueue.dequeueUpTo(n)
		var bMark = bQueue.dequeueUpTo(n)

		if endsEmpty(aMark) {
			if bMark.CellID == nil {
				panic("context chain broken: change targets populated cells that were left empty")
			}
			var id = outputCellID(aMark)
			var expected = withRevision(*id, a.Revision)
			var actual = withRevision(*bMark.CellID, a.Revision)
			if !expected.Equal(actual) {
				panic(fmt.Sprintf("context chain broken: cell %s does not thread to %s", actual.ChangeAtomID, expected.ChangeAtomID))
			}
		} else if bMark.CellID != nil {
			panic("context chain broken: change targets empty cells that were left populated")
		}
	}
}

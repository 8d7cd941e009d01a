package sequencefield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/revision"
)

// ComposeChildFn merges two node-level changes targeting the same node.
type ComposeChildFn func(first NodeChangeset, second NodeChangeset) NodeChangeset

// Compose folds a causally-ordered list of changesets into one changeset
// equivalent to applying them in order. Inputs are never mutated.
func Compose(changes []revision.TaggedChange[Changeset], composeChild ComposeChildFn, config Config) Changeset {
	if len(changes) == 0 {
		return nil
	}
	var result = changes[0].Change
	for _, next := range changes[1:] {
		result = composePair(result, next.Change, composeChild, config)
	}
	return result
}

// composePair merges base followed by next. Alignment walks both mark lists
// by cumulative cell count, splitting whichever side's run extends past the
// other's boundary. next was authored against base's output context, so
// every cell next references either survives base or was spawned by next.
func composePair(base Changeset, next Changeset, composeChild ComposeChildFn, config Config) Changeset {
	var baseQueue = newMarkQueue(base)
	var nextQueue = newMarkQueue(next)
	var out = NewFactory(config)

	for !baseQueue.isEmpty() || !nextQueue.isEmpty() {
		if baseQueue.isEmpty() {
			out.Push(nextQueue.dequeue())
			continue
		}
		if nextQueue.isEmpty() {
			out.Push(baseQueue.dequeue())
			continue
		}

		var nextHead = nextQueue.peek()
		if nextHead.SpawnsCells() {
			// brand-new cells, unknown to base: splice them in as-is
			out.PushContent(nextQueue.dequeue())
			continue
		}

		var baseHead = baseQueue.peek()
		var baseEmpty = endsEmpty(baseHead)
		if baseEmpty && nextHead.CellID == nil {
			// next elided these tombstones; base's view of them stands
			out.Push(baseQueue.dequeue())
			continue
		}
		if !baseEmpty && nextHead.CellID != nil {
			// empty cells next tracks that predate base entirely
			out.Push(nextQueue.dequeue())
			continue
		}
		if baseEmpty && nextHead.CellID != nil && !alignedEmptyCells(baseHead, nextHead) {
			if emptyCellsBefore(*nextHead.CellID, *outputCellID(baseHead)) {
				out.Push(nextQueue.dequeue())
			} else {
				out.Push(baseQueue.dequeue())
			}
			continue
		}

		var n = baseHead.Count
		if nextHead.Count < n {
			n = nextHead.Count
		}
		out.Push(composeMarks(baseQueue.dequeueUpTo(n), nextQueue.dequeueUpTo(n), composeChild))
	}
	return out.List()
}

// endsEmpty reports whether the mark leaves its cells empty in the output
// context.
func endsEmpty(m Mark) bool {
	switch m.Effect.(type) {
	case Remove, MoveOut:
		// a live detach empties the cells, a muted one found them empty
		return true
	case Rename, AttachAndDetach:
		return true
	case NoOp:
		return m.CellID != nil
	case Insert, MoveIn:
		// a live attach fills the cells, a muted one found them populated
		return false
	}
	return false
}

// outputCellID is the identity the mark's cells carry in the output context,
// for marks whose cells end empty.
func outputCellID(m Mark) *atomid.CellID {
	switch e := m.Effect.(type) {
	case Remove:
		if m.CellID != nil {
			return m.CellID
		}
		if e.IDOverride != nil {
			return e.IDOverride
		}
		var id = atomid.CellID{ChangeAtomID: e.ID}
		return &id
	case MoveOut:
		if m.CellID != nil {
			return m.CellID
		}
		if e.IDOverride != nil {
			return e.IDOverride
		}
		var id = atomid.CellID{ChangeAtomID: e.ID}
		return &id
	case Rename:
		return &e.IDOverride
	case AttachAndDetach:
		var detachMark = Mark{Count: m.Count, Effect: e.Detach}
		return outputCellID(detachMark)
	case NoOp, Insert, MoveIn:
		return m.CellID
	}
	return m.CellID
}

func alignedEmptyCells(baseMark Mark, nextMark Mark) bool {
	var id = outputCellID(baseMark)
	if id == nil || nextMark.CellID == nil {
		return false
	}
	return id.Equal(*nextMark.CellID)
}

// emptyCellsBefore decides ordering between two runs of empty cells that
// neither changeset saw filled. A lineage entry naming the other run's
// detach event settles it; otherwise the base side goes first.
func emptyCellsBefore(candidate atomid.CellID, other atomid.CellID) bool {
	if other.Revision == nil {
		return false
	}
	for _, event := range candidate.Lineage {
		if !atomid.RevisionsEqual(event.Revision, other.Revision) {
			continue
		}
		if other.LocalID >= event.ID && other.LocalID < event.ID+atomid.LocalID(event.Count) {
			return event.Offset <= int(other.LocalID-event.ID)
		}
	}
	return false
}

// composeMarks combines one aligned run. b's cells and c's cells are the
// same cells; b's effect applies first.
func composeMarks(b Mark, c Mark, composeChild ComposeChildFn) Mark {
	var out = Mark{
		Count:   b.Count,
		CellID:  b.CellID,
		Changes: composeChildChanges(b.Changes, c.Changes, composeChild),
	}
	out.Effect = composeEffects(b, c)
	return out
}

func composeChildChanges(first NodeChangeset, second NodeChangeset, composeChild ComposeChildFn) NodeChangeset {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	if composeChild == nil {
		panic("two child changes target the same cell and no child composer was supplied")
	}
	return composeChild(first, second)
}

func composeEffects(b Mark, c Mark) MarkEffect {
	// a muted effect contributes nothing but its child changes
	var bLive = b.IsLiveAttach() || b.IsLiveDetach() || isRenameOrTransient(b)
	var cLive = c.IsLiveAttach() || c.IsLiveDetach() || isRenameOrTransient(c)
	if !bLive && !cLive {
		return NoOp{}
	}
	if !bLive {
		return c.Effect
	}
	if !cLive {
		return b.Effect
	}

	switch be := b.Effect.(type) {
	case Insert, MoveIn:
		// live attach followed by a live detach of the same cells: the
		// content existed transiently, keep its identity for later revives
		if c.IsLiveDetach() {
			return NewAttachAndDetach(b.Effect, c.Effect)
		}
		if t, ok := c.Effect.(AttachAndDetach); ok {
			return NewAttachAndDetach(b.Effect, t.Detach)
		}
		return b.Effect
	case Remove, MoveOut:
		if c.IsLiveAttach() {
			// detach then revive of the same cells cancels out
			return NoOp{}
		}
		if rename, ok := c.Effect.(Rename); ok {
			return detachWithOverride(b.Effect, &rename.IDOverride)
		}
		if t, ok := c.Effect.(AttachAndDetach); ok {
			// revive then re-detach: the cells end emptied by c's detach
			return t.Detach
		}
		return b.Effect
	case Rename:
		if c.IsLiveAttach() || c.IsLiveDetach() {
			return c.Effect
		}
		if rename, ok := c.Effect.(Rename); ok {
			return rename
		}
		if t, ok := c.Effect.(AttachAndDetach); ok {
			return t
		}
		return b.Effect
	case AttachAndDetach:
		if c.IsLiveAttach() {
			// the transient content comes back: only the attach remains
			return be.Attach
		}
		if rename, ok := c.Effect.(Rename); ok {
			return AttachAndDetach{Attach: be.Attach, Detach: detachWithOverride(be.Detach, &rename.IDOverride)}
		}
		if t, ok := c.Effect.(AttachAndDetach); ok {
			return AttachAndDetach{Attach: be.Attach, Detach: t.Detach}
		}
		return be
	default:
		panic(fmt.Sprintf("cannot compose effect %T", b.Effect))
	}
}

func isRenameOrTransient(m Mark) bool {
	if m.CellID == nil {
		return false
	}
	switch m.Effect.(type) {
	case Rename, AttachAndDetach:
		return true
	}
	return false
}

func detachWithOverride(effect MarkEffect, override *atomid.CellID) MarkEffect {
	switch e := effect.(type) {
	case Remove:
		e.IDOverride = override
		return e
	case MoveOut:
		e.IDOverride = override
		return e
	}
	return effect
}

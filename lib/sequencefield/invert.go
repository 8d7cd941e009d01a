package sequencefield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/revision"
)

// AllocateFn hands out count fresh local ids from the anonymous id space of
// the rollback change being built, returning the first.
type AllocateFn func(count int) atomid.LocalID

// Invert produces the rollback changeset for change: applied right after
// change, it restores the input context. The inverse's own events get fresh
// anonymous ids from allocate; both halves of an inverted move share one id.
// Muted effects invert to muted effects and tombstones pass through.
func Invert(change revision.TaggedChange[Changeset], allocate AllocateFn, config Config) Changeset {
	var inverter = &inverter{
		revision: change.Revision,
		allocate: allocate,
		ids:      make(map[atomid.ChangeAtomID]atomid.LocalID),
	}
	var out = NewFactory(config)
	for _, mark := range change.Change {
		out.Push(inverter.invertMark(mark))
	}
	return out.List()
}

type inverter struct {
	revision *atomid.RevisionTag
	allocate AllocateFn
	ids      map[atomid.ChangeAtomID]atomid.LocalID
}

// idFor returns the inverse-side id for the run starting at the original
// event id, allocating once per original id so paired marks line up.
func (inv *inverter) idFor(original atomid.ChangeAtomID, count int) atomid.ChangeAtomID {
	if localID, ok := inv.ids[original]; ok {
		return atomid.AsChangeAtomID(localID)
	}
	if inv.allocate == nil {
		panic("inverting a live effect requires an id allocator")
	}
	var localID = inv.allocate(count)
	inv.ids[original] = localID
	return atomid.AsChangeAtomID(localID)
}

func (inv *inverter) invertMark(m Mark) Mark {
	switch e := m.Effect.(type) {
	case NoOp:
		return m
	case Insert:
		if !m.IsLiveAttach() {
			return m
		}
		// empty the inserted cells back out, restoring their empty identity
		var restored = withRevision(*m.CellID, inv.revision)
		return Mark{
			Count:  m.Count,
			Effect: Remove{ID: inv.idFor(e.ID, m.Count), IDOverride: &restored},
		}
	case Remove:
		if !m.IsLiveDetach() {
			return m
		}
		// revive: attach back into the cells the remove emptied
		var emptied = withRevision(*outputCellID(m), inv.revision)
		return Mark{
			Count:  m.Count,
			CellID: &emptied,
			Effect: Insert{ID: inv.idFor(e.ID, m.Count)},
		}
	case MoveOut:
		if !m.IsLiveDetach() {
			return m
		}
		var emptied = withRevision(*outputCellID(m), inv.revision)
		return Mark{
			Count:  m.Count,
			CellID: &emptied,
			Effect: MoveIn{ID: inv.idFor(e.ID, m.Count)},
		}
	case MoveIn:
		if !m.IsLiveAttach() {
			return m
		}
		var restored = withRevision(*m.CellID, inv.revision)
		return Mark{
			Count:  m.Count,
			Effect: MoveOut{ID: inv.idFor(e.ID, m.Count), IDOverride: &restored},
		}
	case Rename:
		// rename back to the original identity
		var target = withRevision(*m.CellID, inv.revision)
		var renamed = withRevision(e.IDOverride, inv.revision)
		return Mark{
			Count:  m.Count,
			CellID: &renamed,
			Effect: Rename{IDOverride: target},
		}
	case AttachAndDetach:
		// the transient left the cells empty under the detach's identity;
		// the inverse renames them back to their original identity
		var original = withRevision(*m.CellID, inv.revision)
		var final = withRevision(*outputCellID(m), inv.revision)
		return Mark{
			Count:  m.Count,
			CellID: &final,
			Effect: Rename{IDOverride: original},
		}
	default:
		panic(fmt.Sprintf("cannot invert effect %T", m.Effect))
	}
}

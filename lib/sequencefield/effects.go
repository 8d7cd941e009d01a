package sequencefield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
)

// MarkEffect is the edit applied uniformly across a mark's run of cells.
// Effects that only apply when their precondition holds (a Remove over an
// already-empty cell, an attach into an already-populated one) are muted
// structurally: callers inspect the mark's CellID, never a flag.
type MarkEffect interface {
	isMarkEffect()
}

type NoOp struct{}

type Insert struct {
	ID atomid.ChangeAtomID
}

type Remove struct {
	ID atomid.ChangeAtomID
	// IDOverride renames the emptied cells instead of using ID for them.
	IDOverride *atomid.CellID
}

type MoveOut struct {
	ID            atomid.ChangeAtomID
	FinalEndpoint *atomid.ChangeAtomID
	IDOverride    *atomid.CellID
}

type MoveIn struct {
	ID            atomid.ChangeAtomID
	FinalEndpoint *atomid.ChangeAtomID
}

// Rename changes the identity of empty cells without touching content.
type Rename struct {
	IDOverride atomid.CellID
}

// AttachAndDetach represents a transient: cells filled and emptied within
// one changeset. Attach must be an attach effect and Detach a detach effect.
type AttachAndDetach struct {
	Attach MarkEffect
	Detach MarkEffect
}

func (NoOp) isMarkEffect()            {}
func (Insert) isMarkEffect()          {}
func (Remove) isMarkEffect()          {}
func (MoveOut) isMarkEffect()         {}
func (MoveIn) isMarkEffect()          {}
func (Rename) isMarkEffect()          {}
func (AttachAndDetach) isMarkEffect() {}

func IsAttach(effect MarkEffect) bool {
	switch effect.(type) {
	case Insert, MoveIn:
		return true
	}
	return false
}

func IsDetach(effect MarkEffect) bool {
	switch effect.(type) {
	case Remove, MoveOut:
		return true
	}
	return false
}

// NewAttachAndDetach validates the pairing before building the composite.
func NewAttachAndDetach(attach MarkEffect, detach MarkEffect) AttachAndDetach {
	if !IsAttach(attach) {
		panic(fmt.Sprintf("attach half of a transient must be an attach effect, got %T", attach))
	}
	if !IsDetach(detach) {
		panic(fmt.Sprintf("detach half of a transient must be a detach effect, got %T", detach))
	}
	return AttachAndDetach{Attach: attach, Detach: detach}
}

// offsetEffect advances every id embedded in the effect by n cells. Used
// when splitting a mark: the tail's run starts n events later.
func offsetEffect(effect MarkEffect, n int) MarkEffect {
	switch e := effect.(type) {
	case NoOp:
		return e
	case Insert:
		e.ID = e.ID.Offset(n)
		return e
	case Remove:
		e.ID = e.ID.Offset(n)
		e.IDOverride = offsetCellIDPtr(e.IDOverride, n)
		return e
	case MoveOut:
		e.ID = e.ID.Offset(n)
		e.IDOverride = offsetCellIDPtr(e.IDOverride, n)
		e.FinalEndpoint = offsetAtomPtr(e.FinalEndpoint, n)
		return e
	case MoveIn:
		e.ID = e.ID.Offset(n)
		e.FinalEndpoint = offsetAtomPtr(e.FinalEndpoint, n)
		return e
	case Rename:
		e.IDOverride = e.IDOverride.Offset(n)
		return e
	case AttachAndDetach:
		return AttachAndDetach{
			Attach: offsetEffect(e.Attach, n),
			Detach: offsetEffect(e.Detach, n),
		}
	default:
		panic(fmt.Sprintf("unknown mark effect %T", effect))
	}
}

func offsetCellIDPtr(id *atomid.CellID, n int) *atomid.CellID {
	if id == nil {
		return nil
	}
	var moved = id.Offset(n)
	return &moved
}

func offsetAtomPtr(id *atomid.ChangeAtomID, n int) *atomid.ChangeAtomID {
	if id == nil {
		return nil
	}
	var moved = id.Offset(n)
	return &moved
}

// tryMergeEffects merges rhs into lhs when rhs continues lhs's run of count
// cells. Ids must be contiguous within one revision, and every auxiliary id
// (overrides, endpoints) must be contiguous too, or the two effects describe
// discontinuous detach history and must stay separate.
func tryMergeEffects(lhs MarkEffect, rhs MarkEffect, count int) (MarkEffect, bool) {
	switch l := lhs.(type) {
	case NoOp:
		_, ok := rhs.(NoOp)
		return l, ok
	case Insert:
		r, ok := rhs.(Insert)
		if !ok || !l.ID.Offset(count).Equal(r.ID) {
			return nil, false
		}
		return l, true
	case Remove:
		r, ok := rhs.(Remove)
		if !ok || !l.ID.Offset(count).Equal(r.ID) {
			return nil, false
		}
		if !cellOverridesContiguous(l.IDOverride, r.IDOverride, count) {
			return nil, false
		}
		return l, true
	case MoveOut:
		r, ok := rhs.(MoveOut)
		if !ok || !l.ID.Offset(count).Equal(r.ID) {
			return nil, false
		}
		if !cellOverridesContiguous(l.IDOverride, r.IDOverride, count) {
			return nil, false
		}
		if !atomsContiguous(l.FinalEndpoint, r.FinalEndpoint, count) {
			return nil, false
		}
		return l, true
	case MoveIn:
		r, ok := rhs.(MoveIn)
		if !ok || !l.ID.Offset(count).Equal(r.ID) {
			return nil, false
		}
		if !atomsContiguous(l.FinalEndpoint, r.FinalEndpoint, count) {
			return nil, false
		}
		return l, true
	case Rename:
		r, ok := rhs.(Rename)
		if !ok || !l.IDOverride.Offset(count).Equal(r.IDOverride) {
			return nil, false
		}
		return l, true
	case AttachAndDetach:
		r, ok := rhs.(AttachAndDetach)
		if !ok {
			return nil, false
		}
		attach, attachOk := tryMergeEffects(l.Attach, r.Attach, count)
		if !attachOk {
			return nil, false
		}
		detach, detachOk := tryMergeEffects(l.Detach, r.Detach, count)
		if !detachOk {
			return nil, false
		}
		return AttachAndDetach{Attach: attach, Detach: detach}, true
	default:
		panic(fmt.Sprintf("unknown mark effect %T", lhs))
	}
}

func cellOverridesContiguous(lhs *atomid.CellID, rhs *atomid.CellID, count int) bool {
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil
	}
	return lhs.Offset(count).Equal(*rhs) && lhs.SameVintage(*rhs)
}

func atomsContiguous(lhs *atomid.ChangeAtomID, rhs *atomid.ChangeAtomID, count int) bool {
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil
	}
	return lhs.Offset(count).Equal(*rhs)
}

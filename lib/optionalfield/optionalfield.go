package optionalfield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/nestedmap"
)

// NodeChangeset is an opaque child-field change carried on a register. The
// engine never looks inside it.
type NodeChangeset = any

// Register addresses a slot holding a detached node. The zero Register is
// "self", the field's own content slot.
type Register struct {
	ID *atomid.ChangeAtomID
}

func Self() Register {
	return Register{}
}

func At(id atomid.ChangeAtomID) Register {
	return Register{ID: &id}
}

func (r Register) IsSelf() bool {
	return r.ID == nil
}

func (r Register) Equal(other Register) bool {
	if r.IsSelf() || other.IsSelf() {
		return r.IsSelf() && other.IsSelf()
	}
	return r.ID.Equal(*other.ID)
}

func (r Register) String() string {
	if r.IsSelf() {
		return "self"
	}
	return r.ID.String()
}

// Move transfers the node held by Source into Destination. Moving out of an
// empty register empties the destination.
type Move struct {
	Source      Register
	Destination Register
}

// ChildChange carries a nested-field change for the node sitting in Register.
type ChildChange struct {
	Register Register
	Change   NodeChangeset
}

type Changeset struct {
	Moves        []Move
	ChildChanges []ChildChange
}

func (c Changeset) IsEmpty() bool {
	return len(c.Moves) == 0 && len(c.ChildChanges) == 0
}

// AtOnce combines several single-register edits authored against the same
// context into one changeset. Two child changes aimed at the same register
// cannot be ordered against each other and panic as malformed input.
func AtOnce(changes ...Changeset) Changeset {
	var out Changeset
	var occupied = nestedmap.New[struct{}]()
	var selfChanged = false
	for _, change := range changes {
		out.Moves = append(out.Moves, change.Moves...)
		for _, child := range change.ChildChanges {
			if child.Register.IsSelf() {
				if selfChanged {
					panic("optionalfield: multiple child changes target the field content")
				}
				selfChanged = true
			} else {
				if _, ok := occupied.Get(*child.Register.ID); ok {
					panic(fmt.Sprintf("optionalfield: multiple child changes target register %s", child.Register))
				}
				occupied.Set(*child.Register.ID, struct{}{})
			}
			out.ChildChanges = append(out.ChildChanges, child)
		}
	}
	return out
}

// ChildChangeFor returns the child change aimed at register, if any.
func (c Changeset) ChildChangeFor(register Register) (NodeChangeset, bool) {
	for _, child := range c.ChildChanges {
		if child.Register.Equal(register) {
			return child.Change, true
		}
	}
	return nil, false
}

package sequencefield

import (
	"fmt"

	"github.com/ether/seqfield-go/lib/atomid"
)

// NodeChangeset is an opaque node-level change attached to the first node
// of a mark. Its shape is owned by the caller; compose and rebase delegate
// to caller-supplied child functions.
type NodeChangeset = any

// Mark describes one effect applied across Count contiguous cells. CellID
// present means the run starts on empty cells; absent means populated ones.
type Mark struct {
	Count   int
	CellID  *atomid.CellID
	Changes NodeChangeset
	Effect  MarkEffect
}

// Changeset is an ordered list of marks covering a field's cells.
type Changeset []Mark

func NewNoOpMark(count int) Mark {
	return Mark{Count: count, Effect: NoOp{}}
}

// NewTombstone is a no-op mark over empty cells, retained purely so later
// edits can still order themselves against the emptied cells.
func NewTombstone(cellID atomid.CellID, count int) Mark {
	return Mark{Count: count, CellID: &cellID, Effect: NoOp{}}
}

func (m Mark) IsNoOp() bool {
	_, ok := m.Effect.(NoOp)
	return ok
}

// IsTombstone reports a pure tombstone: empty cells, no effect, no changes.
func (m Mark) IsTombstone() bool {
	return m.IsNoOp() && m.CellID != nil && m.Changes == nil
}

// IsLiveAttach reports whether the mark's attach actually fills cells: the
// cells must currently be empty.
func (m Mark) IsLiveAttach() bool {
	if add, ok := m.Effect.(AttachAndDetach); ok {
		return IsAttach(add.Attach) && m.CellID != nil
	}
	return IsAttach(m.Effect) && m.CellID != nil
}

// IsLiveDetach reports whether the mark's detach actually empties cells: the
// cells must currently be populated.
func (m Mark) IsLiveDetach() bool {
	return IsDetach(m.Effect) && m.CellID == nil
}

// SpawnsCells reports whether the mark creates brand-new cells: an attach
// whose destination cell identity is the attach event itself.
func (m Mark) SpawnsCells() bool {
	if m.CellID == nil {
		return false
	}
	switch e := m.Effect.(type) {
	case Insert:
		return e.ID.Equal(m.CellID.ChangeAtomID)
	case MoveIn:
		return e.ID.Equal(m.CellID.ChangeAtomID)
	case AttachAndDetach:
		switch attach := e.Attach.(type) {
		case Insert:
			return attach.ID.Equal(m.CellID.ChangeAtomID)
		case MoveIn:
			return attach.ID.Equal(m.CellID.ChangeAtomID)
		}
	}
	return false
}

// ExtractEffect strips cell, count and changes, returning just the effect.
func ExtractEffect(m Mark) MarkEffect {
	return m.Effect
}

// WithNodeChange returns the mark with the given node-level change attached.
// Marks carrying changes describe a single node.
func (m Mark) WithNodeChange(changes NodeChangeset) Mark {
	if changes != nil && m.Count != 1 {
		panic(fmt.Sprintf("node changes require a single-cell mark, got count %d", m.Count))
	}
	m.Changes = changes
	return m
}

// Split cuts the mark at offset n, returning the head (n cells) and tail.
// Ids on the tail advance by n. Node changes stay with the head.
func (m Mark) Split(n int) (Mark, Mark) {
	if n <= 0 || n >= m.Count {
		panic(fmt.Sprintf("mark split offset %d outside (0, %d)", n, m.Count))
	}
	var head = m
	head.Count = n
	var tail = Mark{
		Count:  m.Count - n,
		CellID: offsetCellIDPtr(m.CellID, n),
		Effect: offsetEffect(m.Effect, n),
	}
	return head, tail
}

// TryMerge merges rhs into lhs when rhs is the contiguous continuation of
// lhs. Merging must be semantically equivalent to keeping the marks apart,
// so every embedded id has to line up and neither side may carry node
// changes.
func TryMerge(lhs Mark, rhs Mark) (Mark, bool) {
	if lhs.Changes != nil || rhs.Changes != nil {
		return Mark{}, false
	}
	if (lhs.CellID == nil) != (rhs.CellID == nil) {
		return Mark{}, false
	}
	if lhs.CellID != nil {
		if !lhs.CellID.Offset(lhs.Count).Equal(*rhs.CellID) || !lhs.CellID.SameVintage(*rhs.CellID) {
			return Mark{}, false
		}
	}
	var effect, ok = tryMergeEffects(lhs.Effect, rhs.Effect, lhs.Count)
	if !ok {
		return Mark{}, false
	}
	return Mark{
		Count:  lhs.Count + rhs.Count,
		CellID: lhs.CellID,
		Effect: effect,
	}, true
}

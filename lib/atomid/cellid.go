package atomid

// LineageEvent records that a prior revision emptied cells adjacent to the
// cell carrying it. Offset is the position of the cell relative to the run
// of cells the event detached.
type LineageEvent struct {
	Revision *RevisionTag
	ID       LocalID
	Count    int
	Offset   int
}

func (e LineageEvent) Equal(other LineageEvent) bool {
	return e.ID == other.ID &&
		e.Count == other.Count &&
		e.Offset == other.Offset &&
		RevisionsEqual(e.Revision, other.Revision)
}

// IDRange is a run of local ids sharing one detach event.
type IDRange struct {
	ID    LocalID
	Count int
}

// CellID identifies an empty cell. Lineage and AdjacentCells only
// disambiguate ordering between cells emptied by concurrent edits; they do
// not participate in identity.
type CellID struct {
	ChangeAtomID
	Lineage       []LineageEvent
	AdjacentCells []IDRange
}

func NewCellID(revision *RevisionTag, localID LocalID) CellID {
	return CellID{ChangeAtomID: ChangeAtomID{Revision: revision, LocalID: localID}}
}

// Equal compares cell identity only.
func (c CellID) Equal(other CellID) bool {
	return c.ChangeAtomID.Equal(other.ChangeAtomID)
}

// SameVintage reports whether two cell ids belong to the same detach event,
// meaning their full ordering metadata is comparable.
func (c CellID) SameVintage(other CellID) bool {
	if !RevisionsEqual(c.Revision, other.Revision) {
		return false
	}
	if len(c.Lineage) != len(other.Lineage) {
		return false
	}
	for i := range c.Lineage {
		offsetDelta := other.Lineage[i].Offset - c.Lineage[i].Offset
		adjusted := c.Lineage[i]
		adjusted.Offset += offsetDelta
		if !adjusted.Equal(other.Lineage[i]) {
			return false
		}
	}
	return true
}

// Offset returns the id of the cell n positions after c within the same
// detach run. Lineage offsets advance with the cell; adjacent ranges are
// preserved as-is since they describe the whole run.
func (c CellID) Offset(n int) CellID {
	out := CellID{
		ChangeAtomID:  c.ChangeAtomID.Offset(n),
		AdjacentCells: c.AdjacentCells,
	}
	if len(c.Lineage) > 0 {
		out.Lineage = make([]LineageEvent, len(c.Lineage))
		for i, e := range c.Lineage {
			e.Offset += n
			out.Lineage[i] = e
		}
	}
	return out
}

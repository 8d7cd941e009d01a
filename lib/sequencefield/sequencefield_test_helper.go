package sequencefield

import (
	"github.com/ether/seqfield-go/lib/atomid"
)

// Mark builders shared by the tests in this package. Fresh inserts target
// the cells they create; revives target a previously emptied cell.

func cellAt(rev *atomid.RevisionTag, id atomid.LocalID) atomid.CellID {
	return atomid.CellID{ChangeAtomID: atomid.NewChangeAtomID(rev, id)}
}

func freshInsertMark(rev *atomid.RevisionTag, id atomid.LocalID, count int) Mark {
	var cell = cellAt(rev, id)
	return Mark{
		Count:  count,
		CellID: &cell,
		Effect: Insert{ID: atomid.NewChangeAtomID(rev, id)},
	}
}

func removeMark(rev *atomid.RevisionTag, id atomid.LocalID, count int) Mark {
	return Mark{
		Count:  count,
		Effect: Remove{ID: atomid.NewChangeAtomID(rev, id)},
	}
}

func removeMarkWithOverride(rev *atomid.RevisionTag, id atomid.LocalID, count int, override atomid.CellID) Mark {
	return Mark{
		Count:  count,
		Effect: Remove{ID: atomid.NewChangeAtomID(rev, id), IDOverride: &override},
	}
}

func reviveMark(target atomid.CellID, rev *atomid.RevisionTag, id atomid.LocalID, count int) Mark {
	return Mark{
		Count:  count,
		CellID: &target,
		Effect: Insert{ID: atomid.NewChangeAtomID(rev, id)},
	}
}

func moveOutMark(rev *atomid.RevisionTag, id atomid.LocalID, count int) Mark {
	return Mark{
		Count:  count,
		Effect: MoveOut{ID: atomid.NewChangeAtomID(rev, id)},
	}
}

func moveInMark(rev *atomid.RevisionTag, id atomid.LocalID, count int) Mark {
	var cell = cellAt(rev, id)
	return Mark{
		Count:  count,
		CellID: &cell,
		Effect: MoveIn{ID: atomid.NewChangeAtomID(rev, id)},
	}
}

func renameMark(from atomid.CellID, to atomid.CellID, count int) Mark {
	return Mark{
		Count:  count,
		CellID: &from,
		Effect: Rename{IDOverride: to},
	}
}

func tombstoneConfig() Config {
	return Config{Ordering: CellOrderingTombstone}
}

// testAllocator hands out sequential anonymous local ids.
func testAllocator() AllocateFn {
	var next atomid.LocalID
	return func(count int) atomid.LocalID {
		var id = next
		next += atomid.LocalID(count)
		return id
	}
}

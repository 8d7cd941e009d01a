package sequencefield

import (
	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/delta"
)

// ToDelta lowers a finalized changeset into the attach/detach runs a tree
// store applies. Muted effects and pure tombstones materialize nothing;
// transients cancel out entirely since their content never survives the
// changeset.
func ToDelta(change Changeset) delta.FieldChanges {
	var out delta.FieldChanges
	for _, mark := range change {
		switch e := mark.Effect.(type) {
		case NoOp:
			if mark.CellID == nil {
				appendSkip(&out, mark.Count)
			}
		case Insert:
			if mark.IsLiveAttach() {
				out.Marks = append(out.Marks, delta.Mark{
					Count:  mark.Count,
					Attach: detachedNode(e.ID),
				})
			}
		case MoveIn:
			if mark.IsLiveAttach() {
				out.Marks = append(out.Marks, delta.Mark{
					Count:  mark.Count,
					Attach: detachedNode(e.ID),
				})
			}
		case Remove:
			if mark.IsLiveDetach() {
				out.Marks = append(out.Marks, delta.Mark{
					Count:  mark.Count,
					Detach: detachedNode(e.ID),
				})
			}
		case MoveOut:
			if mark.IsLiveDetach() {
				out.Marks = append(out.Marks, delta.Mark{
					Count:  mark.Count,
					Detach: detachedNode(e.ID),
				})
			}
		case Rename, AttachAndDetach:
			// cells stay empty, nothing materializes
		}
	}
	// trailing skips carry no information
	for len(out.Marks) > 0 {
		var last = out.Marks[len(out.Marks)-1]
		if last.Attach != nil || last.Detach != nil {
			break
		}
		out.Marks = out.Marks[:len(out.Marks)-1]
	}
	return out
}

func appendSkip(out *delta.FieldChanges, count int) {
	if len(out.Marks) > 0 {
		var last = &out.Marks[len(out.Marks)-1]
		if last.Attach == nil && last.Detach == nil {
			last.Count += count
			return
		}
	}
	out.Marks = append(out.Marks, delta.Mark{Count: count})
}

func detachedNode(id atomid.ChangeAtomID) *delta.DetachedNodeID {
	return &delta.DetachedNodeID{Major: id.Revision, Minor: id.LocalID}
}

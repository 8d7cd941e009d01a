package sequencefield

import (
	"github.com/ether/seqfield-go/lib/atomid"
)

// RevisionSet selects revisions for replacement. The anonymous revision is
// a member iff IncludeAnonymous is set.
type RevisionSet struct {
	Tags             map[atomid.RevisionTag]bool
	IncludeAnonymous bool
}

func NewRevisionSet(tags ...*atomid.RevisionTag) RevisionSet {
	var set = RevisionSet{Tags: make(map[atomid.RevisionTag]bool)}
	for _, tag := range tags {
		if tag == nil {
			set.IncludeAnonymous = true
		} else {
			set.Tags[*tag] = true
		}
	}
	return set
}

func (s RevisionSet) contains(tag *atomid.RevisionTag) bool {
	if tag == nil {
		return s.IncludeAnonymous
	}
	return s.Tags[*tag]
}

// ReplaceRevisions rewrites every revision tag embedded in the changeset
// that is a member of from, substituting to. Local ids are never renumbered,
// so id-continuity comparisons stay valid afterwards. The input is not
// mutated.
func ReplaceRevisions(change Changeset, from RevisionSet, to *atomid.RevisionTag) Changeset {
	var out = make(Changeset, len(change))
	for i, mark := range change {
		out[i] = replaceMarkRevisions(mark, from, to)
	}
	return out
}

func replaceMarkRevisions(m Mark, from RevisionSet, to *atomid.RevisionTag) Mark {
	m.CellID = replaceCellIDPtr(m.CellID, from, to)
	m.Effect = replaceEffectRevisions(m.Effect, from, to)
	return m
}

func replaceEffectRevisions(effect MarkEffect, from RevisionSet, to *atomid.RevisionTag) MarkEffect {
	switch e := effect.(type) {
	case NoOp:
		return e
	case Insert:
		e.ID = replaceAtom(e.ID, from, to)
		return e
	case Remove:
		e.ID = replaceAtom(e.ID, from, to)
		e.IDOverride = replaceCellIDPtr(e.IDOverride, from, to)
		return e
	case MoveOut:
		e.ID = replaceAtom(e.ID, from, to)
		e.IDOverride = replaceCellIDPtr(e.IDOverride, from, to)
		e.FinalEndpoint = replaceAtomPtr(e.FinalEndpoint, from, to)
		return e
	case MoveIn:
		e.ID = replaceAtom(e.ID, from, to)
		e.FinalEndpoint = replaceAtomPtr(e.FinalEndpoint, from, to)
		return e
	case Rename:
		e.IDOverride = replaceCellID(e.IDOverride, from, to)
		return e
	case AttachAndDetach:
		return AttachAndDetach{
			Attach: replaceEffectRevisions(e.Attach, from, to),
			Detach: replaceEffectRevisions(e.Detach, from, to),
		}
	}
	return effect
}

func replaceAtom(id atomid.ChangeAtomID, from RevisionSet, to *atomid.RevisionTag) atomid.ChangeAtomID {
	if from.contains(id.Revision) {
		id.Revision = to
	}
	return id
}

func replaceAtomPtr(id *atomid.ChangeAtomID, from RevisionSet, to *atomid.RevisionTag) *atomid.ChangeAtomID {
	if id == nil {
		return nil
	}
	var replaced = replaceAtom(*id, from, to)
	return &replaced
}

func replaceCellID(id atomid.CellID, from RevisionSet, to *atomid.RevisionTag) atomid.CellID {
	id.ChangeAtomID = replaceAtom(id.ChangeAtomID, from, to)
	if len(id.Lineage) > 0 {
		var lineage = make([]atomid.LineageEvent, len(id.Lineage))
		for i, event := range id.Lineage {
			if from.contains(event.Revision) {
				event.Revision = to
			}
			lineage[i] = event
		}
		id.Lineage = lineage
	}
	return id
}

func replaceCellIDPtr(id *atomid.CellID, from RevisionSet, to *atomid.RevisionTag) *atomid.CellID {
	if id == nil {
		return nil
	}
	var replaced = replaceCellID(*id, from, to)
	return &replaced
}

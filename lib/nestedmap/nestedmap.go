package nestedmap

import (
	"github.com/ether/seqfield-go/lib/atomid"
)

// SizedNestedMap is a two-level map keyed by local id then revision, with a
// cheap total-size counter. The nil revision keys the anonymous id space.
type SizedNestedMap[V any] struct {
	inner map[atomid.LocalID]map[atomid.RevisionTag]V
	anon  map[atomid.LocalID]V
	size  int
}

func New[V any]() *SizedNestedMap[V] {
	return &SizedNestedMap[V]{
		inner: make(map[atomid.LocalID]map[atomid.RevisionTag]V),
		anon:  make(map[atomid.LocalID]V),
	}
}

func (m *SizedNestedMap[V]) Set(id atomid.ChangeAtomID, value V) {
	if id.Revision == nil {
		if _, ok := m.anon[id.LocalID]; !ok {
			m.size++
		}
		m.anon[id.LocalID] = value
		return
	}
	var byRevision, ok = m.inner[id.LocalID]
	if !ok {
		byRevision = make(map[atomid.RevisionTag]V)
		m.inner[id.LocalID] = byRevision
	}
	if _, ok := byRevision[*id.Revision]; !ok {
		m.size++
	}
	byRevision[*id.Revision] = value
}

func (m *SizedNestedMap[V]) Get(id atomid.ChangeAtomID) (V, bool) {
	if id.Revision == nil {
		var value, ok = m.anon[id.LocalID]
		return value, ok
	}
	var byRevision, ok = m.inner[id.LocalID]
	if !ok {
		var zero V
		return zero, false
	}
	var value, found = byRevision[*id.Revision]
	return value, found
}

// Delete removes the entry for id. Deleting an absent key is a no-op.
func (m *SizedNestedMap[V]) Delete(id atomid.ChangeAtomID) bool {
	if id.Revision == nil {
		if _, ok := m.anon[id.LocalID]; !ok {
			return false
		}
		delete(m.anon, id.LocalID)
		m.size--
		return true
	}
	var byRevision, ok = m.inner[id.LocalID]
	if !ok {
		return false
	}
	if _, found := byRevision[*id.Revision]; !found {
		return false
	}
	delete(byRevision, *id.Revision)
	if len(byRevision) == 0 {
		delete(m.inner, id.LocalID)
	}
	m.size--
	return true
}

func (m *SizedNestedMap[V]) Size() int {
	return m.size
}

// ForEach visits every entry in unspecified order. Returning false stops the
// walk early.
func (m *SizedNestedMap[V]) ForEach(visit func(id atomid.ChangeAtomID, value V) bool) {
	for localID, value := range m.anon {
		if !visit(atomid.AsChangeAtomID(localID), value) {
			return
		}
	}
	for localID, byRevision := range m.inner {
		for revision, value := range byRevision {
			rev := revision
			if !visit(atomid.NewChangeAtomID(&rev, localID), value) {
				return
			}
		}
	}
}

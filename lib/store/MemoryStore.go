package store

import (
	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/exception"
)

type MemoryStore struct {
	bySeq      []StoredRevision
	byRevision map[atomid.RevisionTag]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byRevision: make(map[atomid.RevisionTag]int),
	}
}

func (m *MemoryStore) SaveRevision(revision atomid.RevisionTag, rollbackOf *atomid.RevisionTag, version int, payload []byte) (*int, error) {
	if index, ok := m.byRevision[revision]; ok {
		var seq = m.bySeq[index].Seq
		return &seq, nil
	}

	var seq = len(m.bySeq) + 1
	var copied = make([]byte, len(payload))
	copy(copied, payload)

	m.byRevision[revision] = len(m.bySeq)
	m.bySeq = append(m.bySeq, StoredRevision{
		Seq:        seq,
		Revision:   revision,
		RollbackOf: rollbackOf,
		Version:    version,
		Payload:    copied,
	})
	return &seq, nil
}

func (m *MemoryStore) GetRevision(revision atomid.RevisionTag) (*StoredRevision, error) {
	var index, ok = m.byRevision[revision]
	if !ok {
		return nil, exception.NewRevisionNotFoundError(revision.String())
	}

	var row = m.bySeq[index]
	return &row, nil
}

func (m *MemoryStore) GetRevisionBySeq(seq int) (*StoredRevision, error) {
	if seq < 1 || seq > len(m.bySeq) {
		return nil, exception.NewRevisionNotFoundError("")
	}

	var row = m.bySeq[seq-1]
	return &row, nil
}

func (m *MemoryStore) DoesRevisionExist(revision atomid.RevisionTag) (*bool, error) {
	var _, ok = m.byRevision[revision]
	return &ok, nil
}

func (m *MemoryStore) Head() (*int, error) {
	var head = len(m.bySeq)
	return &head, nil
}

func (m *MemoryStore) ListRevisions() (*[]StoredRevision, error) {
	var rows = make([]StoredRevision, len(m.bySeq))
	copy(rows, m.bySeq)
	return &rows, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

var _ ChangesetStore = (*MemoryStore)(nil)

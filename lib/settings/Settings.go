package settings

import (
	"fmt"
	"strings"

	"github.com/ether/seqfield-go/lib/sequencefield"
)

// Config keys. Dotted keys map to SEQFIELD_* environment variables with
// dots replaced by underscores.
const (
	CellOrderingKey = "cellOrdering"
	CodecVersionKey = "codecVersion"
	DBTypeKey       = "db.type"
	DBPathKey       = "db.path"
	LogLevelKey     = "loglevel"
)

type Settings struct {
	// CellOrdering selects how emptied cells are ordered against
	// concurrent edits. It is the default for compose/rebase calls that
	// do not pass their own policy.
	CellOrdering sequencefield.CellOrdering

	// CodecVersion is the wire format version used when encoding.
	CodecVersion int

	DBType IDBType
	DBPath string

	LogLevel string
}

func (s *Settings) FieldConfig() sequencefield.Config {
	return sequencefield.Config{Ordering: s.CellOrdering}
}

func ParseCellOrdering(s string) (sequencefield.CellOrdering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tombstone":
		return sequencefield.CellOrderingTombstone, nil
	case "lineage":
		return sequencefield.CellOrderingLineage, nil
	default:
		return 0, fmt.Errorf("unknown cell ordering: %q", s)
	}
}

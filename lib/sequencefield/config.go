package sequencefield

// CellOrdering selects how concurrently-emptied cells are ordered against
// each other across rebase boundaries.
type CellOrdering int

const (
	// CellOrderingTombstone keeps a no-op mark for every emptied cell so
	// changesets enumerate the full cell space.
	CellOrderingTombstone CellOrdering = iota
	// CellOrderingLineage drops pure tombstones and resolves ordering from
	// lineage events carried on cell ids.
	CellOrderingLineage
)

func (o CellOrdering) String() string {
	switch o {
	case CellOrderingTombstone:
		return "tombstone"
	case CellOrderingLineage:
		return "lineage"
	}
	return "unknown"
}

// Config is threaded explicitly through the factory, compose and rebase
// rather than read from ambient state, so concurrent documents can run
// different policies.
type Config struct {
	Ordering CellOrdering
}

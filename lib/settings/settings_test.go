package settings

import (
	"testing"

	"github.com/ether/seqfield-go/lib/sequencefield"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreApplied(t *testing.T) {

	cfg, err := ReadConfig("")
	require.NoError(t, err)

	require.Equal(t, sequencefield.CellOrderingTombstone, cfg.CellOrdering)
	require.Equal(t, 1, cfg.CodecVersion)
	require.Equal(t, MEMORY, cfg.DBType)
	require.Equal(t, "INFO", cfg.LogLevel)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SEQFIELD_CELLORDERING", "lineage")

	cfg, err := ReadConfig("")
	require.NoError(t, err)
	require.Equal(t, sequencefield.CellOrderingLineage, cfg.CellOrdering)
}

func TestJSONConfig(t *testing.T) {
	cfg, err := ReadConfig(`{"codecVersion": 2, "db": {"type": "sqlite", "path": "/tmp/field.db"}}`)
	require.NoError(t, err)

	require.Equal(t, 2, cfg.CodecVersion)
	require.Equal(t, SQLITE, cfg.DBType)
	require.Equal(t, "/tmp/field.db", cfg.DBPath)
}

func TestRejectsUnknownOrdering(t *testing.T) {
	cfg, err := ReadConfig(`{"cellOrdering": "alphabetical"}`)
	require.Error(t, err)
	require.Nil(t, cfg)
}

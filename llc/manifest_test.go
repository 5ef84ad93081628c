package llc

import (
	"path/filepath"
	"testing"

	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luma/depm"
)

func TestManifestRoundTrip(t *testing.T) {
	reg := depm.NewRegistry()
	unit, err := reg.NewUnit("main")
	require.NoError(t, err)

	unit.AddSymbol(&depm.Symbol{
		Name:       "main",
		IsFunction: true,
		Linkage:    enum.LinkageExternal,
		Type:       lltypes.I32,
	})
	unit.AddSymbol(&depm.Symbol{
		Name:    "counter",
		Linkage: enum.LinkageInternal,
		Type:    lltypes.I64,
	})

	path := filepath.Join(t.TempDir(), "main.meta")
	require.NoError(t, WriteManifest(unit, path))

	got, err := ReadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "main", got.Module)
	assert.True(t, got.Main)
	require.Len(t, got.Symbols, 2)
	assert.Equal(t, SymbolManifest{Name: "main", Function: true, External: true}, got.Symbols[0])
	assert.Equal(t, SymbolManifest{Name: "counter", Function: false, External: false}, got.Symbols[1])
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "absent.meta"))
	require.Error(t, err)
}

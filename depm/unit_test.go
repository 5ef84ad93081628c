package depm

import (
	"testing"

	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNewUnit(t *testing.T) {
	reg := NewRegistry()

	unit, err := reg.NewUnit("util")
	require.NoError(t, err)
	assert.Equal(t, "util", unit.Name)
	assert.False(t, unit.IsMain)
	require.NotNil(t, unit.Mod)

	main, err := reg.NewUnit("main")
	require.NoError(t, err)
	assert.True(t, main.IsMain)

	assert.Equal(t, 2, reg.Len())
}

func TestRegistryDuplicateModule(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.NewUnit("util")
	require.NoError(t, err)

	_, err = reg.NewUnit("util")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate module")
	assert.Contains(t, err.Error(), "util")

	// The failed creation must not have grown the registry.
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryFind(t *testing.T) {
	reg := NewRegistry()

	unit, err := reg.NewUnit("geom")
	require.NoError(t, err)

	assert.Same(t, unit, reg.Find("geom"))
	assert.Nil(t, reg.Find("missing"))
}

func TestUnitSymbolShadowing(t *testing.T) {
	reg := NewRegistry()
	unit, err := reg.NewUnit("main")
	require.NoError(t, err)

	older := &Symbol{Name: "x", Type: lltypes.I32}
	newer := &Symbol{Name: "x", Type: lltypes.I64}

	unit.AddSymbol(older)
	unit.AddSymbol(newer)

	// The most recently bound symbol wins.
	assert.Same(t, newer, unit.FindSymbol("x"))
	assert.Nil(t, unit.FindSymbol("y"))
}

func TestFindSymbolGlobal(t *testing.T) {
	reg := NewRegistry()

	util, err := reg.NewUnit("util")
	require.NoError(t, err)
	main, err := reg.NewUnit("main")
	require.NoError(t, err)

	utilSym := &Symbol{Name: "add", IsFunction: true, Linkage: enum.LinkageExternal}
	mainSym := &Symbol{Name: "add", IsFunction: true, Linkage: enum.LinkageInternal}

	util.AddSymbol(utilSym)

	// Without a module the current unit is searched first, then the rest of
	// the registry in creation order.
	assert.Same(t, utilSym, FindSymbolGlobal(reg, main, "add", ""))

	main.AddSymbol(mainSym)
	assert.Same(t, mainSym, FindSymbolGlobal(reg, main, "add", ""))

	// A module qualifier restricts the search to that module.
	assert.Same(t, utilSym, FindSymbolGlobal(reg, main, "add", "util"))
	assert.Nil(t, FindSymbolGlobal(reg, main, "add", "missing"))
}

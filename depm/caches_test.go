package depm

import (
	"fmt"
	"testing"

	lltypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
)

func TestSymbolCache(t *testing.T) {
	cache := NewSymbolCache()

	sym := &Symbol{Name: "add"}
	cache.Put("util", "add", sym)

	assert.Same(t, sym, cache.Get("util", "add"))
	assert.Nil(t, cache.Get("main", "add"))
	assert.Nil(t, cache.Get("util", "sub"))

	// Re-putting the same key replaces the entry.
	replacement := &Symbol{Name: "add"}
	cache.Put("util", "add", replacement)
	assert.Same(t, replacement, cache.Get("util", "add"))

	cache.Clear()
	assert.Nil(t, cache.Get("util", "add"))
}

func TestSymbolCacheManyKeys(t *testing.T) {
	cache := NewSymbolCache()

	// Far more keys than buckets, to exercise chaining.
	syms := make([]*Symbol, 1000)
	for i := range syms {
		syms[i] = &Symbol{Name: fmt.Sprintf("sym%d", i)}
		cache.Put("m", syms[i].Name, syms[i])
	}

	for i, sym := range syms {
		assert.Same(t, sym, cache.Get("m", fmt.Sprintf("sym%d", i)))
	}
}

func TestStructCache(t *testing.T) {
	cache := NewStructCache()

	info := &StructInfo{Name: "Point"}
	cache.Put("Point", info)

	assert.Same(t, info, cache.Get("Point"))
	assert.Nil(t, cache.Get("Rect"))

	cache.Clear()
	assert.Nil(t, cache.Get("Point"))
}

func TestFieldCacheFirstWins(t *testing.T) {
	cache := NewFieldCache()

	point := &StructInfo{Name: "Point", Fields: []StructField{{Name: "x", Type: lltypes.Double}}}
	vec := &StructInfo{Name: "Vec", Fields: []StructField{{Name: "x", Type: lltypes.Double}}}

	cache.Put("x", point)
	cache.Put("x", vec)

	// The first struct registered for a field name is kept.
	assert.Same(t, point, cache.Get("x"))
}

// Package codegen lowers a parsed, type-checked Luma program into backend
// modules: one per source module, generated in dependency order with
// cross-module symbols resolved through on-demand external declarations.
package codegen

import (
	"luma/depm"
	"luma/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// commonTypes caches the backend types and constants used on nearly every
// lowering path.
type commonTypes struct {
	I1, I8, I16, I32, I64 *lltypes.IntType
	F32, F64              *lltypes.FloatType
	Void                  *lltypes.VoidType
	I8Ptr                 *lltypes.PointerType

	I32Zero, I32One *constant.Int
	I64Zero, I64One *constant.Int
}

// Generator owns all code generation state for one compilation: the module
// registry, the warm lookup caches, the struct descriptors, and the builder
// position.  It is single-threaded; only object emission afterwards runs in
// parallel, over the disjoint modules the generator produced.
type Generator struct {
	// The module registry.
	registry *depm.Registry

	// The unit symbol-insertion operations currently target.
	current *depm.Unit

	// The function currently being lowered.  Loop break/continue targets
	// below belong to it.
	currentFunc *ir.Func

	// The block new instructions are appended to.
	block *ir.Block

	// Innermost-last stacks of loop branch targets.
	loopBreak    []*ir.Block
	loopContinue []*ir.Block

	// Calls deferred to the exit of the function currently being lowered,
	// in declaration order.  Flushed in reverse before every return.
	deferred []deferredCall

	// The struct descriptors of the whole program, in declaration order.
	structs []*depm.StructInfo

	// Warm lookup caches.  Populated between the link pass and the lower
	// pass; read-only afterwards until Close.
	symCache    *depm.SymbolCache
	structCache *depm.StructCache
	fieldCache  *depm.FieldCache

	// Common backend types and constants.
	ct commonTypes

	// Per-module string literal globals, keyed by module name and content.
	strLits map[string]value.Value

	// Counter used to name string literal globals.
	strCount int

	// Counter used to keep block labels unique within a function.
	labelCount int
}

// NewGenerator creates a generator with an empty registry and fresh caches.
func NewGenerator() *Generator {
	g := &Generator{
		registry:    depm.NewRegistry(),
		symCache:    depm.NewSymbolCache(),
		structCache: depm.NewStructCache(),
		fieldCache:  depm.NewFieldCache(),
		strLits:     make(map[string]value.Value),
	}

	g.ct = commonTypes{
		I1:    lltypes.I1,
		I8:    lltypes.I8,
		I16:   lltypes.I16,
		I32:   lltypes.I32,
		I64:   lltypes.I64,
		F32:   lltypes.Float,
		F64:   lltypes.Double,
		Void:  lltypes.Void,
		I8Ptr: lltypes.NewPointer(lltypes.I8),

		I32Zero: constant.NewInt(lltypes.I32, 0),
		I32One:  constant.NewInt(lltypes.I32, 1),
		I64Zero: constant.NewInt(lltypes.I64, 0),
		I64One:  constant.NewInt(lltypes.I64, 1),
	}

	return g
}

// Registry returns the generator's module registry.
func (g *Generator) Registry() *depm.Registry {
	return g.registry
}

// Structs returns the program's struct descriptors in declaration order.
func (g *Generator) Structs() []*depm.StructInfo {
	return g.structs
}

// SetCurrentUnit changes which unit subsequent symbol insertions target.
func (g *Generator) SetCurrentUnit(unit *depm.Unit) {
	g.current = unit
}

// CurrentUnit returns the unit symbol insertions currently target.
func (g *Generator) CurrentUnit() *depm.Unit {
	return g.current
}

// Close tears down the generator.  The caches borrow from the units and
// struct infos, so they are cleared first; the registry itself is dropped
// with the generator.
func (g *Generator) Close() {
	g.symCache.Clear()
	g.structCache.Clear()
	g.fieldCache.Clear()
	g.structs = nil
	g.current = nil
}

// -----------------------------------------------------------------------------

// WarmCaches populates the symbol, struct, and field caches from every unit
// and struct descriptor.  Warming is idempotent; the field cache keeps the
// first struct registered per field name.
func (g *Generator) WarmCaches() {
	for _, unit := range g.registry.Units() {
		for _, sym := range unit.Symbols {
			g.symCache.Put(unit.Name, sym.Name, sym)
		}
	}

	for _, info := range g.structs {
		g.structCache.Put(info.Name, info)

		for i := range info.Fields {
			g.fieldCache.Put(info.Fields[i].Name, info)
		}
	}
}

// LookupCachedSymbol returns the warm-cache entry for module:symbol, or nil.
func (g *Generator) LookupCachedSymbol(modName, symName string) *depm.Symbol {
	return g.symCache.Get(modName, symName)
}

// LookupCachedStruct returns the warm-cache entry for a struct name, or nil.
func (g *Generator) LookupCachedStruct(name string) *depm.StructInfo {
	return g.structCache.Get(name)
}

// findStructByName resolves a struct name through the cache with a linear
// fallback for lookups before warm-up.
func (g *Generator) findStructByName(name string) *depm.StructInfo {
	if info := g.structCache.Get(name); info != nil {
		return info
	}

	for _, info := range g.structs {
		if info.Name == name {
			return info
		}
	}

	return nil
}

// findStructByField resolves the struct containing a field name: reverse
// index first, then linear search (caching the result).
func (g *Generator) findStructByField(fieldName string) *depm.StructInfo {
	if info := g.fieldCache.Get(fieldName); info != nil {
		return info
	}

	for _, info := range g.structs {
		if info.FieldIndex(fieldName) >= 0 {
			g.fieldCache.Put(fieldName, info)
			return info
		}
	}

	return nil
}

// findStructForType resolves the descriptor of a backend struct type.
func (g *Generator) findStructForType(st *lltypes.StructType) *depm.StructInfo {
	for _, info := range g.structs {
		if info.Type == st {
			return info
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// convType maps a source type annotation onto its backend type.
func (g *Generator) convType(typ types.Type) lltypes.Type {
	switch t := typ.(type) {
	case *types.PrimType:
		switch t.Kind {
		case types.PrimBool:
			return g.ct.I1
		case types.PrimI8:
			return g.ct.I8
		case types.PrimI16:
			return g.ct.I16
		case types.PrimI32:
			return g.ct.I32
		case types.PrimI64:
			return g.ct.I64
		case types.PrimF32:
			return g.ct.F32
		case types.PrimF64:
			return g.ct.F64
		case types.PrimString:
			return g.ct.I8Ptr
		default:
			return g.ct.Void
		}
	case *types.PointerType:
		return lltypes.NewPointer(g.convType(t.Elem))
	case *types.ArrayType:
		return lltypes.NewArray(t.Len, g.convType(t.Elem))
	case *types.NamedType:
		if info := g.findStructByName(t.Name); info != nil {
			return info.Type
		}

		// Enums lower to their underlying integer type.
		return g.ct.I32
	case *types.FuncType:
		params := make([]lltypes.Type, len(t.ParamTypes))
		for i, pt := range t.ParamTypes {
			params[i] = g.convType(pt)
		}

		return lltypes.NewFunc(g.convType(t.ReturnType), params...)
	default:
		return g.ct.Void
	}
}

// pointeeOf returns the pointee type recorded for a pointer-typed source
// annotation, or nil.
func (g *Generator) pointeeOf(typ types.Type) lltypes.Type {
	if pt, ok := typ.(*types.PointerType); ok {
		return g.convType(pt.Elem)
	}

	if prim, ok := typ.(*types.PrimType); ok && prim.Kind == types.PrimString {
		return g.ct.I8
	}

	return nil
}

// zeroValue returns the zero constant of a backend type.
func (g *Generator) zeroValue(typ lltypes.Type) constant.Constant {
	switch t := typ.(type) {
	case *lltypes.IntType:
		return constant.NewInt(t, 0)
	case *lltypes.FloatType:
		return constant.NewFloat(t, 0)
	default:
		return constant.NewZeroInitializer(typ)
	}
}

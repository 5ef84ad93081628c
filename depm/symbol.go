package depm

import (
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// SymbolKind discriminates what a symbol's backend value is.
type SymbolKind int

const (
	// SymValue is a plain value binding: a function or a non-pointer
	// global/local.
	SymValue SymbolKind = iota

	// SymPointer is a pointer-valued binding whose pointee type is tracked
	// in Pointee.  Opaque backend pointers lose their element type; later
	// lookups that need to know what the pointer points at read it from
	// here.
	SymPointer

	// SymEnumConst is an enum member constant: a global whose initializer is
	// the member's value.
	SymEnumConst
)

// Symbol is a binding exported or defined by a module compilation unit.  A
// symbol is uniquely identified within its unit by name.
type Symbol struct {
	// The symbol's binding name within its unit.  For imported symbols this
	// may be an alias-qualified name such as "util.add".
	Name string

	// The backend value of the symbol: a function, a global, or a local
	// allocation.  Nil for marker symbols such as enum type names.
	Value value.Value

	// The backend type of the symbol's value.  For variables this is the
	// value type, not the address type.
	Type lltypes.Type

	// Whether the symbol is a function.
	IsFunction bool

	// The symbol's linkage.  The special name "main" always has external
	// linkage.
	Linkage enum.Linkage

	// What kind of binding this is.
	Kind SymbolKind

	// The pointee type.  Meaningful only when Kind is SymPointer.
	Pointee lltypes.Type
}

// IsExternal returns whether the symbol is visible outside its module.
func (s *Symbol) IsExternal() bool {
	return s.Linkage == enum.LinkageExternal
}

// IsEnumConstant returns whether the symbol is an enum member constant.
func (s *Symbol) IsEnumConstant() bool {
	return s.Kind == SymEnumConst
}

// FindSymbolGlobal resolves name across the registry.  If modName is
// non-empty, only that module is searched.  Otherwise the current unit is
// searched first, then every other unit in registry order.  Search order is
// deterministic: the registry is never reordered for name resolution.
func FindSymbolGlobal(r *Registry, current *Unit, name, modName string) *Symbol {
	if modName != "" {
		if unit := r.Find(modName); unit != nil {
			return unit.FindSymbol(name)
		}

		return nil
	}

	if current != nil {
		if sym := current.FindSymbol(name); sym != nil {
			return sym
		}
	}

	for _, unit := range r.Units() {
		if unit == current {
			continue
		}

		if sym := unit.FindSymbol(name); sym != nil {
			return sym
		}
	}

	return nil
}

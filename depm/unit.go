// Package depm manages the per-module state of a compilation: the module
// compilation units, their symbol tables, the struct descriptors, the warm
// lookup caches, and the dependency scheduler that orders code emission.
package depm

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
)

// Unit is a module compilation unit: the per-module container owning a
// backend module, the module's symbol list, and its metadata.  There is at
// most one unit per module name within a program.
type Unit struct {
	// The unique module name.
	Name string

	// The backend module code is emitted into.
	Mod *ir.Module

	// The unit's symbols in insertion order.  Lookups scan newest-first so
	// that more recently bound names shadow older ones.
	Symbols []*Symbol

	// Whether this unit is the program's main module.
	IsMain bool
}

// AddSymbol appends a symbol to the unit's symbol list.
func (u *Unit) AddSymbol(sym *Symbol) {
	u.Symbols = append(u.Symbols, sym)
}

// FindSymbol returns the newest symbol bound under name in this unit, or nil
// if no such symbol exists.
func (u *Unit) FindSymbol(name string) *Symbol {
	for i := len(u.Symbols) - 1; i >= 0; i-- {
		if u.Symbols[i].Name == name {
			return u.Symbols[i]
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Registry is the ordered collection of module compilation units.  Creation
// order is the canonical iteration order everywhere lookups walk the
// registry.
type Registry struct {
	units []*Unit
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewUnit allocates a new unit backed by a fresh backend module with the
// given name.  It fails if a unit with the name already exists.
func (r *Registry) NewUnit(name string) (*Unit, error) {
	if r.Find(name) != nil {
		return nil, fmt.Errorf("duplicate module definition: %s", name)
	}

	mod := ir.NewModule()
	mod.SourceFilename = name

	unit := &Unit{
		Name:   name,
		Mod:    mod,
		IsMain: name == "main",
	}

	r.units = append(r.units, unit)
	return unit, nil
}

// Find returns the unit with the given name, or nil.  Names are compared by
// byte equality.
func (r *Registry) Find(name string) *Unit {
	for _, unit := range r.units {
		if unit.Name == name {
			return unit
		}
	}

	return nil
}

// Units returns the units in creation order.  The returned slice is shared:
// callers must not mutate it.
func (r *Registry) Units() []*Unit {
	return r.units
}

// Len returns the number of units in the registry.
func (r *Registry) Len() int {
	return len(r.units)
}

// DebugString renders the registry's modules and symbols for verbose logging.
func (r *Registry) DebugString() string {
	sb := &strings.Builder{}

	for _, unit := range r.units {
		if unit.IsMain {
			fmt.Fprintf(sb, "module %s (main)\n", unit.Name)
		} else {
			fmt.Fprintf(sb, "module %s\n", unit.Name)
		}

		for _, sym := range unit.Symbols {
			kind := "variable"
			if sym.IsFunction {
				kind = "function"
			}

			fmt.Fprintf(sb, "  %s (%s)\n", sym.Name, kind)
		}
	}

	return sb.String()
}

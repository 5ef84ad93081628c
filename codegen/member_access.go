package codegen

import (
	"fmt"

	"luma/ast"
	"luma/depm"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// lowerMemberAccess dispatches a member access: compile-time accesses
// (`A::B`, `A::B::C`) resolve against modules and enums; runtime accesses
// (`a.b`) are struct field reads.
func (g *Generator) lowerMemberAccess(node *ast.MemberExpr) (value.Value, error) {
	if node.CompileTime {
		return g.lowerQualifiedAccess(node)
	}

	return g.lowerStructFieldRead(node)
}

// lowerQualifiedAccess resolves a compile-time qualified access.
func (g *Generator) lowerQualifiedAccess(node *ast.MemberExpr) (value.Value, error) {
	// Chained access `A::B::C` resolves the type-qualified name `B.C`
	// inside module A or, failing that, anywhere.
	if inner, ok := node.X.(*ast.MemberExpr); ok && inner.CompileTime {
		modIdent, ok := inner.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("expected identifier in chained compile-time access")
		}

		return g.lowerChainedEnumAccess(modIdent.Name, inner.Member, node.Member)
	}

	objIdent, ok := node.X.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("expected identifier on the left of '::'")
	}

	objName := objIdent.Name
	member := node.Member
	qualified := objName + "." + member

	// Already bound in the current unit, either by an aliased import or by a
	// previous qualified resolution.
	if sym := g.current.FindSymbol(qualified); sym != nil {
		return g.qualifiedSymbolValue(sym)
	}

	// Search every other unit for the unqualified member.
	for _, unit := range g.registry.Units() {
		if unit == g.current {
			continue
		}

		sym := unit.FindSymbol(member)
		if sym == nil {
			continue
		}

		if sym.IsFunction && sym.IsExternal() {
			return g.resolveCrossModuleFunc(sym, member, qualified)
		}

		if sym.IsEnumConstant() {
			return enumInitializer(sym)
		}

		if !sym.IsFunction && sym.IsExternal() {
			// Import the variable under the qualified name and load it.
			g.importVariableSymbol(sym, objName)

			if imported := g.current.FindSymbol(qualified); imported != nil {
				return g.block.NewLoad(imported.Type, imported.Value), nil
			}
		}
	}

	return nil, fmt.Errorf("no compile-time symbol %s::%s found (unqualified name %s)", objName, member, member)
}

// resolveCrossModuleFunc ensures the current unit has an external
// declaration for a function found in another unit, registering it under
// both its unqualified and qualified names.  Resolving the same function
// again returns the existing declaration.
func (g *Generator) resolveCrossModuleFunc(source *depm.Symbol, member, qualified string) (value.Value, error) {
	if existing := g.current.FindSymbol(member); existing != nil && existing.IsFunction {
		return existing.Value, nil
	}

	srcFunc, ok := source.Value.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("no compile-time symbol %s found", qualified)
	}

	extern := g.declareExternFunc(srcFunc, srcFunc.GlobalName)

	for _, name := range []string{member, qualified} {
		g.current.AddSymbol(&depm.Symbol{
			Name:       name,
			Value:      extern,
			Type:       extern.Sig,
			IsFunction: true,
			Linkage:    enum.LinkageExternal,
		})
	}

	return extern, nil
}

// lowerChainedEnumAccess resolves `module::Type::Member` to the enum
// member's initializer constant.
func (g *Generator) lowerChainedEnumAccess(modName, typeName, member string) (value.Value, error) {
	qualified := typeName + "." + member

	if source := g.registry.Find(modName); source != nil {
		if sym := source.FindSymbol(qualified); sym != nil && sym.IsEnumConstant() {
			return enumInitializer(sym)
		}
	}

	if sym := g.current.FindSymbol(qualified); sym != nil && sym.IsEnumConstant() {
		return enumInitializer(sym)
	}

	for _, unit := range g.registry.Units() {
		if unit == g.current {
			continue
		}

		if sym := unit.FindSymbol(qualified); sym != nil && sym.IsEnumConstant() {
			return enumInitializer(sym)
		}
	}

	return nil, fmt.Errorf("enum member %s::%s::%s not found (unqualified name %s)", modName, typeName, member, member)
}

// qualifiedSymbolValue turns a resolved qualified symbol into a value:
// functions resolve to the function itself, enum constants to their
// initializer, and variables to a load.
func (g *Generator) qualifiedSymbolValue(sym *depm.Symbol) (value.Value, error) {
	if sym.IsFunction {
		return sym.Value, nil
	}

	if sym.IsEnumConstant() {
		return enumInitializer(sym)
	}

	return g.block.NewLoad(sym.Type, sym.Value), nil
}

// enumInitializer extracts the constant value of an enum member symbol.
func enumInitializer(sym *depm.Symbol) (value.Value, error) {
	global, ok := sym.Value.(*ir.Global)
	if !ok || global.Init == nil {
		return nil, fmt.Errorf("enum constant %s has no initializer", sym.Name)
	}

	return global.Init, nil
}

// -----------------------------------------------------------------------------

// lowerStructFieldRead lowers a runtime field access `a.b` to an element
// pointer plus load.
func (g *Generator) lowerStructFieldRead(node *ast.MemberExpr) (value.Value, error) {
	addr, field, err := g.structFieldAddr(node)
	if err != nil {
		return nil, err
	}

	return g.block.NewLoad(field.Type, addr), nil
}

// structFieldAddr computes the address of the field named by a runtime
// member access, enforcing field visibility.
func (g *Generator) structFieldAddr(node *ast.MemberExpr) (value.Value, *depm.StructField, error) {
	base, st, err := g.structBaseAddr(node.X)
	if err != nil {
		return nil, nil, err
	}

	info := g.findStructForType(st)
	if info == nil {
		return nil, nil, fmt.Errorf("no struct found for member access %s", node.Member)
	}

	idx := info.FieldIndex(node.Member)
	if idx < 0 {
		return nil, nil, fmt.Errorf("struct %s has no field %s", info.Name, node.Member)
	}

	field := &info.Fields[idx]
	if !field.Public && info.Module != g.current.Name {
		return nil, nil, fmt.Errorf("cannot access private field %s of struct %s", field.Name, info.Name)
	}

	gep := g.block.NewGetElementPtr(st, base, g.ct.I32Zero, constant.NewInt(g.ct.I32, int64(idx)))
	return gep, field, nil
}

// structBaseAddr resolves the base address and struct type of a member
// access object.  Objects may be identifiers (struct variables or pointers
// to structs) or nested runtime member accesses.
func (g *Generator) structBaseAddr(obj ast.Expr) (value.Value, *lltypes.StructType, error) {
	switch o := obj.(type) {
	case *ast.Ident:
		sym := depm.FindSymbolGlobal(g.registry, g.current, o.Name, "")
		if sym == nil {
			if g.registry.Find(o.Name) != nil {
				return nil, nil, fmt.Errorf("cannot use runtime access '.' for module symbols: did you mean %s::...?", o.Name)
			}

			return nil, nil, fmt.Errorf("undefined identifier %s in member access", o.Name)
		}

		if sym.IsFunction {
			return nil, nil, fmt.Errorf("cannot use member access on function %s", o.Name)
		}

		if st, ok := sym.Type.(*lltypes.StructType); ok {
			return sym.Value, st, nil
		}

		if sym.Kind == depm.SymPointer {
			if st, ok := sym.Pointee.(*lltypes.StructType); ok {
				ptr := g.block.NewLoad(sym.Type, sym.Value)
				return ptr, st, nil
			}
		}

		return nil, nil, fmt.Errorf("member access on non-struct value %s", o.Name)
	case *ast.MemberExpr:
		if o.CompileTime {
			return nil, nil, fmt.Errorf("cannot use runtime member access on compile-time value")
		}

		addr, field, err := g.structFieldAddr(o)
		if err != nil {
			return nil, nil, err
		}

		if st, ok := field.Type.(*lltypes.StructType); ok {
			return addr, st, nil
		}

		if st, ok := field.Pointee.(*lltypes.StructType); ok {
			ptr := g.block.NewLoad(field.Type, addr)
			return ptr, st, nil
		}

		return nil, nil, fmt.Errorf("member access on non-struct field %s", o.Member)
	case *ast.DerefExpr:
		ptr, err := g.lowerExpr(o.X)
		if err != nil {
			return nil, nil, err
		}

		if st, ok := g.convType(o.Type()).(*lltypes.StructType); ok {
			return ptr, st, nil
		}

		return nil, nil, fmt.Errorf("member access through non-struct pointer")
	default:
		return nil, nil, fmt.Errorf("invalid member access object")
	}
}

package codegen

import (
	"fmt"

	"luma/ast"
	"luma/depm"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
)

// lowerTopLevel lowers one top-level declaration of a module body.
func (g *Generator) lowerTopLevel(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.FuncDecl:
		return g.lowerFuncDecl(s)
	case *ast.StructDecl:
		return g.lowerStructDecl(s)
	case *ast.EnumDecl:
		return g.lowerEnumDecl(s)
	case *ast.VarDecl:
		return g.lowerGlobalVar(s)
	default:
		return fmt.Errorf("invalid top-level statement")
	}
}

// funcLinkage determines a function's linkage: main is always external,
// everything else follows its visibility.
func funcLinkage(decl *ast.FuncDecl) enum.Linkage {
	if decl.Name == "main" || decl.Public {
		return enum.LinkageExternal
	}

	return enum.LinkageInternal
}

// lowerFuncDecl lowers a function declaration and, if present, its body.
func (g *Generator) lowerFuncDecl(decl *ast.FuncDecl) error {
	params := make([]*ir.Param, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = ir.NewParam(p.Name, g.convType(p.Type))
	}

	retType := g.convType(decl.ReturnType)

	fn := g.current.Mod.NewFunc(decl.Name, retType, params...)
	fn.Linkage = funcLinkage(decl)

	// Struct returns pin the calling convention so importers can mirror the
	// ABI exactly.
	if _, ok := retType.(*lltypes.StructType); ok {
		fn.CallingConv = enum.CallingConvC

		for i, p := range decl.Params {
			if _, isPtr := g.convType(p.Type).(*lltypes.PointerType); isPtr {
				params[i].Attrs = append(params[i].Attrs, ir.Align(8))
			}
		}
	}

	g.current.AddSymbol(&depm.Symbol{
		Name:       decl.Name,
		Value:      fn,
		Type:       fn.Sig,
		IsFunction: true,
		Linkage:    fn.Linkage,
	})

	if decl.Body == nil {
		return nil
	}

	return g.lowerFuncBody(decl, fn)
}

// lowerFuncBody generates the entry block, binds the parameters to stack
// slots, lowers the body, and guarantees a terminator.
func (g *Generator) lowerFuncBody(decl *ast.FuncDecl, fn *ir.Func) error {
	prevFunc, prevBlock := g.currentFunc, g.block
	prevDeferred := g.deferred

	g.currentFunc = fn
	g.block = fn.NewBlock("entry")
	g.deferred = nil

	for i, p := range decl.Params {
		paramType := g.convType(p.Type)
		slot := g.block.NewAlloca(paramType)
		g.block.NewStore(fn.Params[i], slot)

		g.current.AddSymbol(&depm.Symbol{
			Name:    p.Name,
			Value:   slot,
			Type:    paramType,
			Linkage: enum.LinkageInternal,
			Kind:    localSymbolKind(paramType),
			Pointee: g.pointeeOf(p.Type),
		})
	}

	if err := g.lowerBlockBody(decl.Body); err != nil {
		g.currentFunc, g.block, g.deferred = prevFunc, prevBlock, prevDeferred
		return err
	}

	// Fall off the end: run deferred calls and synthesize a return.
	if g.block.Term == nil {
		if err := g.flushDeferred(); err != nil {
			g.currentFunc, g.block, g.deferred = prevFunc, prevBlock, prevDeferred
			return err
		}

		if fn.Sig.RetType.Equal(g.ct.Void) {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.zeroValue(fn.Sig.RetType))
		}
	}

	g.currentFunc, g.block, g.deferred = prevFunc, prevBlock, prevDeferred
	return nil
}

// localSymbolKind classifies a local binding by its value type.
func localSymbolKind(typ lltypes.Type) depm.SymbolKind {
	if _, ok := typ.(*lltypes.PointerType); ok {
		return depm.SymPointer
	}

	return depm.SymValue
}

// lowerStructDecl lowers a struct declaration into a named backend type plus
// a struct descriptor.
func (g *Generator) lowerStructDecl(decl *ast.StructDecl) error {
	fieldTypes := make([]lltypes.Type, len(decl.Fields))
	fields := make([]depm.StructField, len(decl.Fields))

	for i, f := range decl.Fields {
		fieldTypes[i] = g.convType(f.Type)
		fields[i] = depm.StructField{
			Name:    f.Name,
			Type:    fieldTypes[i],
			Pointee: g.pointeeOf(f.Type),
			Public:  f.Public,
		}
	}

	st := lltypes.NewStruct(fieldTypes...)
	g.current.Mod.NewTypeDef(decl.Name, st)

	g.structs = append(g.structs, &depm.StructInfo{
		Name:   decl.Name,
		Module: g.current.Name,
		Type:   st,
		Fields: fields,
	})

	return nil
}

// lowerEnumDecl lowers an enum declaration: one internal constant global per
// member named "Enum.Member", plus a marker symbol for the enum type name.
func (g *Generator) lowerEnumDecl(decl *ast.EnumDecl) error {
	g.current.AddSymbol(&depm.Symbol{
		Name:    decl.Name,
		Type:    g.ct.I32,
		Linkage: enum.LinkageInternal,
	})

	next := int64(0)
	for _, variant := range decl.Variants {
		val := next
		if variant.HasValue {
			val = variant.Value
		}
		next = val + 1

		name := decl.Name + "." + variant.Name
		global := g.current.Mod.NewGlobalDef(name, constant.NewInt(g.ct.I32, val))
		global.Linkage = enum.LinkageInternal
		global.Immutable = true

		g.current.AddSymbol(&depm.Symbol{
			Name:    name,
			Value:   global,
			Type:    g.ct.I32,
			Linkage: enum.LinkageInternal,
			Kind:    depm.SymEnumConst,
		})
	}

	return nil
}

// lowerGlobalVar lowers a module-level variable declaration.  Initializers
// must be constant expressions.
func (g *Generator) lowerGlobalVar(decl *ast.VarDecl) error {
	varType := g.convType(decl.Type)

	init, err := g.constInitializer(decl.Init, varType)
	if err != nil {
		return fmt.Errorf("global %s: %s", decl.Name, err)
	}

	global := g.current.Mod.NewGlobalDef(decl.Name, init)
	if decl.Public {
		global.Linkage = enum.LinkageExternal
	} else {
		global.Linkage = enum.LinkageInternal
	}

	g.current.AddSymbol(&depm.Symbol{
		Name:    decl.Name,
		Value:   global,
		Type:    varType,
		Linkage: global.Linkage,
		Kind:    localSymbolKind(varType),
		Pointee: g.pointeeOf(decl.Type),
	})

	return nil
}

// constInitializer evaluates the constant initializer of a global.
func (g *Generator) constInitializer(init ast.Expr, typ lltypes.Type) (constant.Constant, error) {
	if init == nil {
		return g.zeroValue(typ), nil
	}

	switch e := init.(type) {
	case *ast.IntLit:
		if intType, ok := typ.(*lltypes.IntType); ok {
			return constant.NewInt(intType, e.Value), nil
		}
	case *ast.FloatLit:
		if floatType, ok := typ.(*lltypes.FloatType); ok {
			return constant.NewFloat(floatType, e.Value), nil
		}
	case *ast.BoolLit:
		if e.Value {
			return constant.NewInt(g.ct.I1, 1), nil
		}
		return constant.NewInt(g.ct.I1, 0), nil
	}

	return nil, fmt.Errorf("initializer is not a constant expression")
}

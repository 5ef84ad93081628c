package codegen

import (
	"luma/depm"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
)

// ImportModuleSymbols creates, in the current unit's backend module, an
// external declaration for every externally-linked symbol of the source
// unit.  The imported binding name is "alias.name" when an alias is given,
// else "name".  Duplicate imports are no-ops.
func (g *Generator) ImportModuleSymbols(source *depm.Unit, alias string) {
	if g.current == nil || source == nil {
		return
	}

	for _, sym := range source.Symbols {
		if !sym.IsExternal() || sym.Value == nil {
			continue
		}

		if sym.IsFunction {
			g.importFunctionSymbol(sym, alias)
		} else if !sym.IsEnumConstant() {
			g.importVariableSymbol(sym, alias)
		}
	}
}

// bindingName computes the name a symbol is bound under in the importing
// unit.
func bindingName(alias, name string) string {
	if alias != "" {
		return alias + "." + name
	}

	return name
}

// importFunctionSymbol declares an external function matching the source
// symbol in the current unit.
func (g *Generator) importFunctionSymbol(source *depm.Symbol, alias string) {
	imported := bindingName(alias, source.Name)
	if g.current.FindSymbol(imported) != nil {
		return
	}

	srcFunc, ok := source.Value.(*ir.Func)
	if !ok {
		return
	}

	extern := g.declareExternFunc(srcFunc, srcFunc.GlobalName)

	g.current.AddSymbol(&depm.Symbol{
		Name:       imported,
		Value:      extern,
		Type:       extern.Sig,
		IsFunction: true,
		Linkage:    enum.LinkageExternal,
	})
}

// importVariableSymbol declares an external global matching the source
// symbol in the current unit.
func (g *Generator) importVariableSymbol(source *depm.Symbol, alias string) {
	imported := bindingName(alias, source.Name)
	if g.current.FindSymbol(imported) != nil {
		return
	}

	extern := g.current.Mod.NewGlobal(source.Name, source.Type)
	extern.Linkage = enum.LinkageExternal
	g.ensureTypeDef(source.Type)

	g.current.AddSymbol(&depm.Symbol{
		Name:    imported,
		Value:   extern,
		Type:    source.Type,
		Linkage: enum.LinkageExternal,
		Kind:    source.Kind,
		Pointee: source.Pointee,
	})
}

// ensureTypeDef copies the type definition of a named struct type into the
// current unit's module so its printed IR stands alone.  Pointer types are
// followed one level to their pointee.
func (g *Generator) ensureTypeDef(t lltypes.Type) {
	if ptr, ok := t.(*lltypes.PointerType); ok {
		t = ptr.ElemType
	}

	st, ok := t.(*lltypes.StructType)
	if !ok || st.TypeName == "" {
		return
	}

	for _, def := range g.current.Mod.TypeDefs {
		if def == st {
			return
		}
	}

	g.current.Mod.TypeDefs = append(g.current.Mod.TypeDefs, st)
}

// declareExternFunc adds an external declaration of src to the current
// unit's backend module under the given global name.  The source's calling
// convention is always preserved; for struct-returning functions the
// per-parameter alignment attributes are carried over as well, so the
// cross-module call ABI matches the definition.
func (g *Generator) declareExternFunc(src *ir.Func, name string) *ir.Func {
	params := make([]*ir.Param, len(src.Params))
	for i, srcParam := range src.Params {
		params[i] = ir.NewParam(srcParam.LocalName, srcParam.Typ)
	}

	extern := g.current.Mod.NewFunc(name, src.Sig.RetType, params...)
	extern.Sig.Variadic = src.Sig.Variadic
	extern.Linkage = enum.LinkageExternal
	extern.CallingConv = src.CallingConv

	g.ensureTypeDef(src.Sig.RetType)
	for _, param := range src.Params {
		g.ensureTypeDef(param.Typ)
	}

	if _, isStructRet := src.Sig.RetType.(*lltypes.StructType); isStructRet {
		for i, srcParam := range src.Params {
			for _, attr := range srcParam.Attrs {
				if align, ok := attr.(ir.Align); ok {
					params[i].Attrs = append(params[i].Attrs, align)
				}
			}
		}
	}

	return extern
}

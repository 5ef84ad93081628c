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

// lowerExpr lowers one expression and returns its value.
func (g *Generator) lowerExpr(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		if intType, ok := g.convType(e.Type()).(*lltypes.IntType); ok {
			return constant.NewInt(intType, e.Value), nil
		}

		return constant.NewInt(g.ct.I32, e.Value), nil
	case *ast.FloatLit:
		if floatType, ok := g.convType(e.Type()).(*lltypes.FloatType); ok {
			return constant.NewFloat(floatType, e.Value), nil
		}

		return constant.NewFloat(g.ct.F64, e.Value), nil
	case *ast.BoolLit:
		if e.Value {
			return constant.NewInt(g.ct.I1, 1), nil
		}

		return constant.NewInt(g.ct.I1, 0), nil
	case *ast.StringLit:
		return g.lowerStringLit(e)
	case *ast.Ident:
		return g.lowerIdent(e)
	case *ast.UnaryExpr:
		return g.lowerUnary(e)
	case *ast.BinaryExpr:
		return g.lowerBinary(e)
	case *ast.CallExpr:
		return g.lowerCall(e)
	case *ast.MemberExpr:
		return g.lowerMemberAccess(e)
	case *ast.IndexExpr:
		addr, elemType, err := g.elementAddr(e)
		if err != nil {
			return nil, err
		}

		return g.block.NewLoad(elemType, addr), nil
	case *ast.StructLit:
		return g.lowerStructLit(e)
	case *ast.AddrExpr:
		return g.lvalueAddr(e.X)
	case *ast.DerefExpr:
		ptr, err := g.lowerExpr(e.X)
		if err != nil {
			return nil, err
		}

		return g.block.NewLoad(g.convType(e.Type()), ptr), nil
	case *ast.CastExpr:
		return g.lowerCast(e)
	default:
		return nil, fmt.Errorf("invalid expression")
	}
}

// lowerIdent resolves an identifier to a value: functions resolve to the
// function itself, enum constants to their value, and variables to a load.
// Externally-linked functions found in other modules are declared in the
// current module on demand.
func (g *Generator) lowerIdent(e *ast.Ident) (value.Value, error) {
	if sym := g.current.FindSymbol(e.Name); sym != nil {
		return g.symbolValue(sym, e.Name)
	}

	for _, unit := range g.registry.Units() {
		if unit == g.current {
			continue
		}

		sym := unit.FindSymbol(e.Name)
		if sym == nil {
			continue
		}

		if sym.IsFunction && sym.IsExternal() {
			return g.resolveCrossModuleFunc(sym, e.Name, e.Name)
		}

		if sym.IsEnumConstant() {
			return enumInitializer(sym)
		}
	}

	return nil, fmt.Errorf("undefined symbol %s", e.Name)
}

// symbolValue turns a symbol of the current unit into an expression value.
func (g *Generator) symbolValue(sym *depm.Symbol, name string) (value.Value, error) {
	if sym.IsFunction {
		return sym.Value, nil
	}

	if sym.IsEnumConstant() {
		return enumInitializer(sym)
	}

	if sym.Value == nil {
		return nil, fmt.Errorf("cannot use type %s as a value", name)
	}

	return g.block.NewLoad(sym.Type, sym.Value), nil
}

// lowerUnary lowers a unary operator application.
func (g *Generator) lowerUnary(e *ast.UnaryExpr) (value.Value, error) {
	x, err := g.lowerExpr(e.X)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "-":
		if _, ok := x.Type().(*lltypes.FloatType); ok {
			return g.block.NewFNeg(x), nil
		}

		return g.block.NewSub(g.zeroValue(x.Type()), x), nil
	case "!":
		return g.block.NewXor(x, constant.NewInt(g.ct.I1, 1)), nil
	default:
		return nil, fmt.Errorf("invalid unary operator %s", e.Op)
	}
}

// intPreds and floatPreds map comparison operators onto backend predicates.
var intPreds = map[string]enum.IPred{
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
	"<":  enum.IPredSLT,
	"<=": enum.IPredSLE,
	">":  enum.IPredSGT,
	">=": enum.IPredSGE,
}

var floatPreds = map[string]enum.FPred{
	"==": enum.FPredOEQ,
	"!=": enum.FPredONE,
	"<":  enum.FPredOLT,
	"<=": enum.FPredOLE,
	">":  enum.FPredOGT,
	">=": enum.FPredOGE,
}

// lowerBinary lowers a binary operator application.  Operand types are
// assumed checked; a right operand of a different type is converted to the
// left operand's type (extended or truncated).
func (g *Generator) lowerBinary(e *ast.BinaryExpr) (value.Value, error) {
	x, err := g.lowerExpr(e.X)
	if err != nil {
		return nil, err
	}

	y, err := g.lowerExpr(e.Y)
	if err != nil {
		return nil, err
	}

	if !y.Type().Equal(x.Type()) {
		y = g.coerce(y, x.Type())
	}

	_, isFloat := x.Type().(*lltypes.FloatType)

	if pred, ok := intPreds[e.Op]; ok && !isFloat {
		return g.block.NewICmp(pred, x, y), nil
	}

	if pred, ok := floatPreds[e.Op]; ok && isFloat {
		return g.block.NewFCmp(pred, x, y), nil
	}

	if isFloat {
		switch e.Op {
		case "+":
			return g.block.NewFAdd(x, y), nil
		case "-":
			return g.block.NewFSub(x, y), nil
		case "*":
			return g.block.NewFMul(x, y), nil
		case "/":
			return g.block.NewFDiv(x, y), nil
		case "%":
			return g.block.NewFRem(x, y), nil
		}

		return nil, fmt.Errorf("invalid float operator %s", e.Op)
	}

	switch e.Op {
	case "+":
		return g.block.NewAdd(x, y), nil
	case "-":
		return g.block.NewSub(x, y), nil
	case "*":
		return g.block.NewMul(x, y), nil
	case "/":
		return g.block.NewSDiv(x, y), nil
	case "%":
		return g.block.NewSRem(x, y), nil
	case "&&":
		return g.block.NewAnd(x, y), nil
	case "||":
		return g.block.NewOr(x, y), nil
	default:
		return nil, fmt.Errorf("invalid operator %s", e.Op)
	}
}

// lowerCall lowers a function call.  The builtin `output` lowers to a
// varargs printf call.
func (g *Generator) lowerCall(e *ast.CallExpr) (value.Value, error) {
	if ident, ok := e.Callee.(*ast.Ident); ok && ident.Name == "output" {
		return g.lowerOutput(e.Args)
	}

	callee, err := g.lowerExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	fn, ok := callee.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("called value is not a function")
	}

	args := make([]value.Value, len(e.Args))
	for i, argExpr := range e.Args {
		arg, err := g.lowerExpr(argExpr)
		if err != nil {
			return nil, err
		}

		if i < len(fn.Params) && !arg.Type().Equal(fn.Params[i].Typ) {
			arg = g.coerce(arg, fn.Params[i].Typ)
		}

		args[i] = arg
	}

	return g.block.NewCall(fn, args...), nil
}

// lowerOutput lowers the output builtin: each argument is formatted by type
// through a printf external declaration.
func (g *Generator) lowerOutput(argExprs []ast.Expr) (value.Value, error) {
	format := ""
	args := make([]value.Value, 0, len(argExprs))

	for _, argExpr := range argExprs {
		arg, err := g.lowerExpr(argExpr)
		if err != nil {
			return nil, err
		}

		switch t := arg.Type().(type) {
		case *lltypes.PointerType:
			format += "%s"
		case *lltypes.FloatType:
			format += "%f"
			if t.Kind == lltypes.FloatKindFloat {
				arg = g.block.NewFPExt(arg, g.ct.F64)
			}
		case *lltypes.IntType:
			switch {
			case t.BitSize == 64:
				format += "%ld"
			case t.BitSize < 32:
				format += "%d"
				arg = g.block.NewSExt(arg, g.ct.I32)
			default:
				format += "%d"
			}
		default:
			return nil, fmt.Errorf("cannot output value of this type")
		}

		args = append(args, arg)
	}

	fmtPtr := g.stringPtr(format)
	printf := g.printfDecl()

	return g.block.NewCall(printf, append([]value.Value{fmtPtr}, args...)...), nil
}

// printfDecl returns the current unit's printf declaration, creating it on
// first use.
func (g *Generator) printfDecl() *ir.Func {
	if sym := g.current.FindSymbol("printf"); sym != nil {
		if fn, ok := sym.Value.(*ir.Func); ok {
			return fn
		}
	}

	printf := g.current.Mod.NewFunc("printf", g.ct.I32, ir.NewParam("format", g.ct.I8Ptr))
	printf.Sig.Variadic = true
	printf.Linkage = enum.LinkageExternal

	g.current.AddSymbol(&depm.Symbol{
		Name:       "printf",
		Value:      printf,
		Type:       printf.Sig,
		IsFunction: true,
		Linkage:    enum.LinkageExternal,
	})

	return printf
}

// elementAddr computes the address and element type of an index expression.
func (g *Generator) elementAddr(e *ast.IndexExpr) (value.Value, lltypes.Type, error) {
	idx, err := g.lowerExpr(e.Index)
	if err != nil {
		return nil, nil, err
	}

	ident, ok := e.X.(*ast.Ident)
	if !ok {
		return nil, nil, fmt.Errorf("invalid index target")
	}

	sym := depm.FindSymbolGlobal(g.registry, g.current, ident.Name, "")
	if sym == nil || sym.IsFunction {
		return nil, nil, fmt.Errorf("variable %s not found for indexing", ident.Name)
	}

	if arrType, ok := sym.Type.(*lltypes.ArrayType); ok {
		gep := g.block.NewGetElementPtr(arrType, sym.Value, g.ct.I64Zero, idx)
		return gep, arrType.ElemType, nil
	}

	if sym.Kind == depm.SymPointer && sym.Pointee != nil {
		ptr := g.block.NewLoad(sym.Type, sym.Value)
		gep := g.block.NewGetElementPtr(sym.Pointee, ptr, idx)
		return gep, sym.Pointee, nil
	}

	return nil, nil, fmt.Errorf("cannot index value %s", ident.Name)
}

// lowerStructLit constructs a struct value through a temporary stack slot.
func (g *Generator) lowerStructLit(e *ast.StructLit) (value.Value, error) {
	info := g.findStructByName(e.TypeName)
	if info == nil {
		return nil, fmt.Errorf("unknown struct type %s", e.TypeName)
	}

	tmp := g.block.NewAlloca(info.Type)

	for _, fieldInit := range e.Fields {
		idx := info.FieldIndex(fieldInit.Name)
		if idx < 0 {
			return nil, fmt.Errorf("struct %s has no field %s", info.Name, fieldInit.Name)
		}

		field := &info.Fields[idx]
		if !field.Public && info.Module != g.current.Name {
			return nil, fmt.Errorf("cannot access private field %s of struct %s", field.Name, info.Name)
		}

		val, err := g.lowerExpr(fieldInit.Value)
		if err != nil {
			return nil, err
		}

		gep := g.block.NewGetElementPtr(info.Type, tmp, g.ct.I32Zero, constant.NewInt(g.ct.I32, int64(idx)))
		g.block.NewStore(val, gep)
	}

	return g.block.NewLoad(info.Type, tmp), nil
}

// lvalueAddr computes the address of an lvalue expression.
func (g *Generator) lvalueAddr(e ast.Expr) (value.Value, error) {
	switch target := e.(type) {
	case *ast.Ident:
		sym := depm.FindSymbolGlobal(g.registry, g.current, target.Name, "")
		if sym == nil || sym.IsFunction || sym.Value == nil {
			return nil, fmt.Errorf("cannot take the address of %s", target.Name)
		}

		return sym.Value, nil
	case *ast.MemberExpr:
		addr, _, err := g.structFieldAddr(target)
		return addr, err
	case *ast.IndexExpr:
		addr, _, err := g.elementAddr(target)
		return addr, err
	default:
		return nil, fmt.Errorf("expression is not addressable")
	}
}

// lowerCast lowers an explicit conversion.
func (g *Generator) lowerCast(e *ast.CastExpr) (value.Value, error) {
	val, err := g.lowerExpr(e.X)
	if err != nil {
		return nil, err
	}

	to := g.convType(e.Type())
	from := val.Type()

	if from.Equal(to) {
		return val, nil
	}

	_, fromIsPtr := from.(*lltypes.PointerType)
	toPtr, toIsPtr := to.(*lltypes.PointerType)

	switch {
	case fromIsPtr && toIsPtr:
		return g.block.NewBitCast(val, toPtr), nil
	case fromIsPtr:
		if toInt, ok := to.(*lltypes.IntType); ok {
			return g.block.NewPtrToInt(val, toInt), nil
		}
	case toIsPtr:
		if _, ok := from.(*lltypes.IntType); ok {
			return g.block.NewIntToPtr(val, toPtr), nil
		}
	}

	return g.coerce(val, to), nil
}

// stringPtr returns an i8* to a NUL-terminated global holding s.  Literal
// globals are deduplicated per module.
func (g *Generator) stringPtr(s string) value.Value {
	key := g.current.Name + "\x00" + s
	if cached, ok := g.strLits[key]; ok {
		return cached
	}

	arr := constant.NewCharArrayFromString(s + "\x00")

	g.strCount++
	global := g.current.Mod.NewGlobalDef(fmt.Sprintf(".str.%d", g.strCount), arr)
	global.Linkage = enum.LinkageInternal
	global.Immutable = true

	ptr := constant.NewGetElementPtr(arr.Typ, global, g.ct.I64Zero, g.ct.I64Zero)
	g.strLits[key] = ptr

	return ptr
}

package codegen

import (
	"fmt"

	"luma/ast"
	"luma/depm"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// deferredCall is a call expression whose execution is deferred to function
// exit.
type deferredCall struct {
	call ast.Expr
}

// newLabel returns a block label unique within the current compilation.
func (g *Generator) newLabel(base string) string {
	g.labelCount++
	return fmt.Sprintf("%s.%d", base, g.labelCount)
}

// lowerStmt lowers one statement inside a function body.
func (g *Generator) lowerStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return g.lowerLocalVar(s)
	case *ast.AssignStmt:
		return g.lowerAssign(s)
	case *ast.IfStmt:
		return g.lowerIf(s)
	case *ast.WhileStmt:
		return g.lowerWhile(s)
	case *ast.BreakStmt:
		return g.lowerBreak()
	case *ast.ContinueStmt:
		return g.lowerContinue()
	case *ast.ReturnStmt:
		return g.lowerReturn(s)
	case *ast.DeferStmt:
		g.deferred = append(g.deferred, deferredCall{call: s.Call})
		return nil
	case *ast.ExprStmt:
		_, err := g.lowerExpr(s.X)
		return err
	default:
		return fmt.Errorf("invalid statement in function body")
	}
}

// lowerBlockBody lowers a statement list into the current block.
func (g *Generator) lowerBlockBody(body []ast.Stmt) error {
	for _, stmt := range body {
		if err := g.lowerStmt(stmt); err != nil {
			return err
		}

		// Statements after a terminator are unreachable; stop lowering the
		// list the way the source order implies.
		if g.block.Term != nil {
			break
		}
	}

	return nil
}

// lowerLocalVar allocates a stack slot for a local variable and stores its
// initializer (or the zero value).
func (g *Generator) lowerLocalVar(decl *ast.VarDecl) error {
	varType := g.convType(decl.Type)
	slot := g.block.NewAlloca(varType)

	if decl.Init != nil {
		init, err := g.lowerExpr(decl.Init)
		if err != nil {
			return err
		}

		g.block.NewStore(init, slot)
	} else {
		g.block.NewStore(g.zeroValue(varType), slot)
	}

	g.current.AddSymbol(&depm.Symbol{
		Name:    decl.Name,
		Value:   slot,
		Type:    varType,
		Linkage: enum.LinkageInternal,
		Kind:    localSymbolKind(varType),
		Pointee: g.pointeeOf(decl.Type),
	})

	return nil
}

// lowerAssign lowers an assignment to an identifier, field, element, or
// dereference target.
func (g *Generator) lowerAssign(stmt *ast.AssignStmt) error {
	val, err := g.lowerExpr(stmt.Value)
	if err != nil {
		return err
	}

	switch target := stmt.Target.(type) {
	case *ast.Ident:
		sym := depm.FindSymbolGlobal(g.registry, g.current, target.Name, "")
		if sym == nil {
			return fmt.Errorf("variable %s not found", target.Name)
		}

		if sym.IsFunction {
			return fmt.Errorf("cannot assign to function %s", target.Name)
		}

		g.block.NewStore(val, sym.Value)
		return nil
	case *ast.MemberExpr:
		if target.CompileTime {
			return fmt.Errorf("cannot assign to compile-time access %s", target.Member)
		}

		addr, field, err := g.structFieldAddr(target)
		if err != nil {
			return err
		}

		if !val.Type().Equal(field.Type) {
			return fmt.Errorf("type mismatch assigning to field %s", field.Name)
		}

		g.block.NewStore(val, addr)
		return nil
	case *ast.IndexExpr:
		addr, elemType, err := g.elementAddr(target)
		if err != nil {
			return err
		}

		if !val.Type().Equal(elemType) {
			return fmt.Errorf("type mismatch assigning to element")
		}

		g.block.NewStore(val, addr)
		return nil
	case *ast.DerefExpr:
		ptr, err := g.lowerExpr(target.X)
		if err != nil {
			return err
		}

		g.block.NewStore(val, ptr)
		return nil
	default:
		return fmt.Errorf("invalid assignment target")
	}
}

// lowerIf lowers a conditional with an optional else branch.
func (g *Generator) lowerIf(stmt *ast.IfStmt) error {
	cond, err := g.lowerExpr(stmt.Cond)
	if err != nil {
		return err
	}

	thenBlock := g.currentFunc.NewBlock(g.newLabel("if.then"))
	endBlock := g.currentFunc.NewBlock(g.newLabel("if.end"))

	elseBlock := endBlock
	if len(stmt.Else) > 0 {
		elseBlock = g.currentFunc.NewBlock(g.newLabel("if.else"))
	}

	g.block.NewCondBr(cond, thenBlock, elseBlock)

	g.block = thenBlock
	if err := g.lowerBlockBody(stmt.Then); err != nil {
		return err
	}
	g.branchIfOpen(endBlock)

	if len(stmt.Else) > 0 {
		g.block = elseBlock
		if err := g.lowerBlockBody(stmt.Else); err != nil {
			return err
		}
		g.branchIfOpen(endBlock)
	}

	g.block = endBlock
	return nil
}

// lowerWhile lowers a while loop, tracking the break and continue targets on
// the generator.
func (g *Generator) lowerWhile(stmt *ast.WhileStmt) error {
	condBlock := g.currentFunc.NewBlock(g.newLabel("while.cond"))
	bodyBlock := g.currentFunc.NewBlock(g.newLabel("while.body"))
	endBlock := g.currentFunc.NewBlock(g.newLabel("while.end"))

	g.block.NewBr(condBlock)

	g.block = condBlock
	cond, err := g.lowerExpr(stmt.Cond)
	if err != nil {
		return err
	}
	g.block.NewCondBr(cond, bodyBlock, endBlock)

	g.loopBreak = append(g.loopBreak, endBlock)
	g.loopContinue = append(g.loopContinue, condBlock)

	g.block = bodyBlock
	err = g.lowerBlockBody(stmt.Body)

	g.loopBreak = g.loopBreak[:len(g.loopBreak)-1]
	g.loopContinue = g.loopContinue[:len(g.loopContinue)-1]

	if err != nil {
		return err
	}

	g.branchIfOpen(condBlock)
	g.block = endBlock
	return nil
}

// lowerBreak branches to the innermost loop's break target.
func (g *Generator) lowerBreak() error {
	if len(g.loopBreak) == 0 {
		return fmt.Errorf("break outside of a loop")
	}

	g.block.NewBr(g.loopBreak[len(g.loopBreak)-1])
	return nil
}

// lowerContinue branches to the innermost loop's continue target.
func (g *Generator) lowerContinue() error {
	if len(g.loopContinue) == 0 {
		return fmt.Errorf("continue outside of a loop")
	}

	g.block.NewBr(g.loopContinue[len(g.loopContinue)-1])
	return nil
}

// lowerReturn flushes deferred calls and returns, coercing small integer
// returns to the function's return width where needed.
func (g *Generator) lowerReturn(stmt *ast.ReturnStmt) error {
	if err := g.flushDeferred(); err != nil {
		return err
	}

	if stmt.Value == nil {
		g.block.NewRet(nil)
		return nil
	}

	val, err := g.lowerExpr(stmt.Value)
	if err != nil {
		return err
	}

	retType := g.currentFunc.Sig.RetType
	if !val.Type().Equal(retType) {
		val = g.coerce(val, retType)
	}

	g.block.NewRet(val)
	return nil
}

// flushDeferred lowers the deferred calls of the current function in reverse
// declaration order.  The deferred list itself is left intact: a function
// with several returns flushes at each of them.
func (g *Generator) flushDeferred() error {
	for i := len(g.deferred) - 1; i >= 0; i-- {
		if _, err := g.lowerExpr(g.deferred[i].call); err != nil {
			return err
		}
	}

	return nil
}

// branchIfOpen branches to target unless the current block already has a
// terminator.
func (g *Generator) branchIfOpen(target *ir.Block) {
	if g.block.Term == nil {
		g.block.NewBr(target)
	}
}

// coerce adapts an integer or float value to a target type.  Lowering only
// calls this on paths the type checker has already approved.
func (g *Generator) coerce(val value.Value, to lltypes.Type) value.Value {
	from := val.Type()

	fromInt, fromIsInt := from.(*lltypes.IntType)
	toInt, toIsInt := to.(*lltypes.IntType)
	if fromIsInt && toIsInt {
		if fromInt.BitSize < toInt.BitSize {
			return g.block.NewSExt(val, toInt)
		}

		return g.block.NewTrunc(val, toInt)
	}

	_, fromIsFloat := from.(*lltypes.FloatType)
	toFloat, toIsFloat := to.(*lltypes.FloatType)
	if fromIsFloat && toIsFloat {
		if from.Equal(g.ct.F32) && to.Equal(g.ct.F64) {
			return g.block.NewFPExt(val, toFloat)
		}

		return g.block.NewFPTrunc(val, toFloat)
	}

	if fromIsInt && toIsFloat {
		return g.block.NewSIToFP(val, toFloat)
	}

	if fromIsFloat && toIsInt {
		return g.block.NewFPToSI(val, toInt)
	}

	return val
}

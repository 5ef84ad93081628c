package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"luma/ast"
	"luma/report"
	"luma/types"
)

// Expression and statement builders used by the package tests.

func intLit(v int64) *ast.IntLit {
	return &ast.IntLit{ExprBase: ast.ExprBase{NodeType: types.I32Type}, Value: v}
}

func floatLit(v float64) *ast.FloatLit {
	return &ast.FloatLit{ExprBase: ast.ExprBase{NodeType: types.F64Type}, Value: v}
}

func stringLit(s string) *ast.StringLit {
	return &ast.StringLit{ExprBase: ast.ExprBase{NodeType: types.StringType}, Value: s}
}

func ident(name string, typ types.Type) *ast.Ident {
	return &ast.Ident{ExprBase: ast.ExprBase{NodeType: typ}, Name: name}
}

func qualified(module, member string, typ types.Type) *ast.MemberExpr {
	return &ast.MemberExpr{
		ExprBase:    ast.ExprBase{NodeType: typ},
		X:           ident(module, types.UnitType),
		Member:      member,
		CompileTime: true,
	}
}

func enumAccess(module, enumName, member string) *ast.MemberExpr {
	return &ast.MemberExpr{
		ExprBase:    ast.ExprBase{NodeType: types.I32Type},
		X:           qualified(module, enumName, types.UnitType),
		Member:      member,
		CompileTime: true,
	}
}

func call(callee ast.Expr, retType types.Type, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{
		ExprBase: ast.ExprBase{NodeType: retType},
		Callee:   callee,
		Args:     args,
	}
}

func binary(op string, typ types.Type, x, y ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{ExprBase: ast.ExprBase{NodeType: typ}, Op: op, X: x, Y: y}
}

func ret(val ast.Expr) *ast.ReturnStmt {
	return &ast.ReturnStmt{Value: val}
}

func exprStmt(x ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{X: x}
}

func fnDecl(name string, public bool, retType types.Type, params []ast.FuncParam, body ...ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{
		Name:       name,
		Params:     params,
		ReturnType: retType,
		Public:     public,
		Body:       body,
	}
}

func module(name string, body ...ast.Stmt) *ast.Module {
	return &ast.Module{Name: name, Body: body}
}

func program(mods ...*ast.Module) *ast.Program {
	return &ast.Program{Modules: mods}
}

// utilMainProgram is the canonical two-module program: util exports add,
// main calls util::add(2, 3).
func utilMainProgram() *ast.Program {
	utilMod := module("util",
		fnDecl("add", true, types.I32Type,
			[]ast.FuncParam{{Name: "a", Type: types.I32Type}, {Name: "b", Type: types.I32Type}},
			ret(binary("+", types.I32Type, ident("a", types.I32Type), ident("b", types.I32Type))),
		),
	)

	mainMod := module("main",
		&ast.UseStmt{Module: "util"},
		fnDecl("main", false, types.I32Type, nil,
			ret(call(qualified("util", "add", types.I32Type), types.I32Type, intLit(2), intLit(3))),
		),
	)

	return program(mainMod, utilMod)
}

// generate runs the full generation passes over prog with a silent
// reporter.
func generate(t *testing.T, prog *ast.Program) *Generator {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)

	g := NewGenerator()
	require.NoError(t, g.GenerateProgram(prog))

	return g
}

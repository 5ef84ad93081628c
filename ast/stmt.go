package ast

import "luma/types"

// Stmt is the abstract interface for all statement nodes.
type Stmt interface {
	Node

	stmtNode()
}

// StmtBase is a utility base struct for all statements.
type StmtBase struct {
	NodeBase
}

func (StmtBase) stmtNode() {}

// -----------------------------------------------------------------------------

// UseStmt is a `use` directive importing another module, optionally under an
// alias.
type UseStmt struct {
	StmtBase

	// The name of the module being imported.
	Module string

	// The optional import alias.  Empty if none was given.
	Alias string
}

// FuncParam is a single function parameter.
type FuncParam struct {
	Name string
	Type types.Type
}

// FuncDecl is a function declaration.
type FuncDecl struct {
	StmtBase

	Name       string
	Params     []FuncParam
	ReturnType types.Type

	// Whether the function is exported from its module.
	Public bool

	// The function body.  Nil for declarations without bodies.
	Body []Stmt
}

// StructFieldDecl is a single field of a struct declaration.
type StructFieldDecl struct {
	Name   string
	Type   types.Type
	Public bool
}

// StructDecl is a struct declaration.  Field order is layout order.
type StructDecl struct {
	StmtBase

	Name   string
	Fields []StructFieldDecl
	Public bool
}

// EnumVariant is a single member of an enum declaration.
type EnumVariant struct {
	Name string

	// The declared value of the member.  If HasValue is false, the member
	// takes the next positional value.
	Value    int64
	HasValue bool
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	StmtBase

	Name     string
	Variants []EnumVariant
	Public   bool
}

// VarDecl declares a variable.  At module level the variable becomes a
// global; inside a function body it is a local.
type VarDecl struct {
	StmtBase

	Name string
	Type types.Type

	// The initializer.  May be nil for locals, which are then
	// zero-initialized.
	Init Expr

	// Whether a module-level variable is exported.
	Public bool
}

// AssignStmt assigns Value to Target.  Target must be an lvalue: an
// identifier, a field access, an index expression, or a dereference.
type AssignStmt struct {
	StmtBase

	Target Expr
	Value  Expr
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	StmtBase

	Cond Expr
	Then []Stmt
	Else []Stmt
}

// WhileStmt is a while loop.
type WhileStmt struct {
	StmtBase

	Cond Expr
	Body []Stmt
}

// BreakStmt breaks out of the innermost enclosing loop.
type BreakStmt struct {
	StmtBase
}

// ContinueStmt continues the innermost enclosing loop.
type ContinueStmt struct {
	StmtBase
}

// ReturnStmt returns from the current function, optionally with a value.
type ReturnStmt struct {
	StmtBase

	Value Expr
}

// DeferStmt defers a call expression to function exit.  Deferred calls run in
// reverse declaration order before every return.
type DeferStmt struct {
	StmtBase

	Call Expr
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	StmtBase

	X Expr
}

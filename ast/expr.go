package ast

import "luma/types"

// Expr is the abstract interface for all expression nodes.
type Expr interface {
	Node

	// Type returns the resolved type annotation of the expression.
	Type() types.Type
}

// ExprBase is a utility base struct for all expressions.
type ExprBase struct {
	NodeBase

	// The resolved type of the expression, attached by the type checker.
	NodeType types.Type
}

func (eb *ExprBase) Type() types.Type {
	return eb.NodeType
}

// -----------------------------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	ExprBase

	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	ExprBase

	Value float64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase

	Value bool
}

// StringLit is a string literal.  Value is the raw source text between the
// quotes: escape sequences are decoded during lowering.
type StringLit struct {
	ExprBase

	Value string
}

// Ident is a reference to a named symbol.
type Ident struct {
	ExprBase

	Name string
}

// UnaryExpr applies a unary operator: `-`, `!`.
type UnaryExpr struct {
	ExprBase

	Op string
	X  Expr
}

// BinaryExpr applies a binary operator: arithmetic (`+ - * / %`), comparison
// (`== != < <= > >=`), or logic (`&& ||`).
type BinaryExpr struct {
	ExprBase

	Op   string
	X, Y Expr
}

// CallExpr calls a function.
type CallExpr struct {
	ExprBase

	Callee Expr
	Args   []Expr
}

// MemberExpr accesses a member of an object.  With CompileTime set the
// access was written `X::Member` and is resolved against modules, enums, and
// imported symbols at compile time; otherwise it was written `X.Member` and
// accesses a struct field at run time.
type MemberExpr struct {
	ExprBase

	X           Expr
	Member      string
	CompileTime bool
}

// IndexExpr indexes into an array or pointer.
type IndexExpr struct {
	ExprBase

	X     Expr
	Index Expr
}

// StructLitField is one field initializer of a struct literal.
type StructLitField struct {
	Name  string
	Value Expr
}

// StructLit constructs a struct value.
type StructLit struct {
	ExprBase

	TypeName string
	Fields   []StructLitField
}

// AddrExpr takes the address of an lvalue.
type AddrExpr struct {
	ExprBase

	X Expr
}

// DerefExpr dereferences a pointer.
type DerefExpr struct {
	ExprBase

	X Expr
}

// CastExpr converts a value to another type.
type CastExpr struct {
	ExprBase

	X Expr
}

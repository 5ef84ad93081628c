// Package ast defines the program tree handed to the code generation core by
// the front end.  The tree is assumed to be fully parsed and type checked:
// every expression node carries its resolved type annotation.
package ast

import "luma/report"

// Node is the abstract interface for all AST nodes.
type Node interface {
	// Span returns the text span of the node.  It may be nil for nodes
	// synthesized by tooling rather than parsed from source.
	Span() *report.TextSpan
}

// NodeBase is a utility base struct for all AST nodes.
type NodeBase struct {
	span *report.TextSpan
}

// NewNodeBaseOn creates a new node base with the given span.
func NewNodeBaseOn(span *report.TextSpan) NodeBase {
	return NodeBase{span: span}
}

func (nb NodeBase) Span() *report.TextSpan {
	return nb.span
}

// -----------------------------------------------------------------------------

// Program is an ordered sequence of modules: the root of compilation.
type Program struct {
	NodeBase

	Modules []*Module
}

// Module is one Luma module: a named, ordered body of statements.
type Module struct {
	NodeBase

	// The module name.  Never empty.
	Name string

	// The module's documentation string, if any.
	Doc string

	// The ordered module body: use directives and declarations.
	Body []Stmt
}

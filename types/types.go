// Package types defines the source-level type annotations the front end
// attaches to the AST.  The code generator maps these onto backend types; no
// inference or checking happens here.
package types

import (
	"fmt"
	"strings"
)

// Type is the abstract interface for all Luma source types.
type Type interface {
	// Repr returns the source representation of the type.
	Repr() string
}

// -----------------------------------------------------------------------------

// PrimKind enumerates the primitive types.
type PrimKind int

const (
	PrimBool PrimKind = iota
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimF32
	PrimF64
	PrimString
	PrimUnit
)

// PrimType is a primitive type.
type PrimType struct {
	Kind PrimKind
}

var primNames = map[PrimKind]string{
	PrimBool:   "bool",
	PrimI8:     "i8",
	PrimI16:    "i16",
	PrimI32:    "i32",
	PrimI64:    "i64",
	PrimF32:    "f32",
	PrimF64:    "f64",
	PrimString: "string",
	PrimUnit:   "void",
}

func (pt *PrimType) Repr() string {
	return primNames[pt.Kind]
}

// IsInteger returns whether the primitive is an integer type.
func (pt *PrimType) IsInteger() bool {
	return PrimI8 <= pt.Kind && pt.Kind <= PrimI64
}

// IsFloat returns whether the primitive is a floating-point type.
func (pt *PrimType) IsFloat() bool {
	return pt.Kind == PrimF32 || pt.Kind == PrimF64
}

// Shared instances of the primitive types.  Annotations compare by pointer
// equality against these.
var (
	BoolType   = &PrimType{Kind: PrimBool}
	I8Type     = &PrimType{Kind: PrimI8}
	I16Type    = &PrimType{Kind: PrimI16}
	I32Type    = &PrimType{Kind: PrimI32}
	I64Type    = &PrimType{Kind: PrimI64}
	F32Type    = &PrimType{Kind: PrimF32}
	F64Type    = &PrimType{Kind: PrimF64}
	StringType = &PrimType{Kind: PrimString}
	UnitType   = &PrimType{Kind: PrimUnit}
)

// -----------------------------------------------------------------------------

// PointerType is a pointer to an element type.
type PointerType struct {
	Elem Type
}

func (pt *PointerType) Repr() string {
	return "*" + pt.Elem.Repr()
}

// ArrayType is a fixed-length array.
type ArrayType struct {
	Len  uint64
	Elem Type
}

func (at *ArrayType) Repr() string {
	return fmt.Sprintf("[%d]%s", at.Len, at.Elem.Repr())
}

// NamedType refers to a user-defined struct or enum by name.  The code
// generator resolves the name against the struct infos of the program; any
// name that is not a known struct lowers to the enum integer type.
type NamedType struct {
	Name string
}

func (nt *NamedType) Repr() string {
	return nt.Name
}

// FuncType is the type of a function.
type FuncType struct {
	ParamTypes []Type
	ReturnType Type
}

func (ft *FuncType) Repr() string {
	params := make([]string, len(ft.ParamTypes))
	for i, pt := range ft.ParamTypes {
		params[i] = pt.Repr()
	}

	return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), ft.ReturnType.Repr())
}

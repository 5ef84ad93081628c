package depm

import (
	lltypes "github.com/llir/llvm/ir/types"
)

// StructField describes one field of a user-defined struct.
type StructField struct {
	Name string

	// The backend type of the field.
	Type lltypes.Type

	// The pointee type when the field is a pointer.  Nil otherwise.
	Pointee lltypes.Type

	// Whether the field is visible outside the defining module.
	Public bool
}

// StructInfo describes a user-defined record.  Field index order matches the
// in-memory layout used when generating element-pointer instructions.
type StructInfo struct {
	// The struct's source name.
	Name string

	// The module that declared the struct.
	Module string

	// The backend struct type.
	Type *lltypes.StructType

	// The fields in declaration (and layout) order.
	Fields []StructField
}

// FieldIndex returns the layout index of the named field, or -1.
func (si *StructInfo) FieldIndex(name string) int {
	for i, field := range si.Fields {
		if field.Name == name {
			return i
		}
	}

	return -1
}

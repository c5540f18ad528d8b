// types.go implements the Type model of spec §4.3: a small typed registry
// of primitive and composite LLVM types, each carrying its mangled Infix
// name ("%i32") alongside the textual LLVM representation it lowers to.
//
// Grounded on original_source/src/llvm.py's Type dataclass and Module
// default_types.
package ir

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Type is a single entry of the type registry.
type Type struct {
	Name      string // mangled name, e.g. "%i32" or "%list.i32"
	Repr      string // textual LLVM representation, e.g. "i32"
	Primitive bool   // primitive types print their Repr inline; named types print their Name
}

// ---------------------
// ----- functions -----
// ---------------------

// Ptr returns the pointer-to-t type, synthesizing its name and repr.
func (t *Type) Ptr() *Type {
	return &Type{
		Name:      t.Name + ".ptr",
		Repr:      t.Repr + "*",
		Primitive: true,
	}
}

// ToLLVMIR returns the string to emit wherever this type is referenced in
// textual IR.
func (t *Type) ToLLVMIR() string {
	if t.Primitive {
		return t.Repr
	}
	return t.Name
}

func (t *Type) String() string {
	return fmt.Sprintf("%s = type %s", t.Name, t.Repr)
}

// IsVoid reports whether t is the void type.
func (t *Type) IsVoid() bool {
	return t != nil && t.Name == "%void"
}

package ir

import "fmt"

// Variable is a named, typed value: an SSA register, a function argument,
// or a global. Value holds the literal initializer text for globals and
// constants; it is empty for registers produced by instructions.
//
// Grounded on original_source/src/llvm.py's Variable dataclass.
type Variable struct {
	Name  string
	Type  *Type
	Value string
}

func (v *Variable) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Value == "" {
		return fmt.Sprintf("{%s: %s}", v.Name, v.Type.ToLLVMIR())
	}
	return fmt.Sprintf("{%s: %s = %s}", v.Name, v.Type.ToLLVMIR(), v.Value)
}

package ir

import "fmt"

// Function is one emitted operation. Polymorphic operations (arithmetic,
// comparisons, user functions defined with `is`) are stored under their
// mangled name (spec §4.3); externals reached through `called` are kept
// separately as External. Used tracks whether the function
// was ever called, so unreferenced catalog entries are dropped from the
// final module text.
//
// Grounded on original_source/src/llvm.py's Function dataclass.
type Function struct {
	Name      string
	emit      *emitter
	Args      map[string]*Variable
	argOrder  []string
	RType     *Type
	Variables map[string]*Variable
	Internal  bool
	Used      bool
	Returned  bool
}

func newFunction(name string, rtype *Type, internal bool) *Function {
	return &Function{
		Name:      name,
		emit:      newEmitter(),
		Args:      make(map[string]*Variable),
		RType:     rtype,
		Variables: make(map[string]*Variable),
		Internal:  internal,
	}
}

func (f *Function) addArg(name string, typ *Type) {
	f.Args[name] = &Variable{Name: name, Type: typ}
	f.argOrder = append(f.argOrder, name)
}

func (f *Function) String() string {
	return f.Name + " -> " + f.RType.Name
}

func (f *Function) argList() []string {
	out := make([]string, 0, len(f.argOrder)*2)
	for _, name := range f.argOrder {
		arg := f.Args[name]
		out = append(out, arg.Type.ToLLVMIR(), arg.Name)
	}
	return out
}

// External is a declared, non-Infix-defined function, e.g. libc's printf
// or malloc/free brought in through an `extern` declaration.
type External struct {
	Name   string
	RType  *Type
	Params []*Type
	Vararg bool
}

func (e *External) signature() string {
	rtype := e.RType.ToLLVMIR()
	if e.Vararg {
		parts := make([]string, 0, len(e.Params)+1)
		for _, p := range e.Params {
			parts = append(parts, p.ToLLVMIR())
		}
		parts = append(parts, "...")
		return fmt.Sprintf("%s (%s)", rtype, joinComma(parts))
	}
	return rtype
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

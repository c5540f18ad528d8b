// module.go implements the Module semantic model of spec §4.3: the typed
// registry, the named-variable/lexical-scope bookkeeping, name-mangled
// polymorphic dispatch, constant interning, and the scoped emission
// contexts (Function/IfThen/Loop) that guarantee matching prologue and
// epilogue code even when the generator returns early on error.
//
// Grounded on original_source/src/llvm.py's Module dataclass: new_type,
// new_variable, call, mangle_name, const*, function()/if_then()/loop()
// context managers (translated to Begin/End pairs, since Go has no
// __enter__/__exit__), and to_llvm_ir's fixed section ordering.
package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rafagd/infix-lang/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Module is a single compilation unit: one Infix source file's worth of
// types, globals, externals and functions, serialized to a single LLVM IR
// text blob by ToLLVMIR.
type Module struct {
	Name        string
	types       map[string]*Type
	typeOrder   []string
	globals     map[string]*Variable
	globalOrder []string
	externals   map[string]*External
	extOrder    []string
	functions   map[string]*Function
	funcOrder   []string

	current *Function

	constRegs    map[string]*Variable
	lastConstReg int
}

// ---------------------
// ----- functions -----
// ---------------------

// NewModule creates a module pre-populated with the builtin type lattice
// and the catalog of primitive operations (spec §4.4), ready to generate
// into.
func NewModule(name string) *Module {
	m := &Module{
		Name:      name,
		types:     make(map[string]*Type),
		globals:   make(map[string]*Variable),
		externals: make(map[string]*External),
		functions: make(map[string]*Function),
		constRegs: make(map[string]*Variable),
	}
	m.registerDefaultTypes()
	registerBuiltins(m)
	main := newFunction("@main", m.mustType("%i32"), false)
	main.addArg("%argc", m.mustType("%i32"))
	main.addArg("%argv", m.mustType("%cstr.ptr"))
	main.Used = true
	m.functions["@main"] = main
	m.funcOrder = append(m.funcOrder, "@main")
	m.current = main
	return m
}

func (m *Module) registerDefaultTypes() {
	m.newType("%void", "void", true)
	m.newType("%ptr", "i8*", true)
	m.newType("%bool", "i1", true)
	m.newType("%i8", "i8", true)
	m.newType("%i16", "i16", true)
	m.newType("%i32", "i32", true)
	m.newType("%i64", "i64", true)
	m.newType("%f32", "float", true)
	m.newType("%f64", "double", true)
	m.newType("%vararg", "...", true)
	m.newType("%cstr", "i8*", false)
	m.newType("%cstr.ptr", "i8**", false)
}

func (m *Module) newType(name, repr string, primitive bool) *Type {
	t := &Type{Name: name, Repr: repr, Primitive: primitive}
	m.types[name] = t
	m.typeOrder = append(m.typeOrder, name)
	return t
}

// Type returns the registered type with the given mangled name, or an
// UnknownSymbol error.
func (m *Module) Type(name string, row, col int) (*Type, error) {
	if t, ok := m.types[name]; ok {
		return t, nil
	}
	return nil, util.NewError(util.UnknownSymbol, row, col, "undeclared type: %s", name)
}

// mustType looks up a type known to be registered by registerDefaultTypes;
// a miss here is a bug in the compiler, not a user program error.
func (m *Module) mustType(name string) *Type {
	t, ok := m.types[name]
	if !ok {
		panic("ir: undeclared builtin type " + name)
	}
	return t
}

// DeclareType registers a named composite type (list/struct layout) the
// first time it's needed, returning the existing one on a repeat request.
func (m *Module) DeclareType(name, repr string) *Type {
	if t, ok := m.types[name]; ok {
		return t
	}
	return m.newType(name, repr, false)
}

// --- variables ---

// NewVariable allocates a local variable in the current function: a stack
// slot via alloca, unless name is "%left"/"%right", which instead binds
// the corresponding catalog-dispatch argument directly (spec §4.4).
func (m *Module) NewVariable(name string, typ *Type, row, col int) (*Variable, error) {
	fn := m.current
	fn.emit.comment("new %s", name)
	if _, dup := fn.Args[name]; dup {
		return nil, util.NewError(util.TypeError, row, col, "duplicate variable: %s", name)
	}
	if _, dup := fn.Variables[name]; dup {
		return nil, util.NewError(util.TypeError, row, col, "duplicate variable: %s", name)
	}
	if name == "%left" || name == "%right" {
		fn.addArg(name, typ)
		return fn.Args[name], nil
	}
	reg := fn.emit.alloca(typ.ToLLVMIR(), name)
	v := &Variable{Name: reg, Type: typ}
	fn.Variables[name] = v
	return v, nil
}

// PtrTo resolves name to a local variable and returns a pointer-typed
// Variable referring to its stack slot, for the `ptr-to` special form.
func (m *Module) PtrTo(name string, row, col int) (*Variable, error) {
	fn := m.current
	fn.emit.comment("ptr-to %s", name)
	local, ok := fn.Variables[name]
	if !ok {
		return nil, util.NewError(util.UnknownSymbol, row, col, "undeclared variable: %s", name)
	}
	return &Variable{Name: local.Name, Type: local.Type.Ptr()}, nil
}

// Variable resolves name against the current function's locals, then its
// arguments, then the module's globals, loading through a pointer when the
// binding is a local stack slot.
func (m *Module) Variable(name string, row, col int) (*Variable, error) {
	fn := m.current
	fn.emit.comment("variable %s", name)

	if local, ok := fn.Variables[name]; ok {
		reg := fn.emit.load(local.Type.ToLLVMIR(), local.Type.ToLLVMIR()+"*", local.Name)
		return &Variable{Name: reg, Type: local.Type}, nil
	}
	if arg, ok := fn.Args[name]; ok {
		return arg, nil
	}
	if g, ok := m.globals[name]; ok {
		return g, nil
	}
	return nil, util.NewError(util.UnknownSymbol, row, col, "undeclared variable: %s", name)
}

// Assign stores reg into the stack slot bound to pname, the `=` special
// form (spec §4.5).
func (m *Module) Assign(pname string, reg *Variable, row, col int) (*Variable, error) {
	fn := m.current
	local, ok := fn.Variables[pname]
	if !ok {
		return nil, util.NewError(util.UnknownSymbol, row, col, "undeclared variable: %s", pname)
	}
	fn.emit.comment("%s = %s", pname, reg.Name)
	fn.emit.store(reg.Type.ToLLVMIR(), reg.Name, local.Type.ToLLVMIR()+"*", local.Name)
	fn.emit.blank()
	return reg, nil
}

func (m *Module) newGlobalVar(name string, typ *Type, value string) *Variable {
	g := &Variable{Name: name, Type: typ, Value: value}
	if _, exists := m.globals[name]; !exists {
		m.globalOrder = append(m.globalOrder, name)
	}
	m.globals[name] = g
	return g
}

// --- externals ---

// AddExternal registers a declared external function the first time it's
// seen; repeats are no-ops (spec §4.5 `extern`).
func (m *Module) AddExternal(name string, rtype *Type, params []*Type, vararg bool) {
	if _, ok := m.externals[name]; ok {
		return
	}
	m.externals[name] = &External{Name: name, RType: rtype, Params: params, Vararg: vararg}
	m.extOrder = append(m.extOrder, name)
}

// CallExternal emits a call to a declared external, spec §4.5 catalog
// dispatch fallback for names the generator resolves as externs.
func (m *Module) CallExternal(name string, args []*Variable, row, col int) (*Variable, error) {
	ext, ok := m.externals[name]
	if !ok {
		return nil, util.NewError(util.UnknownOperation, row, col, "unknown external: %s", name)
	}
	flat := make([]string, 0, len(args)*2)
	for _, a := range args {
		flat = append(flat, a.Type.ToLLVMIR(), a.Name)
	}
	fn := m.current
	fn.emit.comment(name)
	reg := fn.emit.call(ext.signature(), name, flat...)
	fn.emit.blank()
	return &Variable{Name: reg, Type: ext.RType}, nil
}

// --- constants ---

// Const interns a (type, literal) constant as a module-level global,
// returning the same global on repeat requests for the same pair (spec
// §4.3).
func (m *Module) Const(typ *Type, value string) *Variable {
	key := typ.Name + ";" + value
	if v, ok := m.constRegs[key]; ok {
		return v
	}
	m.lastConstReg++
	name := fmt.Sprintf("@const.%d", m.lastConstReg)
	v := m.newGlobalVar(name, typ, value)
	m.constRegs[key] = v
	return v
}

// ConstI32 interns an i32 literal and returns a loaded register of type
// %i32.
func (m *Module) ConstI32(value int64) *Variable {
	fn := m.current
	fn.emit.comment("i32 %d", value)
	typ := m.mustType("%i32")
	c := m.Const(typ, strconv.FormatInt(value, 10))
	reg := fn.emit.load(typ.ToLLVMIR(), typ.ToLLVMIR()+"*", c.Name)
	return &Variable{Name: reg, Type: typ}
}

// ConstBool interns a boolean literal ("true"/"false" spelled as LLVM i1
// 1/0) and returns a loaded register of type %bool.
func (m *Module) ConstBool(value bool) *Variable {
	fn := m.current
	lit := "0"
	if value {
		lit = "1"
	}
	fn.emit.comment("bool %s", lit)
	typ := m.mustType("%bool")
	c := m.Const(typ, lit)
	reg := fn.emit.load(typ.ToLLVMIR(), typ.ToLLVMIR()+"*", c.Name)
	return &Variable{Name: reg, Type: typ}
}

// ConstF32 interns a float literal, truncating its IEEE-754 double bit
// pattern to the low 29 mantissa bits cleared (the convention LLVM uses to
// spell a single-precision constant as a double-width hex literal).
func (m *Module) ConstF32(value float64) *Variable {
	fn := m.current
	bits := doubleBitsTruncatedToSingle(value)
	lit := fmt.Sprintf("0x%X", bits)
	fn.emit.comment("f32 %s", lit)
	typ := m.mustType("%f32")
	c := m.Const(typ, lit)
	reg := fn.emit.load(typ.ToLLVMIR(), typ.ToLLVMIR()+"*", c.Name)
	return &Variable{Name: reg, Type: typ}
}

// ConstPtr interns a raw pointer literal (almost always "null") and
// returns a loaded register of type %ptr.
func (m *Module) ConstPtr(value string) *Variable {
	fn := m.current
	fn.emit.comment("ptr %s", value)
	typ := m.mustType("%ptr")
	c := m.Const(typ, value)
	reg := fn.emit.load(typ.ToLLVMIR(), typ.ToLLVMIR()+"*", c.Name)
	return &Variable{Name: reg, Type: typ}
}

// ConstCstr interns a NUL-terminated string literal as a sized [N x i8]
// global and returns a %cstr pointer to its first byte.
func (m *Module) ConstCstr(value string) *Variable {
	size := len(value) + 1
	escaped := strings.ReplaceAll(value, "\n", "\\0A")

	fn := m.current
	fn.emit.comment("string %q", escaped)
	tname := fmt.Sprintf("%%cstr.%d", size)
	stype := m.DeclareType(tname, fmt.Sprintf("[%d x i8]", size))

	c := m.Const(stype, fmt.Sprintf(`c"%s\00"`, escaped))
	reg := fn.emit.getElementPtr(stype.ToLLVMIR(), stype.ToLLVMIR()+"*", c.Name, "i64", "0", "0")
	return &Variable{Name: reg, Type: m.mustType("%cstr")}
}

// --- casts ---

// Cast widens a f32 value to f64, the only conversion the catalog needs
// (spec §4.5 `as`).
func (m *Module) Cast(v *Variable, to *Type, row, col int) (*Variable, error) {
	fn := m.current
	fn.emit.comment("cast %s to %s", v.Type.Name, to.Name)
	if v.Type.Name == "%f32" && to.Name == "%f64" {
		reg := fn.emit.fpext(v.Type.ToLLVMIR(), to.ToLLVMIR(), v.Name)
		return &Variable{Name: reg, Type: to}, nil
	}
	return nil, util.NewError(util.CastError, row, col, "unsupported cast %s to %s", v.Type.Name, to.Name)
}

// --- dispatch ---

// mangleName builds the polymorphic dispatch name of spec §4.3:
// @"<ltype>;<op>;<rtype>".
func (m *Module) mangleName(op string, ltype, rtype string) string {
	clean := func(s string) string {
		s = strings.ReplaceAll(s, `"`, `\"`)
		s = strings.ReplaceAll(s, "%", "")
		s = strings.ReplaceAll(s, "@", "")
		return s
	}
	return fmt.Sprintf(`@"%s;%s;%s"`, clean(ltype), clean(op), clean(rtype))
}

// Call dispatches a catalog/user operation by its mangled (ltype, op,
// rtype) name. Either operand may be nil, substituted with %void.
func (m *Module) Call(op string, left, right *Variable, row, col int) (*Variable, error) {
	ltype, rtype := "%void", "%void"
	var flat []string
	if left != nil && left.Type.Name != "%void" {
		ltype = left.Type.Name
		flat = append(flat, left.Type.ToLLVMIR(), left.Name)
	}
	if right != nil && right.Type.Name != "%void" {
		rtype = right.Type.Name
		flat = append(flat, right.Type.ToLLVMIR(), right.Name)
	}

	name := m.mangleName(op, ltype, rtype)
	fn, ok := m.functions[name]
	if !ok {
		return nil, util.NewError(util.UnknownOperation, row, col, "unknown operation: %s", name)
	}
	fn.Used = true

	caller := m.current
	caller.emit.comment(name)
	reg := caller.emit.call(fn.RType.ToLLVMIR(), name, flat...)
	caller.emit.blank()
	return &Variable{Name: reg, Type: fn.RType}, nil
}

// NewList interns a homogeneous list of values as a module-level constant
// struct (length, capacity, data pointer), the literal form spec §4.3
// assigns list expressions. Mirrors original_source/src/llvm.py's
// new_list, including its limitation that no backing storage is created:
// the data pointer is null and the element values are not stored.
func (m *Module) NewList(values []*Variable) *Variable {
	elemType := m.mustType("%i8")
	if len(values) > 0 {
		elemType = values[0].Type
	}
	fn := m.current
	fn.emit.comment("list of %d %ss", len(values), elemType.Name)

	tname := fmt.Sprintf("%%list.%s", strings.TrimPrefix(elemType.Name, "%"))
	stype := m.DeclareType(tname, fmt.Sprintf("{ i64, i64, %s* }", elemType.ToLLVMIR()))
	lit := fmt.Sprintf("{ i64 %d, i64 %d, %s* null }", len(values), len(values), elemType.ToLLVMIR())
	return m.Const(stype, lit)
}

// NewStruct is the fallback for a heterogeneous list literal; struct
// layout synthesis isn't implemented, matching the original's stub.
func (m *Module) NewStruct(values []*Variable) *Variable {
	return &Variable{Type: m.mustType("%void")}
}

// Negate implements boolean negation (`== 0` against an i1), used by `?`
// short-circuiting and other control-flow special forms.
func (m *Module) Negate(v *Variable) *Variable {
	reg := m.current.emit.icmp("eq", "i1", v.Name, "0")
	return &Variable{Name: reg, Type: m.mustType("%bool")}
}

// Ret emits a return of reg from the current function, recording its
// return type.
func (m *Module) Ret(reg *Variable) {
	fn := m.current
	fn.RType = reg.Type
	fn.Returned = true
	if reg.Type.IsVoid() {
		fn.emit.ret(reg.Type.ToLLVMIR(), "")
	} else {
		fn.emit.ret(reg.Type.ToLLVMIR(), reg.Name)
	}
}

// --- scoped contexts ---

// FunctionScope tracks the emission context opened by BeginFunction; End
// must be called exactly once, typically via defer, to finalize the
// function's mangled name and register it in the module (spec §4.5
// `called`).
type FunctionScope struct {
	m        *Module
	name     string
	fn       *Function
	previous *Function
}

// BeginFunction opens a new user-defined function body and makes it
// current; operands bound via NewVariable("%left"/"%right", ...) inside
// the scope determine the function's mangled dispatch name once End runs.
func (m *Module) BeginFunction(name string) *FunctionScope {
	fn := newFunction(name, m.mustType("%void"), false)
	s := &FunctionScope{m: m, name: name, fn: fn, previous: m.current}
	m.current = fn
	return s
}

// End finalizes the function scope: mangles its name from whatever %left/
// %right arguments were bound, registers it, and restores the enclosing
// function as current.
func (s *FunctionScope) End() {
	left := s.fn.Args["%left"]
	if left == nil {
		left = &Variable{Type: s.m.mustType("%void")}
	}
	right := s.fn.Args["%right"]
	if right == nil {
		right = &Variable{Type: s.m.mustType("%void")}
	}
	s.fn.Name = s.m.mangleName(s.name, left.Type.Name, right.Type.Name)
	s.fn.Used = true
	if _, exists := s.m.functions[s.fn.Name]; !exists {
		s.m.funcOrder = append(s.m.funcOrder, s.fn.Name)
	}
	s.m.functions[s.fn.Name] = s.fn
	s.m.current = s.previous
}

// IfThenScope is the scoped emission context for the `?` special form.
type IfThenScope struct {
	fn    *Function
	tlbl  string
	flbl  string
}

// BeginIfThen emits the conditional branch and opens the "then" label,
// given the already-evaluated condition register (spec §4.5 `?`).
func (m *Module) BeginIfThen(cond *Variable) *IfThenScope {
	fn := m.current
	s := &IfThenScope{fn: fn, tlbl: fn.emit.nextLabel(), flbl: fn.emit.nextLabel()}
	fn.emit.comment("if")
	fn.emit.brIfElse(cond.Name, s.tlbl, s.flbl)
	fn.emit.label(s.tlbl)
	return s
}

// End closes the "then" branch and opens the fallthrough label.
func (s *IfThenScope) End() {
	s.fn.emit.br(s.flbl)
	s.fn.emit.label(s.flbl)
	s.fn.emit.blank()
}

// LoopScope is the scoped emission context for the `repeat` special form.
type LoopScope struct {
	fn   *Function
	slbl string
	elbl string
}

// BeginLoop opens the loop body label (spec §4.5 `repeat`).
func (m *Module) BeginLoop() *LoopScope {
	fn := m.current
	s := &LoopScope{fn: fn, slbl: fn.emit.nextLabel(), elbl: fn.emit.nextLabel()}
	fn.emit.comment("repeat")
	fn.emit.br(s.slbl)
	fn.emit.label(s.slbl)
	return s
}

// Break emits an unconditional jump to the loop's end label, used by
// `repeat` to leave the loop when its condition is false.
func (s *LoopScope) Break() {
	s.fn.emit.br(s.elbl)
}

// End closes the loop body, branching back to its start, and opens the
// end label.
func (s *LoopScope) End() {
	s.fn.emit.br(s.slbl)
	s.fn.emit.label(s.elbl)
	s.fn.emit.blank()
}

// --- serialization ---

// ToLLVMIR renders the module's full textual IR in the fixed section
// order of spec §4.3: declared types, globals and constants, externals,
// functions. Unused catalog/user functions are omitted.
func (m *Module) ToLLVMIR() string {
	var sb strings.Builder

	sb.WriteString("; Declared types:\n")
	for _, name := range m.typeOrder {
		t := m.types[name]
		if t.Primitive {
			continue
		}
		fmt.Fprintf(&sb, "%s = type %s\n", t.Name, t.Repr)
	}
	sb.WriteByte('\n')

	sb.WriteString("; Globals and constants:\n")
	for _, name := range m.globalOrder {
		g := m.globals[name]
		if g.Value == "" {
			fmt.Fprintf(&sb, "%s = constant %s\n", g.Name, g.Type.ToLLVMIR())
		} else {
			fmt.Fprintf(&sb, "%s = constant %s %s\n", g.Name, g.Type.ToLLVMIR(), g.Value)
		}
	}
	sb.WriteByte('\n')

	sb.WriteString("; Externals\n")
	for _, name := range m.extOrder {
		ex := m.externals[name]
		params := make([]string, 0, len(ex.Params))
		for _, p := range ex.Params {
			params = append(params, p.ToLLVMIR())
		}
		if ex.Vararg {
			params = append(params, "...")
		}
		fmt.Fprintf(&sb, "declare %s %s(%s)\n", ex.RType.ToLLVMIR(), ex.Name, joinComma(params))
	}
	sb.WriteByte('\n')

	sb.WriteString("; Functions:\n")
	for _, name := range m.funcOrder {
		fn := m.functions[name]
		if !fn.Used {
			continue
		}
		linkage := "internal"
		if !fn.Internal {
			linkage = "external"
		}
		fmt.Fprintf(&sb, "define %s %s %s(%s) {\n", linkage, fn.RType.ToLLVMIR(), fn.Name, joinComma(fn.argList()))
		sb.WriteString(fn.emit.code.String())
		if fn.Name == "@main" && !fn.Returned {
			sb.WriteString("    ret i32 0\n")
		}
		sb.WriteString("}\n\n")
	}

	return sb.String()
}

// doubleBitsTruncatedToSingle reinterprets v's IEEE-754 double bit pattern
// and clears its low single-precision-losable mantissa bits, matching
// LLVM's convention for spelling float constants as hex doubles.
func doubleBitsTruncatedToSingle(v float64) uint64 {
	return math.Float64bits(v) & 0xFFFFFFFFE0000000
}

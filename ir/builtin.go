// builtin.go registers the fixed catalog of primitive operations spec §4.4
// requires to be available in every module without an explicit `extern` or
// user definition: arithmetic, comparisons, indexing, and print/println
// over every primitive type.
//
// Grounded on original_source/src/builtin.py (both the older top-level
// copy, which contributes the print/println catalog and its _printf
// helper, and the newer src/ copy, which contributes the two-operand
// arithmetic/comparison/indexing catalog) and
// original_source/src/llvm.py's Function dataclass for the internal
// linkage convention. The %bool and %i8 print/println entries are not
// present in either Python source; they follow the same _printf pattern
// the existing entries use.
package ir

import "fmt"

// registerBuiltins installs every catalog entry into m, each compiled down
// to a single primitive LLVM instruction body.
func registerBuiltins(m *Module) {
	registerArithmetic(m)
	registerComparisons(m)
	registerIndexing(m)
	registerPrint(m)

	m.AddExternal("@printf", m.mustType("%i32"), []*Type{m.mustType("%cstr")}, true)
}

// declFn creates a two-operand internal catalog function, binds %left/
// %right arguments where the corresponding type isn't %void, and installs
// it directly (catalog entries never go through BeginFunction/End since
// their mangled name is known up front).
func declFn(m *Module, op, ltype, rtype, retType string) *Function {
	fn := newFunction(m.mangleName(op, ltype, rtype), m.mustType(retType), true)
	if ltype != "%void" {
		fn.addArg("%left", m.mustType(ltype))
	}
	if rtype != "%void" {
		fn.addArg("%right", m.mustType(rtype))
	}
	m.functions[fn.Name] = fn
	m.funcOrder = append(m.funcOrder, fn.Name)
	return fn
}

func registerArithmetic(m *Module) {
	for _, op := range []struct {
		sym      string
		intInstr string
		fltInstr string
	}{
		{"+", "add", "fadd"},
		{"-", "sub", "fsub"},
		{"*", "mul", "fmul"},
		{"/", "sdiv", "fdiv"},
	} {
		fnI := declFn(m, op.sym, "%i32", "%i32", "%i32")
		reg := fnI.emit.binop(op.intInstr, "i32", "%left", "%right")
		fnI.emit.ret("i32", reg)

		fnF := declFn(m, op.sym, "%f32", "%f32", "%f32")
		reg = fnF.emit.binop(op.fltInstr, "float", "%left", "%right")
		fnF.emit.ret("float", reg)
	}
}

func registerComparisons(m *Module) {
	lt := declFn(m, "<", "%i32", "%i32", "%bool")
	reg := lt.emit.icmp("slt", "i32", "%left", "%right")
	lt.emit.ret("i1", reg)

	gt := declFn(m, ">", "%i32", "%i32", "%bool")
	reg = gt.emit.icmp("sgt", "i32", "%left", "%right")
	gt.emit.ret("i1", reg)

	eqI32 := declFn(m, "==", "%i32", "%i32", "%bool")
	reg = eqI32.emit.icmp("eq", "i32", "%left", "%right")
	eqI32.emit.ret("i1", reg)

	eqI8 := declFn(m, "==", "%i8", "%i8", "%bool")
	reg = eqI8.emit.icmp("eq", "i8", "%left", "%right")
	eqI8.emit.ret("i1", reg)

	eqPtr := declFn(m, "==", "%ptr", "%ptr", "%bool")
	reg = eqPtr.emit.icmp("eq", "i8*", "%left", "%right")
	eqPtr.emit.ret("i1", reg)
}

func registerIndexing(m *Module) {
	cstrPtrAtI32 := declFn(m, "@", "%cstr.ptr", "%i32", "%cstr")
	ptr := cstrPtrAtI32.emit.getElementPtr("i8*", "i8**", "%left", "i32", "%right")
	reg := cstrPtrAtI32.emit.load("i8*", "i8**", ptr)
	cstrPtrAtI32.emit.ret("i8*", reg)

	cstrAtI32 := declFn(m, "@", "%cstr", "%i32", "%i8")
	ptr = cstrAtI32.emit.getElementPtr("i8", "i8*", "%left", "i32", "%right")
	reg = cstrAtI32.emit.load("i8", "i8*", ptr)
	cstrAtI32.emit.ret("i8", reg)
}

// registerPrint installs print/println over every primitive type. Both
// share their body shape: format the operand through printf with a
// type-appropriate pattern, appending "\n" for the println variant.
func registerPrint(m *Module) {
	kinds := []struct {
		typ     string
		llvm    string
		pattern string
	}{
		{"%void", "", "void"},
		{"%bool", "i1", "%d"},
		{"%i8", "i8", "%d"},
		{"%i32", "i32", "%d"},
		{"%f64", "double", "%f"},
		{"%cstr", "i8*", "%s"},
	}

	for _, name := range []string{"print", "println"} {
		suffix := ""
		if name == "println" {
			suffix = "\\0A"
		}
		for _, k := range kinds {
			fn := declFn(m, name, "%void", k.typ, "%void")
			emitPrintBody(m, fn, k.typ, k.llvm, k.pattern+suffix)
		}

		// %f32 prints by widening to f64 first.
		fn := declFn(m, name, "%void", "%f32", "%void")
		wide := fn.emit.fpext("float", "double", "%right")
		emitPrintCall(m, fn, "%f"+suffix, "double", wide)

		// %ptr prints its hex address, or "null" for a null pointer.
		fn = declFn(m, name, "%void", "%ptr", "%void")
		emitPtrPrintBody(m, fn, "0x%08X"+suffix, "null"+suffix)
	}
}

func emitPrintBody(m *Module, fn *Function, typ, llvmType, pattern string) {
	if typ == "%void" {
		emitPrintCall(m, fn, pattern, "", "")
		return
	}
	emitPrintCall(m, fn, pattern, llvmType, "%right")
}

// emitPrintCall emits a single printf call given a literal format pattern
// and, optionally, one value argument.
func emitPrintCall(m *Module, fn *Function, pattern, valType, valReg string) {
	patternGlobal := m.internPrintfPattern(fn, pattern)
	args := []string{"i8*", patternGlobal}
	if valType != "" {
		args = append(args, valType, valReg)
	}
	fn.emit.call("i32(i8*, ...)", "@printf", args...)
}

// emitPtrPrintBody branches on whether %right is a null pointer, printing
// the literal "null" on that path and the hex address otherwise.
func emitPtrPrintBody(m *Module, fn *Function, hexPattern, nullPattern string) {
	cond := fn.emit.icmp("eq", "i8*", "%right", "null")
	tlbl, flbl, end := fn.emit.nextLabel(), fn.emit.nextLabel(), fn.emit.nextLabel()
	fn.emit.brIfElse(cond, tlbl, flbl)

	fn.emit.label(tlbl)
	emitPrintCall(m, fn, nullPattern, "", "")
	fn.emit.br(end)

	fn.emit.label(flbl)
	emitPrintCall(m, fn, hexPattern, "i8*", "%right")
	fn.emit.br(end)

	fn.emit.label(end)
	fn.emit.ret("void", "")
}

// internPrintfPattern interns a literal printf format string as a module
// constant and returns the pointer-to-first-byte expression to pass as
// printf's first argument, emitting the getelementptr into fn regardless
// of which function is current at registration time.
func (m *Module) internPrintfPattern(fn *Function, pattern string) string {
	size := len(pattern) + 1
	tname := fmt.Sprintf("%%cstr.%d", size)
	stype := m.DeclareType(tname, fmt.Sprintf("[%d x i8]", size))
	c := m.Const(stype, `c"`+pattern+`\00"`)
	return fn.emit.getElementPtr(stype.ToLLVMIR(), stype.ToLLVMIR()+"*", c.Name, "i64", "0", "0")
}

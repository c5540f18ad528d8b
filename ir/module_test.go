package ir

import (
	"strings"
	"testing"

	"github.com/Rafagd/infix-lang/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModuleRegistersDefaultTypesAndMain(t *testing.T) {
	m := NewModule("test")
	_, err := m.Type("%i32", 0, 0)
	require.NoError(t, err)

	main, ok := m.functions["@main"]
	require.True(t, ok)
	assert.True(t, main.Used)
}

func TestUnknownTypeIsUnknownSymbol(t *testing.T) {
	m := NewModule("test")
	_, err := m.Type("%notreal", 1, 1)
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.UnknownSymbol))
}

func TestConstIntern(t *testing.T) {
	m := NewModule("test")
	i32 := m.mustType("%i32")
	a := m.Const(i32, "42")
	b := m.Const(i32, "42")
	assert.Same(t, a, b)

	c := m.Const(i32, "7")
	assert.NotSame(t, a, c)
}

func TestVariableRoundTrip(t *testing.T) {
	m := NewModule("test")
	i32 := m.mustType("%i32")
	_, err := m.NewVariable("%x", i32, 0, 0)
	require.NoError(t, err)

	v, err := m.Variable("%x", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, i32, v.Type)
}

func TestVariableUndeclaredIsUnknownSymbol(t *testing.T) {
	m := NewModule("test")
	_, err := m.Variable("%nope", 3, 4)
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.UnknownSymbol))
}

func TestCallArithmeticCatalog(t *testing.T) {
	m := NewModule("test")
	left := m.ConstI32(1)
	right := m.ConstI32(2)
	result, err := m.Call("+", left, right, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "%i32", result.Type.Name)
}

func TestCallUnknownOperationErrors(t *testing.T) {
	m := NewModule("test")
	left := m.ConstI32(1)
	_, err := m.Call("frobnicate", left, nil, 5, 1)
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.UnknownOperation))
}

func TestUserFunctionScopeMangling(t *testing.T) {
	m := NewModule("test")
	scope := m.BeginFunction("double")
	i32 := m.mustType("%i32")
	_, err := m.NewVariable("%left", i32, 0, 0)
	require.NoError(t, err)
	left, err := m.Variable("%left", 0, 0)
	require.NoError(t, err)
	res, err := m.Call("+", left, left, 0, 0)
	require.NoError(t, err)
	m.Ret(res)
	scope.End()

	fn, ok := m.functions[`@"i32;double;void"`]
	require.True(t, ok)
	assert.False(t, fn.Internal)
	assert.Contains(t, fn.argList(), "%left")

	out := m.ToLLVMIR()
	assert.Contains(t, out, `@"i32;double;void"(i32 %left)`)
}

func TestIfThenScopeEmitsBranches(t *testing.T) {
	m := NewModule("test")
	cond := m.ConstBool(true)
	s := m.BeginIfThen(cond)
	s.End()
	ir := m.current.emit.code.String()
	assert.True(t, strings.Contains(ir, "br i1"))
	assert.True(t, strings.Contains(ir, "lbl1:"))
}

func TestLoopScopeEmitsBackBranch(t *testing.T) {
	m := NewModule("test")
	s := m.BeginLoop()
	s.End()
	ir := m.current.emit.code.String()
	assert.True(t, strings.Contains(ir, "br label"))
}

func TestToLLVMIRIncludesUsedButNotUnusedFunctions(t *testing.T) {
	m := NewModule("test")
	out := m.ToLLVMIR()
	assert.True(t, strings.Contains(out, "@main"))
	// A catalog entry never called stays unreferenced and is dropped.
	assert.False(t, strings.Contains(out, `@"i32;+;i32"`))
}

func TestToLLVMIRIncludesCalledCatalogEntry(t *testing.T) {
	m := NewModule("test")
	left := m.ConstI32(1)
	right := m.ConstI32(2)
	_, err := m.Call("+", left, right, 0, 0)
	require.NoError(t, err)
	out := m.ToLLVMIR()
	assert.True(t, strings.Contains(out, `@"i32;+;i32"`))
}

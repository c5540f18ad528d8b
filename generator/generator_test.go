package generator

import (
	"strings"
	"testing"

	"github.com/Rafagd/infix-lang/frontend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	root, err := frontend.Parse(src)
	require.NoError(t, err)
	g := New("test.ifx")
	out, err := g.Generate(root)
	require.NoError(t, err)
	return out
}

func TestGeneratePrintCallsCatalog(t *testing.T) {
	out := compile(t, `() println (1 + 2)`)
	assert.True(t, strings.Contains(out, `@"i32;+;i32"`))
	assert.True(t, strings.Contains(out, `@printf`))
}

func TestGenerateVariableDeclareAssignRead(t *testing.T) {
	out := compile(t, `x is i32; x = 1 + 2; () println (x)`)
	assert.True(t, strings.Contains(out, "alloca i32"))
	assert.True(t, strings.Contains(out, "store i32"))
	assert.True(t, strings.Contains(out, "load i32"))
}

func TestGenerateFunctionDefinitionMangles(t *testing.T) {
	src := `double is { left is i32; left + left };`
	out := compile(t, src)
	assert.True(t, strings.Contains(out, `@"i32;double;void"`))
	// The mangled function must declare %left as a formal parameter, not
	// just reference it in the body, or the emitted register is undefined.
	assert.True(t, strings.Contains(out, `@"i32;double;void"(i32 %left)`))
}

func TestGenerateExternAndCalled(t *testing.T) {
	src := `malloc extern (ptr, i64); p = malloc called (8)`
	root, err := frontend.Parse(src)
	require.NoError(t, err)
	g := New("test.ifx")
	_, err = g.Generate(root)
	require.Error(t, err) // 'p' was never declared with 'is'; assign to an unknown variable fails
}

func TestGenerateIfEmitsBranches(t *testing.T) {
	out := compile(t, `x is bool; x = true; x ? (() println ("yes"))`)
	assert.True(t, strings.Contains(out, "br i1"))
}

func TestGenerateRepeatEmitsLoop(t *testing.T) {
	out := compile(t, `
		i is i32;
		i = 0;
		(i < 10) repeat { i = i + 1; }
	`)
	assert.True(t, strings.Contains(out, "br label"))
}

func TestGenerateUnknownVariableIsError(t *testing.T) {
	root, err := frontend.Parse(`() println (missing)`)
	require.NoError(t, err)
	g := New("test.ifx")
	_, err = g.Generate(root)
	require.Error(t, err)
}

func TestGenerateStringLiteral(t *testing.T) {
	out := compile(t, `() println ("hello")`)
	assert.True(t, strings.Contains(out, `hello`))
}

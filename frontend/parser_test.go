package frontend

import (
	"testing"

	"github.com/Rafagd/infix-lang/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinaryExpression(t *testing.T) {
	root, err := Parse("1 + 2")
	require.NoError(t, err)
	require.Equal(t, ast.Block, root.Token.Value)
	require.Len(t, root.Children, 1)

	add := root.Children[0]
	assert.Equal(t, "+", add.Token.Value)
	require.Len(t, add.Children, 2)
	assert.Equal(t, "1", add.Left().Token.Value)
	assert.Equal(t, "2", add.Right().Token.Value)
}

func TestParseRightFoldsChain(t *testing.T) {
	// a + b + c folds right to left: (a + (b + c))
	root, err := Parse("a + b + c")
	require.NoError(t, err)
	top := root.Children[0]
	assert.Equal(t, "a", top.Left().Token.Value)
	assert.Equal(t, "+", top.Token.Value)
	inner := top.Right()
	assert.Equal(t, "+", inner.Token.Value)
	assert.Equal(t, "b", inner.Left().Token.Value)
	assert.Equal(t, "c", inner.Right().Token.Value)
}

func TestParseStatementsBySemicolon(t *testing.T) {
	root, err := Parse("x = 1; y = 2;")
	require.NoError(t, err)
	require.Equal(t, ast.Block, root.Token.Value)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "=", root.Children[0].Token.Value)
	assert.Equal(t, "=", root.Children[1].Token.Value)
}

func TestParseListByComma(t *testing.T) {
	root, err := Parse("x = 1, 2, 3")
	require.NoError(t, err)
	assign := root.Children[0]
	list := assign.Right()
	require.Equal(t, ast.List, list.Token.Value)
	require.Len(t, list.Children, 3)
	assert.Equal(t, "1", list.Children[0].Token.Value)
	assert.Equal(t, "3", list.Children[2].Token.Value)
}

func TestParseNestedBrackets(t *testing.T) {
	root, err := Parse("x = (1 + 2) * 3")
	require.NoError(t, err)
	assign := root.Children[0]
	mul := assign.Right()
	assert.Equal(t, "*", mul.Token.Value)
	assert.Equal(t, "+", mul.Left().Token.Value)
	assert.Equal(t, "3", mul.Right().Token.Value)
}

func TestParseCalledWithEmptyArgsIsVoid(t *testing.T) {
	root, err := Parse("f called ()")
	require.NoError(t, err)
	call := root.Children[0]
	assert.Equal(t, "called", call.Token.Value)
	assert.Equal(t, "f", call.Left().Token.Value)
	assert.Equal(t, ast.Void, call.Right().ExprType)
}

func TestParseBracesAreBlock(t *testing.T) {
	root, err := Parse("f = { x = 1; y = 2; }")
	require.NoError(t, err)
	assign := root.Children[0]
	block := assign.Right()
	assert.Equal(t, ast.Block, block.Token.Value)
	require.Len(t, block.Children, 2)
}

func TestParseMismatchedBracketIsError(t *testing.T) {
	_, err := Parse("(1 + 2]")
	require.Error(t, err)
}

func TestParseUnmatchedBracketIsError(t *testing.T) {
	_, err := Parse("(1 + 2")
	require.Error(t, err)
}

func TestParseInsufficientTermsIsError(t *testing.T) {
	_, err := Parse("1 +")
	require.Error(t, err)
}

func TestParseMixedSeparatorsIsError(t *testing.T) {
	_, err := Parse("(1, 2; 3)")
	require.Error(t, err)
}

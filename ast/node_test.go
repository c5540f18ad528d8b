package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tok(v string) Token {
	return Token{Kind: Identifier, Value: v}
}

func TestLeafHasNoChildren(t *testing.T) {
	n := Leaf(tok("x"))
	assert.True(t, n.IsLeaf())
	assert.Nil(t, n.Left())
	assert.Nil(t, n.Right())
}

func TestBinaryHasExactlyTwoChildren(t *testing.T) {
	n := Binary(tok("+"), Leaf(tok("1")), Leaf(tok("2")))
	assert.False(t, n.IsLeaf())
	assert.Len(t, n.Children, 2)
	assert.Equal(t, "1", n.Left().Token.Value)
	assert.Equal(t, "2", n.Right().Token.Value)
}

func TestWalkVisitsEveryNode(t *testing.T) {
	n := Binary(tok("+"), Leaf(tok("1")), Binary(tok("*"), Leaf(tok("2")), Leaf(tok("3"))))
	var seen []string
	n.Walk(func(v *Node) {
		seen = append(seen, v.Token.Value)
	})
	assert.Equal(t, []string{"+", "1", "*", "2", "3"}, seen)
}

func TestStringIncludesSubTypesWhenPresent(t *testing.T) {
	n := Leaf(tok("x"))
	n.ExprType = I32
	assert.Equal(t, "x (I32)", n.String())

	n.SubTypes = []ExprType{I32, F64}
	assert.Contains(t, n.String(), "I32")
	assert.Contains(t, n.String(), "F64")
}

func TestUniformShapeLeafOrBinaryOrCollection(t *testing.T) {
	// Every non-leaf node in the grammar is either a two-child operator
	// application, or one of the synthetic list/block collections.
	cases := []*Node{
		Leaf(tok("x")),
		Binary(tok("+"), Leaf(tok("1")), Leaf(tok("2"))),
		{Token: tok(List), Children: []*Node{Leaf(tok("1")), Leaf(tok("2")), Leaf(tok("3"))}},
		{Token: tok(Block), Children: []*Node{Leaf(tok("1"))}},
	}
	for _, n := range cases {
		uniform := n.IsLeaf() || len(n.Children) == 2 || n.Token.Value == List || n.Token.Value == Block
		assert.True(t, uniform, "node %q violates uniform shape", n.Token.Value)
	}
}

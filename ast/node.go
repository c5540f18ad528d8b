// Package ast defines the single, uniform syntax tree shape the parser
// produces (spec §3): every non-leaf node is an identifier token applied to
// two children, plus the synthetic 'list' and 'block' umbrella nodes.
//
// The shape is grounded on hhramberg-go-vslc/src/ir/nodetype.go (a single
// Node struct carrying an int-enum Typ, a parallel string table for
// printing, and a depth-indented recursive Print) combined with
// original_source/src/parser.py's Node/ExprType dataclass.
package ast

import (
	"fmt"
	"strings"
)

// ExprType is the type lattice assigned to nodes (spec §3). The parser sets
// it only on the synthetic nodes it creates (Void for "()", BlockType and
// ListType for 'block' and 'list'); every other node's ExprType is filled
// in by the generator while walking the tree.
type ExprType int

const (
	Invalid ExprType = iota
	Any
	Void
	NullType
	BooleanType
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
	PointerType
	ArrayType
	StringType
	ListType
	BlockType
)

var exprTypeNames = [...]string{
	"Invalid", "Any", "Void", "Null", "Boolean",
	"U8", "U16", "U32", "U64", "I8", "I16", "I32", "I64", "F32", "F64",
	"Pointer", "Array", "String", "List", "Block",
}

// String returns a print friendly name for the ExprType.
func (e ExprType) String() string {
	if e < 0 || int(e) >= len(exprTypeNames) {
		return "Invalid"
	}
	return exprTypeNames[e]
}

// Node is the single uniform AST node shape (spec §3). Leaves have zero
// children; binary operators have exactly two (Left, Right, in that order);
// the synthetic 'list' and 'block' identifiers hold k ordered children.
type Node struct {
	Token    Token
	ExprType ExprType
	SubTypes []ExprType
	Children []*Node
}

// List is the synthetic identifier used for comma-sequenced regions.
const List = "list"

// Block is the synthetic identifier used for semicolon-sequenced regions.
const Block = "block"

// Leaf creates a childless Node wrapping tok.
func Leaf(tok Token) *Node {
	return &Node{Token: tok}
}

// Binary creates a two-child Node with op as its identity token.
func Binary(op Token, left, right *Node) *Node {
	return &Node{Token: op, Children: []*Node{left, right}}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n != nil && len(n.Children) == 0
}

// Left returns the first child of a binary node, or nil.
func (n *Node) Left() *Node {
	if n == nil || len(n.Children) < 1 {
		return nil
	}
	return n.Children[0]
}

// Right returns the second child of a binary node, or nil.
func (n *Node) Right() *Node {
	if n == nil || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

// String returns a print-friendly one-line representation of n.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if len(n.SubTypes) == 0 {
		return fmt.Sprintf("%s (%s)", n.Token.Value, n.ExprType)
	}
	kinds := make([]string, 0, len(n.SubTypes)+1)
	kinds = append(kinds, n.ExprType.String())
	for _, s := range n.SubTypes {
		kinds = append(kinds, s.String())
	}
	return fmt.Sprintf("%s (%s)", n.Token.Value, strings.Join(kinds, ", "))
}

// Print recursively prints n and its children, indenting two spaces per
// depth level, matching the layout original_source/src/parser.py's
// print_ast produces.
func (n *Node) Print(depth int) {
	if n == nil {
		fmt.Printf("%s<nil>\n", strings.Repeat(" ", depth))
		return
	}
	fmt.Printf("%s%s\n", strings.Repeat(" ", depth), n)
	for _, c := range n.Children {
		c.Print(depth + 2)
	}
}

// Walk calls visit for n and every descendant, depth first, pre-order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

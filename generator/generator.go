// Package generator walks the normalized AST (package ast) and drives an
// ir.Module to produce textual LLVM IR, implementing spec §4.5.
//
// Grounded on original_source/src/generator.py's Generator class: the
// shape-based dispatch (block/list/leaf before special forms), the table
// of nine special-form handlers, and the catalog-dispatch fallback for
// everything else.
package generator

import (
	"strconv"

	"github.com/Rafagd/infix-lang/ast"
	"github.com/Rafagd/infix-lang/ir"
	"github.com/Rafagd/infix-lang/util"
)

// Generator drives code generation for a single compilation unit.
type Generator struct {
	Module *ir.Module
}

// New creates a Generator with a fresh module named after the compilation
// unit (typically the source file path).
func New(name string) *Generator {
	return &Generator{Module: ir.NewModule(name)}
}

// Generate walks root and returns the module's final textual IR.
func (g *Generator) Generate(root *ast.Node) (string, error) {
	if _, err := g.node(root); err != nil {
		return "", err
	}
	return g.Module.ToLLVMIR(), nil
}

// specialForms maps the nine identifiers spec §4.5 interprets directly
// rather than dispatching through the catalog.
var specialForms map[string]func(*Generator, *ast.Node) (*ir.Variable, error)

func init() {
	specialForms = map[string]func(*Generator, *ast.Node) (*ir.Variable, error){
		"as":     (*Generator).generateAs,
		"is":     (*Generator).generateDeclare,
		"=":      (*Generator).generateAssign,
		"?":      (*Generator).generateIf,
		"repeat": (*Generator).generateRepeat,
		"return": (*Generator).generateReturn,
		"extern": (*Generator).generateExtern,
		"called": (*Generator).generateCalled,
		"ptr-to": (*Generator).generatePtrTo,
	}
}

func (g *Generator) node(n *ast.Node) (*ir.Variable, error) {
	switch {
	case n.ExprType == ast.BlockType:
		return g.block(n)
	case n.ExprType == ast.ListType:
		return g.list(n)
	case n.ExprType == ast.Void && n.IsLeaf():
		return &ir.Variable{Type: mustType(g.Module, "%void")}, nil
	case !n.Token.IsIdentifier():
		return g.leaf(n)
	}

	if handler, ok := specialForms[n.Token.Value]; ok {
		return handler(g, n)
	}

	if len(n.Children) == 0 {
		return g.Module.Variable("%"+n.Token.Value, n.Token.Row, n.Token.Col)
	}

	var left, right *ir.Variable
	var err error
	if len(n.Children) > 0 {
		left, err = g.node(n.Children[0])
		if err != nil {
			return nil, err
		}
	}
	if len(n.Children) > 1 {
		right, err = g.node(n.Children[1])
		if err != nil {
			return nil, err
		}
	}
	return g.Module.Call(n.Token.Value, left, right, n.Token.Row, n.Token.Col)
}

func (g *Generator) block(n *ast.Node) (*ir.Variable, error) {
	var last *ir.Variable
	var err error
	for _, child := range n.Children {
		last, err = g.node(child)
		if err != nil {
			return nil, err
		}
	}
	if last == nil {
		last = &ir.Variable{Type: mustType(g.Module, "%void")}
	}
	return last, nil
}

func (g *Generator) list(n *ast.Node) (*ir.Variable, error) {
	elems := make([]*ir.Variable, 0, len(n.Children))
	for _, child := range n.Children {
		v, err := g.node(child)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	homogeneous := true
	for _, e := range elems {
		if len(elems) > 0 && e.Type != elems[0].Type {
			homogeneous = false
			break
		}
	}
	if homogeneous {
		return g.Module.NewList(elems), nil
	}
	return g.Module.NewStruct(elems), nil
}

func (g *Generator) leaf(n *ast.Node) (*ir.Variable, error) {
	tok := n.Token
	switch tok.Kind.String() {
	case "Null":
		n.ExprType = ast.NullType
		return g.Module.ConstPtr("null"), nil
	case "Boolean":
		n.ExprType = ast.BooleanType
		return g.Module.ConstBool(tok.Value == "true"), nil
	case "Integer":
		n.ExprType = ast.I32
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, util.NewError(util.TypeError, tok.Row, tok.Col, "malformed integer literal %q", tok.Value)
		}
		return g.Module.ConstI32(v), nil
	case "Float":
		n.ExprType = ast.F32
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, util.NewError(util.TypeError, tok.Row, tok.Col, "malformed float literal %q", tok.Value)
		}
		return g.Module.ConstF32(v), nil
	case "String":
		n.ExprType = ast.StringType
		return g.Module.ConstCstr(tok.Value), nil
	}
	return nil, util.NewError(util.TypeError, tok.Row, tok.Col, "unrecognized leaf token kind %q", tok.Kind)
}

func mustType(m *ir.Module, name string) *ir.Type {
	t, err := m.Type(name, 0, 0)
	if err != nil {
		panic(err)
	}
	return t
}

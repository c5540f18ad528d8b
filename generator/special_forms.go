package generator

import (
	"github.com/Rafagd/infix-lang/ast"
	"github.com/Rafagd/infix-lang/ir"
	"github.com/Rafagd/infix-lang/util"
)

// generateDeclare implements `is`: either a variable declaration (when the
// right-hand side is a bare type name) or a named function definition
// (when it's a body expression), per spec §4.5.
func (g *Generator) generateDeclare(n *ast.Node) (*ir.Variable, error) {
	rhs := n.Children[1]
	if rhs.IsLeaf() && rhs.Token.IsIdentifier() {
		name := "%" + n.Children[0].Token.Value
		typ, err := g.Module.Type("%"+rhs.Token.Value, rhs.Token.Row, rhs.Token.Col)
		if err != nil {
			return nil, err
		}
		return g.Module.NewVariable(name, typ, n.Token.Row, n.Token.Col)
	}
	return g.generateOpDeclare(n)
}

// generateOpDeclare implements the function-body form of `is`: the
// operator's operands are bound to %left/%right inside the scope, the
// body is generated and returned, and the scope's mangled name is
// finalized on exit (spec §4.5 `called`/`is` interaction).
func (g *Generator) generateOpDeclare(n *ast.Node) (*ir.Variable, error) {
	name := "@" + n.Children[0].Token.Value
	scope := g.Module.BeginFunction(name)
	ret, err := g.node(n.Children[1])
	if err != nil {
		scope.End()
		return nil, err
	}
	g.Module.Ret(ret)
	scope.End()
	return &ir.Variable{Type: ret.Type}, nil
}

// generateExtern implements `extern`: declares a foreign function by
// name, return type, and parameter types, the first child of children[1]
// being the return type and the rest the parameter types (spec §4.5).
func (g *Generator) generateExtern(n *ast.Node) (*ir.Variable, error) {
	name := "@" + n.Children[0].Token.Value
	sig := n.Children[1]
	if len(sig.Children) == 0 {
		return nil, util.NewError(util.TypeError, n.Token.Row, n.Token.Col, "extern requires a return type")
	}
	rtypeNode := sig.Children[0]
	rtype, err := g.Module.Type("%"+rtypeNode.Token.Value, rtypeNode.Token.Row, rtypeNode.Token.Col)
	if err != nil {
		return nil, err
	}

	var params []*ir.Type
	vararg := false
	for _, argNode := range sig.Children[1:] {
		if argNode.Token.Value == "vararg" {
			vararg = true
			continue
		}
		t, err := g.Module.Type("%"+argNode.Token.Value, argNode.Token.Row, argNode.Token.Col)
		if err != nil {
			return nil, err
		}
		params = append(params, t)
	}

	g.Module.AddExternal(name, rtype, params, vararg)
	return &ir.Variable{Type: rtype}, nil
}

// generateCalled implements `called`: evaluates each argument and
// dispatches a call to a declared external by name (spec §4.5).
func (g *Generator) generateCalled(n *ast.Node) (*ir.Variable, error) {
	name := "@" + n.Children[0].Token.Value
	argsNode := n.Children[1]

	var args []*ir.Variable
	switch {
	case argsNode.ExprType == ast.Void && argsNode.IsLeaf():
		// No arguments.
	case argsNode.ExprType == ast.ListType:
		for _, child := range argsNode.Children {
			v, err := g.node(child)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	default:
		v, err := g.node(argsNode)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return g.Module.CallExternal(name, args, n.Token.Row, n.Token.Col)
}

// generateAs implements `as`: casts the named variable to the named type
// (spec §4.5).
func (g *Generator) generateAs(n *ast.Node) (*ir.Variable, error) {
	name := "%" + n.Children[0].Token.Value
	typ, err := g.Module.Type("%"+n.Children[1].Token.Value, n.Children[1].Token.Row, n.Children[1].Token.Col)
	if err != nil {
		return nil, err
	}
	v, err := g.Module.Variable(name, n.Children[0].Token.Row, n.Children[0].Token.Col)
	if err != nil {
		return nil, err
	}
	return g.Module.Cast(v, typ, n.Token.Row, n.Token.Col)
}

// generateReturn implements `return`: evaluates its operand, emits the
// function return, and yields the returned value (spec §4.5).
func (g *Generator) generateReturn(n *ast.Node) (*ir.Variable, error) {
	ret, err := g.node(n.Children[1])
	if err != nil {
		return nil, err
	}
	g.Module.Ret(ret)
	return ret, nil
}

// generateAssign implements `=`: evaluates the right-hand side and stores
// it into the named variable's stack slot (spec §4.5).
func (g *Generator) generateAssign(n *ast.Node) (*ir.Variable, error) {
	pname := "%" + n.Children[0].Token.Value
	reg, err := g.node(n.Children[1])
	if err != nil {
		return nil, err
	}
	return g.Module.Assign(pname, reg, n.Token.Row, n.Token.Col)
}

// generatePtrTo implements `ptr-to`: yields a pointer to the named local
// variable's stack slot (spec §4.5). The left operand is a required but
// unused placeholder, matching the uniform binary-operator AST shape.
func (g *Generator) generatePtrTo(n *ast.Node) (*ir.Variable, error) {
	pname := "%" + n.Children[1].Token.Value
	return g.Module.PtrTo(pname, n.Token.Row, n.Token.Col)
}

// generateIf implements `?`: generates the condition, guards the
// consequent behind a scoped if-then, and yields the negated condition
// (spec §4.5).
func (g *Generator) generateIf(n *ast.Node) (*ir.Variable, error) {
	cond, err := g.node(n.Children[0])
	if err != nil {
		return nil, err
	}
	scope := g.Module.BeginIfThen(cond)
	if _, err := g.node(n.Children[1]); err != nil {
		scope.End()
		return nil, err
	}
	scope.End()
	return g.Module.Negate(cond), nil
}

// generateRepeat implements `repeat`: a pretest loop whose condition
// (children[0]) breaks the loop when false, running its body
// (children[1]) otherwise (spec §4.5).
func (g *Generator) generateRepeat(n *ast.Node) (*ir.Variable, error) {
	loop := g.Module.BeginLoop()

	cond, err := g.node(n.Children[0])
	if err != nil {
		loop.End()
		return nil, err
	}
	ncond := g.Module.Negate(cond)

	guard := g.Module.BeginIfThen(ncond)
	loop.Break()
	guard.End()

	if _, err := g.node(n.Children[1]); err != nil {
		loop.End()
		return nil, err
	}
	loop.End()

	return &ir.Variable{Type: mustType(g.Module, "%void")}, nil
}

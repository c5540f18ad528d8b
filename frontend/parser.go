// parser.go implements the bracket- and separator-driven recursive descent
// parser of spec §4.2. It normalizes braces/commas/semicolons into a single
// uniform tree shape where every operator is an identifier applied to two
// operands, plus the synthetic 'list' and 'block' nodes.
//
// Grounded on original_source/src/parser.py's Parser.first_pass/build_node:
// the bracket stack, the flat expr/separator accumulation per region, and
// the right-fold construction of binary nodes from a flat token run.
package frontend

import (
	"github.com/Rafagd/infix-lang/ast"
	"github.com/Rafagd/infix-lang/util"
)

// separator identifies which of ',' or ';' a bracketed region has committed
// to using. A region may use only one kind (spec §4.2).
type separator int

const (
	sepNone separator = iota
	sepComma
	sepSemi
)

var openBrackets = map[string]string{"{": "}", "(": ")", "[": "]"}
var closeBrackets = map[string]string{"}": "{", ")": "(", "]": "["}

// exprElem is one accumulated element of a bracketed region: either a raw
// token or an already-built sub-node (from a nested bracket or a completed
// statement).
type exprElem struct {
	node *ast.Node
	tok  Token
}

func tokenElem(t Token) exprElem   { return exprElem{tok: t} }
func nodeElem(n *ast.Node) exprElem { return exprElem{node: n} }

func (e exprElem) asNode() *ast.Node {
	if e.node != nil {
		return e.node
	}
	return ast.Leaf(e.tok)
}

// identityToken produces the synthetic identifier token used for 'list' and
// 'block' nodes.
func identityToken(value string) Token {
	return Token{Kind: Identifier, Value: value}
}

// Parse tokenizes and parses src, returning the root of the normalized AST:
// an implicit top-level 'block' node (spec §4.2 "Root").
func Parse(src string) (*ast.Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, pos, err := p.parseRegion(0, "", Token{})
	if err != nil {
		return nil, err
	}
	if pos < len(tokens) {
		t := tokens[pos]
		return nil, util.NewError(util.ParseError, t.Row, t.Col, "unexpected token %q after end of program", t.Value)
	}
	return root, nil
}

type parser struct {
	tokens []Token
}

// parseRegion parses one bracket-enclosed (or, at the top level, implicit)
// region starting at pos. openBracket is "" at the root, or the opening
// bracket rune that must be matched by the eventual closing bracket; openTok
// is the token that opened this region (used for position reporting on an
// unmatched bracket, and on "()" producing a void node).
//
// It returns the resulting node and the index of the region's matching
// close bracket (or len(tokens), at the implicit root).
func (p *parser) parseRegion(pos int, openBracket string, openTok Token) (*ast.Node, int, error) {
	var stmts []*ast.Node
	var expr []exprElem
	sep := sepNone

	for pos < len(p.tokens) {
		t := p.tokens[pos]

		switch {
		case t.Kind == Bracket && isOpen(t.Value):
			child, closeIdx, err := p.parseRegion(pos+1, t.Value, t)
			if err != nil {
				return nil, 0, err
			}
			expr = append(expr, nodeElem(child))
			pos = closeIdx + 1
			continue

		case t.Kind == Bracket && isClose(t.Value):
			if closeBrackets[t.Value] != openBracket {
				return nil, 0, util.NewError(util.ParseError, t.Row, t.Col, "mismatched bracket %q", t.Value)
			}
			node, err := finishRegion(expr, stmts, sep, t, openTok)
			if err != nil {
				return nil, 0, err
			}
			return node, pos, nil

		case t.Value == "," && (sep == sepNone || sep == sepComma):
			sep = sepComma

		case t.Value == ";" && (sep == sepNone || sep == sepSemi):
			sep = sepSemi
			n, err := buildExprNode(expr, t)
			if err != nil {
				return nil, 0, err
			}
			stmts = append(stmts, n)
			expr = nil

		case t.Value == "," || t.Value == ";":
			return nil, 0, util.NewError(util.ParseError, t.Row, t.Col, "only one separator kind allowed per expression")

		default:
			expr = append(expr, tokenElem(t))
		}
		pos++
	}

	if openBracket != "" {
		return nil, 0, util.NewError(util.ParseError, openTok.Row, openTok.Col, "unmatched bracket %q", openBracket)
	}

	// Implicit root block: flush any trailing statement.
	if sep == sepComma {
		return listNode(expr), pos, nil
	}
	if len(expr) > 0 {
		n, err := buildExprNode(expr, Token{})
		if err != nil {
			return nil, 0, err
		}
		stmts = append(stmts, n)
	}
	return blockNode(stmts), pos, nil
}

// finishRegion decides what node to return for a region once its closing
// bracket has been reached, per the cases enumerated in spec §4.2.
func finishRegion(expr []exprElem, stmts []*ast.Node, sep separator, closeTok, openTok Token) (*ast.Node, error) {
	switch sep {
	case sepNone:
		switch len(expr) {
		case 0:
			return voidNode(openTok), nil
		case 1:
			return expr[0].asNode(), nil
		default:
			return buildExprNode(expr, closeTok)
		}

	case sepComma:
		return listNode(expr), nil

	default: // sepSemi
		if len(expr) > 0 {
			n, err := buildExprNode(expr, closeTok)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, n)
		}
		return blockNode(stmts), nil
	}
}

// buildExprNode folds a flat run of tokens/nodes into a single binary-tree
// node, right to left: pop an operand, an operator, an operand; wrap; push
// back; repeat while more than one element remains (spec §4.2).
func buildExprNode(expr []exprElem, pos Token) (*ast.Node, error) {
	items := append([]exprElem(nil), expr...)
	for len(items) > 1 {
		if len(items) < 3 {
			return nil, util.NewError(util.ParseError, pos.Row, pos.Col, "insufficient terms")
		}
		right := items[len(items)-1]
		op := items[len(items)-2]
		left := items[len(items)-3]
		items = items[:len(items)-3]

		if op.node != nil || !op.tok.IsIdentifier() {
			r, c := pos.Row, pos.Col
			if op.node == nil {
				r, c = op.tok.Row, op.tok.Col
			}
			return nil, util.NewError(util.ParseError, r, c, "only identifiers are allowed as operators")
		}

		node := &ast.Node{Token: op.tok, Children: []*ast.Node{left.asNode(), right.asNode()}}
		items = append(items, nodeElem(node))
	}
	if len(items) == 0 {
		return voidNode(pos), nil
	}
	return items[0].asNode(), nil
}

func voidNode(pos Token) *ast.Node {
	return &ast.Node{
		Token:    Token{Kind: Identifier, Value: "void", Row: pos.Row, Col: pos.Col},
		ExprType: ast.Void,
	}
}

func blockNode(stmts []*ast.Node) *ast.Node {
	return &ast.Node{
		Token:    identityToken(ast.Block),
		ExprType: ast.BlockType,
		Children: stmts,
	}
}

func listNode(expr []exprElem) *ast.Node {
	children := make([]*ast.Node, len(expr))
	for i, e := range expr {
		children[i] = e.asNode()
	}
	return &ast.Node{
		Token:    identityToken(ast.List),
		ExprType: ast.ListType,
		Children: children,
	}
}

func isOpen(v string) bool  { _, ok := openBrackets[v]; return ok }
func isClose(v string) bool { _, ok := closeBrackets[v]; return ok }

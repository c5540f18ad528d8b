// Package frontend implements the Infix tokenizer and parser: the two phases
// that turn source text into the normalized AST the generator walks.
package frontend

import "github.com/Rafagd/infix-lang/ast"

// Kind and Token are defined in ast (Node embeds Token as its identity field,
// spec §3); these aliases let the tokenizer/parser keep using the plain
// names instead of an ast.-qualified one.
type Kind = ast.Kind
type Token = ast.Token

const (
	Unknown    = ast.Unknown
	Identifier = ast.Identifier
	Bracket    = ast.Bracket
	Null       = ast.Null
	Boolean    = ast.Boolean
	Integer    = ast.Integer
	Float      = ast.Float
	String     = ast.String
)

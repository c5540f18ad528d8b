// lexer.go implements the two-pass tokenizer described in spec §4.1.
//
// The first pass walks the source byte by byte, tracking row/col, and emits
// raw tokens: one-character brackets and separators are recognized eagerly,
// string literals are scanned between quotes, '#' opens a line comment, and
// everything else accumulates into an Unknown run that the second pass
// reclassifies by inspecting its text. This mirrors the split
// first_pass/second_pass structure of original_source/tokenizer.py,
// reworked in the character-scanning idiom of
// hhramberg-go-vslc/src/frontend/lexer.go (here reduced to next/peek) without
// its goroutine/channel plumbing: Infix's pipeline is synchronous end to end
// (spec §5), so a plain two-pass function suffices.
package frontend

import (
	"strconv"
	"strings"

	"github.com/Rafagd/infix-lang/util"
)

const eof = rune(0)

// lexer scans a source string into raw, unclassified tokens.
type lexer struct {
	src []rune
	pos int
	row int
	col int
}

// oneCharBrackets maps single-character bracket runes to Bracket tokens.
var oneCharBrackets = "{}()[]"

// oneCharSeparators maps single-character separator runes to Identifier
// tokens (',' and ';' are themselves valid operator names in the uniform
// AST, per spec §3).
var oneCharSeparators = ",;"

// Tokenize runs both tokenizer passes over src and returns the classified
// token stream, or the first LexError encountered.
func Tokenize(src string) ([]Token, error) {
	raw, err := firstPass(src)
	if err != nil {
		return nil, err
	}
	return secondPass(raw), nil
}

// firstPass performs the character-classification pass of spec §4.1.
func firstPass(src string) ([]Token, error) {
	l := &lexer{src: []rune(src), row: 1, col: 1}

	var tokens []Token
	var acc strings.Builder
	accRow, accCol := l.row, l.col

	flush := func() {
		if acc.Len() > 0 {
			tokens = append(tokens, Token{Kind: Unknown, Value: acc.String(), Row: accRow, Col: accCol})
			acc.Reset()
		}
	}

	for {
		r := l.peek()
		if r == eof {
			break
		}

		switch {
		case r == '#':
			// Line comment: cleared without emission.
			flush()
			for {
				r = l.peek()
				if r == eof || r == '\n' {
					break
				}
				l.next()
			}

		case r == '"':
			flush()
			row, col := l.row, l.col
			l.next() // consume opening quote
			var sb strings.Builder
			closed := false
			for {
				c := l.peek()
				if c == eof {
					break
				}
				l.next()
				if c == '"' {
					closed = true
					break
				}
				sb.WriteRune(c)
			}
			if !closed {
				return nil, util.NewError(util.LexError, row, col, "unclosed string literal")
			}
			tokens = append(tokens, Token{Kind: String, Value: sb.String(), Row: row, Col: col})
			accRow, accCol = l.row, l.col

		case isSpace(r):
			flush()
			l.next()
			accRow, accCol = l.row, l.col

		case strings.ContainsRune(oneCharSeparators, r):
			flush()
			row, col := l.row, l.col
			l.next()
			tokens = append(tokens, Token{Kind: Identifier, Value: string(r), Row: row, Col: col})
			accRow, accCol = l.row, l.col

		case strings.ContainsRune(oneCharBrackets, r):
			flush()
			row, col := l.row, l.col
			l.next()
			tokens = append(tokens, Token{Kind: Bracket, Value: string(r), Row: row, Col: col})
			accRow, accCol = l.row, l.col

		default:
			if acc.Len() == 0 {
				accRow, accCol = l.row, l.col
			}
			acc.WriteRune(r)
			l.next()
		}
	}
	flush()
	return tokens, nil
}

// secondPass reclassifies every Unknown token by examining its text, per
// spec §4.1. After this pass no Unknown token remains.
func secondPass(raw []Token) []Token {
	out := make([]Token, len(raw))
	for i, t := range raw {
		if t.Kind != Unknown {
			out[i] = t
			continue
		}
		switch {
		case t.Value == "null":
			t.Kind = Null
		case t.Value == "true" || t.Value == "false":
			t.Kind = Boolean
		case isInteger(t.Value):
			t.Kind = Integer
		case isFloat(t.Value):
			t.Kind = Float
		default:
			t.Kind = Identifier
		}
		out[i] = t
	}
	return out
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// next consumes and returns the current rune, advancing row/col bookkeeping.
func (l *lexer) next() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// peek returns, but does not consume, the current rune.
func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	return l.src[l.pos]
}

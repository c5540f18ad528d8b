package frontend

import (
	"testing"

	"github.com/Rafagd/infix-lang/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	tokens, err := Tokenize(`x = 1 + 2;`)
	require.NoError(t, err)

	var kinds []Kind
	var values []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
		values = append(values, tok.Value)
	}

	assert.Equal(t, []string{"x", "=", "1", "+", "2", ";"}, values)
	assert.Equal(t, []Kind{Identifier, Identifier, Integer, Identifier, Integer, Identifier}, kinds)
}

func TestTokenizeLiterals(t *testing.T) {
	tokens, err := Tokenize(`null true false 3.14 -7 "hi there"`)
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	assert.Equal(t, Null, tokens[0].Kind)
	assert.Equal(t, Boolean, tokens[1].Kind)
	assert.Equal(t, Boolean, tokens[2].Kind)
	assert.Equal(t, Float, tokens[3].Kind)
	assert.Equal(t, Integer, tokens[4].Kind)
	assert.Equal(t, String, tokens[5].Kind)
	assert.Equal(t, "hi there", tokens[5].Value)
}

func TestTokenizeComment(t *testing.T) {
	tokens, err := Tokenize("x # this is dropped\ny")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "x", tokens[0].Value)
	assert.Equal(t, "y", tokens[1].Value)
	assert.Equal(t, 2, tokens[1].Row)
}

func TestTokenizeBrackets(t *testing.T) {
	tokens, err := Tokenize(`{ ( [ ] ) }`)
	require.NoError(t, err)
	require.Len(t, tokens, 6)
	for _, tok := range tokens {
		assert.Equal(t, Bracket, tok.Kind)
	}
}

func TestTokenizeUnclosedString(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.LexError))
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("ab\ncd")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, 1, tokens[0].Row)
	assert.Equal(t, 1, tokens[0].Col)
	assert.Equal(t, 2, tokens[1].Row)
	assert.Equal(t, 1, tokens[1].Col)
}

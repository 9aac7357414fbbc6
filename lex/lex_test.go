package lex

import (
	"testing"

	"github.com/hallward/lrpike/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const binaryAdditionSource = `E -> E '+' B
E -> B
B -> '0'
B -> '1'
`

func Test_Tokenize_BinaryAddition(t *testing.T) {
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)

	lexemes, err := Tokenize(g, "1+0+1")
	require.NoError(t, err)
	require.Len(t, lexemes, 6)

	want := []string{"1", "+", "0", "+", "1"}
	for i, w := range want {
		assert.Equal(t, w, lexemes[i].Slice)
	}
	assert.Equal(t, grammar.EOFToken(), lexemes[len(lexemes)-1].Token)
	assert.Equal(t, 0, lexemes[len(lexemes)-1].Span.Length)
}

func Test_Tokenize_UnknownToken(t *testing.T) {
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)

	_, err = Tokenize(g, "2")
	require.Error(t, err)

	var perr *ParsingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnknownToken, perr.Kind)
	assert.Equal(t, "2", perr.Token)
	assert.Equal(t, 1, perr.Span.Length)
	assert.Equal(t, 1, perr.Span.Line)
	assert.Equal(t, 1, perr.Span.Column)
}

func Test_Tokenize_LongestMatch_ConstantOverridesPrefix(t *testing.T) {
	g, err := grammar.Parse("S -> '=='\nS -> '='\n")
	require.NoError(t, err)

	lexemes, err := Tokenize(g, "===")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(lexemes), 2)
	assert.Equal(t, "==", lexemes[0].Slice)
	assert.Equal(t, "=", lexemes[1].Slice)
}

func Test_Tokenize_RegexBeatsShorterConstant(t *testing.T) {
	g, err := grammar.Parse("S -> '1'\n%f -> /[0-9]+/\nS -> %f\n")
	require.NoError(t, err)

	lexemes, err := Tokenize(g, "123")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(lexemes), 1)
	assert.Equal(t, grammar.RegexToken("f"), lexemes[0].Token)
	assert.Equal(t, "123", lexemes[0].Slice)
}

func Test_Tokenize_MultilineSpans(t *testing.T) {
	g, err := grammar.Parse("S -> %f\n%f -> /[0-9]+/\n")
	require.NoError(t, err)

	lexemes, err := Tokenize(g, "  11\n  22\n")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(lexemes), 2)

	assert.Equal(t, 1, lexemes[0].Span.Line)
	assert.Equal(t, 3, lexemes[0].Span.Column)
	assert.Equal(t, 2, lexemes[0].Span.Offset)

	assert.Equal(t, 2, lexemes[1].Span.Line)
	assert.Equal(t, 3, lexemes[1].Span.Column)
}

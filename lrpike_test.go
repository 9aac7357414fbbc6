package lrpike

import (
	"testing"

	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const binaryAdditionSource = `E -> E '+' B
E -> B
B -> '0'
B -> '1'
`

func Test_LR_BinaryAddition_Accepts(t *testing.T) {
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)

	p, err := LR(g)
	require.NoError(t, err)

	tree, err := p.Parse("1+0+1")
	require.NoError(t, err)
	assert.Equal(t, grammar.Symbol("E"), tree.Symbol)
}

func Test_LR_BinaryAddition_RejectsGarbage(t *testing.T) {
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)

	p, err := LR(g)
	require.NoError(t, err)

	_, err = p.Parse("1+2")
	require.Error(t, err)
}

func Test_LR_EmptyGrammar_IsParserError(t *testing.T) {
	g := &grammar.Grammar{}
	_, err := LR(g)
	require.Error(t, err)

	var perr *ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, EmptyGrammar, perr.Kind)
}

func Test_LR_UndefinedSymbol_IsParserError(t *testing.T) {
	g, err := grammar.Parse("S -> A\n")
	require.NoError(t, err)

	_, err = LR(g)
	require.Error(t, err)

	var perr *ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UndefinedSymbol, perr.Kind)
}

func Test_LR_UndefinedRegexToken_IsParserError(t *testing.T) {
	g, err := grammar.Parse("S -> %f\n")
	require.NoError(t, err)

	_, err = LR(g)
	require.Error(t, err)

	var perr *ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UndefinedRegexToken, perr.Kind)
}

func Test_LR_DanglingElse_IsConflict(t *testing.T) {
	g, err := grammar.Parse("S -> 'if' S 'else' S\nS -> 'if' S\nS -> 'a'\n")
	require.NoError(t, err)

	_, err = LR(g)
	require.Error(t, err)

	var perr *ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, Conflict, perr.Kind)
	assert.NotNil(t, perr.Parser)
}

// nonLALRSource is the textbook grammar (Aho/Sethi/Ullman) that is LR(1)
// but not LALR(1): merging the states reached after 'c' (one reached via
// 'a', the other via 'b') collapses the lookaheads of A -> 'c' and
// B -> 'c' into one state's item set, producing a reduce/reduce conflict
// that the canonical LR(1) automaton never has.
const nonLALRSource = `S -> 'a' A 'd'
S -> 'b' B 'd'
S -> 'a' B 'e'
S -> 'b' A 'e'
A -> 'c'
B -> 'c'
`

func Test_LALR_NonLALRGrammar_Conflicts(t *testing.T) {
	g, err := grammar.Parse(nonLALRSource)
	require.NoError(t, err)

	_, lrErr := LR(g)
	assert.NoError(t, lrErr)

	_, lalrErr := LALR(g)
	require.Error(t, lalrErr)
	var perr *ParserError
	require.ErrorAs(t, lalrErr, &perr)
	assert.Equal(t, Conflict, perr.Kind)
}

func Test_LR_BinaryAddition_ActionSequence(t *testing.T) {
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)

	p, err := LR(g)
	require.NoError(t, err)
	assert.Len(t, p.Automaton.States, 7)

	_, tr, err := p.ParseTrace("1+0+1")
	require.NoError(t, err)

	want := []tables.Action{
		{Kind: tables.Shift, NextState: 4},
		{Kind: tables.Reduce, RuleIndex: 3},
		{Kind: tables.Reduce, RuleIndex: 1},
		{Kind: tables.Shift, NextState: 5},
		{Kind: tables.Shift, NextState: 3},
		{Kind: tables.Reduce, RuleIndex: 2},
		{Kind: tables.Reduce, RuleIndex: 0},
		{Kind: tables.Shift, NextState: 5},
		{Kind: tables.Shift, NextState: 4},
		{Kind: tables.Reduce, RuleIndex: 3},
		{Kind: tables.Accept, RuleIndex: 0},
	}
	require.Len(t, tr.Steps, len(want))
	for i, w := range want {
		assert.Equal(t, w, tr.Steps[i].Action, "step %d", i)
	}

	// The first snapshot holds the full input including Eof; each Shift
	// consumes exactly one token.
	assert.Len(t, tr.Steps[0].RemainingTokens, 6)
	assert.Equal(t, []int{0}, tr.Steps[0].StateStack)
}

func Test_ParseTrace_MatchesParse(t *testing.T) {
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)

	p, err := LR(g)
	require.NoError(t, err)

	tree, err := p.Parse("1+0+1")
	require.NoError(t, err)

	tracedTree, tr, err := p.ParseTrace("1+0+1")
	require.NoError(t, err)

	assert.Equal(t, tree.String(), tracedTree.String())
	require.NotEmpty(t, tr.Steps)
	assert.Equal(t, tables.Accept, tr.Steps[len(tr.Steps)-1].Action.Kind)
}

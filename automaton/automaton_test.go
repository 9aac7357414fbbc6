package automaton

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

func buildBinaryAddition(t *testing.T) (*grammar.Grammar, *grammar.FirstTable) {
	t.Helper()
	g, err := grammar.Parse(binaryAdditionSource)
	require.NoError(t, err)
	first := grammar.ComputeFirstTable(g)
	return g, first
}

func Test_Construct_StateZero_IsStartKernel(t *testing.T) {
	g, first := buildBinaryAddition(t)

	a, err := Construct(g, first)
	require.NoError(t, err)
	require.NotEmpty(t, a.States)

	state0 := a.States[0]
	assert.Equal(t, 0, state0.ID)
	for _, item := range state0.Items {
		if item.Dot != 0 {
			continue
		}
		if item.RuleIndex < 2 {
			assert.True(t, item.Lookahead.Has(grammar.EOFToken()))
		}
	}
}

func Test_Construct_IsDeterministic(t *testing.T) {
	g, first := buildBinaryAddition(t)

	a1, err := Construct(g, first)
	require.NoError(t, err)
	a2, err := Construct(g, first)
	require.NoError(t, err)

	require.Equal(t, len(a1.States), len(a2.States))
	for i := range a1.States {
		assert.Equal(t, a1.States[i].signature(), a2.States[i].signature())
		assert.Equal(t, a1.States[i].Transitions.Keys(), a2.States[i].Transitions.Keys())
	}
}

func Test_ToLALR_MergesCores_NoDuplicateCores(t *testing.T) {
	g, first := buildBinaryAddition(t)

	lr, err := Construct(g, first)
	require.NoError(t, err)

	lalr, err := lr.ToLALR()
	require.NoError(t, err)

	assert.LessOrEqual(t, len(lalr.States), len(lr.States))

	seenCores := make(map[string]bool)
	for _, s := range lalr.States {
		c := s.core()
		assert.False(t, seenCores[c], "LALR state core %q duplicated after merge", c)
		seenCores[c] = true
	}
}

func Test_Item_AtEnd_EmptyPatternRule(t *testing.T) {
	rule := grammar.Rule{LHS: "A", Pattern: []grammar.AtomicPattern{grammar.TokenPattern(grammar.EmptyToken())}}
	it := &Item{Rule: rule, Dot: 0}
	assert.True(t, it.AtEnd())
	_, ok := it.NextSymbol()
	assert.False(t, ok)
}

func Test_DistinctNextPatterns_SkipsEmptyPatternItems(t *testing.T) {
	normal := grammar.Rule{LHS: "A", Pattern: []grammar.AtomicPattern{grammar.SymbolPattern("B")}}
	empty := grammar.Rule{LHS: "C", Pattern: []grammar.AtomicPattern{grammar.TokenPattern(grammar.EmptyToken())}}

	items := []*Item{
		{Rule: normal, Dot: 0},
		{Rule: empty, Dot: 0},
	}
	next := distinctNextPatterns(items)
	require.Len(t, next, 1)
	assert.Equal(t, grammar.SymbolPattern("B"), next[0])
}

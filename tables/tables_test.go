package tables

import (
	"testing"

	"github.com/hallward/lrpike/automaton"
	"github.com/hallward/lrpike/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const binaryAdditionSource = `E -> E '+' B
E -> B
B -> '0'
B -> '1'
`

func build(t *testing.T, src string) *ParsingTables {
	t.Helper()
	g, err := grammar.Parse(src)
	require.NoError(t, err)

	first := grammar.ComputeFirstTable(g)
	follow := grammar.ComputeFollowTable(g, first)

	a, err := automaton.Construct(g, first)
	require.NoError(t, err)

	pt, err := Construct(g, follow, a)
	require.NoError(t, err)
	return pt
}

func Test_Construct_BinaryAddition_NoConflicts(t *testing.T) {
	pt := build(t, binaryAdditionSource)

	_, _, conflict := pt.FindConflict()
	assert.False(t, conflict)
}

func Test_Construct_NoConflict_AllCellsSingleton(t *testing.T) {
	pt := build(t, binaryAdditionSource)

	for s, actions := range pt.ActionTable {
		for _, tok := range actions.Keys() {
			set, _ := actions.Get(tok)
			assert.Equal(t, 1, set.Len(), "state %d token %s", s, tok)
		}
	}
}

func Test_Construct_DanglingElse_HasShiftReduceConflict(t *testing.T) {
	src := "S -> 'if' S 'else' S\nS -> 'if' S\nS -> 'a'\n"
	pt := build(t, src)

	_, _, conflict := pt.FindConflict()
	require.True(t, conflict)

	var found bool
	for _, actions := range pt.ActionTable {
		for _, tok := range actions.Keys() {
			set, _ := actions.Get(tok)
			if set.Len() < 2 {
				continue
			}
			kinds := map[ActionKind]bool{}
			for _, a := range set.Items() {
				kinds[a.Kind] = true
			}
			if kinds[Shift] && kinds[Reduce] {
				found = true
			}
		}
	}
	assert.True(t, found, "expected at least one shift/reduce conflict cell")
}

func Test_Construct_AmbiguousDerivation_HasReduceReduceConflict(t *testing.T) {
	src := "S -> A\nS -> B\nA -> 'x'\nB -> 'x'\n"
	pt := build(t, src)

	_, _, conflict := pt.FindConflict()
	require.True(t, conflict)

	var found bool
	for _, actions := range pt.ActionTable {
		for _, tok := range actions.Keys() {
			set, _ := actions.Get(tok)
			count := 0
			for _, a := range set.Items() {
				if a.Kind == Reduce {
					count++
				}
			}
			if count >= 2 {
				found = true
			}
		}
	}
	assert.True(t, found, "expected at least one reduce/reduce conflict cell")
}

func Test_Action_String(t *testing.T) {
	assert.Equal(t, "s3", Action{Kind: Shift, NextState: 3}.String())
	assert.Equal(t, "r1", Action{Kind: Reduce, RuleIndex: 0}.String())
	assert.Equal(t, "a1", Action{Kind: Accept, RuleIndex: 0}.String())
}

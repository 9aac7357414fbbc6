package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullablePrefixSource exercises the nullable-aware FIRST algorithm: A is
// nullable, so FIRST(S) must include FIRST(B) even though B sits behind a
// nullable prefix of length 2 (A A).
const nullablePrefixSource = `S -> A A B
A -> 'a'
A -> ''
B -> 'b'
`

func Test_ComputeFirstTable_NullablePrefix(t *testing.T) {
	g, err := Parse(nullablePrefixSource)
	require.NoError(t, err)

	first := ComputeFirstTable(g)

	sFirst, ok := first.Get("S")
	require.True(t, ok)
	assert.True(t, sFirst.Tokens.Has(ConstantToken("a")))
	assert.True(t, sFirst.Tokens.Has(ConstantToken("b")))
	assert.False(t, sFirst.Nullable)

	aFirst, ok := first.Get("A")
	require.True(t, ok)
	assert.True(t, aFirst.Nullable)
}

func Test_ComputeFirstTable_Deterministic(t *testing.T) {
	g, err := Parse(nullablePrefixSource)
	require.NoError(t, err)

	first1 := ComputeFirstTable(g)
	first2 := ComputeFirstTable(g)

	for _, sym := range first1.Symbols() {
		fs1, _ := first1.Get(sym)
		fs2, ok := first2.Get(sym)
		require.True(t, ok)
		assert.Equal(t, fs1.Tokens.Items(), fs2.Tokens.Items())
		assert.Equal(t, fs1.Nullable, fs2.Nullable)
	}
}

func Test_ComputeFollowTable_BinaryAddition(t *testing.T) {
	g, err := Parse(binaryAdditionSource)
	require.NoError(t, err)

	first := ComputeFirstTable(g)
	follow := ComputeFollowTable(g, first)

	eFollow, ok := follow.Get("E")
	require.True(t, ok)
	assert.True(t, eFollow.Has(EOFToken()))
	assert.True(t, eFollow.Has(ConstantToken("+")))

	bFollow, ok := follow.Get("B")
	require.True(t, ok)
	assert.True(t, bFollow.Has(EOFToken()))
	assert.True(t, bFollow.Has(ConstantToken("+")))
}

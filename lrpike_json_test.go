package lrpike_test

import (
	"testing"

	"github.com/hallward/lrpike/examples/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This lives in the external lrpike_test package (not lrpike) because
// examples/json imports the lrpike root package; an internal test file
// pulling it in would be an import cycle.
func Test_LALR_JSON_Sample(t *testing.T) {
	p, err := json.New()
	require.NoError(t, err)

	tree, err := p.Parse(`{"a": [1, 2.5, true, null, "x"], "b": {}}`)
	require.NoError(t, err)

	v, err := json.From(tree)
	require.NoError(t, err)
	assert.Equal(t, json.KindObject, v.Kind)
	assert.Len(t, v.Object, 2)
	assert.Equal(t, "a", v.Object[0].Key)
	assert.Equal(t, json.KindArray, v.Object[0].Value.Kind)
	assert.Len(t, v.Object[0].Value.Array, 5)
}

package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Span_End(t *testing.T) {
	s := Span{Offset: 10, Length: 4}
	assert.Equal(t, 14, s.End())
}

func Test_Span_String(t *testing.T) {
	s := Span{Offset: 0, Length: 1, Line: 2, Column: 5}
	assert.Equal(t, "2:5", s.String())
}

func Test_Spanned_New_And_String(t *testing.T) {
	sp := Span{Offset: 3, Length: 2, Line: 1, Column: 4}
	v := New("ab", sp)

	assert.Equal(t, "ab", v.Value)
	assert.Equal(t, sp, v.Span)
	assert.Equal(t, "ab@1:4", v.String())
}

func Test_Spanned_IntValue(t *testing.T) {
	sp := Span{Offset: 0, Length: 1, Line: 1, Column: 1}
	v := New(42, sp)
	assert.Equal(t, "42@1:1", v.String())
}

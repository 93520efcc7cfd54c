package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SliceStream(t *testing.T) {
	assert := assert.New(t)

	s := NewSliceStream([]Token{
		{Code: 1, Text: "a"},
		{Code: 2, Text: "b"},
	})

	assert.True(s.Has(0))
	assert.True(s.Has(1))
	assert.False(s.Has(2))
	assert.False(s.Has(-1))
	assert.Equal("a", s.At(0).Text)
	assert.Equal(2, s.At(1).Code)
	assert.Equal(2, s.Len())
}

func Test_LazyStream_sticky_eof(t *testing.T) {
	assert := assert.New(t)

	src := []Token{{Code: 1, Text: "x"}, {Code: 2, Text: "y"}}
	idx := 0
	s := NewLazyStream(func() (Token, bool) {
		if idx >= len(src) {
			return Token{}, false
		}
		tok := src[idx]
		idx++
		return tok, true
	})

	assert.False(s.Has(5))
	// must remain false once the producer has reported exhaustion
	assert.False(s.Has(5))
	assert.True(s.Has(0))
	assert.Equal("x", s.At(0).Text)
	assert.True(s.Has(1))
	assert.Equal("y", s.At(1).Text)
	assert.False(s.Has(2))
}

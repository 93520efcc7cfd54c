package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Default_int(t *testing.T) {
	assert := assert.New(t)

	f := Default[int]()
	v, err := f(0, "42")
	assert.NoError(err)
	assert.Equal(42, v)

	_, err = f(0, "not-a-number")
	assert.Error(err)
	assert.True(errors.Is(err, ErrExtraction))
}

func Test_Default_string(t *testing.T) {
	assert := assert.New(t)

	f := Default[string]()
	v, err := f(0, "hello")
	assert.NoError(err)
	assert.Equal("hello", v)
}

func Test_Default_bool(t *testing.T) {
	assert := assert.New(t)

	f := Default[bool]()
	v, err := f(0, "true")
	assert.NoError(err)
	assert.True(v)
}

func Test_Default_unsupported(t *testing.T) {
	assert := assert.New(t)

	type custom struct{ X int }
	f := Default[custom]()
	_, err := f(0, "whatever")
	assert.Error(err)
}

package isolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitedBuffer(t *testing.T) {
	b := NewLimitedBuffer(5)

	n, err := b.Write([]byte("abc"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Write([]byte("defgh"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = b.Write([]byte("ij"))
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "abcde", b.String())
	assert.True(t, b.Truncated())
}

func TestLimitedBuffer_Unbounded(t *testing.T) {
	b := NewLimitedBuffer(0)
	_, _ = b.Write([]byte("hello "))
	_, _ = b.Write([]byte("world"))

	assert.Equal(t, "hello world", b.String())
	assert.False(t, b.Truncated())
}

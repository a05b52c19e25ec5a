package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, Hash("app", "Hello"), Hash("app", "Hello"))
	assert.NotEqual(t, Hash("ap", "pHello"), Hash("app", "Hello"))
	assert.Len(t, Hash("x"), 64)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "árv...", Truncate("árvíztűrő", 3))
}

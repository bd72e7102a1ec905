package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrypto_IntnRange(t *testing.T) {
	r := New()
	for i := 0; i < 200; i++ {
		v := r.Intn(2)
		require.True(t, v == 0 || v == 1, "got %d", v)
	}
	assert.Equal(t, 0, r.Intn(0))
	assert.Equal(t, 0, r.Intn(-3))
}

func TestCrypto_StringUsesAlphabet(t *testing.T) {
	const alphabet = "AB12"
	s := New().String(32, alphabet)
	require.Len(t, s, 32)
	for _, ch := range s {
		assert.True(t, strings.ContainsRune(alphabet, ch), "unexpected %q", ch)
	}
	assert.Empty(t, New().String(0, alphabet))
	assert.Empty(t, New().String(4, ""))
}

func TestScripted_ReplaysQueues(t *testing.T) {
	r := NewScripted().QueueIntn(1, 3).QueueString("AAAAAA", "BBBBBB")

	assert.Equal(t, 1, r.Intn(2))
	assert.Equal(t, 1, r.Intn(2)) // 3 % 2
	assert.Equal(t, 0, r.Intn(2))

	assert.Equal(t, "AAAAAA", r.String(6, "x"))
	assert.Equal(t, "BBBBBB", r.String(6, "x"))
	assert.Equal(t, "", r.String(6, "x"))
}

func TestScripted_Fallback(t *testing.T) {
	r := &Scripted{Fallback: NewScripted().QueueString("ZZZZZZ")}
	assert.Equal(t, "ZZZZZZ", r.String(6, "Z"))
}

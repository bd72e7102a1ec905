package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_TakePairFIFO(t *testing.T) {
	q := NewQueue()
	q.Push(QueueEntry{ID: "a", Mode: ModeClassic})
	q.Push(QueueEntry{ID: "b", Mode: ModeClassic})
	q.Push(QueueEntry{ID: "c", Mode: ModeClassic})
	q.Push(QueueEntry{ID: "d", Mode: ModeRevealDigits})

	self, opp, ok := q.TakePair(ModeClassic, "c")
	require.True(t, ok)
	assert.Equal(t, "c", self.ID)
	assert.Equal(t, "a", opp.ID, "head of the line is paired first")
	assert.Equal(t, []string{"b"}, q.Waiting(ModeClassic))
	assert.Equal(t, 1, q.Len(ModeRevealDigits))
}

func TestQueue_TakePairNeedsTwo(t *testing.T) {
	q := NewQueue()
	q.Push(QueueEntry{ID: "a", Mode: ModeClassic})
	q.Push(QueueEntry{ID: "b", Mode: ModeRevealPositions})

	_, _, ok := q.TakePair(ModeClassic, "a")
	assert.False(t, ok)
	_, _, ok = q.TakePair(ModeClassic, "b")
	assert.False(t, ok, "b waits in another mode")
	assert.Equal(t, 1, q.Len(ModeClassic))
	assert.Equal(t, 1, q.Len(ModeRevealPositions))
}

func TestQueue_ContainsAndRemove(t *testing.T) {
	q := NewQueue()
	q.Push(QueueEntry{ID: "a", Name: "Alice", Mode: ModeRevealPositions})

	mode, ok := q.Contains("a")
	require.True(t, ok)
	assert.Equal(t, ModeRevealPositions, mode)

	e, ok := q.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "Alice", e.Name)

	_, ok = q.Contains("a")
	assert.False(t, ok)
	_, ok = q.Remove("a")
	assert.False(t, ok)
	assert.Zero(t, q.Len(ModeRevealPositions))
}

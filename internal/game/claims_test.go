package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimQueue(t *testing.T) {
	t.Parallel()

	t.Run("fifo order", func(t *testing.T) {
		var q claimQueue
		q.Push(2)
		q.Push(0)
		q.Push(1)

		for _, want := range []int{2, 0, 1} {
			got, ok := q.Pop()
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}
		_, ok := q.Pop()
		assert.False(t, ok)
	})

	t.Run("filter keeps order and reports dropped", func(t *testing.T) {
		var q claimQueue
		for _, id := range []int{3, 1, 4, 5} {
			q.Push(id)
		}

		dropped := q.Filter(func(id int) bool { return id%2 == 1 })

		assert.Equal(t, []int{4}, dropped)
		assert.Equal(t, []int{3, 1, 5}, q.Snapshot())
		assert.NotContains(t, q.Snapshot(), 4)
	})

	t.Run("clear", func(t *testing.T) {
		var q claimQueue
		q.Push(1)
		q.Clear()
		assert.Zero(t, q.Len())
	})
}

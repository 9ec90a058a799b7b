package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	ID   int
	Name string
}

func TestQueue_PushPop(t *testing.T) {
	q := New[event]()

	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push(event{ID: 1, Name: "first"}, event{ID: 2, Name: "second"})
	assert.Equal(t, 2, q.Len())

	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Bounded(t *testing.T) {
	q := NewBounded[int](3)

	q.Push(1, 2)
	q.Push(3, 4, 5)

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, uint64(2), q.Dropped())
	assert.Equal(t, []int{3, 4, 5}, q.GetAndEmpty())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_GetAndEmpty(t *testing.T) {
	q := New[string]()
	q.Push("a", "b")

	items := q.GetAndEmpty()
	assert.Equal(t, []string{"a", "b"}, items)

	// the returned slice must not be reused by later pushes
	q.Push("c")
	assert.Equal(t, []string{"a", "b"}, items)

	q.Push("d")
	assert.False(t, q.Empty())
	q.Clear()
	assert.True(t, q.Empty())
	assert.Empty(t, q.GetAndEmpty())
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	drained := make(chan int, 100)

	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(g*100 + i)
			}
		}(g)
	}
	go func() {
		total := 0
		for i := 0; i < 50; i++ {
			total += len(q.GetAndEmpty())
		}
		drained <- total
	}()
	wg.Wait()

	total := <-drained + len(q.GetAndEmpty())
	assert.Equal(t, 1000, total)
}

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePreservesOrder(t *testing.T) {
	p := NewPool(4, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(10-n) * time.Millisecond)
		if n == 3 {
			return 0, errors.New("three")
		}
		return n * n, nil
	})

	tasks := p.Execute(context.Background(), []int{0, 1, 2, 3, 4, 5})
	require.Len(t, tasks, 6)
	for i, task := range tasks {
		assert.Equal(t, i, task.Input)
		assert.True(t, task.Done)
		if i == 3 {
			assert.EqualError(t, task.Err, "three")
			continue
		}
		assert.NoError(t, task.Err)
		assert.Equal(t, i*i, task.Result)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPool(2, func(_ context.Context, n int) (int, error) { return n, nil })
	tasks := p.Execute(ctx, []int{1, 2, 3})
	require.Len(t, tasks, 3)
	for _, task := range tasks {
		if !task.Done {
			assert.Zero(t, task.Result)
		}
	}
}

func TestExecuteEmpty(t *testing.T) {
	p := NewPool(0, func(_ context.Context, n int) (int, error) { return n, nil })
	assert.Empty(t, p.Execute(context.Background(), nil))
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, Batch([]int{1, 2}, 0))
	assert.Empty(t, Batch([]int(nil), 3))
}

package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestProcessor_Process(t *testing.T) {
	items := sequence(25)

	t.Run("Sequential", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var offsets []int
		var processed int
		err = p.Process(context.Background(), items, func(_ context.Context, batch []int, offset int) error {
			offsets = append(offsets, offset)
			processed += len(batch)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 25, processed)
		assert.Equal(t, []int{0, 10, 20}, offsets)
	})

	t.Run("Concurrent", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)

		var processed int32
		err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, batch []int, _ int) error {
			atomic.AddInt32(&processed, int32(len(batch)))
			return nil
		}, 2)
		require.NoError(t, err)
		assert.Equal(t, int32(25), processed)
	})

	t.Run("ConcurrencyLimit", func(t *testing.T) {
		p, err := NewProcessor[int](1)
		require.NoError(t, err)

		var active, peak int32
		err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, _ []int, _ int) error {
			n := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			atomic.AddInt32(&active, -1)
			return nil
		}, 3)
		require.NoError(t, err)
		assert.LessOrEqual(t, peak, int32(3))
	})

	t.Run("ErrorHandling", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		errFail := errors.New("fail")
		err = p.Process(context.Background(), items, func(_ context.Context, _ []int, offset int) error {
			if offset == 10 {
				return errFail
			}
			return nil
		})
		require.ErrorIs(t, err, errFail)
		assert.Contains(t, err.Error(), "batch 1 failed")
	})

	t.Run("ConcurrentError", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)

		errFail := errors.New("fail")
		err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, _ []int, offset int) error {
			if offset == 5 {
				return errFail
			}
			return nil
		}, 4)
		require.ErrorIs(t, err, errFail)
	})

	t.Run("Cancelled", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.ErrorIs(t, p.Process(context.Background(), nil, nil), ErrEmptyItems)
		assert.ErrorIs(t, p.ProcessConcurrent(context.Background(), nil, nil, 2), ErrEmptyItems)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.ErrorIs(t, p.Process(context.Background(), items, nil), ErrNilCallback)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](2000)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestMap_PreservesOrder(t *testing.T) {
	p, err := NewProcessor[int](3)
	require.NoError(t, err)

	got, err := Map(context.Background(), p, sequence(20), 4, func(_ context.Context, v int) (int, error) {
		return v * v, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 20)
	for i, v := range got {
		assert.Equal(t, i*i, v)
	}
}

func TestMap_Sequential(t *testing.T) {
	p, err := NewProcessor[int](2)
	require.NoError(t, err)

	var seen []int
	p.WithProgressCallback(func(s ProgressSnapshot) {
		seen = append(seen, s.ProcessedItems)
	})

	var order []int
	got, err := Map(context.Background(), p, sequence(5), 1, func(_ context.Context, v int) (int, error) {
		order = append(order, v)
		return v + 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, []int{2, 4, 5}, seen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Map(ctx, p, sequence(5), 0, func(_ context.Context, v int) (int, error) { return v, nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestMap_Error(t *testing.T) {
	p := NewProcessorWithDefaults[int]()
	errBad := errors.New("bad item")

	got, err := Map(context.Background(), p, sequence(5), 2, func(_ context.Context, v int) (string, error) {
		if v == 3 {
			return "", errBad
		}
		return "ok", nil
	})
	require.ErrorIs(t, err, errBad)
	assert.Contains(t, err.Error(), "item 3")
	assert.Nil(t, got)

	_, err = Map[int, int](context.Background(), p, sequence(5), 2, nil)
	assert.ErrorIs(t, err, ErrNilCallback)
}

func TestProgressCallback(t *testing.T) {
	p, err := NewProcessor[int](10)
	require.NoError(t, err)

	var mu sync.Mutex
	var last ProgressSnapshot
	p.WithProgressCallback(func(s ProgressSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		if s.ProcessedItems > last.ProcessedItems {
			last = s
		}
	})

	require.NoError(t, p.ProcessConcurrent(context.Background(), sequence(25), func(context.Context, []int, int) error {
		return nil
	}, 2))

	assert.Equal(t, 25, last.ProcessedItems)
	assert.Equal(t, 3, last.ProcessedBatches)
	assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10)

	assert.InDelta(t, 0.0, p.PercentComplete(), 0)
	assert.False(t, p.IsComplete())

	p.AddProcessed(10)
	assert.InDelta(t, 10.0, p.PercentComplete(), 1e-9)

	p.AddProcessed(90)
	assert.True(t, p.IsComplete())

	snap := p.Snapshot()
	assert.Equal(t, 100, snap.ProcessedItems)
	assert.Equal(t, 2, snap.ProcessedBatches)
	assert.Equal(t, 10, snap.TotalBatches)
}

func TestProcessor_Bounds(t *testing.T) {
	p, err := NewProcessor[int](10)
	require.NoError(t, err)

	bounds := p.Bounds(25)
	require.Len(t, bounds, 3)
	assert.Equal(t, [2]int{0, 10}, bounds[0])
	assert.Equal(t, [2]int{10, 20}, bounds[1])
	assert.Equal(t, [2]int{20, 25}, bounds[2])
	assert.Equal(t, 10, p.BatchSize())
	assert.Empty(t, p.Bounds(0))
}

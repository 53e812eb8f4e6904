package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedKeepsInputOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	results := Ordered(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})

	require.NoError(t, FirstError(results))
	assert.Equal(t, []int{50, 10, 40, 20, 30}, Values(results))
}

func TestOrderedBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	Ordered(context.Background(), items, 2, func(context.Context, int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFirstErrorFollowsItemOrder(t *testing.T) {
	errA := errors.New("a")
	errC := errors.New("c")
	results := Ordered(context.Background(), []string{"a", "b", "c"}, 3, func(_ context.Context, s string) (string, error) {
		switch s {
		case "a":
			time.Sleep(5 * time.Millisecond)
			return "", errA
		case "c":
			return "", errC
		}
		return s, nil
	})

	assert.ErrorIs(t, FirstError(results), errA)
}

func TestOrderedStopsAfterFirstFailure(t *testing.T) {
	errBoom := errors.New("boom")
	var calls atomic.Int32
	results := Ordered(context.Background(), []int{1, 2, 3, 4, 5}, 1, func(context.Context, int) (int, error) {
		calls.Add(1)
		return 0, errBoom
	})

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.ErrorIs(t, r.Err, errBoom)
	}
}

func TestOrderedCancelsRunningSiblings(t *testing.T) {
	errBoom := errors.New("boom")
	results := Ordered(context.Background(), []int{1, 2}, 2, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errBoom
		}
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, FirstError(results), errBoom)
}

func TestOrderedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := Ordered(ctx, []int{1, 2, 3}, 1, func(context.Context, int) (int, error) {
		calls.Add(1)
		return 0, nil
	})

	assert.Zero(t, calls.Load())
	assert.ErrorIs(t, FirstError(results), context.Canceled)
}

func TestOrderedEmpty(t *testing.T) {
	assert.Nil(t, Ordered(context.Background(), []int(nil), 4, func(context.Context, int) (int, error) { return 0, nil }))
}

func TestWorkersDefaultsToCPUCount(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), Workers(0))
	assert.Equal(t, 3, Workers(3))
}

// Package parallel runs independent units of work on a bounded pool while
// keeping results in input order.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Result holds the outcome for one input item.
type Result[R any] struct {
	Value R
	Err   error
}

// Workers returns n, or the CPU count when n is not positive.
func Workers(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Ordered applies fn to every item with at most concurrency calls in flight.
// Results are indexed like items. The first failure cancels the context passed
// to fn, and items not yet started then report that failure. Items not yet
// started when ctx is done report ctx.Err().
func Ordered[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	concurrency = Workers(concurrency)
	if concurrency > len(items) {
		concurrency = len(items)
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sem := make(chan struct{}, concurrency)
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if runCtx.Err() != nil {
				results[i] = Result[R]{Err: context.Cause(runCtx)}
				return
			}
			v, err := fn(runCtx, item)
			if err != nil {
				cancel(err)
			}
			results[i] = Result[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()

	// A task that gave up because a sibling failed reports the sibling's error.
	if cause := context.Cause(runCtx); cause != nil && ctx.Err() == nil {
		for i := range results {
			if errors.Is(results[i].Err, context.Canceled) {
				results[i].Err = cause
			}
		}
	}
	return results
}

// FirstError returns the error of the earliest failed item, or nil.
func FirstError[R any](results []Result[R]) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Values returns the values of results in order.
func Values[R any](results []Result[R]) []R {
	out := make([]R, len(results))
	for i, r := range results {
		out[i] = r.Value
	}
	return out
}

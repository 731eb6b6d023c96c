// Package parallel provides the concurrency primitives the pack and
// unpack pipelines are built on: a bounded producer that pairs a
// parallel map with a channel (preserving the caller's input order),
// and a parallel-for with first-exception semantics as well as a
// tolerant variant that collects every failure instead of aborting.
package parallel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Each runs fn over items with at most concurrency goroutines in
// flight. The first error returned by any invocation is stored and
// returned after every in-flight call completes; once an error has been
// observed, no further calls to fn are started (spec §9: "first error
// wins, no further work after failure"). concurrency <= 0 means
// unbounded.
func Each[T any](items []T, concurrency int, fn func(T) error) error {
	g, ctx := errgroup.WithContext(context.Background())
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, item := range items {
		item := item
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil // an earlier call already failed
			}
			return fn(item)
		})
	}
	return g.Wait()
}

// EachTolerant runs fn over items with at most concurrency goroutines
// in flight, every call always runs regardless of earlier failures, and
// every error is returned indexed by its item's position. Used where
// per-item failures must be recorded but must not stop the other
// workers (spec §7: unpack "per-file write failures are recorded and
// reported after the join").
func EachTolerant[T any](items []T, concurrency int, fn func(T) error) map[int]error {
	errs := make(map[int]error)
	var mu sync.Mutex
	g := new(errgroup.Group)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := fn(item); err != nil {
				mu.Lock()
				errs[i] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Result pairs a produced value with the error fn returned for it;
// Produce keeps one per input item and forwards the values in input order.
type Result[R any] struct {
	Value R
	Err   error
}

// Produce starts a single producer goroutine that maps fn over items
// using up to concurrency worker goroutines, and streams the results
// over the returned channel strictly in items' original order — this is
// what makes first-fit-decreasing bin packing downstream meaningful
// (spec §5: "the producer MUST preserve the size-descending order of
// its input list"). The returned channel is closed once every item has
// been delivered, once the first item whose fn failed is reached (every
// earlier item is still delivered), or when ctx is canceled. Call Wait on the returned
// group after draining the channel to observe the first worker error, if
// any; dropping the channel (not draining it) and canceling ctx is how a
// caller aborts early (spec §5: "a caller cancels by dropping the result
// sequence").
func Produce[T, R any](ctx context.Context, items []T, concurrency int, fn func(T) (R, error)) (<-chan R, *errgroup.Group) {
	if concurrency <= 0 {
		concurrency = 1
	}
	out := make(chan R, concurrency)
	g, gctx := errgroup.WithContext(ctx)

	slots := make([]chan Result[R], len(items))
	for i := range slots {
		slots[i] = make(chan Result[R], 1)
	}

	sem := make(chan struct{}, concurrency)
	g.Go(func() error {
		for i, item := range items {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			i, item := i, item
			g.Go(func() error {
				defer func() { <-sem }()
				v, err := fn(item)
				slots[i] <- Result[R]{Value: v, Err: err}
				return err
			})
		}
		return nil
	})

	go func() {
		defer close(out)
		for _, slot := range slots {
			select {
			case r := <-slot:
				if r.Err != nil {
					return
				}
				select {
				case out <- r.Value:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, g
}

// Package commitproc provides order-preserving parallel processing of
// commit sequences.
package commitproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkerMultiplier is applied to NumCPU for the worker count. Diff
// computation mixes object-store reads with CPU work.
const DefaultWorkerMultiplier = 2

// ProcessingError records a failure for a single item.
type ProcessingError struct {
	Index int
	Err   error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// ProgressFunc is called after each item is processed.
type ProgressFunc func()

// ErrorFunc is called with the item index when processing fails. The slot
// for a failed item keeps its zero value.
type ErrorFunc func(index int, err error)

// MapOrdered processes items in parallel and returns results in input order.
// Each result is written to the slot matching its input index, so consumers
// that depend on the canonical sequence order can fold over the output
// directly. A canceled context stops scheduling and returns the context
// error; individual item failures are reported through onError and do not
// abort the run.
func MapOrdered[S, T any](ctx context.Context, items []S, maxWorkers int, fn func(S) (T, error), onProgress ProgressFunc, onError ErrorFunc) ([]T, error) {
	if len(items) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, len(items))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, item := range items {
		select {
		case <-ctx.Done():
			p.Wait()
			return nil, ctx.Err()
		default:
		}

		p.Go(func() {
			result, err := fn(item)

			mu.Lock()
			if err != nil {
				if onError != nil {
					onError(i, err)
				}
			} else {
				results[i] = result
			}
			mu.Unlock()

			if onProgress != nil {
				onProgress()
			}
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

// ProgressFunc is called after each item is processed.
type ProgressFunc func()

// Result pairs an input item with the value or error its task produced.
type Result[I, T any] struct {
	Item  I
	Value T
	Err   error
}

// MapFailFast runs fn for every item on a bounded pool and collects the
// successful values in arbitrary order. The first error cancels the context
// passed to the remaining tasks and is returned; tasks that have not started
// yet observe the cancellation and stop.
// If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapFailFast[I, T any](ctx context.Context, items []I, maxWorkers int, fn func(context.Context, I) (T, error), onProgress ProgressFunc) ([]T, error) {
	if len(items) == 0 {
		return nil, ctx.Err()
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	p := pool.NewWithResults[T]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(maxWorkers)

	for _, item := range items {
		p.Go(func(ctx context.Context) (T, error) {
			if onProgress != nil {
				defer onProgress()
			}
			if err := ctx.Err(); err != nil {
				var zero T
				return zero, err
			}
			return fn(ctx, item)
		})
	}
	return p.Wait()
}

// MapAll runs fn for every item on a bounded pool and returns one Result per
// item in input order. Failures never stop the batch; only cancellation of
// ctx does, and then the remaining items carry the context error.
// If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapAll[I, T any](ctx context.Context, items []I, maxWorkers int, fn func(context.Context, I) (T, error), onProgress ProgressFunc) []Result[I, T] {
	if len(items) == 0 {
		return nil
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	results := make([]Result[I, T], len(items))
	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, item := range items {
		p.Go(func() {
			if onProgress != nil {
				defer onProgress()
			}
			results[i].Item = item
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Value, results[i].Err = fn(ctx, item)
		})
	}
	p.Wait()

	return results
}

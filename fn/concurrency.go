package fn

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrFunc is a type def for a function that takes a context (to allow early
// cancellation) and a value, returning an error. This is typically used as a
// closure to perform concurrent work over a homogeneous slice of values.
type ErrFunc[V any] func(context.Context, V) error

// ParSlice can be used to execute a function on each element of a slice in
// parallel. This function is fully blocking and will wait for all goroutines
// to either succeed, or for the first to error out. Active goroutines are
// limited to the number of CPUs. The context passed to the closure is
// canceled the first time a function returns a non-nil error. Returns the
// first non-nil error (if any).
func ParSlice[V any](ctx context.Context, s []V, f ErrFunc[V]) error {
	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.SetLimit(runtime.NumCPU())

	for _, v := range s {
		v := v
		errGroup.Go(func() error {
			return f(ctx, v)
		})
	}

	return errGroup.Wait()
}

// ParMap is like ParSlice, but it collects one result per input element. The
// result at index i always belongs to the input at index i, regardless of
// the order in which the goroutines finish.
func ParMap[I, O any](ctx context.Context, s []I,
	f func(context.Context, I) (O, error)) ([]O, error) {

	results := make([]O, len(s))
	indexes := make([]int, len(s))
	for i := range s {
		indexes[i] = i
	}

	err := ParSlice(ctx, indexes, func(ctx context.Context, i int) error {
		result, err := f(ctx, s[i])
		if err != nil {
			return err
		}

		// Each goroutine owns a distinct index, so no locking is
		// needed.
		results[i] = result

		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

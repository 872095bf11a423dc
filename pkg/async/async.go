package async

import "context"

// Future holds the eventual result of a function started with Async.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the function has returned.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext is Await bounded by ctx. The underlying goroutine keeps running
// when ctx ends first; its result is dropped.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done reports completion without blocking.
func (f *Future[U]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in its own goroutine.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Pre-canceled contexts never start the work.
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// Result pairs a value with the error its function returned.
type Result[U any] struct {
	Value U
	Err   error
}

// Settle waits for every future and keeps each outcome, unlike WaitAll which
// stops at the first error.
func Settle[U any](futures ...*Future[U]) []Result[U] {
	out := make([]Result[U], len(futures))
	for i, f := range futures {
		if f == nil {
			continue
		}
		out[i].Value, out[i].Err = f.Await()
	}
	return out
}

// WaitAll waits for the futures in order and returns at the first error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	if len(futures) == 0 {
		return nil, ErrNoFutures
	}

	results := make([]U, len(futures))
	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

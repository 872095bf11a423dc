package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
		time.Sleep(10 * time.Millisecond)
		return n * 2, nil
	})

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, f.Done())
}

func TestAsync_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	f := async.Async(ctx, 1, func(_ context.Context, n int) (int, error) {
		called = true
		return n, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	f := async.Async(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSettle_KeepsEveryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ctx := context.Background()
	fn := func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, boom
		}
		return n, nil
	}

	results := async.Settle(
		async.Async(ctx, 0, fn),
		async.Async(ctx, 1, fn),
		nil,
		async.Async(ctx, 2, fn),
	)

	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 2, results[3].Value)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	id := func(_ context.Context, n int) (int, error) { return n, nil }

	vals, err := async.WaitAll(async.Async(ctx, 1, id), async.Async(ctx, 2, id))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, vals)

	_, err = async.WaitAll[int]()
	assert.ErrorIs(t, err, async.ErrNoFutures)
}

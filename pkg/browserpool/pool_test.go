package browserpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/browserpool"
)

type fakeBrowser struct {
	id     int
	dead   atomic.Bool
	closed atomic.Int32
}

func (b *fakeBrowser) Capture(context.Context, browserpool.CaptureRequest) ([]byte, error) {
	return []byte("png"), nil
}

func (b *fakeBrowser) Alive() bool { return !b.dead.Load() && b.closed.Load() == 0 }

func (b *fakeBrowser) Close() error {
	b.closed.Add(1)
	return nil
}

type launcher struct {
	mu       sync.Mutex
	browsers []*fakeBrowser
	gate     chan struct{}
	err      error
}

func (l *launcher) launch(ctx context.Context) (browserpool.Browser, error) {
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	b := &fakeBrowser{id: len(l.browsers) + 1}
	l.browsers = append(l.browsers, b)
	return b, nil
}

func (l *launcher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.browsers)
}

func TestPool_SingleLaunchUnderConcurrency(t *testing.T) {
	t.Parallel()

	l := &launcher{gate: make(chan struct{})}
	pool := browserpool.New(l.launch)

	const callers = 16
	got := make(chan browserpool.Browser, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := pool.Acquire(context.Background())
			assert.NoError(t, err)
			got <- b
		}()
	}

	// let every caller queue on the pending launch
	require.Eventually(t, func() bool { return pool.Launches() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(l.gate)
	wg.Wait()
	close(got)

	var first browserpool.Browser
	for b := range got {
		if first == nil {
			first = b
		}
		assert.Same(t, first, b)
	}
	assert.Equal(t, 1, l.count())
	assert.Equal(t, 1, pool.Launches())
}

func TestPool_ReusesBrowser(t *testing.T) {
	t.Parallel()

	l := &launcher{}
	pool := browserpool.New(l.launch)

	b1, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	b2, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	assert.Same(t, b1, b2)
	assert.Equal(t, 1, l.count())
}

func TestPool_RelaunchesDeadBrowser(t *testing.T) {
	t.Parallel()

	l := &launcher{}
	pool := browserpool.New(l.launch)

	b1, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	b1.(*fakeBrowser).dead.Store(true)

	b2, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, b1, b2)
	assert.True(t, b2.Alive())
	assert.Equal(t, 2, l.count())
	assert.Eventually(t, func() bool { return b1.(*fakeBrowser).closed.Load() == 1 }, time.Second, time.Millisecond)
}

func TestPool_Invalidate(t *testing.T) {
	t.Parallel()

	l := &launcher{}
	pool := browserpool.New(l.launch)

	b1, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	pool.Invalidate(b1)
	assert.Equal(t, int32(1), b1.(*fakeBrowser).closed.Load())

	b2, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, b1, b2)

	// stale invalidation leaves the replacement alone
	pool.Invalidate(b1)
	b3, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, b2, b3)
	assert.Equal(t, 2, l.count())
}

func TestPool_LaunchFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no chrome binary")
	l := &launcher{err: boom}
	pool := browserpool.New(l.launch)

	_, err := pool.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, browserpool.ErrLaunch)
	assert.ErrorIs(t, err, boom)

	// next acquire retries
	l.err = nil
	b, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, 2, pool.Launches())
}

func TestPool_LaunchTimeout(t *testing.T) {
	t.Parallel()

	l := &launcher{gate: make(chan struct{})}
	pool := browserpool.New(l.launch, browserpool.WithLaunchTimeout(10*time.Millisecond))

	_, err := pool.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, browserpool.ErrLaunch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_AcquireCanceled(t *testing.T) {
	t.Parallel()

	l := &launcher{gate: make(chan struct{})}
	pool := browserpool.New(l.launch)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the launch continues for the next caller
	close(l.gate)
	b, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, 1, l.count())
}

func TestPool_Shutdown(t *testing.T) {
	t.Parallel()

	l := &launcher{}
	pool := browserpool.New(l.launch)

	require.NoError(t, pool.Warm(context.Background()))
	require.Equal(t, 1, l.count())

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int32(1), l.browsers[0].closed.Load())

	_, err := pool.Acquire(context.Background())
	assert.ErrorIs(t, err, browserpool.ErrPoolClosed)

	// idempotent
	assert.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_ShutdownDuringLaunch(t *testing.T) {
	t.Parallel()

	l := &launcher{gate: make(chan struct{})}
	pool := browserpool.New(l.launch)

	errc := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		errc <- err
	}()
	require.Eventually(t, func() bool { return pool.Launches() == 1 }, time.Second, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- pool.Shutdown(context.Background()) }()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	require.Eventually(t, func() bool {
		_, err := pool.Acquire(canceled)
		return errors.Is(err, browserpool.ErrPoolClosed)
	}, time.Second, time.Millisecond)

	close(l.gate)
	require.NoError(t, <-done)
	assert.ErrorIs(t, <-errc, browserpool.ErrPoolClosed)

	require.Equal(t, 1, l.count())
	assert.Eventually(t, func() bool { return l.browsers[0].closed.Load() == 1 }, time.Second, time.Millisecond)
}

package browserpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/postcard/pkg/logger"
)

// Pool holds at most one browser and shares it across requests.
// Concurrent Acquire calls during a launch wait on that same launch.
// A browser that died is replaced lazily on the next Acquire.
type Pool struct {
	launch        LaunchFunc
	launchTimeout time.Duration
	log           *slog.Logger

	mu       sync.Mutex
	current  Browser
	pending  *launchCall
	closed   bool
	launches int
}

type launchCall struct {
	done    chan struct{}
	browser Browser
	err     error
}

// Option configures a Pool.
type Option func(*Pool)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// WithLaunchTimeout bounds each launch. Zero disables the bound.
func WithLaunchTimeout(d time.Duration) Option {
	return func(p *Pool) {
		p.launchTimeout = d
	}
}

func New(launch LaunchFunc, opts ...Option) *Pool {
	p := &Pool{
		launch:        launch,
		launchTimeout: 30 * time.Second,
		log:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig builds a pool over the headless Chrome launcher.
func NewFromConfig(cfg Config, opts ...Option) *Pool {
	p := New(nil, append([]Option{WithLaunchTimeout(cfg.LaunchTimeout)}, opts...)...)
	p.launch = ChromeLauncher(cfg, p.log)
	return p
}

// Acquire returns the running browser, launching one if needed.
// A canceled ctx abandons the wait but not the launch itself.
func (p *Pool) Acquire(ctx context.Context) (Browser, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	if b := p.current; b != nil {
		if b.Alive() {
			p.mu.Unlock()
			return b, nil
		}
		p.current = nil
		p.log.WarnContext(ctx, "browser died, relaunching", logger.Component("browserpool"))
		go p.closeBrowser(b)
	}

	call := p.pending
	if call == nil {
		call = &launchCall{done: make(chan struct{})}
		p.pending = call
		p.launches++
		go p.doLaunch(call)
	}
	p.mu.Unlock()

	select {
	case <-call.done:
		return call.browser, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) doLaunch(call *launchCall) {
	ctx := context.Background()
	if p.launchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.launchTimeout)
		defer cancel()
	}

	start := time.Now()
	b, err := p.launch(ctx)

	p.mu.Lock()
	p.pending = nil
	switch {
	case err != nil:
		call.err = errors.Join(ErrLaunch, err)
	case p.closed:
		call.err = ErrPoolClosed
	default:
		p.current = b
		call.browser = b
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error("browser launch failed", logger.Component("browserpool"), logger.Error(err))
	} else if call.err != nil {
		p.closeBrowser(b)
	} else {
		p.log.Info("browser launched", logger.Component("browserpool"), logger.Duration(time.Since(start)))
	}

	close(call.done)
}

// Invalidate drops b so the next Acquire launches a fresh browser.
// It is a no-op if b has already been replaced.
func (p *Pool) Invalidate(b Browser) {
	if b == nil {
		return
	}

	p.mu.Lock()
	if p.current == b {
		p.current = nil
	}
	p.mu.Unlock()

	p.closeBrowser(b)
}

// Warm launches the browser ahead of the first request.
func (p *Pool) Warm(ctx context.Context) error {
	_, err := p.Acquire(ctx)
	return err
}

// Launches reports how many launches the pool has started.
func (p *Pool) Launches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.launches
}

// Shutdown closes the browser and rejects further Acquire calls.
// An in-flight launch is awaited so its browser is not leaked.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	b := p.current
	p.current = nil
	call := p.pending
	p.mu.Unlock()

	if call != nil {
		select {
		case <-call.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if b != nil {
		if err := b.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) closeBrowser(b Browser) {
	if err := b.Close(); err != nil {
		p.log.Warn("failed to close browser", logger.Component("browserpool"), logger.Error(err))
	}
}

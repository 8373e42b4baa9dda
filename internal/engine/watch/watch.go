// Package watch rebuilds bundles when sources change, either through the bundler's own polling
// or through file system events.
package watch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/tsbuild/internal/adapters/watcher"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Coordinator starts watch sessions.
type Coordinator struct {
	bundler  ports.Bundler
	watchers ports.WatcherFactory
	logger   ports.Logger
	window   time.Duration
}

// New creates a Coordinator.
func New(bundler ports.Bundler, watchers ports.WatcherFactory, logger ports.Logger) *Coordinator {
	return &Coordinator{
		bundler:  bundler,
		watchers: watchers,
		logger:   logger,
		window:   watcher.DefaultDebounceWindow,
	}
}

// WithDebounce sets how long a file has to stay quiet before a rebuild. Zero keeps the default.
func (c *Coordinator) WithDebounce(window time.Duration) *Coordinator {
	if window > 0 {
		c.window = window
	}
	return c
}

// Handle is a running watch session.
type Handle struct {
	buildCtx  ports.BuildContext
	watcher   ports.Watcher
	debouncer *watcher.Debouncer
	loopDone  chan struct{}
	cancel    context.CancelFunc

	disposed atomic.Bool
	once     sync.Once
}

// Watch starts a session for opts. The empty mode means file system events.
func (c *Coordinator) Watch(ctx context.Context, opts domain.BuildOptions, mode domain.WatchMode) (*Handle, error) {
	mode, err := mode.Normalize()
	if err != nil {
		return nil, err
	}
	if mode == domain.WatchPolling {
		return c.watchPolling(ctx, opts)
	}
	return c.watchEvents(ctx, opts)
}

func (c *Coordinator) watchPolling(ctx context.Context, opts domain.BuildOptions) (*Handle, error) {
	buildCtx, err := c.bundler.NewContext(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := buildCtx.Watch(); err != nil {
		buildCtx.Dispose()
		return nil, zerr.Wrap(err, "failed to start bundler watch")
	}
	return &Handle{buildCtx: buildCtx}, nil
}

func (c *Coordinator) watchEvents(ctx context.Context, opts domain.BuildOptions) (*Handle, error) {
	root := opts.SourceRoot
	if root == "" {
		return nil, domain.ErrNoSourceRootForWatch
	}

	buildCtx, err := c.bundler.NewContext(ctx, opts)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h := &Handle{buildCtx: buildCtx, cancel: cancel, loopDone: make(chan struct{})}

	fingerprints := watcher.NewFingerprints()
	fingerprints.Prime(root)
	c.rebuild(loopCtx, h)

	w, err := c.watchers.NewWatcher()
	if err != nil {
		cancel()
		buildCtx.Dispose()
		return nil, err
	}
	if err := w.Start(loopCtx, root); err != nil {
		_ = w.Stop()
		cancel()
		buildCtx.Dispose()
		return nil, err
	}
	h.watcher = w

	h.debouncer = watcher.NewDebouncer(c.window, func(paths []string) {
		if len(fingerprints.Filter(paths)) == 0 {
			return
		}
		c.rebuild(loopCtx, h)
	})

	go func() {
		defer close(h.loopDone)
		for event := range w.Events() {
			h.debouncer.Add(event.Path)
		}
	}()

	return h, nil
}

// rebuild runs one incremental build. Failures are logged and never end the session.
func (c *Coordinator) rebuild(ctx context.Context, h *Handle) {
	if h.disposed.Load() {
		return
	}
	if _, err := h.buildCtx.Rebuild(ctx); err != nil && c.logger != nil {
		c.logger.Warn("rebuild failed: " + err.Error())
	}
}

// Dispose ends the session. File system watching stops and the event loop drains before
// the bundler context is released. It is safe to call more than once.
func (h *Handle) Dispose() {
	h.once.Do(func() {
		h.disposed.Store(true)
		if h.watcher != nil {
			_ = h.watcher.Stop()
			<-h.loopDone
			h.debouncer.Stop()
		}
		if h.cancel != nil {
			h.cancel()
		}
		h.buildCtx.Dispose()
	})
}

// Serve starts the bundler's development server on the session's context.
func (h *Handle) Serve(opts ports.ServeOptions) (ports.ServeResult, error) {
	return h.buildCtx.Serve(opts)
}

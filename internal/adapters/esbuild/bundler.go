// Package esbuild runs the esbuild bundler in process.
package esbuild

import (
	"context"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Bundler = (*Bundler)(nil)

// Bundler implements ports.Bundler with the esbuild Go API.
type Bundler struct{}

// New creates a Bundler.
func New() *Bundler {
	return &Bundler{}
}

// Build runs a single build and writes its output.
func (b *Bundler) Build(ctx context.Context, opts domain.BuildOptions) (domain.BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.BuildReport{}, err
	}

	apiOpts, err := toAPIOptions(opts, toAPIPlugins(ctx, opts.Plugins))
	if err != nil {
		return domain.BuildReport{}, err
	}

	result := api.Build(apiOpts)
	report := toReport(result.Errors, result.Warnings)
	return report, reportError(report)
}

// NewContext creates an incremental build context. Nothing is built until Rebuild, Watch or Serve is called.
func (b *Bundler) NewContext(ctx context.Context, opts domain.BuildOptions) (ports.BuildContext, error) {
	apiOpts, err := toAPIOptions(opts, toAPIPlugins(ctx, opts.Plugins))
	if err != nil {
		return nil, err
	}

	bctx, ctxErr := api.Context(apiOpts)
	if ctxErr != nil {
		report := toReport(ctxErr.Errors, nil)
		if report.Failed() {
			return nil, zerr.Wrap(domain.ErrBundlerContextFailed, report.Errors[0])
		}
		return nil, domain.ErrBundlerContextFailed
	}
	return &buildContext{ctx: bctx}, nil
}

type buildContext struct {
	ctx         api.BuildContext
	disposeOnce sync.Once
}

func (c *buildContext) Rebuild(ctx context.Context) (domain.BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.BuildReport{}, err
	}
	result := c.ctx.Rebuild()
	report := toReport(result.Errors, result.Warnings)
	return report, reportError(report)
}

func (c *buildContext) Watch() error {
	if err := c.ctx.Watch(api.WatchOptions{}); err != nil {
		return zerr.Wrap(err, "failed to start bundler watch")
	}
	return nil
}

func (c *buildContext) Serve(opts ports.ServeOptions) (ports.ServeResult, error) {
	serveOpts := api.ServeOptions{
		Host:     opts.Host,
		Servedir: opts.Servedir,
	}
	setPort(&serveOpts.Port, opts.Port)

	result, err := c.ctx.Serve(serveOpts)
	if err != nil {
		return ports.ServeResult{}, zerr.With(zerr.Wrap(err, "failed to start development server"), "host", opts.Host)
	}
	return ports.ServeResult{Host: opts.Host, Port: portOf(result.Port)}, nil
}

func (c *buildContext) Dispose() {
	c.disposeOnce.Do(c.ctx.Dispose)
}

// port is the integer type esbuild uses for server ports.
type port interface {
	~int | ~uint16
}

func setPort[T port](dst *T, p int) {
	*dst = T(p) //nolint:gosec // ports are validated by the CLI
}

func portOf[T port](p T) int {
	return int(p)
}

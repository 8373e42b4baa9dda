package ports

import (
	"context"

	"go.trai.ch/tsbuild/internal/core/domain"
)

// ServeOptions configures the bundler's development server.
type ServeOptions struct {
	Host     string
	Port     int
	Servedir string
}

// ServeResult describes where the development server listens.
type ServeResult struct {
	Host string
	Port int
}

// Bundler produces artifacts from resolved build options.
//
//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks
type Bundler interface {
	// Build runs a single build.
	Build(ctx context.Context, opts domain.BuildOptions) (domain.BuildReport, error)
	// NewContext creates an incremental build context.
	NewContext(ctx context.Context, opts domain.BuildOptions) (BuildContext, error)
}

// BuildContext is an incremental bundler context.
type BuildContext interface {
	// Rebuild builds again, reusing previous work.
	Rebuild(ctx context.Context) (domain.BuildReport, error)
	// Watch starts the bundler's own polling watcher.
	Watch() error
	// Serve starts a development server that rebuilds on request.
	Serve(opts ServeOptions) (ServeResult, error)
	// Dispose releases the context. It is safe to call more than once.
	Dispose()
}

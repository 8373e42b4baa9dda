package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/tsbuild/internal/engine/process"
	"go.trai.ch/tsbuild/internal/engine/resolver"
	"go.trai.ch/tsbuild/internal/engine/serial"
	"go.trai.ch/tsbuild/internal/engine/watch"
)

// DefaultServeHost is the address the development server binds when none is given.
const DefaultServeHost = "localhost"

// WatchRequest configures a watch session.
type WatchRequest struct {
	Patch *domain.BuildPatch
	// Mode defaults to the configured watch mode.
	Mode  domain.WatchMode
	Icons *domain.IconFontConfig
	// RunAfterBuild starts JSFile after the first successful build and restarts it
	// whenever a later build changes it.
	RunAfterBuild bool
	// JSFile defaults to the package's single bin file.
	JSFile string
	Args   []string
}

// WatchSession is a running watch. Dispose releases everything it started.
type WatchSession struct {
	handle    *watch.Handle
	stopIcons func()
	invoker   *serial.Invoker

	mu   sync.Mutex
	proc *process.Managed
}

// Watch starts the icon font watcher and the rebuild loop.
func (a *App) Watch(ctx context.Context, req WatchRequest) (*WatchSession, error) {
	if err := a.BuildIconFont(ctx, req.Icons); err != nil {
		return nil, err
	}
	stopIcons, err := a.WatchIconFont(ctx, req.Icons)
	if err != nil {
		return nil, err
	}

	s := &WatchSession{stopIcons: stopIcons}
	err = a.measure(ctx, "watch", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		patch := clonePatch(req.Patch)
		if req.RunAfterBuild {
			jsFile, err := r.SingleBinPath(req.JSFile)
			if err != nil {
				return "", err
			}
			s.invoker = serial.New(func(ctx context.Context) error {
				return s.runScript(ctx, a, jsFile, req.Args)
			}).OnDeferredError(a.logger.Error)
			patch.OnBuildEnd = append(patch.OnBuildEnd, func(ctx context.Context, report domain.BuildReport) error {
				if report.Failed() {
					return nil
				}
				return s.invoker.Invoke(ctx)
			})
		}

		opts, err := r.BuildOptions(patch)
		if err != nil {
			return "", err
		}
		mode := req.Mode
		if mode == "" {
			mode = r.Defaults().Watch.Mode
		}
		s.handle, err = a.coordinator(r).Watch(ctx, opts, mode)
		if err != nil {
			return "", err
		}
		if mode == "" {
			mode = domain.WatchFSEvents
		}
		return string(mode), nil
	})
	if err != nil {
		stopIcons()
		return nil, err
	}
	return s, nil
}

// runScript starts the script on the first call and restarts it on later calls when its content changed.
func (s *WatchSession) runScript(ctx context.Context, a *App, jsFile string, args []string) error {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()

	if proc != nil {
		_, err := proc.RestartIfChanged(ctx)
		return err
	}
	proc, err := a.StartJSProcess(ctx, StartJSProcessRequest{JSFile: jsFile, Args: args})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.proc = proc
	s.mu.Unlock()
	return nil
}

// Process returns the script started by RunAfterBuild, or nil.
func (s *WatchSession) Process() *process.Managed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc
}

// Dispose stops watching, waits for a pending restart and stops the script.
func (s *WatchSession) Dispose(ctx context.Context) error {
	s.handle.Dispose()
	if s.invoker != nil {
		s.invoker.Wait()
	}
	s.stopIcons()
	if proc := s.Process(); proc != nil {
		return proc.Stop(ctx)
	}
	return nil
}

// ServeRequest configures the development server.
type ServeRequest struct {
	Patch *domain.BuildPatch
	Icons *domain.IconFontConfig
	// Host defaults to localhost.
	Host string
	// Port zero lets the bundler pick one.
	Port int
}

// Server is a running development server.
type Server struct {
	buildCtx  ports.BuildContext
	stopIcons func()
	Host      string
	Port      int
}

// URL returns the address the server listens on.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.Port)
}

// Dispose stops the server and the icon font watcher.
func (s *Server) Dispose() {
	s.buildCtx.Dispose()
	s.stopIcons()
}

// Serve builds on demand and serves the target directory.
// The icon font is regenerated while serving, as in Watch.
func (a *App) Serve(ctx context.Context, req ServeRequest) (*Server, error) {
	if err := a.BuildIconFont(ctx, req.Icons); err != nil {
		return nil, err
	}
	stopIcons, err := a.WatchIconFont(ctx, req.Icons)
	if err != nil {
		return nil, err
	}
	return a.serve(ctx, req, stopIcons)
}

// serve starts the server; stopIcons is released with it.
func (a *App) serve(ctx context.Context, req ServeRequest, stopIcons func()) (*Server, error) {
	var srv *Server
	err := a.measure(ctx, "serve", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		opts, err := r.BuildOptions(req.Patch)
		if err != nil {
			return "", err
		}
		buildCtx, err := a.bundler.NewContext(ctx, opts)
		if err != nil {
			return "", err
		}
		host := req.Host
		if host == "" {
			host = DefaultServeHost
		}
		result, err := buildCtx.Serve(ports.ServeOptions{Host: host, Port: req.Port, Servedir: r.Target()})
		if err != nil {
			buildCtx.Dispose()
			return "", err
		}
		srv = &Server{buildCtx: buildCtx, stopIcons: stopIcons, Host: host, Port: result.Port}
		return srv.URL(), nil
	})
	if err != nil {
		stopIcons()
		return nil, err
	}
	a.logger.Info("Serving at " + srv.URL())
	return srv, nil
}

func clonePatch(p *domain.BuildPatch) *domain.BuildPatch {
	if p == nil {
		return &domain.BuildPatch{}
	}
	clone := *p
	clone.OnBuildEnd = slices.Clone(p.OnBuildEnd)
	return &clone
}

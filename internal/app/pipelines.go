package app

import (
	"context"

	"go.trai.ch/tsbuild/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// BuildPipelineRequest configures the production build.
type BuildPipelineRequest struct {
	Patch *domain.BuildPatch
	Icons *domain.IconFontConfig
}

// BuildPipeline produces a publishable package in the target directory: it clears target, typechecks,
// bundles, generates declarations when package.json declares types, copies the extra files and writes
// the trimmed manifest. The stats report is logged at the end.
func (a *App) BuildPipeline(ctx context.Context, req BuildPipelineRequest) error {
	r, err := a.Resolver()
	if err != nil {
		return err
	}
	tools := domain.ShellOptions{ExitOnError: domain.Ptr(false)}

	if err := a.Clear(ctx); err != nil {
		return err
	}
	if err := a.Typecheck(ctx, tools); err != nil {
		return err
	}
	if err := a.Build(ctx, BuildRequest(req)); err != nil {
		return err
	}

	pkg, err := r.Manifest()
	if err != nil {
		return err
	}
	if pkg.Types != "" {
		if err := a.GenerateDts(ctx, GenerateDtsRequest{ShellOptions: tools}); err != nil {
			return err
		}
	}

	files := r.Defaults().Copy
	if files == nil {
		if files, err = existingFiles(domain.DefaultCopyFiles); err != nil {
			return err
		}
	}
	if len(files) > 0 {
		if err := a.CopyToTarget(ctx, files...); err != nil {
			return err
		}
	}
	if err := a.CutPackageJSON(ctx, CutPackageJSONRequest{}); err != nil {
		return err
	}

	a.logger.Info(a.PrintStats())
	return nil
}

// PublishPipeline runs the build pipeline and publishes the target directory.
func (a *App) PublishPipeline(ctx context.Context, req BuildPipelineRequest, dryRun bool) error {
	if err := a.BuildPipeline(ctx, req); err != nil {
		return err
	}
	return a.NpmPublish(ctx, dryRun, domain.ShellOptions{ExitOnError: domain.Ptr(false)})
}

// TypecheckPipeline runs the type checker alone.
func (a *App) TypecheckPipeline(ctx context.Context) error {
	return a.Typecheck(ctx, domain.ShellOptions{ExitOnError: domain.Ptr(false)})
}

// WatchPipelineRequest configures a development session. Serve is optional.
type WatchPipelineRequest struct {
	Watch WatchRequest
	Serve *ServeRequest
}

// WatchPipeline watches and optionally serves until ctx is done, then releases both.
func (a *App) WatchPipeline(ctx context.Context, req WatchPipelineRequest) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		session, err := a.Watch(ctx, req.Watch)
		if err != nil {
			return err
		}
		<-ctx.Done()
		return session.Dispose(context.WithoutCancel(ctx))
	})

	if req.Serve != nil {
		g.Go(func() error {
			// The watch session already keeps the icon font current.
			srv, err := a.serve(ctx, *req.Serve, func() {})
			if err != nil {
				return err
			}
			<-ctx.Done()
			srv.Dispose()
			return nil
		})
	}

	return g.Wait()
}

// ServePipeline serves until ctx is done.
func (a *App) ServePipeline(ctx context.Context, req ServeRequest) error {
	srv, err := a.Serve(ctx, req)
	if err != nil {
		return err
	}
	<-ctx.Done()
	srv.Dispose()
	return nil
}

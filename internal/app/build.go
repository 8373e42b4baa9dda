package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/tsbuild/internal/adapters/fs"
	"go.trai.ch/tsbuild/internal/adapters/manifest"
	"go.trai.ch/tsbuild/internal/adapters/watcher"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// BuildRequest configures a one-shot build.
type BuildRequest struct {
	// Patch is applied over the project's build options.
	Patch *domain.BuildPatch
	// Icons overrides the configured icon font fields.
	Icons *domain.IconFontConfig
}

// Build generates the icon font when one is configured, then bundles the sources.
func (a *App) Build(ctx context.Context, req BuildRequest) error {
	if err := a.BuildIconFont(ctx, req.Icons); err != nil {
		return err
	}
	return a.measure(ctx, "build", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		opts, err := r.BuildOptions(req.Patch)
		if err != nil {
			return "", err
		}
		if _, err := a.bundler.Build(ctx, opts); err != nil {
			return "", err
		}
		return mainSize(r), nil
	})
}

// mainSize returns the size of the package's main file inside target, or empty when there is none.
func mainSize(r *resolver.Resolver) string {
	pkg, err := r.Manifest()
	if err != nil || pkg.Main == "" {
		return ""
	}
	size, err := fs.FileSize(filepath.Join(r.Target(), pkg.Main))
	if err != nil {
		return ""
	}
	return size
}

// BuildIconFont generates the icon font. It does nothing when no font is configured.
func (a *App) BuildIconFont(ctx context.Context, override *domain.IconFontConfig) error {
	r, err := a.Resolver()
	if err != nil {
		return err
	}
	cfg := r.IconArgs(override)
	if cfg == nil {
		return nil
	}
	return a.stats.Measure(ctx, "icons", func(ctx context.Context) (string, error) {
		return "", a.icons.Generate(ctx, *cfg)
	})
}

// WatchIconFont regenerates the icon font whenever its SVG directory changes. Failures are logged.
// The returned function stops watching. It is a no-op when no font is configured.
func (a *App) WatchIconFont(ctx context.Context, override *domain.IconFontConfig) (func(), error) {
	r, err := a.Resolver()
	if err != nil {
		return nil, err
	}
	cfg := r.IconArgs(override)
	if cfg == nil {
		return func() {}, nil
	}
	if cfg.SVGDir == "" {
		return nil, domain.ErrNoSVGDir
	}

	w, err := a.watchers.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx, cfg.SVGDir); err != nil {
		_ = w.Stop()
		return nil, err
	}

	genCtx := context.WithoutCancel(ctx)
	debouncer := watcher.NewDebouncer(debounceWindow(r), func([]string) {
		if err := a.icons.Generate(genCtx, *cfg); err != nil {
			a.logger.Error(err)
		}
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	return func() {
		_ = w.Stop()
		<-done
		debouncer.Stop()
	}, nil
}

func debounceWindow(r *resolver.Resolver) time.Duration {
	if d := r.Defaults().Watch.Debounce; d > 0 {
		return d
	}
	return watcher.DefaultDebounceWindow
}

// Clear removes the target directory.
func (a *App) Clear(ctx context.Context) error {
	return a.measure(ctx, "clear", func(_ context.Context, r *resolver.Resolver) (string, error) {
		return "", fs.Clear(r.Target())
	})
}

// CopyToTarget copies files into the target directory in parallel.
func (a *App) CopyToTarget(ctx context.Context, files ...string) error {
	return a.measure(ctx, "copy to target", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		sizes, err := fs.CopyToTarget(ctx, r.Target(), files...)
		if err != nil {
			return "", err
		}
		formatted := make([]string, len(sizes))
		for i, size := range sizes {
			formatted[i] = fs.FormatSize(size)
		}
		return strings.Join(formatted, " + "), nil
	})
}

// CutPackageJSONRequest selects the manifest keys to remove.
type CutPackageJSONRequest struct {
	// Keys defaults to the configured cut-list, then to scripts and devDependencies.
	Keys []string
}

// CutPackageJSON writes the trimmed manifest to the target directory.
func (a *App) CutPackageJSON(ctx context.Context, req CutPackageJSONRequest) error {
	return a.measure(ctx, "cut package.json", func(_ context.Context, r *resolver.Resolver) (string, error) {
		keys := req.Keys
		if keys == nil {
			keys = r.Defaults().Cut
		}
		if keys == nil {
			keys = domain.DefaultCutKeys
		}
		out := filepath.Join(r.Target(), domain.TargetManifestName)
		if err := os.MkdirAll(r.Target(), domain.DirPerm); err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to create target directory"), "path", r.Target())
		}
		if err := manifest.TrimFile(r.Defaults().PackageJSON, out, keys); err != nil {
			return "", err
		}
		return fs.FileSize(out)
	})
}

// AddNodeShebang prepends the node shebang to files, defaulting to the package's bin files.
func (a *App) AddNodeShebang(ctx context.Context, files ...string) error {
	return a.measure(ctx, "add node shebang", func(_ context.Context, r *resolver.Resolver) (string, error) {
		if len(files) == 0 {
			bins, err := r.BinPaths()
			if err != nil {
				return "", err
			}
			files = bins
		}
		return "", fs.AddNodeShebang(files...)
	})
}

// Symlink links to at from. to defaults to the target directory entry with from's base name.
func (a *App) Symlink(from, to string) error {
	if to == "" {
		r, err := a.Resolver()
		if err != nil {
			return err
		}
		to = filepath.Join(r.Target(), filepath.Base(from))
	}
	return fs.Symlink(from, to)
}

// IsFileExists reports whether path is a regular file.
func (a *App) IsFileExists(path string) (bool, error) {
	return fs.IsFileExists(path)
}

// IsDirectoryExists reports whether path is a directory.
func (a *App) IsDirectoryExists(path string) (bool, error) {
	return fs.IsDirectoryExists(path)
}

// IsSymlinkExists reports whether path is a symbolic link.
func (a *App) IsSymlinkExists(path string) (bool, error) {
	return fs.IsSymlinkExists(path)
}

// existingFiles keeps the files that exist as regular files.
func existingFiles(files []string) ([]string, error) {
	var result []string
	for _, f := range files {
		ok, err := fs.IsFileExists(f)
		if err != nil && !errors.Is(err, domain.ErrUnexpectedFileKind) {
			return nil, err
		}
		if ok {
			result = append(result, f)
		}
	}
	return result, nil
}

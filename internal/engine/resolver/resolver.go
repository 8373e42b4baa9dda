// Package resolver derives effective paths and build options from project defaults,
// package.json and tsconfig.json.
package resolver

import (
	"errors"
	"path/filepath"
	"strconv"
	"sync"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver answers configuration questions with precedence override > defaults > project files.
// Project files are read lazily, at most once each.
type Resolver struct {
	defaults domain.Defaults
	builtins *domain.BuildPatch
	project  ports.ProjectReader

	manifestOnce sync.Once
	manifest     *domain.PackageManifest
	manifestErr  error

	tsconfigOnce sync.Once
	tsconfig     *domain.TSConfig
	tsconfigErr  error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBuiltins layers p over the built-in build options, below the project defaults.
func WithBuiltins(p *domain.BuildPatch) Option {
	return func(r *Resolver) {
		r.builtins = p
	}
}

// New creates a Resolver. Empty target, tsconfig and package.json paths fall back to the working directory layout.
func New(defaults *domain.Defaults, project ports.ProjectReader, opts ...Option) *Resolver {
	r := &Resolver{project: project}
	if defaults != nil {
		r.defaults = *defaults
	}
	if r.defaults.Target == "" {
		r.defaults.Target = domain.DefaultTargetDir
	}
	if r.defaults.TSConfig == "" {
		r.defaults.TSConfig = domain.DefaultTSConfig
	}
	if r.defaults.PackageJSON == "" {
		r.defaults.PackageJSON = domain.DefaultPackageJSON
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Defaults returns the defaults the resolver was created with.
func (r *Resolver) Defaults() domain.Defaults {
	return r.defaults
}

// Target returns the artifact directory.
func (r *Resolver) Target() string {
	return r.defaults.Target
}

// TSConfigPath returns the path of tsconfig.json.
func (r *Resolver) TSConfigPath() string {
	return r.defaults.TSConfig
}

// TestJSPath returns the bundled test file.
func (r *Resolver) TestJSPath() string {
	if r.defaults.TestJS != "" {
		return r.defaults.TestJS
	}
	return domain.DefaultTestJSPath(r.defaults.Target)
}

// Manifest returns the parsed package.json.
func (r *Resolver) Manifest() (*domain.PackageManifest, error) {
	r.manifestOnce.Do(func() {
		r.manifest, r.manifestErr = r.project.ReadManifest(r.defaults.PackageJSON)
	})
	return r.manifest, r.manifestErr
}

// TSConfig returns the parsed tsconfig.json.
func (r *Resolver) TSConfig() (*domain.TSConfig, error) {
	r.tsconfigOnce.Do(func() {
		r.tsconfig, r.tsconfigErr = r.project.ReadTSConfig(r.defaults.TSConfig)
	})
	return r.tsconfig, r.tsconfigErr
}

// SourcesRoot returns the root directory of the sources.
func (r *Resolver) SourcesRoot(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if r.defaults.Sources != "" {
		return r.defaults.Sources, nil
	}
	tsconfig, err := r.TSConfig()
	if err != nil {
		return "", err
	}
	if rootDir := tsconfig.CompilerOptions.RootDir; rootDir != "" {
		if filepath.IsAbs(rootDir) {
			return rootDir, nil
		}
		return filepath.Join(filepath.Dir(r.defaults.TSConfig), rootDir), nil
	}
	return "", domain.ErrNoSourcesRoot
}

// GeneratedSourcesRoot returns the directory for generated sources.
func (r *Resolver) GeneratedSourcesRoot(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if r.defaults.GeneratedSources != "" {
		return r.defaults.GeneratedSources, nil
	}
	sources, err := r.SourcesRoot("")
	if err != nil {
		return "", err
	}
	return domain.DefaultGeneratedSourcesRoot(sources), nil
}

// TestEntrypoint returns the generated module that imports every test.
func (r *Resolver) TestEntrypoint(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if r.defaults.TestEntrypoint != "" {
		return r.defaults.TestEntrypoint, nil
	}
	generated, err := r.GeneratedSourcesRoot("")
	if err != nil {
		return "", err
	}
	return domain.DefaultTestEntrypoint(generated), nil
}

// DtsPath returns the output path of the bundled declarations.
func (r *Resolver) DtsPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if r.defaults.DtsPath != "" {
		return r.defaults.DtsPath, nil
	}
	manifest, err := r.Manifest()
	if err != nil {
		return "", err
	}
	if manifest.Types == "" {
		return "", domain.ErrNoDtsPath
	}
	return filepath.Join(r.defaults.Target, manifest.Types), nil
}

// BinPaths returns every runnable file declared in package.json, inside target.
func (r *Resolver) BinPaths() ([]string, error) {
	manifest, err := r.Manifest()
	if err != nil {
		return nil, err
	}
	paths := manifest.Bin.Paths()
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			paths[i] = filepath.Join(r.defaults.Target, p)
		}
	}
	return paths, nil
}

// SingleBinPath returns override, or the only runnable file declared in package.json.
func (r *Resolver) SingleBinPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	bins, err := r.BinPaths()
	if err != nil {
		return "", err
	}
	switch len(bins) {
	case 0:
		return "", domain.ErrNoBinary
	case 1:
		return bins[0], nil
	}
	msg := strconv.Itoa(len(bins)) + " runnable JS files are defined in package.json; " +
		"not sure which one to run. Please pass jsFile explicitly."
	return "", zerr.With(zerr.Wrap(domain.ErrAmbiguousBinary, msg), "count", len(bins))
}

// PackageNameWithoutNamespace returns the package name without its @scope/ prefix.
func (r *Resolver) PackageNameWithoutNamespace() (string, error) {
	manifest, err := r.Manifest()
	if err != nil {
		return "", err
	}
	return manifest.NameWithoutNamespace(), nil
}

// SystemdConfigPath returns the path of the generated unit file.
func (r *Resolver) SystemdConfigPath() (string, error) {
	if r.defaults.SystemdConfigPath != "" {
		return r.defaults.SystemdConfigPath, nil
	}
	name, err := r.PackageNameWithoutNamespace()
	if err != nil {
		return "", err
	}
	return domain.DefaultSystemdConfigPath(r.defaults.Target, name), nil
}

// IconArgs merges override over the configured icon font. It returns nil when neither is set.
func (r *Resolver) IconArgs(override *domain.IconFontConfig) *domain.IconFontConfig {
	return r.defaults.Icons.Merge(override)
}

// sourcesRootIfKnown returns the sources root, or empty when it cannot be derived.
func (r *Resolver) sourcesRootIfKnown() (string, error) {
	root, err := r.SourcesRoot("")
	if errors.Is(err, domain.ErrNoSourcesRoot) {
		return "", nil
	}
	return root, err
}

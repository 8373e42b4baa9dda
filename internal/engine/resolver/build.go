package resolver

import (
	"path/filepath"
	"slices"

	"go.trai.ch/tsbuild/internal/core/domain"
)

// BuildOptions computes fresh options from the built-ins, the project defaults and patch, in that order.
//
// A single TypeScript entry point from the lower layers is renamed after package.json's main.
// Entry points passed in patch are used as given.
func (r *Resolver) BuildOptions(patch *domain.BuildPatch) (domain.BuildOptions, error) {
	if err := r.defaults.Build.Validate(); err != nil {
		return domain.BuildOptions{}, err
	}
	if err := patch.Validate(); err != nil {
		return domain.BuildOptions{}, err
	}

	manifest, err := r.Manifest()
	if err != nil {
		return domain.BuildOptions{}, err
	}
	sourceRoot, err := r.sourcesRootIfKnown()
	if err != nil {
		return domain.BuildOptions{}, err
	}

	format := domain.FormatCJS
	if manifest.IsModule() {
		format = domain.FormatESM
	}
	opts := domain.BuildOptions{
		Bundle:     true,
		Format:     format,
		Platform:   domain.PlatformNeutral,
		Packages:   domain.PackagesExternal,
		Outdir:     r.defaults.Target,
		SourceRoot: sourceRoot,
	}
	opts = r.builtins.Apply(opts)
	opts = r.defaults.Build.Apply(opts)
	opts.EntryPoints = renameSingleEntryPoint(opts.EntryPoints, manifest.Main)
	opts = patch.Apply(opts)

	if slices.ContainsFunc(opts.EntryPoints, domain.EntryPoint.IsHTML) {
		opts.Plugins = opts.Plugins.With(domain.Plugin{Name: domain.PluginHTML})
	}

	var hooks []domain.BuildEndHook
	if patch != nil {
		hooks = append(hooks, patch.OnBuildEnd...)
	}
	if r.defaults.Build != nil {
		hooks = append(hooks, r.defaults.Build.OnBuildEnd...)
	}
	if r.builtins != nil {
		hooks = append(hooks, r.builtins.OnBuildEnd...)
	}
	if len(hooks) > 0 {
		opts.Plugins = opts.Plugins.With(domain.Plugin{Name: domain.PluginEventHandlers, Hooks: hooks})
	}

	return opts, nil
}

func renameSingleEntryPoint(entries []domain.EntryPoint, main string) []domain.EntryPoint {
	if len(entries) != 1 || main == "" {
		return entries
	}
	entry := entries[0]
	if entry.Out != "" || !entry.IsTypeScript() {
		return entries
	}
	// out is relative to outdir
	entry.Out = filepath.ToSlash(filepath.Clean(domain.StripExt(main)))
	return []domain.EntryPoint{entry}
}

// SingleTypescriptEntrypoint returns override, or the only TypeScript entry point of the default build options.
func (r *Resolver) SingleTypescriptEntrypoint(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	opts, err := r.BuildOptions(nil)
	if err != nil {
		return "", err
	}
	entries := opts.TypeScriptEntryPoints()
	switch len(entries) {
	case 0:
		return "", domain.ErrNoTypescriptEntrypoint
	case 1:
		return entries[0].In, nil
	}
	return "", domain.ErrAmbiguousTypescriptEntrypoint
}

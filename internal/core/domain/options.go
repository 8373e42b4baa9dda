package domain

import (
	"context"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Format is the module format of bundled output.
type Format string

const (
	// FormatESM emits ECMAScript modules.
	FormatESM Format = "esm"
	// FormatCJS emits CommonJS modules.
	FormatCJS Format = "cjs"
	// FormatIIFE emits an immediately-invoked function expression.
	FormatIIFE Format = "iife"
)

// Platform is the runtime the bundle targets.
type Platform string

const (
	// PlatformNeutral makes no assumptions about the runtime.
	PlatformNeutral Platform = "neutral"
	// PlatformNode targets Node.js.
	PlatformNode Platform = "node"
	// PlatformBrowser targets browsers.
	PlatformBrowser Platform = "browser"
)

// PackagesPolicy controls whether dependencies from node_modules are bundled.
type PackagesPolicy string

const (
	// PackagesExternal leaves package imports unbundled.
	PackagesExternal PackagesPolicy = "external"
	// PackagesBundle inlines package imports into the bundle.
	PackagesBundle PackagesPolicy = "bundle"
)

// WatchMode selects how the watch coordinator detects source changes.
type WatchMode string

const (
	// WatchFSEvents uses operating system file notifications. It is the default.
	WatchFSEvents WatchMode = "fs-events"
	// WatchPolling delegates to the bundler's built-in polling watcher.
	WatchPolling WatchMode = "polling"
)

// Validate checks that f is a known format.
func (f Format) Validate() error {
	switch f {
	case FormatESM, FormatCJS, FormatIIFE:
		return nil
	}
	return zerr.With(zerr.Wrap(ErrInvalidFormat, "unknown format"), "format", string(f))
}

// Validate checks that p is a known platform.
func (p Platform) Validate() error {
	switch p {
	case PlatformNeutral, PlatformNode, PlatformBrowser:
		return nil
	}
	return zerr.With(zerr.Wrap(ErrInvalidPlatform, "unknown platform"), "platform", string(p))
}

// Validate checks that p is a known packages policy.
func (p PackagesPolicy) Validate() error {
	switch p {
	case PackagesExternal, PackagesBundle:
		return nil
	}
	return zerr.With(zerr.Wrap(ErrInvalidPackagesPolicy, "unknown packages policy"), "packages", string(p))
}

// Normalize returns the effective watch mode, mapping the empty mode to WatchFSEvents.
func (m WatchMode) Normalize() (WatchMode, error) {
	switch m {
	case "", WatchFSEvents:
		return WatchFSEvents, nil
	case WatchPolling:
		return WatchPolling, nil
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidWatchMode, "unknown watch mode"), "mode", string(m))
}

// EntryPoint maps a source file to an optional output name relative to the output directory.
type EntryPoint struct {
	In  string
	Out string
}

var (
	typescriptSuffix = regexp.MustCompile(`(?i)\.tsx?$`)
	htmlSuffix       = regexp.MustCompile(`(?i)\.html?$`)
)

// IsTypeScript reports whether the entry point's source is a TypeScript file.
func (e EntryPoint) IsTypeScript() bool {
	return typescriptSuffix.MatchString(e.In)
}

// IsHTML reports whether the entry point's source is an HTML file.
func (e EntryPoint) IsHTML() bool {
	return htmlSuffix.MatchString(e.In)
}

// EntryPointsFromPaths converts plain source paths into entry points without output names.
func EntryPointsFromPaths(paths ...string) []EntryPoint {
	result := make([]EntryPoint, 0, len(paths))
	for _, p := range paths {
		result = append(result, EntryPoint{In: p})
	}
	return result
}

// StripExt returns path without its final extension.
func StripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// BuildEndHook runs after each bundler build completes.
type BuildEndHook func(ctx context.Context, result BuildReport) error

// BuildReport summarizes a finished bundler run.
type BuildReport struct {
	Errors   []string
	Warnings []string
}

// Failed reports whether the build produced errors.
func (r BuildReport) Failed() bool {
	return len(r.Errors) > 0
}

// Plugin is a named bundler extension. Its behavior is provided by the bundler adapter.
type Plugin struct {
	Name string
	// Hooks are invoked on build end. Only meaningful for the event handler plugin.
	Hooks []BuildEndHook
}

// Well-known plugin names understood by the bundler adapter.
const (
	// PluginHTML loads .html entry points by copying them to the output directory.
	PluginHTML = "html"
	// PluginEventHandlers invokes build-end hooks.
	PluginEventHandlers = "tsbuild-event-handlers"
)

// PluginSet is an ordered set of plugins keyed by name. Inserting an existing name is a no-op.
type PluginSet struct {
	order  []string
	byName map[string]Plugin
}

// NewPluginSet returns a set containing plugins, keeping the first plugin seen per name.
func NewPluginSet(plugins ...Plugin) PluginSet {
	var s PluginSet
	for _, p := range plugins {
		s = s.With(p)
	}
	return s
}

// With returns a copy of the set including p. If a plugin with the same name exists, the set is returned unchanged.
func (s PluginSet) With(p Plugin) PluginSet {
	if s.Has(p.Name) {
		return s
	}
	next := PluginSet{
		order:  append(slices.Clone(s.order), p.Name),
		byName: maps.Clone(s.byName),
	}
	if next.byName == nil {
		next.byName = make(map[string]Plugin)
	}
	next.byName[p.Name] = p
	return next
}

// Has reports whether a plugin named name is in the set.
func (s PluginSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Len returns the number of plugins.
func (s PluginSet) Len() int {
	return len(s.order)
}

// List returns the plugins in insertion order.
func (s PluginSet) List() []Plugin {
	result := make([]Plugin, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.byName[name])
	}
	return result
}

// BuildOptions is the fully resolved bundler configuration for one invocation.
type BuildOptions struct {
	EntryPoints []EntryPoint
	Outdir      string
	Outfile     string
	Format      Format
	Platform    Platform
	Packages    PackagesPolicy
	Bundle      bool
	Minify      bool
	Sourcemap   bool
	External    []string
	Define      map[string]string
	Loader      map[string]string
	SourceRoot  string
	Plugins     PluginSet
}

// TypeScriptEntryPoints returns the entry points with a .ts or .tsx source.
func (o BuildOptions) TypeScriptEntryPoints() []EntryPoint {
	var result []EntryPoint
	for _, e := range o.EntryPoints {
		if e.IsTypeScript() {
			result = append(result, e)
		}
	}
	return result
}

// BuildPatch is one layer of build configuration. Nil fields leave lower layers untouched.
type BuildPatch struct {
	EntryPoints []EntryPoint
	Outdir      *string
	Outfile     *string
	Format      *Format
	Platform    *Platform
	Packages    *PackagesPolicy
	Bundle      *bool
	Minify      *bool
	Sourcemap   *bool
	External    []string
	Define      map[string]string
	Loader      map[string]string
	SourceRoot  *string
	Plugins     []Plugin
	OnBuildEnd  []BuildEndHook
}

// Apply returns o with every field set in p overriding the corresponding field.
// Plugins from p are added after the existing ones.
func (p *BuildPatch) Apply(o BuildOptions) BuildOptions {
	if p == nil {
		return o
	}
	if p.EntryPoints != nil {
		o.EntryPoints = slices.Clone(p.EntryPoints)
	}
	setIf(&o.Outdir, p.Outdir)
	setIf(&o.Outfile, p.Outfile)
	setIf(&o.Format, p.Format)
	setIf(&o.Platform, p.Platform)
	setIf(&o.Packages, p.Packages)
	setIf(&o.Bundle, p.Bundle)
	setIf(&o.Minify, p.Minify)
	setIf(&o.Sourcemap, p.Sourcemap)
	setIf(&o.SourceRoot, p.SourceRoot)
	if p.External != nil {
		o.External = slices.Clone(p.External)
	}
	if p.Define != nil {
		o.Define = maps.Clone(p.Define)
	}
	if p.Loader != nil {
		o.Loader = maps.Clone(p.Loader)
	}
	for _, plugin := range p.Plugins {
		o.Plugins = o.Plugins.With(plugin)
	}
	return o
}

// Validate checks the enumerated fields of the patch.
func (p *BuildPatch) Validate() error {
	if p == nil {
		return nil
	}
	if p.Format != nil {
		if err := p.Format.Validate(); err != nil {
			return err
		}
	}
	if p.Platform != nil {
		if err := p.Platform.Validate(); err != nil {
			return err
		}
	}
	if p.Packages != nil {
		if err := p.Packages.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

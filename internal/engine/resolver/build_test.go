package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/engine/resolver"
)

func entryIns(entries []domain.EntryPoint) []string {
	var ins []string
	for _, e := range entries {
		ins = append(ins, e.In)
	}
	return ins
}

func TestBuildOptions_BuiltinDefaults(t *testing.T) {
	r := newFixture(t).withManifest(&domain.PackageManifest{Type: "module"}).withTSConfig("src").resolver()

	opts, err := r.BuildOptions(nil)
	require.NoError(t, err)
	assert.True(t, opts.Bundle)
	assert.Equal(t, domain.FormatESM, opts.Format)
	assert.Equal(t, domain.PlatformNeutral, opts.Platform)
	assert.Equal(t, domain.PackagesExternal, opts.Packages)
	assert.Equal(t, target, opts.Outdir)
	assert.Equal(t, "/project/src", opts.SourceRoot)
	assert.Zero(t, opts.Plugins.Len())
}

func TestBuildOptions_CommonJSWithoutSourcesRoot(t *testing.T) {
	r := newFixture(t).withManifest(&domain.PackageManifest{}).withTSConfig("").resolver()

	opts, err := r.BuildOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCJS, opts.Format)
	assert.Empty(t, opts.SourceRoot)
}

func TestBuildOptions_LayerPrecedence(t *testing.T) {
	f := newFixture(t).withManifest(&domain.PackageManifest{}).withTSConfig("src")
	f.defaults.Build = &domain.BuildPatch{
		EntryPoints: domain.EntryPointsFromPaths("b.ts"),
		Platform:    domain.Ptr(domain.PlatformNode),
		Minify:      domain.Ptr(true),
	}
	r := f.resolver(resolver.WithBuiltins(&domain.BuildPatch{
		EntryPoints: domain.EntryPointsFromPaths("a.ts"),
		Platform:    domain.Ptr(domain.PlatformBrowser),
	}))

	opts, err := r.BuildOptions(&domain.BuildPatch{EntryPoints: domain.EntryPointsFromPaths("c.ts")})
	require.NoError(t, err)
	assert.Equal(t, []string{"c.ts"}, entryIns(opts.EntryPoints))
	assert.Equal(t, domain.PlatformNode, opts.Platform)
	assert.True(t, opts.Minify)

	opts, err = r.BuildOptions(&domain.BuildPatch{Minify: domain.Ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.ts"}, entryIns(opts.EntryPoints))
	assert.False(t, opts.Minify)
}

func TestBuildOptions_SingleEntryRenamedAfterMain(t *testing.T) {
	f := newFixture(t).withManifest(&domain.PackageManifest{Main: "dist/index.js"}).withTSConfig("src")
	f.defaults.Build = &domain.BuildPatch{EntryPoints: domain.EntryPointsFromPaths("src/main.ts")}
	r := f.resolver()

	opts, err := r.BuildOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.EntryPoint{{In: "src/main.ts", Out: "dist/index"}}, opts.EntryPoints)

	opts, err = r.BuildOptions(&domain.BuildPatch{EntryPoints: domain.EntryPointsFromPaths("src/test.ts")})
	require.NoError(t, err)
	assert.Equal(t, []domain.EntryPoint{{In: "src/test.ts"}}, opts.EntryPoints)
}

func TestBuildOptions_NoRenameCases(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.EntryPoint
		main    string
	}{
		{name: "no main", entries: domain.EntryPointsFromPaths("src/main.ts")},
		{name: "explicit out", entries: []domain.EntryPoint{{In: "src/main.ts", Out: "app"}}, main: "index.js"},
		{name: "javascript", entries: domain.EntryPointsFromPaths("src/main.js"), main: "index.js"},
		{name: "several", entries: domain.EntryPointsFromPaths("a.ts", "b.ts"), main: "index.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t).withManifest(&domain.PackageManifest{Main: tt.main}).withTSConfig("src")
			f.defaults.Build = &domain.BuildPatch{EntryPoints: tt.entries}

			opts, err := f.resolver().BuildOptions(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.entries, opts.EntryPoints)
		})
	}
}

func TestBuildOptions_HTMLPluginOnce(t *testing.T) {
	f := newFixture(t).withManifest(&domain.PackageManifest{}).withTSConfig("src")
	f.defaults.Build = &domain.BuildPatch{
		EntryPoints: domain.EntryPointsFromPaths("index.html", "about.HTML"),
		Plugins:     []domain.Plugin{{Name: domain.PluginHTML}},
	}

	opts, err := f.resolver().BuildOptions(nil)
	require.NoError(t, err)
	require.Equal(t, 1, opts.Plugins.Len())
	assert.Equal(t, domain.PluginHTML, opts.Plugins.List()[0].Name)
}

func TestBuildOptions_HooksOverrideFirst(t *testing.T) {
	var calls []string
	hook := func(name string) domain.BuildEndHook {
		return func(context.Context, domain.BuildReport) error {
			calls = append(calls, name)
			return nil
		}
	}

	f := newFixture(t).withManifest(&domain.PackageManifest{}).withTSConfig("src")
	f.defaults.Build = &domain.BuildPatch{OnBuildEnd: []domain.BuildEndHook{hook("default")}}

	opts, err := f.resolver().BuildOptions(&domain.BuildPatch{OnBuildEnd: []domain.BuildEndHook{hook("override")}})
	require.NoError(t, err)
	require.True(t, opts.Plugins.Has(domain.PluginEventHandlers))

	for _, p := range opts.Plugins.List() {
		for _, h := range p.Hooks {
			require.NoError(t, h(context.Background(), domain.BuildReport{}))
		}
	}
	assert.Equal(t, []string{"override", "default"}, calls)
}

func TestBuildOptions_InvalidPatch(t *testing.T) {
	r := newFixture(t).resolver()
	_, err := r.BuildOptions(&domain.BuildPatch{Format: domain.Ptr(domain.Format("umd"))})
	require.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestSingleTypescriptEntrypoint(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.EntryPoint
		want    string
		wantErr error
	}{
		{name: "one", entries: domain.EntryPointsFromPaths("src/main.ts", "index.html"), want: "src/main.ts"},
		{name: "none", entries: domain.EntryPointsFromPaths("index.html"), wantErr: domain.ErrNoTypescriptEntrypoint},
		{name: "several", entries: domain.EntryPointsFromPaths("a.ts", "b.tsx"), wantErr: domain.ErrAmbiguousTypescriptEntrypoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t).withManifest(&domain.PackageManifest{}).withTSConfig("src")
			f.defaults.Build = &domain.BuildPatch{EntryPoints: tt.entries}

			got, err := f.resolver().SingleTypescriptEntrypoint("")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package esbuild

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/core/domain"
)

func TestToAPIOptions(t *testing.T) {
	opts, err := toAPIOptions(domain.BuildOptions{
		EntryPoints: []domain.EntryPoint{{In: "src/main.ts", Out: "dist/index"}, {In: "src/worker.ts"}},
		Outdir:      "target",
		Format:      domain.FormatESM,
		Platform:    domain.PlatformBrowser,
		Packages:    domain.PackagesBundle,
		Bundle:      true,
		Minify:      true,
		Sourcemap:   true,
		External:    []string{"fsevents"},
		Define:      map[string]string{"DEBUG": "false"},
		Loader:      map[string]string{".svg": "text"},
		SourceRoot:  "src",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []api.EntryPoint{
		{InputPath: "src/main.ts", OutputPath: "dist/index"},
		{InputPath: "src/worker.ts"},
	}, opts.EntryPointsAdvanced)
	assert.Equal(t, "target", opts.Outdir)
	assert.Equal(t, api.FormatESModule, opts.Format)
	assert.Equal(t, api.PlatformBrowser, opts.Platform)
	assert.Equal(t, api.PackagesBundle, opts.Packages)
	assert.True(t, opts.Bundle)
	assert.True(t, opts.MinifyWhitespace)
	assert.True(t, opts.MinifyIdentifiers)
	assert.True(t, opts.MinifySyntax)
	assert.Equal(t, api.SourceMapLinked, opts.Sourcemap)
	assert.Equal(t, []string{"fsevents"}, opts.External)
	assert.Equal(t, map[string]string{"DEBUG": "false"}, opts.Define)
	assert.Equal(t, map[string]api.Loader{".svg": api.LoaderText}, opts.Loader)
	assert.Equal(t, "src", opts.SourceRoot)
	assert.True(t, opts.Write)
}

func TestToAPIOptions_EmptyEnumsUseBundlerDefaults(t *testing.T) {
	opts, err := toAPIOptions(domain.BuildOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, api.FormatDefault, opts.Format)
	assert.Equal(t, api.PlatformDefault, opts.Platform)
	assert.Equal(t, api.PackagesDefault, opts.Packages)
}

func TestToAPIOptions_InvalidEnums(t *testing.T) {
	_, err := toAPIOptions(domain.BuildOptions{Platform: "deno"}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidPlatform)

	_, err = toAPIOptions(domain.BuildOptions{Packages: "vendor"}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidPackagesPolicy)
}

func TestToAPIPlugins_SkipsUnknown(t *testing.T) {
	set := domain.NewPluginSet(
		domain.Plugin{Name: "custom"},
		domain.Plugin{Name: domain.PluginHTML},
		domain.Plugin{Name: domain.PluginEventHandlers},
	)
	plugins := toAPIPlugins(t.Context(), set)
	require.Len(t, plugins, 2)
	assert.Equal(t, domain.PluginHTML, plugins[0].Name)
	assert.Equal(t, domain.PluginEventHandlers, plugins[1].Name)
}

func TestMessageTexts(t *testing.T) {
	texts := messageTexts([]api.Message{
		{Text: "plain"},
		{Text: "located", Location: &api.Location{File: "src/main.ts"}},
	})
	assert.Equal(t, []string{"plain", "src/main.ts: located"}, texts)
	assert.Nil(t, messageTexts(nil))
}

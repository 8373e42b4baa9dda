package esbuild

import (
	"context"
	"os"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/tsbuild/internal/core/domain"
)

// htmlFilter matches the same files as domain.EntryPoint.IsHTML.
const htmlFilter = `(?i)\.html?$`

// toAPIPlugins materializes the named plugins understood by this adapter. Unknown names are skipped.
func toAPIPlugins(ctx context.Context, set domain.PluginSet) []api.Plugin {
	var plugins []api.Plugin
	for _, p := range set.List() {
		switch p.Name {
		case domain.PluginHTML:
			plugins = append(plugins, htmlPlugin())
		case domain.PluginEventHandlers:
			plugins = append(plugins, eventHandlersPlugin(ctx, p.Hooks))
		}
	}
	return plugins
}

// htmlPlugin copies HTML entry points to the output directory verbatim.
func htmlPlugin() api.Plugin {
	return api.Plugin{
		Name: domain.PluginHTML,
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: htmlFilter},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					data, err := os.ReadFile(args.Path)
					if err != nil {
						return api.OnLoadResult{}, err
					}
					contents := string(data)
					return api.OnLoadResult{
						Contents: &contents,
						Loader:   api.LoaderCopy,
					}, nil
				})
		},
	}
}

// eventHandlersPlugin runs hooks in order after every build. Hook errors are reported as build errors.
func eventHandlersPlugin(ctx context.Context, hooks []domain.BuildEndHook) api.Plugin {
	return api.Plugin{
		Name: domain.PluginEventHandlers,
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				report := toReport(result.Errors, result.Warnings)
				var out api.OnEndResult
				for _, hook := range hooks {
					if err := hook(ctx, report); err != nil {
						out.Errors = append(out.Errors, api.Message{Text: err.Error()})
					}
				}
				return out, nil
			})
		},
	}
}

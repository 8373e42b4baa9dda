package esbuild

import (
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

var formats = map[domain.Format]api.Format{
	domain.FormatESM:  api.FormatESModule,
	domain.FormatCJS:  api.FormatCommonJS,
	domain.FormatIIFE: api.FormatIIFE,
}

var platforms = map[domain.Platform]api.Platform{
	domain.PlatformNeutral: api.PlatformNeutral,
	domain.PlatformNode:    api.PlatformNode,
	domain.PlatformBrowser: api.PlatformBrowser,
}

var packagesPolicies = map[domain.PackagesPolicy]api.Packages{
	domain.PackagesExternal: api.PackagesExternal,
	domain.PackagesBundle:   api.PackagesBundle,
}

var loaders = map[string]api.Loader{
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"css":     api.LoaderCSS,
	"dataurl": api.LoaderDataURL,
	"empty":   api.LoaderEmpty,
	"file":    api.LoaderFile,
	"js":      api.LoaderJS,
	"json":    api.LoaderJSON,
	"jsx":     api.LoaderJSX,
	"text":    api.LoaderText,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
}

// toAPIOptions translates resolved build options into esbuild options.
// Enumerated fields left empty fall back to esbuild's own defaults.
func toAPIOptions(opts domain.BuildOptions, plugins []api.Plugin) (api.BuildOptions, error) {
	out := api.BuildOptions{
		Outdir:     opts.Outdir,
		Outfile:    opts.Outfile,
		Bundle:     opts.Bundle,
		External:   opts.External,
		Define:     opts.Define,
		SourceRoot: opts.SourceRoot,
		Plugins:    plugins,
		Write:      true,
		LogLevel:   api.LogLevelInfo,
	}

	for _, ep := range opts.EntryPoints {
		out.EntryPointsAdvanced = append(out.EntryPointsAdvanced, api.EntryPoint{
			InputPath:  ep.In,
			OutputPath: ep.Out,
		})
	}

	if opts.Format != "" {
		f, ok := formats[opts.Format]
		if !ok {
			return api.BuildOptions{}, opts.Format.Validate()
		}
		out.Format = f
	}
	if opts.Platform != "" {
		p, ok := platforms[opts.Platform]
		if !ok {
			return api.BuildOptions{}, opts.Platform.Validate()
		}
		out.Platform = p
	}
	if opts.Packages != "" {
		p, ok := packagesPolicies[opts.Packages]
		if !ok {
			return api.BuildOptions{}, opts.Packages.Validate()
		}
		out.Packages = p
	}

	if opts.Minify {
		out.MinifyWhitespace = true
		out.MinifyIdentifiers = true
		out.MinifySyntax = true
	}
	if opts.Sourcemap {
		out.Sourcemap = api.SourceMapLinked
	}

	if len(opts.Loader) > 0 {
		out.Loader = make(map[string]api.Loader, len(opts.Loader))
		for ext, name := range opts.Loader {
			l, ok := loaders[name]
			if !ok {
				return api.BuildOptions{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidLoader, "unknown loader"),
					"extension", ext), "loader", name)
			}
			out.Loader[ext] = l
		}
	}

	return out, nil
}

// toReport extracts message texts from an esbuild result.
func toReport(errs, warnings []api.Message) domain.BuildReport {
	return domain.BuildReport{
		Errors:   messageTexts(errs),
		Warnings: messageTexts(warnings),
	}
}

func messageTexts(msgs []api.Message) []string {
	if len(msgs) == 0 {
		return nil
	}
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Location != nil {
			texts = append(texts, m.Location.File+": "+m.Text)
			continue
		}
		texts = append(texts, m.Text)
	}
	return texts
}

func reportError(report domain.BuildReport) error {
	if !report.Failed() {
		return nil
	}
	return zerr.With(zerr.Wrap(domain.ErrBuildFailed, report.Errors[0]), "errors", len(report.Errors))
}

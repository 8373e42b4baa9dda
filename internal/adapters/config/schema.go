package config

import (
	"time"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// File represents the structure of the tsbuild.yaml configuration file.
type File struct {
	Sources           string    `yaml:"sources"`
	GeneratedSources  string    `yaml:"generatedSources"`
	TestEntrypoint    string    `yaml:"testEntrypoint"`
	Target            string    `yaml:"target"`
	TSConfig          string    `yaml:"tsconfig"`
	PackageJSON       string    `yaml:"packageJson"`
	TestJS            string    `yaml:"testJs"`
	DtsPath           string    `yaml:"dtsPath"`
	SystemdConfigPath string    `yaml:"systemdConfigPath"`
	Build             *BuildDTO `yaml:"build"`
	Icons             *IconsDTO `yaml:"icons"`
	Watch             WatchDTO  `yaml:"watch"`
	Copy              []string  `yaml:"copy"`
	Cut               []string  `yaml:"cut"`
}

// BuildDTO is the build section. Unset fields leave the built-in options untouched.
type BuildDTO struct {
	EntryPoints EntryPointList    `yaml:"entryPoints"`
	Outdir      *string           `yaml:"outdir"`
	Outfile     *string           `yaml:"outfile"`
	Format      *string           `yaml:"format"`
	Platform    *string           `yaml:"platform"`
	Packages    *string           `yaml:"packages"`
	Bundle      *bool             `yaml:"bundle"`
	Minify      *bool             `yaml:"minify"`
	Sourcemap   *bool             `yaml:"sourcemap"`
	External    []string          `yaml:"external"`
	Define      map[string]string `yaml:"define"`
	Loader      map[string]string `yaml:"loader"`
	SourceRoot  *string           `yaml:"sourceRoot"`
}

// IconsDTO is the icon font section.
type IconsDTO struct {
	SVGDir      string `yaml:"svgDir"`
	FontFile    string `yaml:"fontFile"`
	CSSFile     string `yaml:"cssFile"`
	TSFile      string `yaml:"tsFile"`
	FontName    string `yaml:"fontName"`
	ClassPrefix string `yaml:"classPrefix"`
}

// WatchDTO is the watch section.
type WatchDTO struct {
	Mode     string        `yaml:"mode"`
	Debounce time.Duration `yaml:"debounce"`
}

// EntryPointList is a sequence of entry points. Each item is a path or an {in, out} mapping.
type EntryPointList []domain.EntryPoint

// UnmarshalYAML rejects the mapping form of entryPoints.
func (l *EntryPointList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
	case yaml.MappingNode:
		return zerr.With(zerr.Wrap(domain.ErrNonArrayEntryPoints, "invalid build.entryPoints"), "line", value.Line)
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "entryPoints must be a list"), "line", value.Line)
	}

	result := make(EntryPointList, 0, len(value.Content))
	for _, item := range value.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			result = append(result, domain.EntryPoint{In: item.Value})
		case yaml.MappingNode:
			var pair struct {
				In  string `yaml:"in"`
				Out string `yaml:"out"`
			}
			if err := item.Decode(&pair); err != nil {
				return zerr.Wrap(err, "invalid entry point")
			}
			result = append(result, domain.EntryPoint{In: pair.In, Out: pair.Out})
		default:
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "entry point must be a path or {in, out}"),
				"line", item.Line)
		}
	}
	*l = result
	return nil
}

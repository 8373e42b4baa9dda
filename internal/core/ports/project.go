package ports

import "go.trai.ch/tsbuild/internal/core/domain"

// ConfigLoader loads the project configuration.
//
//go:generate mockgen -source=project.go -destination=mocks/mock_project.go -package=mocks
type ConfigLoader interface {
	// Load finds tsbuild.yaml from cwd upwards and returns its defaults.
	// Relative paths in the result are resolved against the directory containing the file.
	// Without a configuration file it returns empty defaults rooted at cwd.
	Load(cwd string) (*domain.Defaults, error)
}

// ProjectReader reads project files consumed by the resolver.
type ProjectReader interface {
	// ReadManifest parses package.json at path.
	ReadManifest(path string) (*domain.PackageManifest, error)
	// ReadTSConfig parses tsconfig.json (JSON with comments) at path.
	ReadTSConfig(path string) (*domain.TSConfig, error)
}

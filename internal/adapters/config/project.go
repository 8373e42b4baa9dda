package config

import (
	"encoding/json"

	"github.com/tailscale/hujson"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProjectReader = (*ProjectReader)(nil)

// ProjectReader reads package.json and tsconfig.json.
type ProjectReader struct {
	FS FileSystem
}

// NewProjectReader creates a ProjectReader on the OS filesystem.
func NewProjectReader() *ProjectReader {
	return &ProjectReader{FS: NewOSFS()}
}

// ReadManifest parses package.json at path.
func (r *ProjectReader) ReadManifest(path string) (*domain.PackageManifest, error) {
	data, err := r.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	var manifest domain.PackageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}
	return &manifest, nil
}

// ReadTSConfig parses tsconfig.json at path. Comments and trailing commas are allowed.
// A missing file yields an empty config, since every field is optional for tsbuild.
func (r *ProjectReader) ReadTSConfig(path string) (*domain.TSConfig, error) {
	data, err := r.FS.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return &domain.TSConfig{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTSConfigReadFailed.Error()), "path", path)
	}

	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTSConfigParseFailed.Error()), "path", path)
	}

	var cfg domain.TSConfig
	if err := json.Unmarshal(standard, &cfg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTSConfigParseFailed.Error()), "path", path)
	}
	return &cfg, nil
}

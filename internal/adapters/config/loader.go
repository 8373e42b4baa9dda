// Package config loads tsbuild.yaml and the project files it points at.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"slices"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// manifestKeysRequiredByNpm cannot be cut from a package that is published.
var manifestKeysRequiredByNpm = []string{"name", "version"}

// Load finds tsbuild.yaml from cwd upwards and converts it into defaults.
func (l *Loader) Load(cwd string) (*domain.Defaults, error) {
	configPath, found := l.findConfiguration(cwd)
	if !found {
		return withProjectDefaults(&domain.Defaults{}, cwd), nil
	}

	var file File
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	for _, key := range file.Cut {
		if slices.Contains(manifestKeysRequiredByNpm, key) {
			l.Logger.Warn("cutting '" + key + "' from package.json defined in " + domain.ConfigFileName +
				" produces a package npm refuses to publish")
		}
	}

	defaults, err := toDefaults(&file, filepath.Dir(configPath))
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return defaults, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// Unknown keys are rejected. An empty file decodes to the zero value.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *File) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "config", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, domain.ErrNonArrayEntryPoints) {
			return zerr.With(err, "config", configPath)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "config", configPath)
	}
	return nil
}

// toDefaults validates the file and resolves its relative paths against dir.
func toDefaults(file *File, dir string) (*domain.Defaults, error) {
	mode, err := domain.WatchMode(file.Watch.Mode).Normalize()
	if err != nil {
		return nil, err
	}

	d := &domain.Defaults{
		Sources:           resolvePath(dir, file.Sources),
		GeneratedSources:  resolvePath(dir, file.GeneratedSources),
		TestEntrypoint:    resolvePath(dir, file.TestEntrypoint),
		Target:            resolvePath(dir, file.Target),
		TSConfig:          resolvePath(dir, file.TSConfig),
		PackageJSON:       resolvePath(dir, file.PackageJSON),
		TestJS:            resolvePath(dir, file.TestJS),
		DtsPath:           resolvePath(dir, file.DtsPath),
		SystemdConfigPath: resolvePath(dir, file.SystemdConfigPath),
		Watch: domain.WatchDefaults{
			Mode:     mode,
			Debounce: file.Watch.Debounce,
		},
		Copy: file.Copy,
		Cut:  file.Cut,
	}

	if file.Build != nil {
		patch, err := toBuildPatch(file.Build, dir)
		if err != nil {
			return nil, err
		}
		d.Build = patch
	}

	if file.Icons != nil {
		d.Icons = &domain.IconFontConfig{
			SVGDir:      resolvePath(dir, file.Icons.SVGDir),
			FontFile:    resolvePath(dir, file.Icons.FontFile),
			CSSFile:     resolvePath(dir, file.Icons.CSSFile),
			TSFile:      resolvePath(dir, file.Icons.TSFile),
			FontName:    file.Icons.FontName,
			ClassPrefix: file.Icons.ClassPrefix,
		}
	}

	return withProjectDefaults(d, dir), nil
}

func toBuildPatch(dto *BuildDTO, dir string) (*domain.BuildPatch, error) {
	patch := &domain.BuildPatch{
		Outdir:     resolvePathPtr(dir, dto.Outdir),
		Outfile:    resolvePathPtr(dir, dto.Outfile),
		Bundle:     dto.Bundle,
		Minify:     dto.Minify,
		Sourcemap:  dto.Sourcemap,
		External:   dto.External,
		Define:     dto.Define,
		Loader:     dto.Loader,
		SourceRoot: resolvePathPtr(dir, dto.SourceRoot),
	}

	if dto.EntryPoints != nil {
		patch.EntryPoints = make([]domain.EntryPoint, 0, len(dto.EntryPoints))
		for _, ep := range dto.EntryPoints {
			patch.EntryPoints = append(patch.EntryPoints, domain.EntryPoint{
				In:  resolvePath(dir, ep.In),
				Out: ep.Out,
			})
		}
	}
	if dto.Format != nil {
		patch.Format = domain.Ptr(domain.Format(*dto.Format))
	}
	if dto.Platform != nil {
		patch.Platform = domain.Ptr(domain.Platform(*dto.Platform))
	}
	if dto.Packages != nil {
		patch.Packages = domain.Ptr(domain.PackagesPolicy(*dto.Packages))
	}

	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return patch, nil
}

// withProjectDefaults roots the project files at dir when they are not configured.
func withProjectDefaults(d *domain.Defaults, dir string) *domain.Defaults {
	if d.Target == "" {
		d.Target = resolvePath(dir, domain.DefaultTargetDir)
	}
	if d.TSConfig == "" {
		d.TSConfig = resolvePath(dir, domain.DefaultTSConfig)
	}
	if d.PackageJSON == "" {
		d.PackageJSON = resolvePath(dir, domain.DefaultPackageJSON)
	}
	return d
}

// resolvePath joins a relative configured path with dir. Empty stays empty.
func resolvePath(dir, configured string) string {
	if configured == "" {
		return ""
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(dir, configured))
}

func resolvePathPtr(dir string, configured *string) *string {
	if configured == nil {
		return nil
	}
	return domain.Ptr(resolvePath(dir, *configured))
}

// isNotExist reports whether err means the file is absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

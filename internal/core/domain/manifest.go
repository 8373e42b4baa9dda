package domain

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PackageManifest holds the package.json fields tsbuild consumes.
type PackageManifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Main    string   `json:"main"`
	Types   string   `json:"types"`
	Type    string   `json:"type"`
	Bin     BinField `json:"bin"`
	Engines struct {
		Node string `json:"node"`
	} `json:"engines"`
}

// IsModule reports whether the package declares ECMAScript modules.
func (m *PackageManifest) IsModule() bool {
	return m.Type == "module"
}

// NameWithoutNamespace strips the @scope/ prefix from the package name.
func (m *PackageManifest) NameWithoutNamespace() string {
	if !strings.HasPrefix(m.Name, "@") {
		return m.Name
	}
	if _, name, ok := strings.Cut(m.Name, "/"); ok {
		return name
	}
	return m.Name
}

// BinField is the "bin" field of package.json, which is either a path or a map of command names to paths.
type BinField struct {
	paths []string
}

// NewBinField creates a BinField from paths.
func NewBinField(paths ...string) BinField {
	return BinField{paths: slices.Clone(paths)}
}

// Paths returns the declared runnable paths. Map entries are ordered by command name.
func (b BinField) Paths() []string {
	return slices.Clone(b.paths)
}

// UnmarshalJSON accepts a string, an object of strings, or null.
func (b *BinField) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		b.paths = nil
		if single != "" {
			b.paths = []string{single}
		}
		return nil
	}

	var named map[string]string
	if err := json.Unmarshal(data, &named); err != nil {
		return zerr.Wrap(err, "bin must be a string or an object of strings")
	}
	b.paths = make([]string, 0, len(named))
	for _, key := range slices.Sorted(maps.Keys(named)) {
		b.paths = append(b.paths, named[key])
	}
	return nil
}

// TSConfig holds the tsconfig.json fields tsbuild consumes.
type TSConfig struct {
	CompilerOptions struct {
		RootDir string `json:"rootDir"`
		OutDir  string `json:"outDir"`
	} `json:"compilerOptions"`
}

package domain

import "time"

// Defaults is the per-project configuration every facade operation falls back to.
// All fields are optional.
type Defaults struct {
	// Sources is the root directory with all source files. Defaults to tsconfig's compilerOptions.rootDir.
	Sources string
	// GeneratedSources is where generated TypeScript files are placed. Defaults to <sources>/generated.
	GeneratedSources string
	// TestEntrypoint is the generated TypeScript file that imports all tests. Defaults to <generated>/test.ts.
	TestEntrypoint string
	// Target is the artifact directory. Defaults to ./target.
	Target string
	// TSConfig is the path to tsconfig.json.
	TSConfig string
	// PackageJSON is the path to package.json.
	PackageJSON string
	// TestJS is the bundled test file. Defaults to <target>/test.js.
	TestJS string
	// DtsPath is the declaration output path. Defaults to <target>/<package.types>.
	DtsPath string
	// SystemdConfigPath is the generated unit file. Defaults to <target>/<name>.service.
	SystemdConfigPath string
	// Build is applied on top of the built-in build options.
	Build *BuildPatch
	// Icons describes the icon font. When set, fonts are built on build and watched on watch.
	Icons *IconFontConfig
	// Watch configures the watch loop.
	Watch WatchDefaults
	// Copy lists files the build pipeline copies into target.
	Copy []string
	// Cut lists manifest keys removed from the published package.json.
	Cut []string
}

// WatchDefaults configures the watch loop.
type WatchDefaults struct {
	Mode     WatchMode
	Debounce time.Duration
}

// DefaultCutKeys are removed from the published manifest when no cut-list is configured.
var DefaultCutKeys = []string{"scripts", "devDependencies"}

// DefaultCopyFiles are copied into target by the build pipeline when present.
var DefaultCopyFiles = []string{"LICENSE", "README.md"}

// IconFontConfig describes the icon font generated from a directory of SVG files.
type IconFontConfig struct {
	SVGDir      string
	FontFile    string
	CSSFile     string
	TSFile      string
	FontName    string
	ClassPrefix string
}

// Merge returns c with every non-empty field of override applied. Either side may be nil.
func (c *IconFontConfig) Merge(override *IconFontConfig) *IconFontConfig {
	if c == nil && override == nil {
		return nil
	}
	var result IconFontConfig
	if c != nil {
		result = *c
	}
	if override == nil {
		return &result
	}
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&result.SVGDir, override.SVGDir)
	pick(&result.FontFile, override.FontFile)
	pick(&result.CSSFile, override.CSSFile)
	pick(&result.TSFile, override.TSFile)
	pick(&result.FontName, override.FontName)
	pick(&result.ClassPrefix, override.ClassPrefix)
	return &result
}

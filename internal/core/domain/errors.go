package domain

import "go.trai.ch/zerr"

var (
	// ErrNoSourcesRoot is returned when the sources root is neither configured nor derivable from tsconfig.json.
	ErrNoSourcesRoot = zerr.New("path to sources root is not passed, and cannot be deduced from tsconfig.json " +
		"content (there's no \"rootDir\" field in \"compilerOptions\"); need to know sources root to proceed")

	// ErrNoDtsPath is returned when the declaration output path is neither configured nor declared in package.json.
	ErrNoDtsPath = zerr.New("path to .d.ts file is not passed, and package.json has no \"types\" field")

	// ErrNonArrayEntryPoints is returned when entry points are configured as a mapping.
	ErrNonArrayEntryPoints = zerr.New("Non-array entryPoints are not supported.")

	// ErrNoBinary is returned when no runnable file is declared in package.json and none is passed.
	ErrNoBinary = zerr.New("No runnable JS file is defined in package.json, and none passed explicitly.")

	// ErrAmbiguousBinary is returned when package.json declares more than one runnable file.
	ErrAmbiguousBinary = zerr.New("ambiguous runnable JS file")

	// ErrNoTypescriptEntrypoint is returned when no TypeScript entry point is configured.
	ErrNoTypescriptEntrypoint = zerr.New("expected exactly one TypeScript file entrypoint, but found none")

	// ErrAmbiguousTypescriptEntrypoint is returned when several TypeScript entry points are configured.
	ErrAmbiguousTypescriptEntrypoint = zerr.New("expected exactly one TypeScript file entrypoint, but found several")

	// ErrNothingToShebang is returned when there are no files to prepend a node shebang to.
	ErrNothingToShebang = zerr.New("no files are passed, and also no files are defined in \"bin\" field " +
		"of package.json; nothing to add shebang to")

	// ErrNoSourceRootForWatch is returned when filesystem-event watching is requested without a source root.
	ErrNoSourceRootForWatch = zerr.New("Cannot watch sources with filesystem events if source root is not passed.")

	// ErrInvalidWatchMode is returned when an unknown watch mode is requested.
	ErrInvalidWatchMode = zerr.New("invalid watch mode, expected 'fs-events' or 'polling'")

	// ErrInvalidFormat is returned when an unknown module format is configured.
	ErrInvalidFormat = zerr.New("invalid module format, expected 'esm', 'cjs' or 'iife'")

	// ErrInvalidPlatform is returned when an unknown platform is configured.
	ErrInvalidPlatform = zerr.New("invalid platform, expected 'neutral', 'node' or 'browser'")

	// ErrInvalidPackagesPolicy is returned when an unknown external-package policy is configured.
	ErrInvalidPackagesPolicy = zerr.New("invalid packages policy, expected 'external' or 'bundle'")

	// ErrInvalidLoader is returned when a file extension is mapped to an unknown bundler loader.
	ErrInvalidLoader = zerr.New("invalid loader")

	// ErrCommandFailed is returned when a subprocess exits with a nonzero code or is killed by a signal.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyCommand is returned when a command has no executable.
	ErrEmptyCommand = zerr.New("command has no executable")

	// ErrBuildFailed is returned when the bundler reports errors.
	ErrBuildFailed = zerr.New("build failed")

	// ErrBundlerContextFailed is returned when the bundler cannot create an incremental context.
	ErrBundlerContextFailed = zerr.New("failed to create bundler context")

	// ErrNvmNotInstalled is returned when a node version is requested but NVM_DIR is not set.
	ErrNvmNotInstalled = zerr.New("nvm (Node Version Manager) is probably not installed (judging by absence of " +
		"NVM_DIR environment variable); when systemd exec command is generated, nvm is used in cases when node " +
		"version is specified (and node version can default to package.json's engines.node)")

	// ErrNodeVersionUndeducible is returned when no inclusive lower bound can be found in a semver range.
	ErrNodeVersionUndeducible = zerr.New("failed to deduce NodeJS version number from semver range; " +
		"if the range only uses > and < operators - try using >= operator")

	// ErrUnexpectedFileKind is returned when a path exists but is of a different kind than expected.
	ErrUnexpectedFileKind = zerr.New("path exists but has unexpected kind")

	// ErrNoSVGDir is returned when an icon font is requested without a directory of SVG files.
	ErrNoSVGDir = zerr.New("icon font needs a directory with SVG files")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrManifestReadFailed is returned when package.json cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package.json")

	// ErrManifestParseFailed is returned when package.json cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse package.json")

	// ErrTSConfigReadFailed is returned when tsconfig.json cannot be read.
	ErrTSConfigReadFailed = zerr.New("failed to read tsconfig.json")

	// ErrTSConfigParseFailed is returned when tsconfig.json cannot be parsed.
	ErrTSConfigParseFailed = zerr.New("failed to parse tsconfig.json")

	// ErrManifestNotObject is returned when a manifest to trim is not a JSON object.
	ErrManifestNotObject = zerr.New("manifest must be a JSON object")
)

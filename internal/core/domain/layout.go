package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "tsbuild.yaml"

	// DefaultTargetDir is the default directory for build artifacts.
	DefaultTargetDir = "./target"

	// DefaultPackageJSON is the default path of the package manifest.
	DefaultPackageJSON = "./package.json"

	// DefaultTSConfig is the default path of the TypeScript configuration.
	DefaultTSConfig = "./tsconfig.json"

	// GeneratedDirName is the name of the generated sources directory inside the sources root.
	GeneratedDirName = "generated"

	// TestEntrypointName is the file name of the generated test entrypoint.
	TestEntrypointName = "test.ts"

	// TestJSName is the file name of the bundled tests inside the target directory.
	TestJSName = "test.js"

	// TargetManifestName is the file name of the trimmed manifest inside the target directory.
	TargetManifestName = "package.json"

	// ServiceFileExt is the extension of generated systemd unit files.
	ServiceFileExt = ".service"

	// NodeShebang is prepended to runnable files.
	NodeShebang = "#!/usr/bin/env node\n\n"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultTestJSPath returns the default path of the bundled test file inside target.
func DefaultTestJSPath(target string) string {
	return filepath.Join(target, TestJSName)
}

// DefaultGeneratedSourcesRoot returns the default generated sources directory for a sources root.
func DefaultGeneratedSourcesRoot(sources string) string {
	return filepath.Join(sources, GeneratedDirName)
}

// DefaultTestEntrypoint returns the default test entrypoint inside a generated sources directory.
func DefaultTestEntrypoint(generated string) string {
	return filepath.Join(generated, TestEntrypointName)
}

// DefaultSystemdConfigPath returns the default unit file path for a service name.
func DefaultSystemdConfigPath(target, serviceName string) string {
	return filepath.Join(target, serviceName+ServiceFileExt)
}

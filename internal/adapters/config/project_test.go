package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/adapters/config"
	"go.trai.ch/tsbuild/internal/core/domain"
)

func TestProjectReader_ReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := createFile(t, dir, "package.json", `{
  "name": "@acme/tool",
  "version": "1.2.3",
  "type": "module",
  "main": "dist/index.js",
  "types": "index.d.ts",
  "bin": {"zeta": "bin/z.js", "alpha": "bin/a.js"},
  "engines": {"node": ">=20"}
}`)

	manifest, err := config.NewProjectReader().ReadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "@acme/tool", manifest.Name)
	assert.Equal(t, "tool", manifest.NameWithoutNamespace())
	assert.True(t, manifest.IsModule())
	assert.Equal(t, "dist/index.js", manifest.Main)
	assert.Equal(t, "index.d.ts", manifest.Types)
	assert.Equal(t, []string{"bin/a.js", "bin/z.js"}, manifest.Bin.Paths())
	assert.Equal(t, ">=20", manifest.Engines.Node)
}

func TestProjectReader_ReadManifest_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.NewProjectReader().ReadManifest(dir + "/missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestReadFailed.Error())

	path := createFile(t, dir, "package.json", `{"bin": 42}`)
	_, err = config.NewProjectReader().ReadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestParseFailed.Error())
}

func TestProjectReader_ReadTSConfig(t *testing.T) {
	dir := t.TempDir()
	path := createFile(t, dir, "tsconfig.json", `{
  // project layout
  "compilerOptions": {
    "rootDir": "./src",
    "outDir": "./dist", /* emitted by tsc */
  },
}`)

	cfg, err := config.NewProjectReader().ReadTSConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./src", cfg.CompilerOptions.RootDir)
	assert.Equal(t, "./dist", cfg.CompilerOptions.OutDir)
}

func TestProjectReader_ReadTSConfig_Missing(t *testing.T) {
	cfg, err := config.NewProjectReader().ReadTSConfig(t.TempDir() + "/tsconfig.json")
	require.NoError(t, err)
	assert.Empty(t, cfg.CompilerOptions.RootDir)
}

func TestProjectReader_ReadTSConfig_Malformed(t *testing.T) {
	path := createFile(t, t.TempDir(), "tsconfig.json", `{"compilerOptions": `)

	_, err := config.NewProjectReader().ReadTSConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrTSConfigParseFailed.Error())
}

package systemd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/adapters/systemd"
	"go.trai.ch/tsbuild/internal/core/domain"
)

func TestRenderUnit_Golden(t *testing.T) {
	text, err := systemd.RenderUnit(systemd.UnitConfig{
		Description:      "Example service",
		WorkingDirectory: "/srv/app",
		ExecStart: []string{
			`/usr/bin/env bash -c 'node main.js'`,
			"/usr/bin/env true",
		},
	})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "unit_full", []byte(text))
}

func TestRenderUnit_Defaults(t *testing.T) {
	text, err := systemd.RenderUnit(systemd.UnitConfig{Restart: "on-failure", WantedBy: "multi-user.target"})
	require.NoError(t, err)
	assert.Equal(t, "\n[Unit]\nDescription=\nAfter=network.target\n\n[Service]\nType=simple\nRestart=on-failure\n"+
		"\n\n\n[Install]\nWantedBy=multi-user.target\n", text)
}

func TestGenerateServiceConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.service")
	require.NoError(t, systemd.GenerateServiceConfig(path, systemd.UnitConfig{ExecStart: []string{"/bin/true"}}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "ExecStart=/bin/true\n\n\n[Install]")

	nested := filepath.Join(t.TempDir(), "target", "app.service")
	require.NoError(t, systemd.GenerateServiceConfig(nested, systemd.UnitConfig{ExecStart: []string{"/bin/true"}}))
	assert.FileExists(t, nested)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, domain.FilePerm))
	require.Error(t, systemd.GenerateServiceConfig(filepath.Join(blocker, "app.service"), systemd.UnitConfig{}))
}

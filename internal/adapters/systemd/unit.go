package systemd

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// UnitConfig describes a simple service unit.
type UnitConfig struct {
	Description string
	// ServiceType defaults to simple.
	ServiceType      string
	WorkingDirectory string
	ExecStart        []string
	// Restart defaults to always.
	Restart string
	// After defaults to network.target.
	After string
	// WantedBy defaults to default.target.
	WantedBy string
}

var unitTemplate = template.Must(template.New("unit").Parse(`
[Unit]
Description={{.Description}}
After={{or .After "network.target"}}

[Service]
Type={{or .ServiceType "simple"}}
Restart={{or .Restart "always"}}
{{if .WorkingDirectory}}WorkingDirectory={{.WorkingDirectory}}
{{end}}{{range $i, $cmd := .ExecStart}}{{if $i}}
{{end}}ExecStart={{$cmd}}{{end}}


[Install]
WantedBy={{or .WantedBy "default.target"}}
`))

// RenderUnit renders the unit file text.
func RenderUnit(cfg UnitConfig) (string, error) {
	var b strings.Builder
	if err := unitTemplate.Execute(&b, cfg); err != nil {
		return "", zerr.Wrap(err, "failed to render systemd unit")
	}
	return b.String(), nil
}

// GenerateServiceConfig writes the unit file to path, creating its directory.
func GenerateServiceConfig(path string, cfg UnitConfig) error {
	text, err := RenderUnit(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create systemd unit directory"), "path", path)
	}
	if err := os.WriteFile(path, []byte(text), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write systemd unit"), "path", path)
	}
	return nil
}

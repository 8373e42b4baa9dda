package app

import (
	"context"
	"path/filepath"

	"go.trai.ch/tsbuild/internal/adapters/systemd"
	"go.trai.ch/zerr"
)

// SystemdConfigRequest describes the unit generated for the package's runnable file.
type SystemdConfigRequest struct {
	// OutputPath defaults to the configured unit path, then to <target>/<name>.service.
	OutputPath string
	// Description defaults to the package name.
	Description      string
	WorkingDirectory string
	// JSFile defaults to the package's single bin file.
	JSFile string
	Args   []string
	// NodeVersion is a semver range. Defaults to package.json's engines.node.
	NodeVersion string
	Shell       string
	PipeTo      string
	ServiceType string
	Restart     string
	After       string
	WantedBy    string
}

// SystemdGenerateConfig writes a unit that runs the package's script, through nvm when a node version is known.
func (a *App) SystemdGenerateConfig(req SystemdConfigRequest) (string, error) {
	r, err := a.Resolver()
	if err != nil {
		return "", err
	}
	pkg, err := r.Manifest()
	if err != nil {
		return "", err
	}

	output := req.OutputPath
	if output == "" {
		if output, err = r.SystemdConfigPath(); err != nil {
			return "", err
		}
	}
	jsFile, err := r.SingleBinPath(req.JSFile)
	if err != nil {
		return "", err
	}
	if jsFile, err = filepath.Abs(jsFile); err != nil {
		return "", zerr.Wrap(err, "failed to resolve script path")
	}
	nodeVersion := req.NodeVersion
	if nodeVersion == "" {
		nodeVersion = pkg.Engines.Node
	}
	description := req.Description
	if description == "" {
		description = pkg.Name
	}

	exec, err := a.systemd.GenerateExecCommand(systemd.ExecRequest{
		JSPath:      jsFile,
		NodeVersion: nodeVersion,
		Shell:       req.Shell,
		Args:        req.Args,
		PipeTo:      req.PipeTo,
	})
	if err != nil {
		return "", err
	}

	err = systemd.GenerateServiceConfig(output, systemd.UnitConfig{
		Description:      description,
		ServiceType:      req.ServiceType,
		WorkingDirectory: req.WorkingDirectory,
		ExecStart:        []string{exec},
		Restart:          req.Restart,
		After:            req.After,
		WantedBy:         req.WantedBy,
	})
	return output, err
}

// SystemdInstall links and enables the unit, or reloads the daemon when it is already linked.
func (a *App) SystemdInstall(ctx context.Context, configPath string, global bool) error {
	if configPath == "" {
		r, err := a.Resolver()
		if err != nil {
			return err
		}
		if configPath, err = r.SystemdConfigPath(); err != nil {
			return err
		}
	}
	return a.systemd.InstallService(ctx, systemd.InstallRequest{ConfigPath: configPath, Global: global})
}

// SystemdAction is a systemctl verb applied to the package's service.
type SystemdAction string

// Service actions.
const (
	SystemdStart   SystemdAction = "start"
	SystemdStop    SystemdAction = "stop"
	SystemdRestart SystemdAction = "restart"
	SystemdStatus  SystemdAction = "status"
)

// Systemd runs action on serviceName, which defaults to the package name without namespace.
func (a *App) Systemd(ctx context.Context, action SystemdAction, serviceName string, global bool) error {
	if serviceName == "" {
		r, err := a.Resolver()
		if err != nil {
			return err
		}
		if serviceName, err = r.PackageNameWithoutNamespace(); err != nil {
			return err
		}
	}
	req := systemd.ServiceRequest{ServiceName: serviceName, Global: global}
	switch action {
	case SystemdStart:
		return a.systemd.Start(ctx, req)
	case SystemdStop:
		return a.systemd.Stop(ctx, req)
	case SystemdRestart:
		return a.systemd.Restart(ctx, req)
	case SystemdStatus:
		return a.systemd.Status(ctx, req)
	}
	return zerr.With(zerr.New("unknown systemd action"), "action", string(action))
}

// Package systemd generates and installs systemd units for Node.js services and drives systemctl.
package systemd

import (
	"context"
	"maps"
	"os"
	"strconv"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
)

const runtimeDirEnv = "XDG_RUNTIME_DIR"

// Systemd runs systemctl through a ports.Runner.
type Systemd struct {
	runner  ports.Runner
	getenv  func(string) string
	uid     func() int
	homeDir func() (string, error)
}

// New creates a Systemd bound to the current user.
func New(runner ports.Runner) *Systemd {
	return &Systemd{
		runner:  runner,
		getenv:  os.Getenv,
		uid:     os.Getuid,
		homeDir: os.UserHomeDir,
	}
}

// CommandRequest is a raw systemctl invocation.
type CommandRequest struct {
	domain.ShellOptions
	Args []string
	// Global addresses the system manager instead of the user's.
	Global bool
}

// Command runs systemctl. User commands get --user, and XDG_RUNTIME_DIR is filled in when the
// environment lacks it.
func (s *Systemd) Command(ctx context.Context, req CommandRequest) (domain.RunResult, error) {
	opts := req.ShellOptions
	if s.getenv(runtimeDirEnv) == "" {
		env := maps.Clone(opts.Env)
		if env == nil {
			env = make(map[string]string, 1)
		}
		env[runtimeDirEnv] = "/run/user/" + strconv.Itoa(s.uid())
		opts.Env = env
	}

	args := req.Args
	if !req.Global {
		args = append([]string{"--user"}, args...)
	}
	return s.runner.Run(ctx, opts.Command("systemctl", args...))
}

// ServiceRequest names the unit an action applies to.
type ServiceRequest struct {
	domain.ShellOptions
	ServiceName string
	Global      bool
}

// Start starts the service.
func (s *Systemd) Start(ctx context.Context, req ServiceRequest) error {
	return s.action(ctx, "start", req)
}

// Stop stops the service.
func (s *Systemd) Stop(ctx context.Context, req ServiceRequest) error {
	return s.action(ctx, "stop", req)
}

// Restart restarts the service.
func (s *Systemd) Restart(ctx context.Context, req ServiceRequest) error {
	return s.action(ctx, "restart", req)
}

// Status prints the service status.
func (s *Systemd) Status(ctx context.Context, req ServiceRequest) error {
	return s.action(ctx, "status", req)
}

func (s *Systemd) action(ctx context.Context, action string, req ServiceRequest) error {
	_, err := s.Command(ctx, CommandRequest{
		ShellOptions: req.ShellOptions,
		Args:         []string{action, req.ServiceName},
		Global:       req.Global,
	})
	return err
}

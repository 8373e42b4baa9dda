package systemd

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/tsbuild/internal/adapters/fs"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// InstallRequest links the unit at ConfigPath into the systemd search path.
type InstallRequest struct {
	domain.ShellOptions
	ConfigPath string
	Global     bool
}

// InstallService links and enables the unit on first install, and reloads the daemon afterwards.
func (s *Systemd) InstallService(ctx context.Context, req InstallRequest) error {
	fileName := filepath.Base(req.ConfigPath)
	link, err := s.unitLinkPath(fileName, req.Global)
	if err != nil {
		return err
	}

	exists, err := fs.IsSymlinkExists(link)
	if err != nil {
		return err
	}

	args := []string{"daemon-reload"}
	if !exists {
		if err := os.MkdirAll(filepath.Dir(link), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create systemd unit directory"), "path", filepath.Dir(link))
		}
		if err := fs.Symlink(req.ConfigPath, link); err != nil {
			return err
		}
		args = []string{"enable", fileName}
	}

	_, err = s.Command(ctx, CommandRequest{ShellOptions: req.ShellOptions, Args: args, Global: req.Global})
	return err
}

func (s *Systemd) unitLinkPath(fileName string, global bool) (string, error) {
	if global {
		return filepath.Join("/etc/systemd/user", fileName), nil
	}
	home, err := s.homeDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".config", "systemd", "user", fileName), nil
}

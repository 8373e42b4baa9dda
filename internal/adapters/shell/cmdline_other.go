//go:build !windows

package shell

import "os/exec"

func setCmdLine(*exec.Cmd, string) {}

//go:build windows

package shell

import (
	"os/exec"
	"syscall"
)

// setCmdLine bypasses argument escaping so the interpreter sees the quotes as written.
func setCmdLine(c *exec.Cmd, line string) {
	if c.SysProcAttr == nil {
		c.SysProcAttr = &syscall.SysProcAttr{}
	}
	c.SysProcAttr.CmdLine = line
}

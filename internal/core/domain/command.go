package domain

import (
	"io"
	"strings"
)

// LineHandler receives one line of subprocess output without its trailing newline.
type LineHandler func(line string)

// TTYMode controls whether a subprocess runs under a pseudo-terminal.
type TTYMode uint8

const (
	// TTYOff runs with plain pipes.
	TTYOff TTYMode = iota
	// TTYOn always allocates a pseudo-terminal.
	TTYOn
	// TTYAuto allocates a pseudo-terminal when the parent's stdout is a terminal.
	TTYAuto
)

// Command describes a subprocess invocation.
type Command struct {
	Executable string
	Args       []string
	Dir        string
	// Env is merged over the parent environment.
	Env map[string]string
	// OnStdout and OnStderr receive output line by line. Output is still echoed to Stdout and Stderr.
	OnStdout LineHandler
	OnStderr LineHandler
	// Stdout and Stderr default to the parent's streams.
	Stdout io.Writer
	Stderr io.Writer
	// ExitOnError terminates the host process on a nonzero exit or signal.
	ExitOnError bool
	TTY         TTYMode
}

// Line returns the command line as typed in a shell, for messages.
func (c Command) Line() string {
	return strings.Join(append([]string{c.Executable}, c.Args...), " ")
}

// RunResult is the outcome of a finished subprocess.
type RunResult struct {
	ExitCode int
	// Signal is the name of the terminating signal, or empty.
	Signal string
}

// Success reports whether the process exited with zero and without a signal.
func (r RunResult) Success() bool {
	return r.ExitCode == 0 && r.Signal == ""
}

// BoolOr returns *b, or def when b is nil.
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// ShellOptions are the invocation settings shared by the tool wrappers. ExitOnError defaults to true.
type ShellOptions struct {
	Dir         string
	Env         map[string]string
	OnStdout    LineHandler
	OnStderr    LineHandler
	ExitOnError *bool
	TTY         TTYMode
}

// Command builds a Command for executable with these settings.
func (o ShellOptions) Command(executable string, args ...string) Command {
	return Command{
		Executable:  executable,
		Args:        args,
		Dir:         o.Dir,
		Env:         o.Env,
		OnStdout:    o.OnStdout,
		OnStderr:    o.OnStderr,
		ExitOnError: BoolOr(o.ExitOnError, true),
		TTY:         o.TTY,
	}
}

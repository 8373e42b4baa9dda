// Package shell runs external tools as subprocesses.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

var _ ports.Runner = (*Runner)(nil)

// Runner implements ports.Runner using os/exec, with optional pseudo-terminal support.
type Runner struct {
	logger     ports.Logger
	stdout     io.Writer
	stderr     io.Writer
	environ    func() []string
	goos       string
	exit       func(code int)
	isTerminal func() bool
}

// NewRunner creates a Runner attached to the process's standard streams.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger:  logger,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		environ: os.Environ,
		goos:    runtime.GOOS,
		exit:    os.Exit,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int
		},
	}
}

// WithStreams sets the parent streams commands echo to.
func (r *Runner) WithStreams(stdout, stderr io.Writer) *Runner {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// WithExit replaces the function used to terminate the host process.
func (r *Runner) WithExit(exit func(code int)) *Runner {
	r.exit = exit
	return r
}

// WithPlatform overrides the operating system used to build command lines.
func (r *Runner) WithPlatform(goos string) *Runner {
	r.goos = goos
	return r
}

// Run executes cmd and waits for it.
// On failure it terminates the host process when cmd.ExitOnError is set, otherwise it returns ErrCommandFailed.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) (domain.RunResult, error) {
	proc, err := r.start(ctx, cmd)
	if err != nil {
		if cmd.ExitOnError {
			r.logger.Error(err)
			r.exit(1)
		}
		return domain.RunResult{ExitCode: -1}, err
	}

	res, err := proc.Wait()
	if err != nil {
		return res, err
	}
	if res.Success() {
		return res, nil
	}

	failure := zerr.With(zerr.With(zerr.Wrap(domain.ErrCommandFailed, fmt.Sprintf(
		"`%s` exited with wrong code/signal: code = %d, signal = %s", cmd.Line(), res.ExitCode, signalText(res.Signal),
	)), "exit_code", res.ExitCode), "signal", res.Signal)

	if cmd.ExitOnError {
		r.logger.Error(failure)
		r.exit(1)
	}
	return res, failure
}

func signalText(sig string) string {
	if sig == "" {
		return "none"
	}
	return sig
}

// Start launches cmd and returns once the operating system has started it.
// Cancelling ctx after Start returns does not affect the child; callers stop it through its handle.
func (r *Runner) Start(ctx context.Context, cmd domain.Command) (ports.Process, error) {
	return r.start(context.WithoutCancel(ctx), cmd)
}

// start launches cmd; cancelling ctx kills the child.
func (r *Runner) start(ctx context.Context, cmd domain.Command) (ports.Process, error) {
	if cmd.Executable == "" {
		return nil, domain.ErrEmptyCommand
	}

	env := resolveEnvironment(r.environ(), cmd.Env)
	name, args := r.argv(cmd, env)

	//nolint:gosec // commands are built by tsbuild's own wrappers
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = cmd.Dir
	c.Env = env
	if r.goos == "windows" {
		setCmdLine(c, windowsCmdLine(cmd))
	}

	stdout := firstWriter(cmd.Stdout, r.stdout)
	stderr := firstWriter(cmd.Stderr, r.stderr)

	var flushers []*lineWriter
	if cmd.OnStdout != nil {
		lw := newLineWriter(cmd.OnStdout)
		flushers = append(flushers, lw)
		stdout = io.MultiWriter(stdout, lw)
	}
	if cmd.OnStderr != nil {
		lw := newLineWriter(cmd.OnStderr)
		flushers = append(flushers, lw)
		stderr = io.MultiWriter(stderr, lw)
	}

	if r.useTTY(cmd.TTY) {
		return startPTY(c, cmd.Line(), stdout, flushers)
	}

	c.Stdout = stdout
	c.Stderr = stderr
	if err := c.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "command", cmd.Line())
	}
	return newProcess(c, nil, flushers), nil
}

func startPTY(c *exec.Cmd, line string, stdout io.Writer, flushers []*lineWriter) (ports.Process, error) {
	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start pty"), "command", line)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// The terminal merges stdout and stderr.
		_, _ = io.Copy(stdout, ptmx)
	}()

	return newProcess(c, ioDone, flushers), nil
}

func (r *Runner) useTTY(mode domain.TTYMode) bool {
	switch mode {
	case domain.TTYOn:
		return r.goos != "windows"
	case domain.TTYAuto:
		return r.goos != "windows" && r.isTerminal()
	default:
		return false
	}
}

// argv returns the program and arguments to execute.
// On Windows the command goes through the command interpreter; see windowsCmdLine.
func (r *Runner) argv(cmd domain.Command, env []string) (string, []string) {
	if r.goos == "windows" {
		return "cmd.exe", []string{"/d", "/s", "/c", windowsCommand(cmd)}
	}

	executable := cmd.Executable
	if !filepathIsAbs(executable) {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}
	return executable, cmd.Args
}

// windowsCommand quotes the executable so paths with spaces survive the interpreter.
// Arguments containing blanks are quoted too; everything else is passed as is.
func windowsCommand(cmd domain.Command) string {
	parts := make([]string, 0, len(cmd.Args)+1)
	parts = append(parts, `"`+cmd.Executable+`"`)
	for _, arg := range cmd.Args {
		if arg == "" || strings.ContainsAny(arg, " \t") {
			arg = `"` + arg + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// windowsCmdLine is the raw command line handed to CreateProcess.
// With /s the interpreter strips the outer quotes and keeps the inner ones.
func windowsCmdLine(cmd domain.Command) string {
	return `cmd.exe /d /s /c "` + windowsCommand(cmd) + `"`
}

func firstWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return io.Discard
}

// Package process keeps one long-running child process alive and restarts it on demand.
package process

import (
	"context"
	"crypto/sha256"
	"io"
	"os"
	"strconv"
	"sync"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options describe the managed child.
type Options struct {
	Script string
	Args   []string
	// Interpreter defaults to node.
	Interpreter string
	Dir         string
	Env         map[string]string
	// RestartSignal asks the child to exit before a restart. Defaults to os.Interrupt.
	RestartSignal os.Signal
	// Logger reports exits the manager did not ask for. Optional.
	Logger ports.Logger
}

// Managed owns at most one live child process.
type Managed struct {
	runner ports.Runner
	opts   Options

	// restartMu serializes Restart, RestartIfChanged and Stop.
	restartMu sync.Mutex

	mu      sync.Mutex
	current ports.Process
	digest  [sha256.Size]byte
}

// Start launches the script and returns once the operating system confirmed the spawn.
func Start(ctx context.Context, runner ports.Runner, opts Options) (*Managed, error) {
	if opts.Interpreter == "" {
		opts.Interpreter = "node"
	}
	if opts.RestartSignal == nil {
		opts.RestartSignal = os.Interrupt
	}
	m := &Managed{runner: runner, opts: opts}
	if err := m.spawn(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Current returns the live process, or nil when stopped.
func (m *Managed) Current() ports.Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Restart stops the live process, waits for it to exit, and starts a new one.
func (m *Managed) Restart(ctx context.Context) error {
	m.restartMu.Lock()
	defer m.restartMu.Unlock()
	return m.restart(ctx)
}

// RestartIfChanged restarts only when the script content differs from the last started one.
func (m *Managed) RestartIfChanged(ctx context.Context) (bool, error) {
	m.restartMu.Lock()
	defer m.restartMu.Unlock()

	digest, err := m.scriptDigest()
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	unchanged := digest == m.digest
	m.mu.Unlock()
	if unchanged {
		return false, nil
	}
	return true, m.restart(ctx)
}

// Stop signals the live process and waits for it to exit.
func (m *Managed) Stop(ctx context.Context) error {
	m.restartMu.Lock()
	defer m.restartMu.Unlock()
	return m.stop(ctx)
}

func (m *Managed) restart(ctx context.Context) error {
	if err := m.stop(ctx); err != nil {
		return err
	}
	return m.spawn(ctx)
}

// stop detaches the live process before signaling it, so its exit is not reported as unexpected.
func (m *Managed) stop(ctx context.Context) error {
	m.mu.Lock()
	proc := m.current
	m.current = nil
	m.mu.Unlock()
	if proc == nil {
		return nil
	}

	if err := proc.Signal(m.opts.RestartSignal); err != nil {
		m.reattach(proc)
		return err
	}
	select {
	case <-proc.Done():
		return nil
	case <-ctx.Done():
		_ = proc.Signal(os.Kill)
		return zerr.With(zerr.Wrap(ctx.Err(), "managed process did not exit"), "pid", proc.Pid())
	}
}

// reattach restores proc as the live process when signaling it failed and it is still running.
func (m *Managed) reattach(proc ports.Process) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return
	}
	select {
	case <-proc.Done():
	default:
		m.current = proc
	}
}

func (m *Managed) spawn(ctx context.Context) error {
	digest, err := m.scriptDigest()
	if err != nil {
		return err
	}

	exitOnError := false
	proc, err := m.runner.Start(ctx, domain.ShellOptions{
		Dir:         m.opts.Dir,
		Env:         m.opts.Env,
		ExitOnError: &exitOnError,
	}.Command(m.opts.Interpreter, append([]string{m.opts.Script}, m.opts.Args...)...))
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = proc
	m.digest = digest
	m.mu.Unlock()

	go m.watchExit(proc)
	return nil
}

// watchExit clears the live reference however the process ends.
func (m *Managed) watchExit(proc ports.Process) {
	res, err := proc.Wait()

	m.mu.Lock()
	ours := m.current == proc
	if ours {
		m.current = nil
	}
	m.mu.Unlock()

	if !ours || m.opts.Logger == nil {
		return
	}
	switch {
	case err != nil:
		m.opts.Logger.Error(err)
	case !res.Success():
		msg := m.opts.Script + " exited with code " + strconv.Itoa(res.ExitCode)
		if res.Signal != "" {
			msg += " (" + res.Signal + ")"
		}
		m.opts.Logger.Warn(msg)
	}
}

func (m *Managed) scriptDigest() ([sha256.Size]byte, error) {
	var digest [sha256.Size]byte
	f, err := os.Open(m.opts.Script)
	if err != nil {
		return digest, zerr.With(zerr.Wrap(err, "failed to read managed script"), "path", m.opts.Script)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return digest, zerr.With(zerr.Wrap(err, "failed to hash managed script"), "path", m.opts.Script)
	}
	copy(digest[:], h.Sum(nil))
	return digest, nil
}

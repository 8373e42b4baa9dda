package shell

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// process implements ports.Process for an exec.Cmd.
type process struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu     sync.Mutex
	result domain.RunResult
	err    error
}

func newProcess(cmd *exec.Cmd, ioDone <-chan struct{}, flushers []*lineWriter) *process {
	p := &process{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	go func() {
		waitErr := cmd.Wait()
		if ioDone != nil {
			<-ioDone
		}
		for _, f := range flushers {
			f.Flush()
		}

		res, err := resultOf(cmd, waitErr)
		p.mu.Lock()
		p.result, p.err = res, err
		p.mu.Unlock()
		close(p.done)
	}()

	return p
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) Signal(sig os.Signal) error {
	if err := p.cmd.Process.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return zerr.Wrap(err, "failed to signal process")
	}
	return nil
}

func (p *process) Wait() (domain.RunResult, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.err
}

func (p *process) Done() <-chan struct{} {
	return p.done
}

// resultOf converts the outcome of cmd.Wait. Exit statuses and signals are results, not errors.
func resultOf(cmd *exec.Cmd, waitErr error) (domain.RunResult, error) {
	state := cmd.ProcessState
	if state == nil {
		return domain.RunResult{ExitCode: -1}, zerr.Wrap(waitErr, "failed to wait for command")
	}

	res := domain.RunResult{ExitCode: state.ExitCode()}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		res.Signal = ws.Signal().String()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return res, zerr.Wrap(waitErr, "failed to collect command output")
	}
	return res, nil
}

package ports

import (
	"context"
	"os"

	"go.trai.ch/tsbuild/internal/core/domain"
)

// Runner spawns subprocesses.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run executes the command and waits for it to finish.
	// A nonzero exit or a terminating signal is an error unless the command exits the host on error.
	Run(ctx context.Context, cmd domain.Command) (domain.RunResult, error)

	// Start launches the command and returns once the operating system confirmed the spawn.
	Start(ctx context.Context, cmd domain.Command) (Process, error)
}

// Process is a running child process.
type Process interface {
	// Pid returns the operating system process id.
	Pid() int
	// Signal sends sig to the process.
	Signal(sig os.Signal) error
	// Wait blocks until the process exits and all of its output is delivered.
	// It is safe to call from several goroutines; every caller sees the same result.
	Wait() (domain.RunResult, error)
	// Done is closed once the process has exited.
	Done() <-chan struct{}
}

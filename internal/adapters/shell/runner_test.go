package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/adapters/shell"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newRunner(t *testing.T, stdout, stderr io.Writer) *shell.Runner {
	t.Helper()
	ctrl := gomock.NewController(t)
	return shell.NewRunner(mocks.NewMockLogger(ctrl)).WithStreams(stdout, stderr)
}

func TestRunner_Run_EchoesOutput(t *testing.T) {
	var stdout bytes.Buffer
	runner := newRunner(t, &stdout, io.Discard)

	res, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "echo line1; echo line2"},
		Dir:        t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "line1\nline2\n", stdout.String())
}

func TestRunner_Run_LineHandlers(t *testing.T) {
	var stdout, stderr bytes.Buffer
	runner := newRunner(t, &stdout, &stderr)

	var mu sync.Mutex
	var outLines, errLines []string

	_, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "printf part1; sleep 0.1; echo part2; echo oops >&2; printf tail"},
		OnStdout: func(line string) {
			mu.Lock()
			defer mu.Unlock()
			outLines = append(outLines, line)
		},
		OnStderr: func(line string) {
			mu.Lock()
			defer mu.Unlock()
			errLines = append(errLines, line)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"part1part2", "tail"}, outLines)
	assert.Equal(t, []string{"oops"}, errLines)
	assert.Equal(t, "part1part2\ntail", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestRunner_Run_CommandStreamsOverrideParent(t *testing.T) {
	var parent, own bytes.Buffer
	runner := newRunner(t, &parent, io.Discard)

	_, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "echo hello"},
		Stdout:     &own,
	})
	require.NoError(t, err)
	assert.Empty(t, parent.String())
	assert.Equal(t, "hello\n", own.String())
}

func TestRunner_Run_Environment(t *testing.T) {
	var stdout bytes.Buffer
	runner := newRunner(t, &stdout, io.Discard)

	_, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "echo $TSBUILD_TEST_VAR"},
		Env:        map[string]string{"TSBUILD_TEST_VAR": "test-value-123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "test-value-123\n", stdout.String())
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("found"), 0o600))

	var stdout bytes.Buffer
	runner := newRunner(t, &stdout, io.Discard)

	_, err := runner.Run(context.Background(), domain.Command{
		Executable: "cat",
		Args:       []string{"marker.txt"},
		Dir:        dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "found", stdout.String())
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)

	res, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "exit 3"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "`sh -c exit 3` exited with wrong code/signal: code = 3, signal = none")

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
}

func TestRunner_Run_Signal(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)

	res, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "kill -TERM $$"},
	})
	require.Error(t, err)
	assert.Equal(t, syscall.SIGTERM.String(), res.Signal)
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, err.Error(), "signal = terminated")
}

func TestRunner_Run_ExitOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrCommandFailed)
	})

	var exitCode int
	runner := shell.NewRunner(log).
		WithStreams(io.Discard, io.Discard).
		WithExit(func(code int) { exitCode = code })

	_, err := runner.Run(context.Background(), domain.Command{
		Executable:  "sh",
		Args:        []string{"-c", "exit 1"},
		ExitOnError: true,
	})
	require.Error(t, err)
	assert.Equal(t, 1, exitCode)
}

func TestRunner_Run_MissingExecutable(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)

	_, err := runner.Run(context.Background(), domain.Command{
		Executable: "tsbuild-definitely-not-installed",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start command")
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)

	_, err := runner.Run(context.Background(), domain.Command{})
	require.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestRunner_Run_TTY(t *testing.T) {
	var stdout bytes.Buffer
	runner := newRunner(t, &stdout, io.Discard)

	var lines []string
	_, err := runner.Run(context.Background(), domain.Command{
		Executable: "sh",
		Args:       []string{"-c", "test -t 1 && echo tty"},
		TTY:        domain.TTYOn,
		OnStdout:   func(line string) { lines = append(lines, line) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tty"}, lines)
}

func TestRunner_Start_SignalAndWait(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)

	proc, err := runner.Start(context.Background(), domain.Command{
		Executable: "sleep",
		Args:       []string{"30"},
	})
	require.NoError(t, err)
	assert.Positive(t, proc.Pid())

	require.NoError(t, proc.Signal(syscall.SIGTERM))

	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after SIGTERM")
	}

	res, err := proc.Wait()
	require.NoError(t, err)
	assert.Equal(t, "terminated", res.Signal)

	// Signalling a finished process is not an error.
	require.NoError(t, proc.Signal(syscall.SIGTERM))
}

func TestRunner_Start_IgnoresContextCancel(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())

	proc, err := runner.Start(ctx, domain.Command{
		Executable: "sleep",
		Args:       []string{"30"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = proc.Signal(syscall.SIGKILL) })

	cancel()

	select {
	case <-proc.Done():
		t.Fatal("process exited when its start context was cancelled")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRunner_Run_ContextCancelKills(t *testing.T) {
	runner := newRunner(t, io.Discard, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := runner.Run(ctx, domain.Command{
		Executable: "sleep",
		Args:       []string{"30"},
	})
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, "killed", res.Signal)
}

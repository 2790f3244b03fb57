package services

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Executor abstracts command execution for testability. Run returns the
// captured standard output; a failed process yields a *ToolError.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// CommandExecutor runs tools with os/exec. Arguments are passed to the child
// process directly, never through a shell.
type CommandExecutor struct{}

func (CommandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		toolErr := &ToolError{
			Binary:   binary,
			Args:     append([]string(nil), args...),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), toolErr
	}
	return stdout.Bytes(), nil
}

// ExitCode reports the exit status carried by err, or -1 when the process
// never ran or the error did not come from an Executor.
func ExitCode(err error) int {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode
	}
	return -1
}

package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/pacmon-ci/pacmon/pkg/types"
)

// RealCommandExecutor is a struct that implements the CommandExecutor interface.
type RealCommandExecutor struct{}

// ExecuteCommand executes a command and returns the stdout, stderr, and error.
// The process is killed when ctx is cancelled. A nil env inherits the current environment.
//
//nolint:gocritic
func (r *RealCommandExecutor) ExecuteCommand(ctx context.Context, dir, name string, args []string,
	env []string) (stdout string, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	var outb, errb bytes.Buffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb
	err = cmd.Run()
	return outb.String(), errb.String(), err
}

// NewCommandExecutor creates a new instance of the RealCommandExecutor.
func NewCommandExecutor() types.CommandExecutor {
	return &RealCommandExecutor{}
}

// ExitCode extracts the exit status from an ExecuteCommand error.
// It returns 0 for a nil error and ok=false when the process never ran.
func ExitCode(err error) (code int, ok bool) {
	if err == nil {
		return 0, true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return -1, false
}

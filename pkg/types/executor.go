package types

import "context"

// CommandExecutor is an interface for executing commands.
type CommandExecutor interface {
	// ExecuteCommand runs name with args and env inside dir, blocking until the process exits.
	// It returns the standard output, standard error, and any error that occurred during execution.
	// A process that ran but exited non-zero is reported through an *exec.ExitError.
	ExecuteCommand(ctx context.Context, dir, name string, args []string, env []string) (stdout string, stderr string, err error)
}

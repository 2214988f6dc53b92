package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/pacmon-ci/pacmon/internal/executor"
	"github.com/pacmon-ci/pacmon/pkg/types"
)

// errNoFormat is returned for output paths without an extension.
var errNoFormat = errors.New("cannot derive report format from output path without an extension")

// DependencyCheck runs the OWASP Dependency-Check command line tool.
type DependencyCheck struct {
	logger          types.Logger
	commandExecutor types.CommandExecutor
	home            string
	goos            string
}

// NewDependencyCheck creates a runner for the installation in home.
// Parameters:
// - logger: the logger to use for logging.
// - commandExecutor: runs the scanner process.
// - home: the Dependency-Check installation directory, containing bin/.
func NewDependencyCheck(logger types.Logger, commandExecutor types.CommandExecutor,
	home string) (*DependencyCheck, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if commandExecutor == nil {
		return nil, fmt.Errorf("commandExecutor cannot be nil")
	}
	if home == "" {
		return nil, fmt.Errorf("scanner home cannot be empty")
	}
	return &DependencyCheck{
		logger:          logger,
		commandExecutor: commandExecutor,
		home:            home,
		goos:            runtime.GOOS,
	}, nil
}

// Script returns the launcher script for the current platform.
func (d *DependencyCheck) Script() string {
	name := "dependency-check.sh"
	if d.goos == "windows" {
		name = "dependency-check.bat"
	}
	return filepath.Join(d.home, "bin", name)
}

// ReportFormat derives the scanner's --format value from an output path, e.g. XML for
// output.xml and HTML for vulnerabilities.html.
func ReportFormat(outputPath string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q", errNoFormat, outputPath)
	}
	return strings.ToUpper(ext), nil
}

// Args builds the scanner command line for req.
func (d *DependencyCheck) Args(req types.ScanRequest) ([]string, error) {
	format, err := ReportFormat(req.OutputPath)
	if err != nil {
		return nil, err
	}
	args := []string{
		"--project", req.Project,
		"--scan", req.Target,
		"--out", req.OutputPath,
		"--format", format,
	}
	if req.SuppressionPath != "" {
		args = append(args, "--suppression", req.SuppressionPath)
	}
	if req.ExtraArgs != "" {
		extra, err := shellquote.Split(req.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("failed to parse extra scanner arguments: %w", err)
		}
		args = append(args, extra...)
	}
	return args, nil
}

// RunScan runs the scanner and blocks until it exits.
// A non-zero exit status is returned, not treated as an error; the caller decides based on
// the report the scanner left behind.
func (d *DependencyCheck) RunScan(ctx context.Context, req types.ScanRequest) (int, error) {
	args, err := d.Args(req)
	if err != nil {
		return -1, err
	}

	script := d.Script()
	d.logger.Info("running dependency-check",
		zap.String("script", script),
		zap.Strings("args", args),
	)
	stdout, stderr, err := d.commandExecutor.ExecuteCommand(ctx, "", script, args, os.Environ())
	code, ran := executor.ExitCode(err)
	if !ran {
		return -1, fmt.Errorf("failed to run %s: %w", script, err)
	}

	d.logger.Debug("dependency-check output", zap.String("stdout", stdout))
	if code != 0 {
		d.logger.Warn("dependency-check exited with non-zero status",
			zap.Int("status", code),
			zap.String("stderr", stderr),
		)
	}
	return code, nil
}

// Version returns the output of the scanner's --version flag.
func (d *DependencyCheck) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := d.commandExecutor.ExecuteCommand(ctx, "", d.Script(), []string{"--version"}, os.Environ())
	if err != nil {
		return "", fmt.Errorf("failed to get scanner version: %w: %s", err, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}

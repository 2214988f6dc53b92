package scan

import (
	"context"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pacmon-ci/pacmon/pkg/types"
)

// logEntry is one call recorded by recordingLogger.
type logEntry struct {
	level   string
	msg     string
	strings map[string]string
}

// recordingLogger keeps every entry so tests can assert on warnings.
type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields []interface{}) {
	e := logEntry{level: level, msg: msg, strings: map[string]string{}}
	for _, f := range fields {
		if zf, ok := f.(zap.Field); ok && zf.Type == zapcore.StringType {
			e.strings[zf.Key] = zf.String
		}
	}
	l.entries = append(l.entries, e)
}

func (l *recordingLogger) Debug(msg string, fields ...interface{})  { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...interface{})   { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...interface{})   { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...interface{})  { l.record("error", msg, fields) }
func (l *recordingLogger) Fatalf(msg string, fields ...interface{}) { l.record("fatal", msg, fields) }

func (l *recordingLogger) byLevel(level string) []logEntry {
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// fakeScanner writes a canned report on its first run and records every request.
type fakeScanner struct {
	t        *testing.T
	report   string
	write    bool
	version  string
	status   int
	err      error
	requests []types.ScanRequest
}

func (f *fakeScanner) RunScan(_ context.Context, req types.ScanRequest) (int, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return -1, f.err
	}
	if f.write && len(f.requests) == 1 {
		if err := os.WriteFile(req.OutputPath, []byte(f.report), 0o600); err != nil {
			f.t.Fatalf("failed to write fake report: %v", err)
		}
	}
	return f.status, nil
}

func (f *fakeScanner) Version(context.Context) (string, error) {
	return f.version, nil
}

// fakeExecutor records the command it was asked to run.
type fakeExecutor struct {
	name   string
	args   []string
	env    []string
	stdout string
	stderr string
	err    error
}

func (f *fakeExecutor) ExecuteCommand(_ context.Context, _ string, name string, args []string,
	env []string) (string, string, error) {
	f.name = name
	f.args = args
	f.env = env
	return f.stdout, f.stderr, f.err
}

// lines splits emitted output into service messages.
func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

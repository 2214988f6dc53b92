package log

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pacmon-ci/pacmon/pkg/types"
)

// zapLogger is a struct that implements the Logger interface.
type zapLogger struct {
	logger *zap.Logger
}

// contextKey is the key used to store the logger in the context.
type contextKey string

// loggerKey is the key used to store the logger in the context.
const loggerKey contextKey = "logger"

// Options configures the logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console or json.
	Format string
	// Output defaults to stderr; stdout is reserved for service messages.
	Output zapcore.WriteSyncer
}

// NewLogger builds a zap backed logger from opts.
func NewLogger(opts Options) (types.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch opts.Format {
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q: expected console or json", opts.Format)
	}

	output := opts.Output
	if output == nil {
		output = zapcore.Lock(os.Stderr)
	}

	return &zapLogger{logger: zap.New(zapcore.NewCore(encoder, output, level))}, nil
}

// WithLogger returns a new context with the logger set.
// This func will panic if the context is nil.
func WithLogger(ctx context.Context, logger types.Logger) context.Context {
	if ctx == nil {
		panic("ctx cannot be nil")
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a logger that discards everything.
func FromContext(ctx context.Context) types.Logger {
	if logger, ok := ctx.Value(loggerKey).(types.Logger); ok {
		return logger
	}
	return &zapLogger{logger: zap.NewNop()}
}

func toZapFields(fields []interface{}) []zap.Field {
	var zapFields []zap.Field
	for _, field := range fields {
		if zf, ok := field.(zap.Field); ok {
			zapFields = append(zapFields, zf)
		}
	}
	return zapFields
}

// Debug logs a debug message with the given fields.
func (l *zapLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

// Info logs an info message with the given fields.
func (l *zapLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg, toZapFields(fields)...)
}

// Warn logs a warn message with the given fields.
func (l *zapLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg, toZapFields(fields)...)
}

// Error logs an error message with the given fields.
func (l *zapLogger) Error(msg string, fields ...interface{}) {
	l.logger.Error(msg, toZapFields(fields)...)
}

// Fatalf logs a fatal message with the given fields.
func (l *zapLogger) Fatalf(msg string, fields ...interface{}) {
	l.logger.Fatal(msg, toZapFields(fields)...)
}

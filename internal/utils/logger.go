package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultLogLevel is used when no level is requested.
	DefaultLogLevel = "info"

	standardErrorPath       = "stderr"
	errorLogLevelFormat     = "parse log level %q: %w"
	errorLoggerBuildMessage = "build logger: %w"
)

// LoggerOptions configures the application logger.
type LoggerOptions struct {
	Level    string
	FilePath string
}

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output on stderr, optionally mirrored to a log file.
func NewApplicationLogger(options LoggerOptions) (*zap.Logger, error) {
	levelName := strings.TrimSpace(options.Level)
	if levelName == "" {
		levelName = DefaultLogLevel
	}
	level, levelError := zapcore.ParseLevel(levelName)
	if levelError != nil {
		return nil, fmt.Errorf(errorLogLevelFormat, levelName, levelError)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	config.OutputPaths = []string{standardErrorPath}
	config.ErrorOutputPaths = []string{standardErrorPath}
	if filePath := strings.TrimSpace(options.FilePath); filePath != "" {
		config.OutputPaths = append(config.OutputPaths, filePath)
	}

	logger, buildError := config.Build()
	if buildError != nil {
		return nil, fmt.Errorf(errorLoggerBuildMessage, buildError)
	}
	return logger, nil
}

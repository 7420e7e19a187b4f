package platform

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LevelOff silences every record.
const LevelOff = slog.Level(100)

type LogOptions struct {
	Level  slog.Level
	Format LogFormat
}

// ConfigureLogger parses the flag values, installs the logger as the slog
// default and returns it.
func ConfigureLogger(levelValue, formatValue string, out io.Writer) (*slog.Logger, error) {
	level, err := ParseLogLevel(levelValue)
	if err != nil {
		return nil, err
	}
	format, err := ParseLogFormat(formatValue)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(out, LogOptions{Level: level, Format: format})
	slog.SetDefault(logger)
	return logger, nil
}

func NewLogger(out io.Writer, opts LogOptions) *slog.Logger {
	if opts.Level >= LevelOff {
		return slog.New(slog.DiscardHandler)
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

// Component tags every record of logger with the emitting component.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", name))
}

func ParseLogLevel(value string) (slog.Level, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off", "none", "quiet":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", value)
	}
}

func ParseLogFormat(value string) (LogFormat, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return LogFormatText, fmt.Errorf("invalid log format %q", value)
	}
}

// Package logging provides the console and nop implementations of the
// logger port. Step progress goes to stderr so stdout stays reserved
// for the plan and report rendering.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rigstrap/rigstrap/internal/ports"
)

// ConsoleLogger writes level-filtered, structured log lines.
type ConsoleLogger struct {
	mu       sync.Mutex
	out      io.Writer
	level    ports.Level
	bound    []ports.Field
	asJSON   bool
	withTime bool
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.out = w }
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.level = level }
}

// WithJSONFormat switches output to one JSON object per line.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.asJSON = enabled }
}

// WithTimestamp toggles the timestamp prefix.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.withTime = enabled }
}

// NewConsoleLogger creates a console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:      os.Stderr,
		level:    ports.LevelInfo,
		withTime: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debug logs at debug level.
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.emit(ctx, ports.LevelDebug, msg, fields)
}

// Info logs at info level.
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.emit(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs at warn level.
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.emit(ctx, ports.LevelWarn, msg, fields)
}

// Error logs at error level.
func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.emit(ctx, ports.LevelError, msg, fields)
}

// With returns a logger that adds fields to every entry.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	child := &ConsoleLogger{
		out:      l.out,
		level:    l.level,
		asJSON:   l.asJSON,
		withTime: l.withTime,
	}
	child.bound = append(append([]ports.Field{}, l.bound...), fields...)
	return child
}

// Level returns the minimum log level.
func (l *ConsoleLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) emit(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	all := append(append([]ports.Field{}, l.bound...), fields...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.asJSON {
		l.writeJSON(level, msg, all)
		return
	}
	l.writeText(level, msg, all)
}

func (l *ConsoleLogger) writeJSON(level ports.Level, msg string, fields []ports.Field) {
	entry := map[string]interface{}{
		"level": level.String(),
		"msg":   msg,
	}
	if l.withTime {
		entry["time"] = time.Now().UTC().Format(time.RFC3339)
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	fmt.Fprintln(l.out, string(data))
}

func (l *ConsoleLogger) writeText(level ports.Level, msg string, fields []ports.Field) {
	var b strings.Builder
	if l.withTime {
		b.WriteString(time.Now().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] %s", level.String(), msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(l.out, b.String())
}

// Ensure ConsoleLogger implements Logger.
var _ ports.Logger = (*ConsoleLogger)(nil)

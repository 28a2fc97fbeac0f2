package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger wraps zerolog for the CLI and hands the raw logger to springs.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger. Output defaults to stderr so command
// output on stdout stays machine readable.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &Logger{base: logger}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// Zerolog exposes the underlying logger for packages that take one directly.
func (l *Logger) Zerolog() zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.base
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}

	derived := Logger{base: builder.Logger()}
	return &derived
}

func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger used across the service. BusinessError is for
// expected, user-caused failures; InternalError is for everything else.
type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
}

type Options struct {
	Output io.Writer
	Level  string
	Format string
	Env    string
}

type logrusLogger struct {
	entry *logrus.Entry
}

func NewFromEnv() Logger {
	return New(Options{
		Output: os.Stdout,
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
		Env:    os.Getenv("ENV"),
	})
}

func New(opts Options) Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	if opts.Output != nil {
		base.SetOutput(opts.Output)
	}
	base.SetLevel(parseLevel(opts.Level, normalizeValue(opts.Env)))

	if normalizeValue(opts.Format) == "text" {
		base.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{})
	}

	return &logrusLogger{entry: logrus.NewEntry(base)}
}

// Nop discards everything. Used by tests and by components built without a logger.
func Nop() Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.PanicLevel)
	return &logrusLogger{entry: logrus.NewEntry(base)}
}

func (l *logrusLogger) Debug(message string, args ...any) {
	l.entry.WithFields(fields(args)).Debug(message)
}

func (l *logrusLogger) Info(message string, args ...any) {
	l.entry.WithFields(fields(args)).Info(message)
}

func (l *logrusLogger) Warn(message string, args ...any) {
	l.entry.WithFields(fields(args)).Warn(message)
}

func (l *logrusLogger) Error(message string, args ...any) {
	l.entry.WithFields(fields(args)).Error(message)
}

// Critical is logged at error level and tagged so alerting can pick it out.
func (l *logrusLogger) Critical(message string, args ...any) {
	l.entry.WithFields(fields(args)).WithField("severity", "critical").Error(message)
}

func (l *logrusLogger) BusinessError(message string, err error, args ...any) {
	if err == nil {
		return
	}
	l.entry.WithFields(fields(args)).WithField("err", err.Error()).Warn(message)
}

func (l *logrusLogger) InternalError(message string, err error, args ...any) {
	if err == nil {
		return
	}
	l.entry.WithFields(fields(args)).WithField("err", err.Error()).Error(message)
}

func (l *logrusLogger) With(args ...any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields(args))}
}

// fields turns alternating key/value args into logrus fields. A dangling key
// is kept under "!BADKEY" so nothing is silently dropped.
func fields(args []any) logrus.Fields {
	out := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			out["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		value := args[i+1]
		if err, ok := value.(error); ok && err != nil {
			value = err.Error()
		}
		out[key] = value
	}
	return out
}

func parseLevel(value string, env string) logrus.Level {
	switch normalizeValue(value) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error", "critical", "fatal":
		return logrus.ErrorLevel
	case "info":
		return logrus.InfoLevel
	default:
		if env == "development" {
			return logrus.DebugLevel
		}
		return logrus.InfoLevel
	}
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

package log

import (
	"context"
	"io"
	"log/slog"
)

// SetupLogger configures the default slog logger with Cloud Logging keys and
// cockroachdb stack traces, and installs it as the process-wide provider.
func SetupLogger(w io.Writer, loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	logger := slog.New(WrapByErrFmtHandler(handler))
	slog.SetDefault(logger)
	SetProvider(&slogProvider{logger: logger})
	return nil
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

type slogLogger struct {
	l *slog.Logger
}

// FromSlog adapts a *slog.Logger to Logger.
func FromSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) {
	s.l.Debug(msg, fields...)
}

func (s *slogLogger) Info(msg string, fields ...any) {
	s.l.Info(msg, fields...)
}

func (s *slogLogger) Warn(msg string, fields ...any) {
	s.l.Warn(msg, fields...)
}

func (s *slogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	s.l.Error(msg, fields...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

type slogProvider struct {
	logger *slog.Logger
}

func (p *slogProvider) GetLogger() Logger { return FromSlog(p.logger) }

func (p *slogProvider) GetLoggerWithName(name string) Logger {
	return FromSlog(p.logger.With(ComponentKey, name))
}

// SetLevel is a no-op; the slog handler level is fixed by SetupLogger.
func (p *slogProvider) SetLevel(Level) {}

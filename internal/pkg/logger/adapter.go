package logger

import (
	"log/slog"

	"wallet_dashboard/internal/app/port"
)

// slogAdapter implements port.Logger on top of a *slog.Logger.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a port.Logger writing through the global slog logger.
func NewSlogAdapter() port.Logger {
	ensureInitialized()
	return &slogAdapter{l: globalLogger}
}

// FromSlog wraps an arbitrary slog logger, e.g. one writing to a test buffer.
func FromSlog(l *slog.Logger) port.Logger {
	return &slogAdapter{l: l}
}

// Nop returns a logger that discards everything.
func Nop() port.Logger {
	return &slogAdapter{l: slog.New(slog.DiscardHandler)}
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{l: a.l.With(args...)}
}

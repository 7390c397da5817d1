package stomp

import "log/slog"

// Logger receives the client's and server's structured log records.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// defaultLogger returns the default slog logger tagged with the package name.
func defaultLogger() Logger {
	return slog.Default().With("component", "stomp")
}

// frameArgs returns the key-value pairs logged for a frame.
// Header values and the body are left out.
func frameArgs(f Frame, args ...any) []any {
	return append([]any{
		"command", f.Command,
		"headers", len(f.Headers),
		"body_size", len(f.Body),
	}, args...)
}

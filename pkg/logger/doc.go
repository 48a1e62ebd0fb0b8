// Package logger builds the application's slog loggers (json or text,
// env-configurable level) and provides the shared attribute helpers used
// across services.
package logger

// Package logger builds configured slog.Logger instances: JSON for the
// server, text for the reconciliation CLI, with optional context extractors
// that inject request-scoped attributes (tenant ID, request ID) at log time.
package logger

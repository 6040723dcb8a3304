// Package logger provides structured logging for rifsredis.
//
// New builds a *slog.Logger with JSON or text output, a process-wide level
// that SetLevel changes at runtime, and attribute redaction (redact.go).
//
// Request-scoped logging goes through the context: WithCorrelationID
// stores the id and ContextHandler adds it as correlation_id to every
// record logged with that context.
package logger

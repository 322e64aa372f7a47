// Package logging provides structured logging utilities for agendabot.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Security Considerations
//
// OAuth tokens must never appear in logs. Use SanitizeToken whenever a token
// value would otherwise end up in a log attribute.
package logging

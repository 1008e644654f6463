// Package logging builds the process-wide slog.Logger from the
// telemetry configuration: level filtering and a text or JSON handler.
package logging

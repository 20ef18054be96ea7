// Package logging configures slog for jsonai.
//
// By default only warnings reach stderr, so per-file skip notices are
// visible while normal runs stay quiet. --debug lowers the level and
// --log-file adds a rotating JSON log next to the stderr output.
package logging

// Package log provides structured event logging for the credential
// subsystem.
//
// Events are captured at three points: connection state transitions in the
// orchestrator, derivation progress, and credential store operations.
// Applications choose where events go by picking a Logger implementation:
//
//   - NoopLogger: discard everything (the default)
//   - FileLogger: append CBOR-encoded events to a file
//   - SlogAdapter: forward events to a slog.Logger at debug level
//   - MultiLogger: fan out to several loggers at once
//
// File logs use CBOR with integer map keys for compactness and can be read
// back with Reader, optionally filtered by attempt, network, category or
// time range.
package log

package log

// Logger receives credential subsystem events. Pass nil or NoopLogger to
// disable logging.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent
	// use and should return quickly; a slow logger stalls the caller.
	Log(event Event)
}

// NoopLogger discards all events and is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}

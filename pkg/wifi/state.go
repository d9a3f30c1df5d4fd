package wifi

// State represents the connection attempt state.
type State uint8

const (
	// StateIdle indicates no attempt is in progress.
	StateIdle State = iota

	// StateResolvingSecret indicates the secret is being looked up or
	// derived.
	StateResolvingSecret

	// StateAssociating indicates the interface is associating.
	StateAssociating

	// StateConnected indicates a successful association (terminal).
	StateConnected

	// StateFailed indicates a terminal failure.
	StateFailed

	// StateTimedOut indicates the polling budget expired (terminal).
	StateTimedOut
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateResolvingSecret:
		return "RESOLVING_SECRET"
	case StateAssociating:
		return "ASSOCIATING"
	case StateConnected:
		return "CONNECTED"
	case StateFailed:
		return "FAILED"
	case StateTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

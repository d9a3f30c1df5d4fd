package log

import (
	"time"
)

// Event is a single credential subsystem event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AttemptID identifies the connection attempt the event belongs to
	// (UUID). Empty for events outside a connection attempt.
	AttemptID string `cbor:"2,keyasint,omitempty"`

	// NetworkID is the network the event relates to.
	NetworkID string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"5,keyasint,omitempty"` // Orchestrator transitions
	Progress    *ProgressEvent    `cbor:"6,keyasint,omitempty"` // Derivation progress
	Store       *StoreEvent       `cbor:"7,keyasint,omitempty"` // Credential store operations
	Error       *ErrorEventData   `cbor:"8,keyasint,omitempty"` // Errors at any layer
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a connection state transition.
	CategoryState Category = 0
	// CategoryProgress indicates derivation progress.
	CategoryProgress Category = 1
	// CategoryStore indicates a credential store operation.
	CategoryStore Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryProgress:
		return "PROGRESS"
	case CategoryStore:
		return "STORE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures an orchestrator state transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ProgressEvent captures derivation progress.
type ProgressEvent struct {
	// Percent of the derivation completed, in [0,100].
	Percent int `cbor:"1,keyasint"`
}

// StoreEvent captures a credential store operation.
type StoreEvent struct {
	// Op is the operation performed.
	Op StoreOp `cbor:"1,keyasint"`

	// Written indicates whether the backend was actually written.
	// False for reads and for writes skipped by the idempotence check.
	Written bool `cbor:"2,keyasint,omitempty"`
}

// StoreOp identifies a credential store operation.
type StoreOp uint8

const (
	// StoreOpPut indicates a record write.
	StoreOpPut StoreOp = 0
	// StoreOpGet indicates a record read.
	StoreOpGet StoreOp = 1
	// StoreOpRemove indicates a record removal.
	StoreOpRemove StoreOp = 2
	// StoreOpDerive indicates a derive-and-cache operation.
	StoreOpDerive StoreOp = 3
)

// String returns the operation name.
func (o StoreOp) String() string {
	switch o {
	case StoreOpPut:
		return "PUT"
	case StoreOpGet:
		return "GET"
	case StoreOpRemove:
		return "REMOVE"
	case StoreOpDerive:
		return "DERIVE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}

package wifi

import (
	"net"
)

// Interface is the externally owned network interface capability the
// orchestrator drives. Implementations wrap a real Wi-Fi stack; tests use
// fakes. Implementations need not be safe for concurrent use — the
// orchestrator serializes access.
type Interface interface {
	// Activate powers the interface up or down. Deactivating an inactive
	// interface must be harmless.
	Activate(enabled bool) error

	// IsAssociated reports whether the interface is currently associated
	// with a network.
	IsAssociated() bool

	// CurrentNetworkID returns the ID of the associated network, or the
	// empty string when not associated.
	CurrentNetworkID() string

	// Disassociate drops the current association, if any.
	Disassociate() error

	// Associate begins associating with the given network using the
	// derived secret. Association completes asynchronously; poll
	// IsAssociated for the result.
	Associate(networkID string, secret []byte) error

	// SetHostname sets the hostname the interface announces via DHCP.
	SetHostname(name string) error

	// LocalAddr returns the interface's address once associated, or nil.
	LocalAddr() net.IP
}

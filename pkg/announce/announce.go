package announce

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

const (
	// ServiceType is the advertised mDNS service type.
	ServiceType = "_workstation._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is advertised when the config gives none. The service
	// carries no listener; the port only satisfies the SRV record.
	DefaultPort = 9

	// maxInstanceNameLen caps the instance name per RFC 6763.
	maxInstanceNameLen = 63
)

// Config describes the announcement.
type Config struct {
	// Hostname becomes the service instance name. Required.
	Hostname string

	// NetworkID of the network just joined, published as a TXT record.
	NetworkID string

	// Addr is the interface address, published as a TXT record when set.
	Addr net.IP

	// Port for the SRV record. DefaultPort when zero.
	Port int

	// TTL for the published records. Zero keeps the zeroconf default.
	TTL time.Duration

	// Interface restricts advertising to one network interface by name.
	// Empty advertises on all interfaces.
	Interface string
}

// Announcer is a running mDNS advertisement.
type Announcer struct {
	mu     sync.Mutex
	server *zeroconf.Server
}

// Start registers the service and returns the running announcer.
func Start(cfg Config) (*Announcer, error) {
	if cfg.Hostname == "" {
		return nil, fmt.Errorf("announce: hostname must not be empty")
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if cfg.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(cfg.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		InstanceName(cfg.Hostname),
		ServiceType,
		Domain,
		port,
		TXTRecords(cfg),
		interfaces(cfg.Interface),
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("registering mDNS service: %w", err)
	}

	return &Announcer{server: server}, nil
}

// Shutdown withdraws the advertisement. Safe to call more than once.
func (a *Announcer) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// InstanceName derives a valid mDNS instance name from a hostname:
// whitespace collapses to dashes and the result is capped at 63 bytes.
func InstanceName(hostname string) string {
	name := strings.Join(strings.Fields(hostname), "-")
	if len(name) > maxInstanceNameLen {
		name = name[:maxInstanceNameLen]
	}
	return name
}

// TXTRecords builds the TXT records for a config.
func TXTRecords(cfg Config) []string {
	txt := []string{"vendor=wifiman"}
	if cfg.NetworkID != "" {
		txt = append(txt, "network="+cfg.NetworkID)
	}
	if cfg.Addr != nil {
		txt = append(txt, "addr="+cfg.Addr.String())
	}
	return txt
}

// interfaces resolves the configured interface name. Nil means all.
func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

package main

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/wifiman-dev/wifiman-go/pkg/wifi"
)

// simInterface is a simulated radio for exercising the connector without
// hardware. Association completes after a fixed delay.
type simInterface struct {
	mu sync.Mutex

	delay time.Duration

	active       bool
	network      string
	hostname     string
	associatedAt time.Time
}

func newSimInterface(delay time.Duration) *simInterface {
	return &simInterface{delay: delay}
}

func (s *simInterface) Activate(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = enabled
	if !enabled {
		s.network = ""
		s.associatedAt = time.Time{}
	}
	return nil
}

func (s *simInterface) IsAssociated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network != "" && time.Now().After(s.associatedAt)
}

func (s *simInterface) CurrentNetworkID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.network == "" || !time.Now().After(s.associatedAt) {
		return ""
	}
	return s.network
}

func (s *simInterface) Disassociate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = ""
	s.associatedAt = time.Time{}
	return nil
}

func (s *simInterface) Associate(networkID string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return errors.New("interface not active")
	}
	if len(secret) == 0 {
		return errors.New("empty secret")
	}
	s.network = networkID
	s.associatedAt = time.Now().Add(s.delay)
	return nil
}

func (s *simInterface) SetHostname(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostname = name
	return nil
}

func (s *simInterface) LocalAddr() net.IP {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.network == "" {
		return nil
	}
	return net.IPv4(192, 168, 4, 2)
}

// Compile-time interface satisfaction check.
var _ wifi.Interface = (*simInterface)(nil)

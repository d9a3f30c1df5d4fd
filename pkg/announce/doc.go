// Package announce publishes the device on the local network via mDNS
// once a connection attempt has succeeded, so the freshly connected host
// can be found by name without a DNS server.
package announce

// Package config loads the wifiman runtime configuration from a YAML
// file: the credential store location, the event log location, the DHCP
// hostname and the networks to try.
package config

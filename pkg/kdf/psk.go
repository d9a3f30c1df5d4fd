package kdf

import (
	"fmt"
)

// PSK constants.
const (
	// PSKSize is the size of a WPA2 pre-shared key in bytes.
	PSKSize = 32

	// MaxNetworkIDLength is the maximum network identifier length in bytes
	// (the 802.11 SSID limit).
	MaxNetworkIDLength = 32
)

// DerivePSK derives the WPA2 pre-shared key for a network from its
// passphrase: PBKDF2-HMAC-SHA1 with the network ID as the salt, 4096
// iterations and a 256-bit output.
//
// progress may be nil. The network ID must be 1..32 bytes, otherwise an
// error wrapping ErrInvalidParameter is returned.
func DerivePSK(networkID, passphrase string, progress ProgressFunc) ([]byte, error) {
	if networkID == "" {
		return nil, fmt.Errorf("%w: network ID must not be empty", ErrInvalidParameter)
	}
	if len(networkID) > MaxNetworkIDLength {
		return nil, fmt.Errorf("%w: network ID exceeds %d bytes", ErrInvalidParameter, MaxNetworkIDLength)
	}

	return Derive([]byte(passphrase), []byte(networkID), DefaultIterations, DefaultKeyBits, HMACSHA1, progress)
}

// Package kdf implements the key derivation used for Wi-Fi pre-shared keys.
//
// # Overview
//
// The package provides PBKDF2 over a pluggable MAC primitive. The shipped
// primitive is HMAC-SHA1 (the WPA2 PRF), written out in full rather than
// delegated to a library: the derivation engine is the product here, and
// it must behave identically on every platform the credential subsystem
// targets.
//
// # WPA2 profile
//
// DerivePSK fixes the parameters the rest of the subsystem relies on:
//
//   - 4096 iterations
//   - 256-bit (32-byte) output
//   - HMAC-SHA1 as the PRF
//   - the network ID as the salt
//
// # Progress reporting
//
// Derivation at 4096 iterations is the dominant cost center of the
// subsystem, so Derive accepts an optional ProgressFunc. The callback is
// best-effort telemetry: it is invoked roughly every 128 completed inner
// iterations and once more with exactly 100 at completion, and a panicking
// callback is recovered and ignored rather than aborting the derivation.
//
// # Errors
//
//   - ErrInvalidParameter: malformed request (caller bug, not retried)
//   - ErrDerivationFailed: the MAC primitive faulted; the cause is attached
//     and no partial output is returned
package kdf

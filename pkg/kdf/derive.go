package kdf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Derivation defaults for the WPA2 profile.
const (
	// DefaultIterations is the WPA2 PBKDF2 iteration count.
	DefaultIterations = 4096

	// DefaultKeyBits is the WPA2 derived key length in bits.
	DefaultKeyBits = 256

	// progressStride is how many completed inner iterations pass between
	// progress callbacks.
	progressStride = 128
)

// Derivation errors.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDerivationFailed = errors.New("derivation failed")
)

// ProgressFunc receives derivation progress as a percentage in [0,100].
// It is called approximately every 128 completed inner iterations across
// the whole derivation and once more with exactly 100 at completion.
// Callbacks are best-effort: a panic inside the callback is recovered and
// does not abort the derivation.
type ProgressFunc func(percent int)

// Derive runs PBKDF2 over the given MAC primitive and returns a key of
// keyBits/8 bytes.
//
// keyBits must be a positive multiple of 8 and iterations must be at least
// 1, otherwise an error wrapping ErrInvalidParameter is returned. A nil mac
// selects HMACSHA1. Any fault in the MAC primitive is surfaced as an error
// wrapping ErrDerivationFailed carrying the cause; no partial key is ever
// returned.
//
// Derive is deterministic: identical inputs always yield identical output.
func Derive(password, salt []byte, iterations, keyBits int, mac MAC, progress ProgressFunc) ([]byte, error) {
	if keyBits <= 0 || keyBits%8 != 0 {
		return nil, fmt.Errorf("%w: key length %d bits must be a positive multiple of 8", ErrInvalidParameter, keyBits)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations %d must be at least 1", ErrInvalidParameter, iterations)
	}
	if mac == nil {
		mac = HMACSHA1
	}

	keyLen := keyBits / 8
	blockCount := (keyLen + DigestSize - 1) / DigestSize

	// done counts completed inner iterations across all blocks.
	done := 0
	total := iterations * blockCount

	dk := make([]byte, 0, blockCount*DigestSize)
	seed := make([]byte, 0, len(salt)+4)
	seed = append(seed, salt...)

	for block := 1; block <= blockCount; block++ {
		seed = binary.BigEndian.AppendUint32(seed[:len(salt)], uint32(block))

		u, err := mac(password, seed)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %w", ErrDerivationFailed, block, err)
		}
		if len(u) != DigestSize {
			return nil, fmt.Errorf("%w: block %d: unexpected digest size %d", ErrDerivationFailed, block, len(u))
		}

		t := make([]byte, DigestSize)
		copy(t, u)

		for iter := 2; iter <= iterations; iter++ {
			u, err = mac(password, u)
			if err != nil {
				return nil, fmt.Errorf("%w: block %d iteration %d: %w", ErrDerivationFailed, block, iter, err)
			}
			if len(u) != DigestSize {
				return nil, fmt.Errorf("%w: block %d iteration %d: unexpected digest size %d", ErrDerivationFailed, block, iter, len(u))
			}
			for j := range t {
				t[j] ^= u[j]
			}

			done++
			if progress != nil && done%progressStride == 0 {
				report(progress, 100*done/total)
			}
		}

		dk = append(dk, t...)
	}

	if progress != nil {
		report(progress, 100)
	}

	return dk[:keyLen], nil
}

// report invokes the progress callback, swallowing any panic so telemetry
// cannot abort a derivation.
func report(progress ProgressFunc, percent int) {
	defer func() {
		_ = recover()
	}()
	progress(percent)
}

package kdf

import (
	"crypto/sha1"
)

// MAC primitive constants.
const (
	// BlockSize is the hash block size in bytes (SHA-1).
	BlockSize = 64

	// DigestSize is the MAC output size in bytes (SHA-1).
	DigestSize = 20
)

// MAC is a keyed message-authentication function over byte sequences.
// The derivation engine uses it as its pseudorandom function. The shipped
// implementation is HMACSHA1; alternatives must produce DigestSize-byte
// digests.
type MAC func(key, message []byte) ([]byte, error)

// HMACSHA1 computes HMAC-SHA1 over message with the given key.
//
// Keys longer than BlockSize are replaced by their SHA-1 digest, then the
// key is zero-padded to BlockSize. The result is
// H(key XOR opad || H(key XOR ipad || message)) with opad = 0x5C... and
// ipad = 0x36... . The function is pure and never returns an error.
func HMACSHA1(key, message []byte) ([]byte, error) {
	if len(key) > BlockSize {
		sum := sha1.Sum(key)
		key = sum[:]
	}

	outerPad := make([]byte, BlockSize)
	innerPad := make([]byte, BlockSize)
	copy(outerPad, key)
	copy(innerPad, key)
	for i := 0; i < BlockSize; i++ {
		outerPad[i] ^= 0x5C
		innerPad[i] ^= 0x36
	}

	inner := sha1.New()
	inner.Write(innerPad)
	inner.Write(message)

	outer := sha1.New()
	outer.Write(outerPad)
	outer.Write(inner.Sum(nil))

	return outer.Sum(nil), nil
}

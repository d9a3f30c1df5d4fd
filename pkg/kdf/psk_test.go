package kdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDerivePSK_KnownVector(t *testing.T) {
	// WPA2 PSK vector from IEEE 802.11i Annex H.
	got, err := DerivePSK("IEEE", "password", nil)
	if err != nil {
		t.Fatalf("DerivePSK() error = %v", err)
	}
	want := mustHex(t, "f42c6fc52df0ebef9ebb4b90b38a5f902e83fe1b135a70e23aed762e9710a12e")
	if !bytes.Equal(got, want) {
		t.Errorf("DerivePSK() = %x, want %x", got, want)
	}
}

func TestDerivePSK_Size(t *testing.T) {
	got, err := DerivePSK("HomeNet", "hunter22", nil)
	if err != nil {
		t.Fatalf("DerivePSK() error = %v", err)
	}
	if len(got) != PSKSize {
		t.Errorf("len = %d, want %d", len(got), PSKSize)
	}
}

func TestDerivePSK_NetworkIDValidation(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := DerivePSK("", "passphrase", nil)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("error = %v, want ErrInvalidParameter", err)
		}
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := DerivePSK(strings.Repeat("x", MaxNetworkIDLength+1), "passphrase", nil)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("error = %v, want ErrInvalidParameter", err)
		}
	})

	t.Run("MaxLength", func(t *testing.T) {
		if _, err := DerivePSK(strings.Repeat("x", MaxNetworkIDLength), "passphrase", nil); err != nil {
			t.Errorf("DerivePSK() error = %v, want nil", err)
		}
	})
}

package kdf

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestDerive_RFC6070Vectors(t *testing.T) {
	// Published PBKDF2-HMAC-SHA1 test vectors from RFC 6070.
	tests := []struct {
		name       string
		password   string
		salt       string
		iterations int
		keyBits    int
		want       string
	}{
		{
			name:       "OneIteration",
			password:   "password",
			salt:       "salt",
			iterations: 1,
			keyBits:    160,
			want:       "0c60c80f961f0e71f3a9b524af6012062fe037a6",
		},
		{
			name:       "TwoIterations",
			password:   "password",
			salt:       "salt",
			iterations: 2,
			keyBits:    160,
			want:       "ea6c014dc72d6f8ccd1ed92ace1d41f0d8de8957",
		},
		{
			name:       "FourThousandIterations",
			password:   "password",
			salt:       "salt",
			iterations: 4096,
			keyBits:    160,
			want:       "4b007901b765489abead49d926f721d065a429c1",
		},
		{
			name:       "MultiBlockOutput",
			password:   "passwordPASSWORDpassword",
			salt:       "saltSALTsaltSALTsaltSALTsaltSALTsalt",
			iterations: 4096,
			keyBits:    200,
			want:       "3d2eec4fe41c849b80c8d83662c0e44a8b291a964cf2f07038",
		},
		{
			name:       "EmbeddedNul",
			password:   "pass\x00word",
			salt:       "sa\x00lt",
			iterations: 4096,
			keyBits:    128,
			want:       "56fa6aa75548099dcc37d7f03425e0c3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive([]byte(tt.password), []byte(tt.salt), tt.iterations, tt.keyBits, HMACSHA1, nil)
			if err != nil {
				t.Fatalf("Derive() error = %v", err)
			}
			if !bytes.Equal(got, mustHex(t, tt.want)) {
				t.Errorf("Derive() = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestDerive_MatchesReference(t *testing.T) {
	// Cross-check against the x/crypto reference implementation for
	// parameters off the published-vector grid.
	cases := []struct {
		iterations int
		keyBits    int
	}{
		{1, 8},
		{3, 160},
		{7, 168},
		{100, 320},
		{256, 296},
	}

	for _, c := range cases {
		got, err := Derive([]byte("cross"), []byte("check"), c.iterations, c.keyBits, HMACSHA1, nil)
		if err != nil {
			t.Fatalf("Derive(iter=%d, bits=%d) error = %v", c.iterations, c.keyBits, err)
		}
		want := pbkdf2.Key([]byte("cross"), []byte("check"), c.iterations, c.keyBits/8, sha1.New)
		if !bytes.Equal(got, want) {
			t.Errorf("Derive(iter=%d, bits=%d) = %x, want %x", c.iterations, c.keyBits, got, want)
		}
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a, err := Derive([]byte("secret"), []byte("HomeNet"), 64, 256, HMACSHA1, nil)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	b, err := Derive([]byte("secret"), []byte("HomeNet"), 64, 256, HMACSHA1, nil)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("Derive() not deterministic: %x != %x", a, b)
	}
}

func TestDerive_OutputLength(t *testing.T) {
	for _, bits := range []int{8, 160, 200, 256, 512} {
		got, err := Derive([]byte("pw"), []byte("salt"), 2, bits, HMACSHA1, nil)
		if err != nil {
			t.Fatalf("Derive(bits=%d) error = %v", bits, err)
		}
		if len(got) != bits/8 {
			t.Errorf("len(Derive(bits=%d)) = %d, want %d", bits, len(got), bits/8)
		}
	}
}

func TestDerive_InvalidParameters(t *testing.T) {
	t.Run("BitsNotMultipleOfEight", func(t *testing.T) {
		_, err := Derive([]byte("pw"), []byte("salt"), 1, 100, HMACSHA1, nil)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Derive(bits=100) error = %v, want ErrInvalidParameter", err)
		}
	})

	t.Run("ZeroBits", func(t *testing.T) {
		_, err := Derive([]byte("pw"), []byte("salt"), 1, 0, HMACSHA1, nil)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Derive(bits=0) error = %v, want ErrInvalidParameter", err)
		}
	})

	t.Run("ZeroIterations", func(t *testing.T) {
		_, err := Derive([]byte("pw"), []byte("salt"), 0, 160, HMACSHA1, nil)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Derive(iterations=0) error = %v, want ErrInvalidParameter", err)
		}
	})
}

func TestDerive_NilMACDefaultsToHMACSHA1(t *testing.T) {
	got, err := Derive([]byte("password"), []byte("salt"), 1, 160, nil, nil)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if !bytes.Equal(got, mustHex(t, "0c60c80f961f0e71f3a9b524af6012062fe037a6")) {
		t.Errorf("Derive(mac=nil) = %x, want RFC 6070 vector", got)
	}
}

func TestDerive_FaultyMAC(t *testing.T) {
	macErr := errors.New("primitive fault")
	calls := 0
	mac := func(key, msg []byte) ([]byte, error) {
		calls++
		if calls > 3 {
			return nil, macErr
		}
		return HMACSHA1(key, msg)
	}

	got, err := Derive([]byte("pw"), []byte("salt"), 10, 160, mac, nil)
	if got != nil {
		t.Errorf("Derive() returned partial output %x on failure", got)
	}
	if !errors.Is(err, ErrDerivationFailed) {
		t.Errorf("error = %v, want ErrDerivationFailed", err)
	}
	if !errors.Is(err, macErr) {
		t.Errorf("error = %v, want wrapped cause %v", err, macErr)
	}
}

func TestDerive_WrongDigestSize(t *testing.T) {
	mac := func(key, msg []byte) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	_, err := Derive([]byte("pw"), []byte("salt"), 2, 160, mac, nil)
	if !errors.Is(err, ErrDerivationFailed) {
		t.Errorf("error = %v, want ErrDerivationFailed", err)
	}
}

func TestDerive_Progress(t *testing.T) {
	t.Run("MonotonicEndingAtHundred", func(t *testing.T) {
		var percents []int
		_, err := Derive([]byte("pw"), []byte("salt"), 256, 256, HMACSHA1, func(p int) {
			percents = append(percents, p)
		})
		if err != nil {
			t.Fatalf("Derive() error = %v", err)
		}

		if len(percents) == 0 {
			t.Fatal("progress callback never invoked")
		}
		for i, p := range percents {
			if p < 0 || p > 100 {
				t.Errorf("percent[%d] = %d, out of [0,100]", i, p)
			}
			if i > 0 && p < percents[i-1] {
				t.Errorf("percent[%d] = %d decreased from %d", i, p, percents[i-1])
			}
		}
		if last := percents[len(percents)-1]; last != 100 {
			t.Errorf("final percent = %d, want 100", last)
		}
	})

	t.Run("PanickingCallbackIsNonFatal", func(t *testing.T) {
		got, err := Derive([]byte("password"), []byte("salt"), 4096, 160, HMACSHA1, func(int) {
			panic("telemetry down")
		})
		if err != nil {
			t.Fatalf("Derive() error = %v", err)
		}
		if !bytes.Equal(got, mustHex(t, "4b007901b765489abead49d926f721d065a429c1")) {
			t.Errorf("Derive() = %x, output corrupted by callback panic", got)
		}
	})

	t.Run("NotInvokedPerBlock", func(t *testing.T) {
		// With 1 iteration there are no completed inner iterations, so
		// the only callback is the unconditional final 100.
		var percents []int
		_, err := Derive([]byte("pw"), []byte("salt"), 1, 512, HMACSHA1, func(p int) {
			percents = append(percents, p)
		})
		if err != nil {
			t.Fatalf("Derive() error = %v", err)
		}
		if len(percents) != 1 || percents[0] != 100 {
			t.Errorf("percents = %v, want exactly [100]", percents)
		}
	})
}

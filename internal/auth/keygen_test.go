package auth

import (
	"strings"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		env        string
		wantPrefix string
	}{
		{"live", EnvLive, "lx_live_"},
		{"test", EnvTest, "lx_test_"},
		{"unknown defaults to live", "staging", "lx_live_"},
		{"empty defaults to live", "", "lx_live_"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, err := GenerateKey(tt.env)
			if err != nil {
				t.Fatalf("GenerateKey failed: %v", err)
			}
			if !strings.HasPrefix(key.Plaintext, tt.wantPrefix) {
				t.Errorf("expected prefix %s, got %s", tt.wantPrefix, key.Plaintext)
			}
			if !ValidateKeyFormat(key.Plaintext) {
				t.Errorf("generated key has invalid format: %s", key.Plaintext)
			}
			if key.KeyID != KeyID(key.Plaintext) {
				t.Errorf("KeyID mismatch")
			}

			ok, err := VerifyKey(key.Plaintext, key.Hash)
			if err != nil || !ok {
				t.Errorf("hash does not verify the plaintext: %v %v", ok, err)
			}
		})
	}
}

func TestGenerateKey_Unique(t *testing.T) {
	t.Parallel()

	a, _ := GenerateKey(EnvTest)
	b, _ := GenerateKey(EnvTest)
	if a.Plaintext == b.Plaintext {
		t.Fatal("generated keys must be unique")
	}
}

func TestKeyEnv(t *testing.T) {
	t.Parallel()

	env, err := KeyEnv("lx_test_" + strings.Repeat("a", 32))
	if err != nil || env != EnvTest {
		t.Errorf("KeyEnv = %q, %v", env, err)
	}

	invalid := []string{"", "lx_test_short", "pk_live_" + strings.Repeat("a", 32), "lx_prod_" + strings.Repeat("a", 32)}
	for _, k := range invalid {
		if _, err := KeyEnv(k); err != ErrInvalidKeyFormat {
			t.Errorf("KeyEnv(%q) error = %v, want ErrInvalidKeyFormat", k, err)
		}
	}
}

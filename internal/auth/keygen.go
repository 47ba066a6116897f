package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Key format: lx_{env}_{secret}
// Example: lx_live_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	KeySecretLen = 32 // hex encoded 16 bytes
)

// Environment indicators for the key prefix.
const (
	EnvLive = "live"
	EnvTest = "test"
)

var (
	// ErrInvalidKeyFormat indicates the key format is invalid.
	ErrInvalidKeyFormat = errors.New("invalid API key format")

	keyFormatRegex = regexp.MustCompile(`^lx_(live|test)_([a-f0-9]{32})$`)
)

// GeneratedKey is a newly generated API key.
type GeneratedKey struct {
	Plaintext string // handed to the client once
	Hash      string // argon2id entry for API_KEY_VALID_KEYS
	KeyID     string // non-secret identifier used in logs
}

// GenerateKey creates a new API key for env. Unknown envs fall back to live.
func GenerateKey(env string) (*GeneratedKey, error) {
	if env != EnvLive && env != EnvTest {
		env = EnvLive
	}

	secret := make([]byte, KeySecretLen/2)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := fmt.Sprintf("lx_%s_%s", env, hex.EncodeToString(secret))

	hash, err := HashKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	return &GeneratedKey{
		Plaintext: plaintext,
		Hash:      hash,
		KeyID:     KeyID(plaintext),
	}, nil
}

// ValidateKeyFormat checks if key matches the generated key format.
// Configured plaintext keys are not required to follow it.
func ValidateKeyFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}

// KeyEnv returns the environment encoded in a generated key.
func KeyEnv(key string) (string, error) {
	m := keyFormatRegex.FindStringSubmatch(key)
	if m == nil {
		return "", ErrInvalidKeyFormat
	}
	return m[1], nil
}

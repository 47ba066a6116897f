package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/config"
)

// KeyMatcher checks candidate API keys against the configured ApiKey section.
// It is immutable after construction and safe for concurrent use.
type KeyMatcher struct {
	plain       [][sha256.Size]byte
	hashed      []string
	fingerprint string
}

// NewKeyMatcher builds a matcher from opts. Blank entries are ignored.
// A matcher built from an empty list rejects every key.
func NewKeyMatcher(opts config.APIKeyOptions) *KeyMatcher {
	m := &KeyMatcher{}
	h := sha256.New()
	for _, entry := range opts.ValidKeys {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
		case IsHashedKey(entry):
			if _, err := decodeHash(entry); err != nil {
				slog.Warn("ignoring malformed hashed API key entry", "section", config.APIKeySectionName, "error", err)
				continue
			}
			m.hashed = append(m.hashed, entry)
		default:
			m.plain = append(m.plain, sha256.Sum256([]byte(entry)))
		}
		h.Write([]byte(entry))
		h.Write([]byte{0})
	}
	m.fingerprint = hex.EncodeToString(h.Sum(nil)[:8])
	return m
}

// Fingerprint identifies the configured key list. It changes whenever the
// list changes, so cache entries derived from it expire with the config.
func (m *KeyMatcher) Fingerprint() string {
	return m.fingerprint
}

// CacheKey derives the verification cache key for candidate.
func (m *KeyMatcher) CacheKey(candidate string) string {
	return QuickHash(m.fingerprint + ":" + candidate)
}

// Len returns the number of usable configured keys.
func (m *KeyMatcher) Len() int {
	return len(m.plain) + len(m.hashed)
}

// Match reports whether candidate equals one of the configured keys.
// Plaintext entries are all compared so timing does not reveal the position of a match.
// Hashed entries only ever hold generated keys, so candidates outside the
// key format skip the argon2 derivation.
func (m *KeyMatcher) Match(candidate string) bool {
	if candidate == "" || m.Len() == 0 {
		return false
	}

	digest := sha256.Sum256([]byte(candidate))
	found := 0
	for i := range m.plain {
		found |= subtle.ConstantTimeCompare(digest[:], m.plain[i][:])
	}
	if found == 1 {
		return true
	}

	if len(m.hashed) == 0 || !ValidateKeyFormat(candidate) {
		return false
	}
	for _, h := range m.hashed {
		if ok, err := VerifyKey(candidate, h); err == nil && ok {
			return true
		}
	}
	return false
}

// KeyID derives a stable, non-secret identifier for a key.
func KeyID(key string) string {
	return QuickHash(key)[:12]
}

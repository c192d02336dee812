package credential

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// secretEnvelopePrefix versions the at-rest encoding so a future scheme can
// coexist with old rows.
const secretEnvelopePrefix = "enc.v1."

// ErrMalformedSecret indicates a stored secret that cannot be decoded.
var ErrMalformedSecret = errors.New("malformed stored secret")

// EncodeSecret wraps a plaintext vendor key into the at-rest envelope.
//
// This is reversible obfuscation, NOT encryption: anyone with database access
// can recover the key. It only keeps secrets from appearing verbatim in dumps
// and logs.
// TODO: replace with AES-GCM using a server-held key and re-encode v1 rows on
// first read.
func EncodeSecret(secret string) (string, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return "", errors.New("secret must not be empty")
	}
	return secretEnvelopePrefix + base64.StdEncoding.EncodeToString([]byte(trimmed)), nil
}

// DecodeSecret unwraps the at-rest envelope back into the plaintext key.
func DecodeSecret(encoded string) (string, error) {
	trimmed := strings.TrimSpace(encoded)
	if !strings.HasPrefix(trimmed, secretEnvelopePrefix) {
		return "", fmt.Errorf("%w: missing envelope prefix", ErrMalformedSecret)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(trimmed, secretEnvelopePrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrMalformedSecret)
	}
	return string(raw), nil
}

// MaskSecret returns a short display hint for a plaintext key, e.g.
// "sk-1…f9Q2". Used in listings so the key itself is never sent back.
func MaskSecret(secret string) string {
	trimmed := strings.TrimSpace(secret)
	if len(trimmed) <= 8 {
		return strings.Repeat("*", len(trimmed))
	}
	return trimmed[:4] + "…" + trimmed[len(trimmed)-4:]
}

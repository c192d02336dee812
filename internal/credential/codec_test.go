package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSecretRoundTrip(t *testing.T) {
	secrets := []string{
		"sk-proj-abc123def456",
		"a",
		"key with spaces inside",
	}
	for _, secret := range secrets {
		encoded, err := EncodeSecret(secret)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(encoded, "enc.v1."))
		assert.NotContains(t, encoded, secret, "plaintext must not appear in the envelope")

		decoded, err := DecodeSecret(encoded)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(secret), decoded)
	}
}

func TestEncodeSecretRejectsEmpty(t *testing.T) {
	_, err := EncodeSecret("   ")
	assert.Error(t, err)
}

func TestDecodeSecretRejectsTampering(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"missing prefix", "c2VjcmV0"},
		{"wrong version", "enc.v9.c2VjcmV0"},
		{"invalid base64", "enc.v1.%%%not-base64%%%"},
		{"empty payload", "enc.v1."},
		{"blank", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSecret(tt.encoded)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedSecret)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "sk-1…f9Q2", MaskSecret("sk-1234567890abf9Q2"))
	assert.Equal(t, "*****", MaskSecret("12345"))
	assert.Equal(t, "", MaskSecret(""))
}

package secrets_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/worklog/pkg/secrets"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := secrets.New("")
	require.ErrorIs(t, err, secrets.ErrMissingSecret)

	_, err = secrets.New("too-short")
	require.ErrorIs(t, err, secrets.ErrMissingSecret)

	codec, err := secrets.New(testSecret)
	require.NoError(t, err)
	require.NotNil(t, codec)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()
	codec, err := secrets.New(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty string", ""},
		{"otp code", "483921"},
		{"session token", "dGhpcyBpcyBhIHNlc3Npb24gdG9rZW4"},
		{"unicode", "Hello 世界 🌍"},
		{"long text", strings.Repeat("provider-access-token-", 20)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := codec.Encrypt(tt.plaintext)
			require.NoError(t, err)
			require.NotEqual(t, tt.plaintext, token)

			decrypted, err := codec.Decrypt(token)
			require.NoError(t, err)
			require.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	t.Parallel()
	codec, err := secrets.New(testSecret)
	require.NoError(t, err)

	a, err := codec.Encrypt("123456")
	require.NoError(t, err)
	b, err := codec.Encrypt("123456")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "fresh nonce must produce distinct ciphertext")
}

func TestDecryptTamperedToken(t *testing.T) {
	t.Parallel()
	codec, err := secrets.New(testSecret)
	require.NoError(t, err)

	token, err := codec.Encrypt("secret payload")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	// Flipping a single bit anywhere in the token must fail the tag check.
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := codec.Decrypt(base64.StdEncoding.EncodeToString(tampered))
		require.ErrorIs(t, err, secrets.ErrIntegrity, "bit flip at byte %d", i)
	}
}

func TestDecryptTruncatedToken(t *testing.T) {
	t.Parallel()
	codec, err := secrets.New(testSecret)
	require.NoError(t, err)

	_, err = codec.Decrypt("")
	require.ErrorIs(t, err, secrets.ErrIntegrity)

	_, err = codec.Decrypt("not base64!!!")
	require.ErrorIs(t, err, secrets.ErrIntegrity)

	short := base64.StdEncoding.EncodeToString(make([]byte, 10))
	_, err = codec.Decrypt(short)
	require.ErrorIs(t, err, secrets.ErrIntegrity)
}

func TestDecryptWithDifferentKey(t *testing.T) {
	t.Parallel()
	codec, err := secrets.New(testSecret)
	require.NoError(t, err)
	other, err := secrets.New("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)

	token, err := codec.Encrypt("secret payload")
	require.NoError(t, err)

	_, err = other.Decrypt(token)
	require.ErrorIs(t, err, secrets.ErrIntegrity)
}

func TestDigestDeterministic(t *testing.T) {
	t.Parallel()
	codec, err := secrets.New(testSecret)
	require.NoError(t, err)

	d1 := codec.Digest("session-token")
	d2 := codec.Digest("session-token")
	require.Equal(t, d1, d2)
	require.NotEqual(t, d1, codec.Digest("other-token"))

	// Digest is keyed: a different master secret yields a different digest.
	other, err := secrets.New("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	require.NotEqual(t, d1, other.Digest("session-token"))
}

func TestEqual(t *testing.T) {
	t.Parallel()
	require.True(t, secrets.Equal("123456", "123456"))
	require.False(t, secrets.Equal("123456", "123457"))
	require.False(t, secrets.Equal("123456", "12345"))
}

package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the AES-256 key length derived from the master secret.
	KeySize = 32

	// MinSecretLen is the minimum accepted master secret length.
	MinSecretLen = 32

	nonceSize = 12
	saltSize  = 16
	tagSize   = 16

	// HKDF info strings separate the encryption key from the lookup-digest
	// key derived from the same master secret.
	encKeyInfo    = "worklog-secrets-enc-v1"
	digestKeyInfo = "worklog-secrets-digest-v1"
)

// Codec encrypts and decrypts short secret strings for at-rest storage.
// All keys are derived once from a single process-wide master secret.
type Codec struct {
	encKey    []byte
	digestKey []byte
}

// New derives the codec keys from the master secret. There is deliberately
// no fallback secret: a missing or short secret is a deployment error and
// must refuse encryption rather than silently downgrade.
func New(masterSecret string) (*Codec, error) {
	if len(masterSecret) < MinSecretLen {
		return nil, ErrMissingSecret
	}

	encKey, err := deriveKey(masterSecret, encKeyInfo)
	if err != nil {
		return nil, err
	}
	digestKey, err := deriveKey(masterSecret, digestKeyInfo)
	if err != nil {
		return nil, err
	}

	return &Codec{encKey: encKey, digestKey: digestKey}, nil
}

// Encrypt seals the plaintext with AES-256-GCM and a fresh random nonce.
// The emitted token is base64(nonce || salt || ciphertext || tag). The salt
// segment is random and currently unused cryptographically; it is reserved
// for per-token key derivation.
//
// Encrypting the same plaintext twice produces different tokens, so tokens
// must never be used as lookup keys. Use Digest for deterministic indexing.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	buf := make([]byte, nonceSize+saltSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	nonce := buf[:nonceSize]
	sealed := aead.Seal(buf, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. Any truncation, corruption or
// key mismatch yields ErrIntegrity; a partially trusted result is never
// returned.
func (c *Codec) Decrypt(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", errors.Join(ErrIntegrity, err)
	}
	if len(raw) < nonceSize+saltSize+tagSize {
		return "", ErrIntegrity
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := raw[:nonceSize]
	ciphertext := raw[nonceSize+saltSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Join(ErrIntegrity, err)
	}

	return string(plaintext), nil
}

// Digest returns a deterministic keyed digest (hex HMAC-SHA256) of the
// value. Stored rows are indexed by the digest of their secret so lookups
// work without persisting plaintext and without deterministic encryption.
func (c *Codec) Digest(value string) string {
	h := hmac.New(sha256.New, c.digestKey)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

// Equal compares two secret strings in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (c *Codec) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return aead, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}

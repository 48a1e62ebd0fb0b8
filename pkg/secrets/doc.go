// Package secrets provides authenticated encryption for short secret
// strings (one-time codes, session tokens, provider access tokens) stored
// at rest, plus a deterministic keyed digest for indexing encrypted rows.
//
// A single process-wide master secret is expanded with HKDF-SHA256 into
// independent AES-256-GCM and HMAC keys. Tokens are base64-encoded
// nonce || salt || ciphertext || tag; every Encrypt call uses a fresh
// random nonce, so two encryptions of the same plaintext never match.
package secrets

// Package otp issues and verifies the one-time numeric codes used to prove
// control of an email address before signup completion and password reset.
//
// At most one token is logically active per (email, purpose): issuing a new
// code deletes any prior one first. Codes live 10 minutes; expiry is
// enforced both by a storage-level TTL sweep and an explicit check at
// verification time. Plaintext codes are returned once at issuance and are
// persisted only through the secrets codec.
package otp

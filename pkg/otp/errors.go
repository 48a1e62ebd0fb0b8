package otp

import "errors"

var (
	// ErrCodeNotFound indicates no active token exists for (email, purpose).
	ErrCodeNotFound = errors.New("otp: no verification code found")

	// ErrCodeExpired indicates the stored token is past its expiry, whether
	// or not the storage sweep has removed it yet.
	ErrCodeExpired = errors.New("otp: verification code expired")

	// ErrCodeMismatch indicates the candidate does not match the issued code.
	ErrCodeMismatch = errors.New("otp: verification code does not match")
)

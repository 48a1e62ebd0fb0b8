package email

import "errors"

var (
	// ErrDeliveryFailed indicates the provider rejected or failed the send.
	// It is a dependency failure, never to be masked as validation.
	ErrDeliveryFailed = errors.New("mailer: failed to send email")

	ErrInvalidParams = errors.New("mailer: invalid send parameters")
	ErrInvalidConfig = errors.New("mailer: invalid config")
)

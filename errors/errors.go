package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEvent     = errors.New("malformed trigger event")
	ErrSecretNotFound     = errors.New("secret not found")
	ErrMalformedSecret    = errors.New("malformed secret payload")
	ErrInvalidLinkRequest = errors.New("invalid signed link request")
	ErrWebhookStatus      = errors.New("webhook returned non-success status")
)

// WebhookStatusError carries the rejected response so it ends up in the invocation error record.
type WebhookStatusError struct {
	StatusCode int
	Body       string
}

func (e *WebhookStatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

func (e *WebhookStatusError) Unwrap() error {
	return ErrWebhookStatus
}

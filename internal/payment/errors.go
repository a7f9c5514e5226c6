package payment

import "errors"

var (
	// ErrCaptureNotFound is returned when the gateway has no record of the
	// referenced capture.
	ErrCaptureNotFound = errors.New("payment: capture not found")

	// ErrNotCaptured is returned when the referenced payment exists but has
	// not settled.
	ErrNotCaptured = errors.New("payment: payment not captured")

	// ErrAmountMismatch is returned when the captured amount is less than the
	// order total.
	ErrAmountMismatch = errors.New("payment: captured amount does not match order total")
)

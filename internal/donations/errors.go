package donations

import "errors"

var (
	ErrNotFound        = errors.New("Donation not found")
	ErrNotPending      = errors.New("Donation is not pending")
	ErrNotOnline       = errors.New("Donation is not an online donation")
	ErrReceiptNotReady = errors.New("Receipt is available only for successful donations")
	ErrGateway         = errors.New("Could not create payment order")
)

// ValidationError carries a specific user-facing message for a rejected
// create request. Nothing is persisted when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

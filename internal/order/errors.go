package order

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to submit")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// OrderCreationError carries the server-provided message verbatim.
type OrderCreationError struct {
	Message string
}

func (e *OrderCreationError) Error() string {
	if e.Message == "" {
		return "order creation failed"
	}
	return "order creation failed: " + e.Message
}

// PaymentCreationError reports a failed create-payment call. The order
// it belongs to already exists server-side and stays unconfirmed; no
// compensating cancellation is attempted.
type PaymentCreationError struct {
	Message string
}

func (e *PaymentCreationError) Error() string {
	if e.Message == "" {
		return "payment creation failed"
	}
	return "payment creation failed: " + e.Message
}

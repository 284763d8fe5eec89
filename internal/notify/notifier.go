package notify

import (
	"context"

	"github.com/ovenlight/storefront/internal/domain"
)

// Message is the single outbound notification sent to the host channel
// per completed submission. Field presence depends on the payment
// path: cash completions carry payment_type, online completions carry
// payment_id and status instead.
type Message struct {
	OrderID     int64              `json:"order_id"`
	PaymentID   string             `json:"payment_id,omitempty"`
	TotalAmount float64            `json:"total_amount"`
	PaymentType domain.PaymentType `json:"payment_type,omitempty"`
	Status      string             `json:"status,omitempty"`
}

// StatusPaymentInitiated marks online completions where the payment
// link was opened but the charge has not settled yet.
const StatusPaymentInitiated = "payment_initiated"

type Notifier interface {
	Publish(ctx context.Context, msg Message) error
}

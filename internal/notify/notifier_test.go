package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenlight/storefront/internal/domain"
)

func TestMessage_CashShape(t *testing.T) {
	msg := Message{
		OrderID:     17,
		TotalAmount: 600,
		PaymentType: domain.PaymentTypeCash,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, float64(17), fields["order_id"])
	assert.Equal(t, float64(600), fields["total_amount"])
	assert.Equal(t, "cash", fields["payment_type"])
	// Online-only fields must not leak into cash completions.
	assert.NotContains(t, fields, "payment_id")
	assert.NotContains(t, fields, "status")
}

func TestMessage_OnlineShape(t *testing.T) {
	msg := Message{
		OrderID:     17,
		PaymentID:   "pay-abc",
		TotalAmount: 600,
		Status:      StatusPaymentInitiated,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "pay-abc", fields["payment_id"])
	assert.Equal(t, "payment_initiated", fields["status"])
	assert.NotContains(t, fields, "payment_type")
}

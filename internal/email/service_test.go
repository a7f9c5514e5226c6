package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Service_SendOrderConfirmation(t *testing.T) {
	sender := NewMockSender()
	svc, err := NewService(sender, "orders@folio.test", "Folio Books")
	require.NoError(t, err)

	err = svc.SendOrderConfirmation(context.Background(), OrderConfirmationEmail{
		Email:       "reader@example.com",
		OrderNumber: "FOL-1042",
		OrderDate:   time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Items: []OrderItem{
			{Name: "The Name of the Wind", Format: "hardcover", Quantity: 1, PriceCents: 2499},
		},
		ItemsCents:    2499,
		ShippingCents: 500,
		TaxCents:      240,
		TotalCents:    3239,
		PaymentMethod: "wallet",
	})
	require.NoError(t, err)

	require.Len(t, sender.Sent, 1)
	sent := sender.Sent[0]
	assert.Equal(t, []string{"reader@example.com"}, sent.To)
	assert.Equal(t, "Order Confirmation - FOL-1042", sent.Subject)
	assert.Contains(t, sent.TextBody, "The Name of the Wind")
	assert.Contains(t, sent.TextBody, "$24.99")
	assert.Contains(t, sent.TextBody, "$32.39")
}

func Test_Service_SendRefundNotice(t *testing.T) {
	sender := NewMockSender()
	svc, err := NewService(sender, "orders@folio.test", "Folio Books")
	require.NoError(t, err)

	err = svc.SendRefundNotice(context.Background(), RefundNoticeEmail{
		Email:       "reader@example.com",
		OrderNumber: "FOL-1042",
		AmountCents: 3239,
		RefundedAt:  time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, sender.Sent, 1)
	assert.Contains(t, sender.Sent[0].TextBody, "$32.39")
	assert.Contains(t, sender.Sent[0].TextBody, "credited to your store wallet")
}

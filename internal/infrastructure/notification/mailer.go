package notification

import (
	"context"

	"github.com/babel-30/sugarplum-backend/internal/domain/order"
)

// OrderConfirmation is everything the confirmation email needs
type OrderConfirmation struct {
	CustomerName  string
	CustomerEmail string
	CheckoutURL   string
	TotalCents    int64
	FreeShipping  bool
}

// StatusUpdate notifies a customer that their order moved to a new status.
// Tracking is included when the order shipped.
type StatusUpdate struct {
	CustomerName   string
	CustomerEmail  string
	Status         order.Status
	TrackingNumber string
}

// Mailer sends transactional customer email. All sends are best effort;
// callers log failures and move on, an email must never fail an order.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
	SendStatusUpdate(ctx context.Context, msg StatusUpdate) error
}

// NopMailer silently drops all mail. Used when SMTP is not configured.
type NopMailer struct{}

// SendOrderConfirmation does nothing
func (NopMailer) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	return nil
}

// SendStatusUpdate does nothing
func (NopMailer) SendStatusUpdate(ctx context.Context, msg StatusUpdate) error {
	return nil
}

// Ensure NopMailer implements Mailer
var _ Mailer = NopMailer{}

package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/order"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/config"
)

// SMTPMailer sends customer email through a plain SMTP relay
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger

	// send is swappable for tests; defaults to smtp.SendMail
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates an SMTPMailer from configuration
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// NewMailer returns an SMTP mailer when a host is configured, otherwise the
// nop mailer. A shop without SMTP still takes orders, it just sends no mail.
func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		logger.Info("SMTP not configured, customer email disabled")
		return NopMailer{}
	}
	return NewSMTPMailer(cfg, logger)
}

// SendOrderConfirmation emails the customer their payment link and total
func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	name := msg.CustomerName
	if name == "" {
		name = "there"
	}
	total := fmt.Sprintf("$%.2f", float64(msg.TotalCents)/100)
	if msg.FreeShipping {
		total += " (includes FREE shipping)"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", name)
	body.WriteString("Thank you for your order! Your payment link is ready:\r\n\r\n")
	fmt.Fprintf(&body, "%s\r\n\r\n", msg.CheckoutURL)
	fmt.Fprintf(&body, "Order total: %s\r\n\r\n", total)
	body.WriteString("If you have any questions, just reply to this email.\r\n")

	return m.deliver(ctx, msg.CustomerEmail, "We received your order - Sugar Plum Creations", body.String())
}

// SendStatusUpdate emails the customer about a status change; a shipped
// order with a tracking number gets the tracking email.
func (m *SMTPMailer) SendStatusUpdate(ctx context.Context, msg StatusUpdate) error {
	name := msg.CustomerName
	if name == "" {
		name = "there"
	}

	subject := "Order update - Sugar Plum Creations"
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", name)

	if msg.Status == order.StatusShipped && msg.TrackingNumber != "" {
		subject = "Your order has shipped - Sugar Plum Creations"
		body.WriteString("Your order has been shipped.\r\n")
		fmt.Fprintf(&body, "Tracking number: %s\r\n\r\n", msg.TrackingNumber)
		body.WriteString("Thank you for shopping with us!\r\n")
	} else {
		fmt.Fprintf(&body, "Your order status is now: %s.\r\n\r\n", msg.Status)
		body.WriteString("Thank you!\r\n")
	}

	return m.deliver(ctx, msg.CustomerEmail, subject, body.String())
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := m.cfg.From
	if from == "" {
		from = to
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.logger.Debug("Sent customer email", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

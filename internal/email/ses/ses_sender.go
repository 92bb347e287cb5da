package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"sleekinvoices/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendInvoiceEmail(ctx context.Context, email port.InvoiceEmail) error {
	subject := fmt.Sprintf("Invoice %s: %s %s due %s",
		email.InvoiceNumber, email.Currency, email.AmountDue, email.DueDate)
	htmlBody := buildInvoiceHTML(email)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nInvoice %s for %s %s is due on %s.\n\nView and pay online:\n%s\n\nThank you!",
		email.ToName, email.InvoiceNumber, email.Currency, email.AmountDue, email.DueDate, email.PayURL)

	return s.send(ctx, email.ToEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendReceiptEmail(ctx context.Context, email port.ReceiptEmail) error {
	subject := fmt.Sprintf("Payment received for invoice %s", email.InvoiceNumber)
	htmlBody := buildReceiptHTML(email)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %s %s for invoice %s.\n\nThank you!",
		email.ToName, email.Currency, email.AmountPaid, email.InvoiceNumber)

	return s.send(ctx, email.ToEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildInvoiceHTML(email port.InvoiceEmail) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Invoice %s</h2>
  <p>Hi %s,</p>
  <p>You have a new invoice for <strong>%s %s</strong>, due on <strong>%s</strong>.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View &amp; Pay Invoice</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">SleekInvoices - Effortless Invoicing</p>
</body>
</html>`, email.InvoiceNumber, email.ToName, email.Currency, email.AmountDue, email.DueDate, email.PayURL, email.PayURL)
}

func buildReceiptHTML(email port.ReceiptEmail) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Payment received</h2>
  <p>Hi %s,</p>
  <p>We received your payment of <strong>%s %s</strong> for invoice <strong>%s</strong>.</p>
  <p>Thank you for your business!</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">SleekInvoices - Effortless Invoicing</p>
</body>
</html>`, email.ToName, email.Currency, email.AmountPaid, email.InvoiceNumber)
}

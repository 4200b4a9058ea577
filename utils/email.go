// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending notification emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes a new EmailService. When POSTMARK_API_TOKEN is
// unset the service is returned disabled and every send becomes a no-op, so a
// missing mail configuration degrades notifications without taking out the
// endpoints that trigger them.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		return &EmailService{}
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// Enabled reports whether the service holds a configured Postmark client.
func (es *EmailService) Enabled() bool {
	return es.client != nil
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if !es.Enabled() {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderStatusEmail notifies a customer that an operator changed the
// fulfillment status of their order.
func (es *EmailService) SendOrderStatusEmail(toEmail, orderRef, status string) error {
	subject := "Order Status Updated"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order (ID: %s) status has been updated to '<strong>%s</strong>'.<br><br>Thank you for shopping with us!",
		orderRef,
		status,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"
)

var ErrNotifierNotConfigured = errors.New("email notifier not configured")

// ResendNotifier sends email through the Resend API.
type ResendNotifier struct {
	from string
	send func(request *resend.SendEmailRequest) error
}

func NewResendNotifier(apiKey string, from string) *ResendNotifier {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendNotifier{}
	}
	client := resend.NewClient(apiKey)
	return &ResendNotifier{
		from: from,
		send: func(request *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(request)
			return err
		},
	}
}

func (n *ResendNotifier) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	if n.send == nil {
		return ErrNotifierNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.send(&resend.SendEmailRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
}

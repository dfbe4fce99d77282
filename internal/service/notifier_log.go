package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes messages to the log instead of delivering them. Development only.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogNotifier) Send(_ context.Context, to string, subject string, htmlBody string) error {
	logger := n.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    htmlBody,
	}).Info("email not delivered, log notifier active")
	return nil
}

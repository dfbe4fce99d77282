package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendNotifier_NotConfigured(t *testing.T) {
	for _, n := range []*ResendNotifier{NewResendNotifier("", "from@example.com"), NewResendNotifier("key", " ")} {
		err := n.Send(context.Background(), "to@example.com", "subject", "<p>hi</p>")
		assert.ErrorIs(t, err, ErrNotifierNotConfigured)
	}
}

func TestResendNotifier_BuildsRequest(t *testing.T) {
	var captured *resend.SendEmailRequest
	n := &ResendNotifier{
		from: "Support <support@example.com>",
		send: func(request *resend.SendEmailRequest) error {
			captured = request
			return nil
		},
	}

	require.NoError(t, n.Send(context.Background(), "to@example.com", "Hello", "<p>body</p>"))
	require.NotNil(t, captured)
	assert.Equal(t, "Support <support@example.com>", captured.From)
	assert.Equal(t, []string{"to@example.com"}, captured.To)
	assert.Equal(t, "Hello", captured.Subject)
	assert.Equal(t, "<p>body</p>", captured.Html)
}

func TestResendNotifier_PropagatesErrors(t *testing.T) {
	boom := errors.New("api error")
	n := &ResendNotifier{from: "a@example.com", send: func(*resend.SendEmailRequest) error { return boom }}
	assert.ErrorIs(t, n.Send(context.Background(), "to@example.com", "s", "b"), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "to@example.com", "s", "b"), context.Canceled)
}

func TestSMTPNotifier_NotConfigured(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{From: "a@example.com"})
	assert.ErrorIs(t, n.Send(context.Background(), "to@example.com", "s", "b"), ErrNotifierNotConfigured)
	assert.Equal(t, 587, n.config.Port)
}

func TestSMTPNotifier_DialFailure(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "a@example.com"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := n.Send(ctx, "to@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial smtp")
}

func TestBuildMessage(t *testing.T) {
	message := string(buildMessage("from@example.com", "to@example.com", "Código", "<p>x</p>"))

	assert.True(t, strings.HasPrefix(message, "From: from@example.com\r\nTo: to@example.com\r\n"))
	assert.Contains(t, message, "Subject: =?utf-8?q?C=C3=B3digo?=\r\n")
	assert.Contains(t, message, "Content-Type: text/html; charset=\"utf-8\"\r\n")
	assert.True(t, strings.HasSuffix(message, "\r\n\r\n<p>x</p>"))
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := LogNotifier{Logger: logger}

	require.NoError(t, n.Send(context.Background(), "to@example.com", "subject", "<p>body</p>"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "to@example.com", entry.Data["to"])
	assert.Equal(t, "subject", entry.Data["subject"])
}

func TestEmailTemplates(t *testing.T) {
	welcome, err := renderWelcomeEmail("<script>Ana</script>", "ana", "Temp#2026")
	require.NoError(t, err)
	assert.Contains(t, welcome, "ana")
	assert.Contains(t, welcome, "Temp#2026")
	assert.NotContains(t, welcome, "<script>")

	reset, err := renderResetEmail("123456", 30*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, reset, "123456")
	assert.Contains(t, reset, "30 minutes")
}

// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email for the YaMDb API.

The only message the system sends is the signup confirmation code. Callers
depend on the [Sender] interface; the composition root picks the concrete
implementation:

  - [SMTPSender] talks to a relay, wrapped in a [BreakerSender] so an
    unreachable relay fails fast instead of stalling every signup.
  - [LogSender] writes the message to the structured log. It is used in
    development when no SMTP host is configured.

Delivery errors are always returned to the caller.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// ConfirmationMessage builds the signup email carrying code.
func ConfirmationMessage(to, username, subject, code string) Message {
	return Message{
		To:      to,
		Subject: subject,
		Body: fmt.Sprintf(
			"Hello, %s!\n\nYour confirmation code: %s\n\nExchange it together with your username at /api/v1/auth/token to obtain an access token.\n",
			username, code,
		),
	}
}

// # Log Sender

// LogSender records messages in the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender].
func (sender *LogSender) Send(_ context.Context, message Message) error {
	sender.logger.Info("mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}

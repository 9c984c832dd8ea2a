// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// ErrRecipientRejected marks a message refused because of its recipient or
// headers. The relay itself is healthy when this is returned.
var ErrRecipientRejected = errors.New("mail: recipient rejected")

// SMTPConfig describes the outgoing relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	config      SMTPConfig
	dialTimeout time.Duration
}

// NewSMTPSender creates an [SMTPSender].
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config, dialTimeout: 10 * time.Second}
}

// Send implements [Sender].
func (sender *SMTPSender) Send(ctx context.Context, message Message) error {
	if strings.ContainsAny(message.To, "\r\n") || strings.ContainsAny(message.Subject, "\r\n") {
		return fmt.Errorf("%w: header injection attempt", ErrRecipientRejected)
	}

	address := net.JoinHostPort(sender.config.Host, strconv.Itoa(sender.config.Port))

	dialer := &net.Dialer{Timeout: sender.dialTimeout}
	connection, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("mail: failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = connection.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = connection.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(connection, sender.config.Host)
	if err != nil {
		return fmt.Errorf("mail: failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if sender.config.UseTLS {
		tlsConfig := &tls.Config{ServerName: sender.config.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("mail: failed to start TLS: %w", err)
		}
	}

	if sender.config.Username != "" && sender.config.Password != "" {
		auth := smtp.PlainAuth("", sender.config.Username, sender.config.Password, sender.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mail: SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(sender.config.From); err != nil {
		return fmt.Errorf("mail: failed to set sender: %w", err)
	}
	if err := client.Rcpt(message.To); err != nil {
		var reply *textproto.Error
		if errors.As(err, &reply) && reply.Code >= 500 {
			return fmt.Errorf("%w: %w", ErrRecipientRejected, err)
		}
		return fmt.Errorf("mail: failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(buildMessage(sender.config.From, message))); err != nil {
		return fmt.Errorf("mail: failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("mail: failed to close message: %w", err)
	}

	// The relay accepted the message; a failed QUIT does not undo that.
	_ = client.Quit()
	return nil
}

// buildMessage renders headers and a plain-text body.
func buildMessage(from string, message Message) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "From: YaMDb <%s>\r\n", from)
	fmt.Fprintf(&builder, "To: %s\r\n", message.To)
	fmt.Fprintf(&builder, "Subject: %s\r\n", message.Subject)
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(message.Body, "\n", "\r\n"))

	return builder.String()
}

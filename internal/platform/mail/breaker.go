// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

// BreakerConfig tunes the circuit breaker around a [Sender].
type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig suits a single SMTP relay.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// BreakerSender guards another [Sender] with a circuit breaker.
type BreakerSender struct {
	next    Sender
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerSender wraps next.
func NewBreakerSender(next Sender, config BreakerConfig, logger *slog.Logger) *BreakerSender {
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.ConsecutiveFailures
		},
		// A refused recipient says nothing about relay health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRecipientRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.MailBreakerState.Set(float64(to))
			logger.Warn("mail_breaker_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerSender{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Send implements [Sender].
func (sender *BreakerSender) Send(ctx context.Context, message Message) error {
	_, err := sender.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, sender.next.Send(ctx, message)
	})

	switch {
	case err == nil:
		metrics.RecordMailDelivery("sent")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordMailDelivery("rejected")
		return fmt.Errorf("mail: relay unavailable: %w", err)
	case errors.Is(err, ErrRecipientRejected):
		metrics.RecordMailDelivery("recipient_rejected")
		return err
	default:
		metrics.RecordMailDelivery("failed")
		return err
	}
}

// State exposes the breaker state for readiness reporting.
func (sender *BreakerSender) State() string {
	return sender.breaker.State().String()
}

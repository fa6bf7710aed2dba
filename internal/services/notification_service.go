package services

import (
	"context"
	"time"

	"github.com/justsurfingit/job-board/internal/events"
	"go.uber.org/zap"
)

// NotifyDispatcher delivers acceptance events in-process, retrying the sender
// with exponential backoff inside a bounded timeout.
type NotifyDispatcher struct {
	Sender   events.Sender
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration
	Logger   *zap.Logger
}

func NewNotifyDispatcher(sender events.Sender, attempts int, backoff, timeout time.Duration, log *zap.Logger) *NotifyDispatcher {
	return &NotifyDispatcher{Sender: sender, Attempts: attempts, Backoff: backoff, Timeout: timeout, Logger: log}
}

func (d *NotifyDispatcher) Dispatch(ctx context.Context, event events.ApplicationAccepted) error {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	attempts := d.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return retry(ctx, d.Logger, attempts, d.Backoff, func() error {
		return d.Sender.SendAcceptance(ctx, event)
	})
}

// LogSender stands in for the email sender when Gmail is not configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) SendAcceptance(_ context.Context, event events.ApplicationAccepted) error {
	s.Logger.Warn("email delivery not configured, acceptance email only logged",
		zap.String("application_id", event.ApplicationID.String()),
		zap.String("to", event.To),
		zap.String("job_title", event.JobTitle),
		zap.String("company", event.CompanyName),
	)
	return nil
}

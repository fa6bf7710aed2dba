package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/events"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

type flakySender struct {
	calls    atomic.Int32
	failures int32
	err      error
}

func (s *flakySender) SendAcceptance(context.Context, events.ApplicationAccepted) error {
	if s.calls.Add(1) <= s.failures {
		return s.err
	}
	return nil
}

func TestNotifyDispatcherRetries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failures  int32
		err       error
		attempts  int
		wantCalls int32
		wantErr   bool
	}{
		{name: "first try", failures: 0, attempts: 3, wantCalls: 1},
		{name: "recovers", failures: 2, err: errors.New("temporary"), attempts: 3, wantCalls: 3},
		{name: "exhausted", failures: 5, err: errors.New("temporary"), attempts: 3, wantCalls: 3, wantErr: true},
		{name: "permanent", failures: 5, err: &googleapi.Error{Code: http.StatusBadRequest}, attempts: 3, wantCalls: 1, wantErr: true},
		{name: "rate limited is retried", failures: 1, err: &googleapi.Error{Code: http.StatusTooManyRequests}, attempts: 3, wantCalls: 2},
		{name: "zero attempts still tries once", failures: 0, attempts: 0, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &flakySender{failures: tt.failures, err: tt.err}
			d := NewNotifyDispatcher(sender, tt.attempts, time.Millisecond, time.Second, zap.NewNop())
			err := d.Dispatch(context.Background(), events.ApplicationAccepted{ApplicationID: uuid.New()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dispatch error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := sender.calls.Load(); got != tt.wantCalls {
				t.Fatalf("sender called %d times, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestNotifyDispatcherStopsOnCancel(t *testing.T) {
	t.Parallel()

	sender := &flakySender{failures: 100, err: errors.New("down")}
	d := NewNotifyDispatcher(sender, 10, time.Hour, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Dispatch(ctx, events.ApplicationAccepted{})
	}()
	for sender.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch did not return after cancel")
	}
	if got := sender.calls.Load(); got != 1 {
		t.Fatalf("sender called %d times, want 1", got)
	}
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	if err := (LogSender{Logger: zap.NewNop()}).SendAcceptance(context.Background(), events.ApplicationAccepted{}); err != nil {
		t.Fatalf("LogSender returned %v", err)
	}
}

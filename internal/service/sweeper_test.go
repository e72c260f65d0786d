package service

import (
	"context"
	"testing"
	"time"
)

func TestSweeperRemovesExpiredSessions(t *testing.T) {
	svc, _, sessions := newTestAuthService(time.Hour)

	resp := register(t, svc, "ada@example.com")
	sessions.setAllExpiry(time.Now().Add(-time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSessionSweeper(svc, 10*time.Millisecond).Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sessions.count() > 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("sweeper did not remove the expired session in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}

	if svc.Validate(context.Background(), resp.Token) {
		t.Error("token of a swept session should not validate")
	}
}

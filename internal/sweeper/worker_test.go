package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"roomly/pkg/logger"
)

type fakeExpirer struct {
	mu    sync.Mutex
	name  string
	calls int
	order *[]string
	err   error
}

func (f *fakeExpirer) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeExpirer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR})
}

func TestSweepOrdersSessionsBeforeCommitments(t *testing.T) {
	var order []string
	sessions := &fakeExpirer{name: "sessions", order: &order}
	commitments := &fakeExpirer{name: "commitments", order: &order}

	w := NewWorker(time.Minute, sessions, commitments, testLogger())
	w.Sweep(context.Background())

	if len(order) != 2 || order[0] != "sessions" || order[1] != "commitments" {
		t.Errorf("expected sessions swept before commitments, got %v", order)
	}
}

func TestSweepSurvivesExpirerErrors(t *testing.T) {
	sessions := &fakeExpirer{name: "sessions", err: errors.New("mongo down")}
	commitments := &fakeExpirer{name: "commitments"}

	w := NewWorker(time.Minute, sessions, commitments, testLogger())
	w.Sweep(context.Background())

	if commitments.callCount() != 1 {
		t.Error("a failed session sweep must not skip the commitment sweep")
	}
}

func TestStartSweepsImmediatelyAndStops(t *testing.T) {
	sessions := &fakeExpirer{name: "sessions"}
	commitments := &fakeExpirer{name: "commitments"}

	w := NewWorker(time.Hour, sessions, commitments, testLogger())
	w.Start(context.Background())
	w.Stop()

	if sessions.callCount() != 1 || commitments.callCount() != 1 {
		t.Errorf("expected exactly the startup sweep, got sessions=%d commitments=%d",
			sessions.callCount(), commitments.callCount())
	}
}

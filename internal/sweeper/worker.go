package sweeper

import (
	"context"
	"time"

	"roomly/pkg/logger"
)

// Expirer closes one kind of stale hold. Both reservation services expose
// this; the worker never touches storage directly.
type Expirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

// Worker drives the expiry safety net. Lazy expiry on read already keeps
// callers honest; the worker exists so a hold nobody looks at still comes
// back on time. Sessions are swept before commitments: a session closing
// may also close its commitment, and sweeping in this order avoids
// re-touching the same documents twice in one pass.
type Worker struct {
	interval    time.Duration
	sessions    Expirer
	commitments Expirer
	log         *logger.Logger

	stop chan struct{}
	done chan struct{}
}

func NewWorker(interval time.Duration, sessions Expirer, commitments Expirer, log *logger.Logger) *Worker {
	return &Worker{
		interval:    interval,
		sessions:    sessions,
		commitments: commitments,
		log:         log,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called. The first sweep fires
// immediately so a restart does not wait a full interval to catch up.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.Sweep(ctx)
		for {
			select {
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	}()
}

func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

// Sweep runs one expiry pass. Errors are logged and swallowed: a failed
// pass leaves stale holds for the next tick, nothing is lost.
func (w *Worker) Sweep(ctx context.Context) {
	now := time.Now().UTC()

	expiredSessions, err := w.sessions.ExpireStale(ctx, now)
	if err != nil {
		w.log.Error("Session sweep failed", "error", err)
	}

	expiredCommitments, err := w.commitments.ExpireStale(ctx, now)
	if err != nil {
		w.log.Error("Commitment sweep failed", "error", err)
	}

	if expiredSessions > 0 || expiredCommitments > 0 {
		w.log.Info("Sweep pass completed",
			"expired_sessions", expiredSessions,
			"expired_commitments", expiredCommitments,
		)
	}
}

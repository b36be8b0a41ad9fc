package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/worker"
	"github.com/stretchr/testify/assert"
)

// stubQueue counts ProcessQueue passes and can fail every call.
type stubQueue struct {
	calls atomic.Int32
	fail  bool
}

var _ portssvc.SyncQueueSvcFacade = (*stubQueue)(nil)

func (q *stubQueue) ProcessQueue(ctx context.Context) error {
	q.calls.Add(1)
	if q.fail {
		return errors.New("queue pass failed")
	}
	return nil
}

func (q *stubQueue) QueueSync(ctx context.Context, paymentID, organizationID string) (*domain.SyncJob, error) {
	return nil, nil
}

func (q *stubQueue) Replay(ctx context.Context, paymentID string) (*domain.SyncJob, error) {
	return nil, nil
}

func (q *stubQueue) GetPendingJobs(ctx context.Context, batchSize int) ([]domain.SyncJob, error) {
	return nil, nil
}

func (q *stubQueue) NextRetryTime(attempt int, now time.Time) *time.Time { return nil }

func (q *stubQueue) CategorizeError(message string) domain.ErrorCategory {
	return domain.ErrorUnknown
}

func TestProcessor_RunProcessesOnInterval(t *testing.T) {
	queue := &stubQueue{}
	p := worker.NewProcessor(queue, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// A few intervals pass, then cancellation stops the loop.
	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after cancellation")
	}

	assert.GreaterOrEqual(t, queue.calls.Load(), int32(2))
}

func TestProcessor_RunKeepsGoingAfterFailedPass(t *testing.T) {
	queue := &stubQueue{fail: true}
	p := worker.NewProcessor(queue, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()
	<-done

	assert.GreaterOrEqual(t, queue.calls.Load(), int32(2), "failures must not stop the loop")
}

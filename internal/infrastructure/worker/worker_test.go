package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/creditapproval/internal/domain"
)

type stubQueue struct {
	mu   sync.Mutex
	jobs []*domain.IngestJob
	err  error
}

func (q *stubQueue) Enqueue(_ context.Context, job *domain.IngestJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *stubQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.IngestJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.err != nil {
		return nil, q.err
	}
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		select {
		case <-ctx.Done():
		case <-time.After(timeout):
		}
		q.mu.Lock()
		return nil, nil
	}

	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

type stubRunner struct {
	mu     sync.Mutex
	ran    []string
	errFor map[string]error
}

func (r *stubRunner) Run(_ context.Context, job *domain.IngestJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran = append(r.ran, job.ID)
	return r.errFor[job.ID]
}

func (r *stubRunner) Ran() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ran...)
}

func newTestWorker(queue *stubQueue, runner *stubRunner) *IngestWorker {
	return NewIngestWorker(Config{
		Queue:        queue,
		Runner:       runner,
		Logger:       zerolog.Nop(),
		PollTimeout:  5 * time.Millisecond,
		ErrorBackoff: 5 * time.Millisecond,
	})
}

func TestProcessNextRunsJobsInOrder(t *testing.T) {
	queue := &stubQueue{}
	runner := &stubRunner{errFor: map[string]error{"a": errors.New("bad sheet")}}
	w := newTestWorker(queue, runner)

	ctx := context.Background()
	_ = queue.Enqueue(ctx, &domain.IngestJob{ID: "a", Kind: domain.IngestKindCustomers})
	_ = queue.Enqueue(ctx, &domain.IngestJob{ID: "b", Kind: domain.IngestKindLoans})

	for range 2 {
		processed, err := w.processNext(ctx)
		if err != nil || !processed {
			t.Fatalf("expected a processed job, got processed=%v err=%v", processed, err)
		}
	}

	processed, err := w.processNext(ctx)
	if err != nil || processed {
		t.Fatalf("expected empty queue, got processed=%v err=%v", processed, err)
	}

	if got := runner.Ran(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected run order %v", got)
	}
}

func TestProcessNextReturnsQueueError(t *testing.T) {
	queue := &stubQueue{err: errors.New("redis down")}
	w := newTestWorker(queue, &stubRunner{})

	if _, err := w.processNext(context.Background()); err == nil {
		t.Fatal("expected queue error")
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	queue := &stubQueue{}
	runner := &stubRunner{}
	w := newTestWorker(queue, runner)

	ctx, cancel := context.WithCancel(context.Background())
	_ = queue.Enqueue(ctx, &domain.IngestJob{ID: "only"})

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	deadline := time.After(time.Second)
	for len(runner.Ran()) == 0 {
		select {
		case <-deadline:
			t.Fatal("job was not processed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestStartSurvivesQueueErrors(t *testing.T) {
	queue := &stubQueue{err: errors.New("redis down")}
	w := newTestWorker(queue, &stubRunner{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := w.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

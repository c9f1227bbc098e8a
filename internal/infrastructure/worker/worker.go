package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
)

// JobRunner executes a dequeued ingestion job.
type JobRunner interface {
	Run(ctx context.Context, job *domain.IngestJob) error
}

// Config for IngestWorker.
type Config struct {
	Queue  usecase.JobQueue
	Runner JobRunner
	Logger zerolog.Logger
	// PollTimeout bounds each blocking dequeue.
	PollTimeout time.Duration
	// ErrorBackoff is the pause after the queue itself fails.
	ErrorBackoff time.Duration
}

// IngestWorker consumes ingestion jobs one at a time, in queue order.
type IngestWorker struct {
	queue        usecase.JobQueue
	runner       JobRunner
	logger       zerolog.Logger
	pollTimeout  time.Duration
	errorBackoff time.Duration
}

// NewIngestWorker creates a new IngestWorker.
func NewIngestWorker(cfg Config) *IngestWorker {
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if cfg.ErrorBackoff == 0 {
		cfg.ErrorBackoff = time.Second
	}

	return &IngestWorker{
		queue:        cfg.Queue,
		runner:       cfg.Runner,
		logger:       cfg.Logger.With().Str("component", "ingest_worker").Logger(),
		pollTimeout:  cfg.PollTimeout,
		errorBackoff: cfg.ErrorBackoff,
	}
}

// Start processes jobs until ctx is cancelled.
func (w *IngestWorker) Start(ctx context.Context) error {
	w.logger.Info().Dur("poll_timeout", w.pollTimeout).Msg("ingest worker started")

	for {
		if err := ctx.Err(); err != nil {
			w.logger.Info().Msg("ingest worker shutting down")
			return err
		}

		if _, err := w.processNext(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("failed to dequeue ingest job")

			select {
			case <-ctx.Done():
			case <-time.After(w.errorBackoff):
			}
		}
	}
}

// processNext runs at most one job. It reports whether a job was taken.
// Job failures are recorded on the job and do not stop the worker.
func (w *IngestWorker) processNext(ctx context.Context) (bool, error) {
	job, err := w.queue.Dequeue(ctx, w.pollTimeout)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	log := w.logger.With().Str("job_id", job.ID).Str("kind", string(job.Kind)).Logger()
	log.Info().Msg("ingest job started")

	start := time.Now()
	if err := w.runner.Run(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("ingest job interrupted")
		} else {
			log.Error().Err(err).Dur("took", time.Since(start)).Msg("ingest job failed")
		}
		return true, nil
	}

	log.Info().Dur("took", time.Since(start)).Msg("ingest job done")

	return true, nil
}

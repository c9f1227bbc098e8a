package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/creditapproval/internal/domain"
)

// Dispatcher enqueues ingestion jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind domain.IngestKind) (*domain.IngestJob, error)
}

// Scheduler periodically dispatches a full ingestion.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher Dispatcher
	kind       domain.IngestKind
	logger     zerolog.Logger
}

// NewScheduler registers a job for spec, a standard five-field cron
// expression or a descriptor such as "@every 1h".
func NewScheduler(spec string, kind domain.IngestKind, dispatcher Dispatcher, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		kind:       kind,
		logger:     logger.With().Str("component", "ingest_scheduler").Logger(),
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid ingest schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a
// running tick to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info().Str("kind", string(s.kind)).Msg("ingest scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("ingest scheduler stopped")

	return ctx.Err()
}

func (s *Scheduler) tick() {
	job, err := s.dispatcher.Dispatch(context.Background(), s.kind)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled ingest dispatch failed")
		return
	}

	s.logger.Info().Str("job_id", job.ID).Msg("scheduled ingest dispatched")
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/creditapproval/internal/domain"
)

// IngestUseCase loads customers and loans from spreadsheets, either
// directly or through background jobs.
type IngestUseCase struct {
	source       SpreadsheetSource
	customerRepo CustomerRepository
	loanRepo     LoanRepository
	queue        JobQueue
	jobs         JobStore
	idGen        IDGenerator
	recorder     DecisionRecorder
	logger       zerolog.Logger
	now          func() time.Time
}

// NewIngestUseCase creates a new IngestUseCase. recorder may be nil.
func NewIngestUseCase(
	source SpreadsheetSource,
	customerRepo CustomerRepository,
	loanRepo LoanRepository,
	queue JobQueue,
	jobs JobStore,
	idGen IDGenerator,
	recorder DecisionRecorder,
	logger zerolog.Logger,
) *IngestUseCase {
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &IngestUseCase{
		source:       source,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		queue:        queue,
		jobs:         jobs,
		idGen:        idGen,
		recorder:     recorder,
		logger:       logger.With().Str("component", "ingest").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for timestamps.
func (uc *IngestUseCase) WithClock(now func() time.Time) *IngestUseCase {
	uc.now = now
	return uc
}

// Dispatch records a queued job and hands it to the worker.
func (uc *IngestUseCase) Dispatch(ctx context.Context, kind domain.IngestKind) (*domain.IngestJob, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown ingest kind %q", domain.ErrInvalidInput, kind)
	}

	now := uc.now()
	job := &domain.IngestJob{
		ID:        uc.idGen.Generate(),
		Kind:      kind,
		Status:    domain.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	if err := uc.queue.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// GetJob returns the stored status of a job.
func (uc *IngestUseCase) GetJob(ctx context.Context, id string) (*domain.IngestJob, error) {
	return uc.jobs.Get(ctx, id)
}

// Run executes a job and records its final status. The returned error is
// the ingestion failure, if any; the job record carries it too.
func (uc *IngestUseCase) Run(ctx context.Context, job *domain.IngestJob) error {
	job.Status = domain.JobStatusRunning
	job.UpdatedAt = uc.now()
	if err := uc.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	runErr := uc.run(ctx, job)

	job.UpdatedAt = uc.now()
	if runErr != nil {
		job.Status = domain.JobStatusFailed
		job.Error = runErr.Error()
	} else {
		job.Status = domain.JobStatusSucceeded
	}

	if err := uc.jobs.Save(ctx, job); err != nil {
		uc.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to save job status")
	}

	uc.logger.Info().
		Str("job_id", job.ID).
		Str("kind", string(job.Kind)).
		Str("status", string(job.Status)).
		Int("customers", job.Customers).
		Int("loans", job.Loans).
		Msg("ingest job finished")

	return runErr
}

func (uc *IngestUseCase) run(ctx context.Context, job *domain.IngestJob) error {
	if job.Kind == domain.IngestKindCustomers || job.Kind == domain.IngestKindAll {
		n, err := uc.IngestCustomers(ctx)
		job.Customers = n
		if err != nil {
			return err
		}
	}

	if job.Kind == domain.IngestKindLoans || job.Kind == domain.IngestKindAll {
		n, err := uc.IngestLoans(ctx)
		job.Loans = n
		if err != nil {
			return err
		}
	}

	return nil
}

// IngestCustomers loads the customer sheet. Existing IDs are left untouched.
func (uc *IngestUseCase) IngestCustomers(ctx context.Context) (int, error) {
	rows, err := uc.source.ReadCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("read customers: %w", err)
	}

	now := uc.now()
	customers := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		customer, err := row.ToCustomer(now)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("customer_id", row.CustomerID).Msg("skipping customer row")
			continue
		}
		customers = append(customers, customer)
	}

	inserted, err := uc.customerRepo.BulkInsert(ctx, customers)
	if err != nil {
		return 0, fmt.Errorf("insert customers: %w", err)
	}

	uc.recorder.RowsIngested(domain.IngestKindCustomers, inserted)

	return inserted, nil
}

// IngestLoans loads the loan sheet. Rows for unknown customers are skipped.
// Each newly inserted loan adds its amount to the customer's current debt.
func (uc *IngestUseCase) IngestLoans(ctx context.Context) (int, error) {
	rows, err := uc.source.ReadLoans(ctx)
	if err != nil {
		return 0, fmt.Errorf("read loans: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CustomerID)
	}

	known, err := uc.customerRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("lookup customers: %w", err)
	}

	now := uc.now()
	loans := make([]*domain.Loan, 0, len(rows))
	for _, row := range rows {
		if !known[row.CustomerID] {
			uc.logger.Warn().Int64("loan_id", row.LoanID).Int64("customer_id", row.CustomerID).Msg("skipping loan for unknown customer")
			continue
		}

		loan, err := row.ToLoan(now)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("loan_id", row.LoanID).Msg("skipping loan row")
			continue
		}

		loans = append(loans, loan)
	}

	inserted, err := uc.loanRepo.BulkInsert(ctx, loans, now)
	if err != nil {
		return 0, fmt.Errorf("insert loans: %w", err)
	}

	uc.recorder.RowsIngested(domain.IngestKindLoans, inserted)

	return inserted, nil
}

package usecase

import (
	"time"

	"github.com/iho/creditapproval/internal/domain"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// JobStatusTTL is how long ingestion job status stays queryable
	JobStatusTTL = 7 * 24 * time.Hour
)

type noopRecorder struct{}

func (noopRecorder) ObserveDecision(*domain.EligibilityDecision) {}
func (noopRecorder) LoanCreated(*domain.Loan)                    {}
func (noopRecorder) RowsIngested(domain.IngestKind, int)         {}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Customer, error)
	UpdateDebt(ctx context.Context, tx Transaction, id int64, debt decimal.Decimal, updatedAt time.Time) error
	// BulkInsert inserts customers, skipping IDs that already exist.
	// It returns the number of rows inserted.
	BulkInsert(ctx context.Context, customers []*domain.Customer) (int, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	// Create inserts the loan and assigns its ID.
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Loan, error)
	ListByCustomerTx(ctx context.Context, tx Transaction, customerID int64) ([]*domain.Loan, error)
	// BulkInsert inserts loans, skipping IDs that already exist, and adds
	// the amount of every inserted loan to its customer's debt in the same
	// transaction. It returns the number of loans inserted.
	BulkInsert(ctx context.Context, loans []*domain.Loan, updatedAt time.Time) (int, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the request can be retried.
	Release(ctx context.Context, key string) error
}

// IdempotencyPending is the value CheckAndSet stores for a claimed key
// whose response is not known yet.
const IdempotencyPending = "processing"

// JobQueue carries ingestion jobs to the background worker.
type JobQueue interface {
	Enqueue(ctx context.Context, job *domain.IngestJob) error
	// Dequeue blocks up to timeout and returns nil when nothing arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (*domain.IngestJob, error)
}

// JobStore keeps ingestion job status.
type JobStore interface {
	Save(ctx context.Context, job *domain.IngestJob) error
	Get(ctx context.Context, id string) (*domain.IngestJob, error)
}

// SpreadsheetSource reads typed rows from the ingestion workbooks.
type SpreadsheetSource interface {
	ReadCustomers(ctx context.Context) ([]domain.CustomerRow, error)
	ReadLoans(ctx context.Context) ([]domain.LoanRow, error)
}

// DecisionRecorder observes business events for metrics.
type DecisionRecorder interface {
	ObserveDecision(decision *domain.EligibilityDecision)
	LoanCreated(loan *domain.Loan)
	RowsIngested(kind domain.IngestKind, rows int)
}

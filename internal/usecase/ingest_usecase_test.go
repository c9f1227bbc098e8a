package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
	"github.com/iho/creditapproval/internal/usecase/mocks"
)

var ingestNow = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

type ingestFixture struct {
	source    *mocks.MockSpreadsheetSource
	customers *mocks.MockCustomerRepository
	loans     *mocks.MockLoanRepository
	queue     *mocks.MockJobQueue
	jobs      *mocks.MockJobStore
	idGen     *mocks.MockIDGenerator
}

func newIngestFixture(t *testing.T) (*ingestFixture, *usecase.IngestUseCase) {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &ingestFixture{
		source:    mocks.NewMockSpreadsheetSource(ctrl),
		customers: mocks.NewMockCustomerRepository(ctrl),
		loans:     mocks.NewMockLoanRepository(ctrl),
		queue:     mocks.NewMockJobQueue(ctrl),
		jobs:      mocks.NewMockJobStore(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
	}

	uc := usecase.NewIngestUseCase(f.source, f.customers, f.loans, f.queue, f.jobs, f.idGen, nil, zerolog.Nop()).
		WithClock(func() time.Time { return ingestNow })

	return f, uc
}

func TestIngestUseCase_Dispatch(t *testing.T) {
	t.Run("queues a job", func(t *testing.T) {
		f, uc := newIngestFixture(t)

		f.idGen.EXPECT().Generate().Return("01JOB")
		f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

		job, err := uc.Dispatch(context.Background(), domain.IngestKindAll)
		require.NoError(t, err)

		assert.Equal(t, "01JOB", job.ID)
		assert.Equal(t, domain.JobStatusQueued, job.Status)
		assert.Equal(t, ingestNow, job.CreatedAt)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, uc := newIngestFixture(t)

		_, err := uc.Dispatch(context.Background(), domain.IngestKind("payments"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("queue failure", func(t *testing.T) {
		f, uc := newIngestFixture(t)

		f.idGen.EXPECT().Generate().Return("01JOB")
		f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		_, err := uc.Dispatch(context.Background(), domain.IngestKindLoans)
		assert.Error(t, err)
	})
}

func TestIngestUseCase_IngestCustomers(t *testing.T) {
	f, uc := newIngestFixture(t)

	f.source.EXPECT().ReadCustomers(gomock.Any()).Return([]domain.CustomerRow{
		{CustomerID: 1, FirstName: "Aarav", MonthlySalary: decimal.NewFromInt(50000), ApprovedLimit: decimal.NewFromInt(1800000)},
		{CustomerID: 0, FirstName: "Broken"},
		{CustomerID: 2, FirstName: "Diya", MonthlySalary: decimal.NewFromInt(30000), ApprovedLimit: decimal.NewFromInt(1100000)},
	}, nil)

	f.customers.EXPECT().BulkInsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, customers []*domain.Customer) (int, error) {
			require.Len(t, customers, 2)
			assert.Equal(t, int64(1), customers[0].ID)
			assert.Equal(t, int64(2), customers[1].ID)
			return 2, nil
		})

	n, err := uc.IngestCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIngestUseCase_IngestLoans(t *testing.T) {
	f, uc := newIngestFixture(t)

	start := time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	f.source.EXPECT().ReadLoans(gomock.Any()).Return([]domain.LoanRow{
		{CustomerID: 1, LoanID: 10, Amount: decimal.NewFromInt(100000), Tenure: 36, EMIsPaidOnTime: 20, StartDate: start, EndDate: end},
		{CustomerID: 1, LoanID: 11, Amount: decimal.NewFromInt(50000), Tenure: 12, EMIsPaidOnTime: 12, StartDate: start, EndDate: end},
		{CustomerID: 9, LoanID: 12, Amount: decimal.NewFromInt(70000), Tenure: 12, StartDate: start, EndDate: end},
		{CustomerID: 2, LoanID: 13, Amount: decimal.NewFromInt(40000), Tenure: 12, EMIsPaidOnTime: 30, StartDate: start, EndDate: end},
		{CustomerID: 2, LoanID: 14, Amount: decimal.NewFromInt(-40000), Tenure: 12, StartDate: start, EndDate: end},
	}, nil)

	f.customers.EXPECT().ExistingIDs(gomock.Any(), []int64{1, 1, 9, 2, 2}).
		Return(map[int64]bool{1: true, 2: true}, nil)

	f.loans.EXPECT().BulkInsert(gomock.Any(), gomock.Any(), ingestNow).
		DoAndReturn(func(_ context.Context, loans []*domain.Loan, _ time.Time) (int, error) {
			require.Len(t, loans, 2)
			assert.Equal(t, int64(10), loans[0].ID)
			assert.Equal(t, int64(11), loans[1].ID)
			assert.True(t, loans[0].Amount.Equal(decimal.NewFromInt(100000)))
			return len(loans), nil
		})

	n, err := uc.IngestLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIngestUseCase_IngestLoansAlreadyLoaded(t *testing.T) {
	f, uc := newIngestFixture(t)

	start := time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	f.source.EXPECT().ReadLoans(gomock.Any()).Return([]domain.LoanRow{
		{CustomerID: 1, LoanID: 10, Amount: decimal.NewFromInt(100000), Tenure: 36, StartDate: start, EndDate: end},
		{CustomerID: 1, LoanID: 11, Amount: decimal.NewFromInt(50000), Tenure: 12, StartDate: start, EndDate: end},
	}, nil)

	f.customers.EXPECT().ExistingIDs(gomock.Any(), gomock.Any()).
		Return(map[int64]bool{1: true}, nil)

	// Every loan ID already exists.
	f.loans.EXPECT().BulkInsert(gomock.Any(), gomock.Len(2), ingestNow).Return(0, nil)

	n, err := uc.IngestLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIngestUseCase_IngestLoansInsertFailure(t *testing.T) {
	f, uc := newIngestFixture(t)

	f.source.EXPECT().ReadLoans(gomock.Any()).Return([]domain.LoanRow{
		{CustomerID: 1, LoanID: 10, Amount: decimal.NewFromInt(100000), Tenure: 36},
	}, nil)
	f.customers.EXPECT().ExistingIDs(gomock.Any(), gomock.Any()).
		Return(map[int64]bool{1: true}, nil)
	f.loans.EXPECT().BulkInsert(gomock.Any(), gomock.Any(), ingestNow).Return(0, errors.New("deadlock"))

	_, err := uc.IngestLoans(context.Background())
	assert.ErrorContains(t, err, "insert loans")
}

func TestIngestUseCase_Run(t *testing.T) {
	t.Run("records success", func(t *testing.T) {
		f, uc := newIngestFixture(t)

		var statuses []domain.JobStatus
		f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, job *domain.IngestJob) error {
				statuses = append(statuses, job.Status)
				return nil
			}).Times(2)
		f.source.EXPECT().ReadCustomers(gomock.Any()).Return(nil, nil)
		f.customers.EXPECT().BulkInsert(gomock.Any(), gomock.Any()).Return(0, nil)

		job := &domain.IngestJob{ID: "01JOB", Kind: domain.IngestKindCustomers, Status: domain.JobStatusQueued}
		require.NoError(t, uc.Run(context.Background(), job))

		assert.Equal(t, []domain.JobStatus{domain.JobStatusRunning, domain.JobStatusSucceeded}, statuses)
		assert.Empty(t, job.Error)
	})

	t.Run("records failure and skips loans", func(t *testing.T) {
		f, uc := newIngestFixture(t)

		f.jobs.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		f.source.EXPECT().ReadCustomers(gomock.Any()).Return(nil, errors.New("no such file"))

		job := &domain.IngestJob{ID: "01JOB", Kind: domain.IngestKindAll, Status: domain.JobStatusQueued}
		err := uc.Run(context.Background(), job)
		require.Error(t, err)

		assert.Equal(t, domain.JobStatusFailed, job.Status)
		assert.Contains(t, job.Error, "no such file")
	})
}

func TestIngestUseCase_GetJob(t *testing.T) {
	f, uc := newIngestFixture(t)

	f.jobs.EXPECT().Get(gomock.Any(), "missing").Return(nil, domain.ErrJobNotFound)

	_, err := uc.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

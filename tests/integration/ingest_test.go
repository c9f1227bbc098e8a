package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iho/creditapproval/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditapproval/internal/adapter/repository/redis"
	"github.com/iho/creditapproval/internal/adapter/spreadsheet"
	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
	"github.com/iho/creditapproval/tests/testutil"
)

func writeSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	require.NoError(t, f.SaveAs(path))
}

func TestIngestWorkbooksThroughQueue(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	dir := t.TempDir()
	writeSheet(t, filepath.Join(dir, spreadsheet.CustomersFile), [][]any{
		{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"},
		{101, "Aaron", "Garcia", 63, 9629317944, 90000, 3200000},
		{102, "Abe", "Kramer", 27, 9629317945, 50000, 1800000},
	})
	writeSheet(t, filepath.Join(dir, spreadsheet.LoansFile), [][]any{
		{"Customer ID", "Loan ID", "Loan Amount", "Tenure", "Interest Rate", "Monthly payment", "EMIs paid on Time", "Date of Approval", "End Date"},
		{101, 5001, 400000, 24, 10.5, 18549, 24, "2020-01-10", "2022-01-10"},
		{101, 5002, 100000, 12, 12, 8885, 3, "2024-01-10", "2025-01-10"},
		{999, 5003, 70000, 12, 12, 6219, 1, "2024-01-10", "2025-01-10"},
	})

	pool := testDB.Pool
	customerRepo := postgres.NewCustomerRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	queue := redisRepo.NewJobQueue(client, "it:", "ingest")

	ingestUC := usecase.NewIngestUseCase(
		spreadsheet.NewReader(dir),
		customerRepo,
		loanRepo,
		queue,
		redisRepo.NewJobStore(client, "it:", time.Hour),
		redisRepo.NewJobIDGenerator(),
		nil,
		zerolog.Nop(),
	)

	queued, err := ingestUC.Dispatch(ctx, domain.IngestKindAll)
	require.NoError(t, err)

	job, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, queued.ID, job.ID)

	require.NoError(t, ingestUC.Run(ctx, job))

	stored, err := ingestUC.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, stored.Status)
	assert.Equal(t, 2, stored.Customers)
	assert.Equal(t, 2, stored.Loans)

	aaron, err := customerRepo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.True(t, aaron.CurrentDebt.Equal(decimal.NewFromInt(500000)), "debt %s", aaron.CurrentDebt)

	loans, err := loanRepo.ListByCustomer(ctx, 101)
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	_, err = loanRepo.GetByID(ctx, 5003)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)

	// Re-running is a no-op for rows already present.
	n, err := ingestUC.IngestCustomers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ingestUC.IngestLoans(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	aaron, err = customerRepo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.True(t, aaron.CurrentDebt.Equal(decimal.NewFromInt(500000)), "debt after reload %s", aaron.CurrentDebt)

	// New rows continue after the ingested IDs.
	registered, err := usecase.NewCustomerUseCase(customerRepo).RegisterCustomer(ctx, usecase.RegisterCustomerInput{
		FirstName:     "Nia",
		LastName:      "Das",
		Age:           35,
		MonthlySalary: decimal.NewFromInt(40000),
		PhoneNumber:   "9000011111",
	})
	require.NoError(t, err)
	assert.Greater(t, registered.ID, int64(102))
}

package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/adapter/repository/postgres"
	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
	"github.com/iho/creditapproval/tests/testutil"
)

func TestConcurrentCreateLoanKeepsDebtConsistent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	customerRepo := postgres.NewCustomerRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	loanUC := usecase.NewLoanUseCase(
		postgres.NewTxManager(pool),
		customerRepo,
		loanRepo,
		postgres.NewRetrier(zerolog.Nop()),
		nil,
	)

	// Salary 100000 allows 50000 of EMIs and each request costs 10000 a
	// month at the requested zero rate, so only a handful can be approved.
	customer := testDB.CreateTestCustomer(ctx, "Busy", decimal.NewFromInt(100000), decimal.Zero)

	const attempts = 20
	var (
		wg       sync.WaitGroup
		approved atomic.Int32
		failed   atomic.Int32
	)

	wg.Add(attempts)
	for range attempts {
		go func() {
			defer wg.Done()

			result, err := loanUC.CreateLoan(ctx, domain.LoanRequest{
				CustomerID:   customer.ID,
				Amount:       decimal.NewFromInt(120000),
				InterestRate: decimal.Zero,
				Tenure:       12,
			})
			switch {
			case err != nil:
				failed.Add(1)
			case result.Loan != nil:
				approved.Add(1)
			}
		}()
	}
	wg.Wait()

	if failed.Load() != 0 {
		t.Fatalf("expected no errors, got %d", failed.Load())
	}

	loans, err := loanRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list loans: %v", err)
	}
	if int32(len(loans)) != approved.Load() {
		t.Fatalf("stored %d loans but approved %d", len(loans), approved.Load())
	}

	stored, err := customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}

	want := decimal.NewFromInt(120000).Mul(decimal.NewFromInt(int64(len(loans))))
	if !stored.CurrentDebt.Equal(want) {
		t.Fatalf("expected debt %s, got %s", want, stored.CurrentDebt)
	}

	total := domain.CurrentObligation(loans, stored.UpdatedAt)
	if total.GreaterThan(stored.MonthlySalary.Div(decimal.NewFromInt(2))) {
		t.Fatalf("obligations %s exceed half of salary", total)
	}
}

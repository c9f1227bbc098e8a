package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
)

func TestCustomerRepositoryCreateAssignsID(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("INSERT INTO customers").
		WithArgs(anyArgs(9)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	repo := newCustomerRepository(mockPool)
	customer := &domain.Customer{
		FirstName:     "Nisha",
		LastName:      "Iyer",
		Age:           29,
		MonthlySalary: decimal.NewFromInt(45000),
		ApprovedLimit: decimal.NewFromInt(1600000),
	}

	if err := repo.Create(context.Background(), customer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if customer.ID != 42 {
		t.Fatalf("expected id 42, got %d", customer.ID)
	}

	assertExpectations(t, mockPool)
}

func TestCustomerRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	repo := newCustomerRepository(mockPool)

	_, err := repo.GetByID(context.Background(), 5)
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerRepositoryExistingIDs(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT id FROM customers WHERE id = ANY").
		WithArgs([]int64{1, 2, 3}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(3)))

	repo := newCustomerRepository(mockPool)

	existing, err := repo.ExistingIDs(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !existing[1] || existing[2] || !existing[3] {
		t.Fatalf("unexpected existing set %v", existing)
	}

	empty, err := repo.ExistingIDs(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty set without query, got %v, %v", empty, err)
	}

	assertExpectations(t, mockPool)
}

func TestCustomerRepositoryBulkInsertCountsInsertedRows(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO customers").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO customers").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectExec("SELECT setval").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectCommit()

	repo := newCustomerRepository(mockPool)
	now := time.Now().UTC()

	n, err := repo.BulkInsert(context.Background(), []*domain.Customer{
		{ID: 1, FirstName: "A", MonthlySalary: decimal.NewFromInt(1000), ApprovedLimit: decimal.NewFromInt(100000), CreatedAt: now, UpdatedAt: now},
		{ID: 2, FirstName: "B", MonthlySalary: decimal.NewFromInt(1000), ApprovedLimit: decimal.NewFromInt(100000), CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n != 1 {
		t.Fatalf("expected 1 inserted row, got %d", n)
	}

	assertExpectations(t, mockPool)
}

func TestCustomerRepositoryBulkInsertRollsBackOnError(t *testing.T) {
	mockPool := newMockPool(t)
	insertErr := errors.New("check constraint violated")
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO customers").WithArgs(anyArgs(10)...).WillReturnError(insertErr)
	mockPool.ExpectRollback()

	repo := newCustomerRepository(mockPool)

	_, err := repo.BulkInsert(context.Background(), []*domain.Customer{{ID: 1, FirstName: "A"}})
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected insert error, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestLoanRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT (.+) FROM loans WHERE id").
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	repo := newLoanRepository(mockPool)

	_, err := repo.GetByID(context.Background(), 9)
	if !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestLoanRepositoryCreateInTransaction(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery("INSERT INTO loans").
		WithArgs(anyArgs(9)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(101)))
	mockPool.ExpectCommit()

	txManager := newTxManagerWithPool(mockPool)
	repo := newLoanRepository(mockPool)

	ctx := context.Background()
	tx, err := txManager.Begin(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	today := domain.Date(time.Now())
	loan := &domain.Loan{
		CustomerID:         1,
		Amount:             decimal.NewFromInt(100000),
		Tenure:             12,
		InterestRate:       decimal.NewFromInt(12),
		MonthlyInstallment: decimal.RequireFromString("8884.88"),
		StartDate:          today,
		EndDate:            domain.AddMonths(today, 12),
		CreatedAt:          time.Now(),
	}

	if err := repo.Create(ctx, tx, loan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if loan.ID != 101 {
		t.Fatalf("expected id 101, got %d", loan.ID)
	}

	assertExpectations(t, mockPool)
}

func TestLoanRepositoryBulkInsertAddsDebtOfInsertedLoans(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO loans").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO loans").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO loans").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectExec("UPDATE customers").
		WithArgs(int64(1), numericEq(decimal.NewFromInt(50000)), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("UPDATE customers").
		WithArgs(int64(4), numericEq(decimal.NewFromInt(100000)), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("SELECT setval").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectCommit()

	repo := newLoanRepository(mockPool)

	n, err := repo.BulkInsert(context.Background(), []*domain.Loan{
		{ID: 10, CustomerID: 4, Amount: decimal.NewFromInt(100000), Tenure: 12},
		{ID: 11, CustomerID: 1, Amount: decimal.NewFromInt(50000), Tenure: 12},
		{ID: 12, CustomerID: 1, Amount: decimal.NewFromInt(30000), Tenure: 12},
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n != 2 {
		t.Fatalf("expected 2 inserted loans, got %d", n)
	}

	assertExpectations(t, mockPool)
}

func TestLoanRepositoryBulkInsertExistingLoansKeepDebt(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO loans").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectExec("INSERT INTO loans").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectExec("SELECT setval").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectCommit()

	repo := newLoanRepository(mockPool)

	n, err := repo.BulkInsert(context.Background(), []*domain.Loan{
		{ID: 10, CustomerID: 4, Amount: decimal.NewFromInt(100000), Tenure: 12},
		{ID: 11, CustomerID: 1, Amount: decimal.NewFromInt(50000), Tenure: 12},
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n != 0 {
		t.Fatalf("expected no inserted loans, got %d", n)
	}

	assertExpectations(t, mockPool)
}

func TestLoanRepositoryBulkInsertRollsBackOnDebtError(t *testing.T) {
	mockPool := newMockPool(t)
	updateErr := errors.New("lock timeout")
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO loans").WithArgs(anyArgs(10)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("UPDATE customers").WithArgs(anyArgs(3)...).WillReturnError(updateErr)
	mockPool.ExpectRollback()

	repo := newLoanRepository(mockPool)

	_, err := repo.BulkInsert(context.Background(), []*domain.Loan{
		{ID: 10, CustomerID: 4, Amount: decimal.NewFromInt(100000), Tenure: 12},
	}, time.Now())
	if !errors.Is(err, updateErr) {
		t.Fatalf("expected update error, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestLoanRepositoryBulkInsertEmpty(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newLoanRepository(mockPool)

	n, err := repo.BulkInsert(context.Background(), nil, time.Now())
	if err != nil || n != 0 {
		t.Fatalf("expected no-op, got %d, %v", n, err)
	}

	assertExpectations(t, mockPool)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "8884.88", "1800000", "-12.5", "0.01"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Errorf("round trip of %s gave %s", s, got)
		}
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// numericEq matches a pgtype.Numeric argument by decimal value.
type numericEq decimal.Decimal

func (m numericEq) Match(v any) bool {
	n, ok := v.(pgtype.Numeric)
	return ok && numericToDecimal(n).Equal(decimal.Decimal(m))
}

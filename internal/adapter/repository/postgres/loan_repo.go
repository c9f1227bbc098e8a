package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/infrastructure/postgres/generated"
	"github.com/iho/creditapproval/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool    pgxPool
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return newLoanRepository(pool)
}

func newLoanRepository(pool pgxPool) *LoanRepository {
	return &LoanRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a loan inside tx and assigns its ID.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	id, err := queriesFor(tx).CreateLoan(ctx, generated.CreateLoanParams{
		CustomerID:         loan.CustomerID,
		Amount:             decimalToNumeric(loan.Amount),
		Tenure:             int32(loan.Tenure),
		InterestRate:       decimalToNumeric(loan.InterestRate),
		MonthlyInstallment: decimalToNumeric(loan.MonthlyInstallment),
		EmisPaidOnTime:     int32(loan.EMIsPaidOnTime),
		StartDate:          timeToPgDate(loan.StartDate),
		EndDate:            timeToPgDate(loan.EndDate),
		CreatedAt:          timeToPgTimestamptz(loan.CreatedAt),
	})
	if err != nil {
		return err
	}

	loan.ID = id

	return nil
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	row, err := r.queries.GetLoanByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return rowToLoan(row), nil
}

// ListByCustomer lists a customer's loans ordered by ID.
func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Loan, error) {
	return listLoans(ctx, r.queries, customerID)
}

// ListByCustomerTx lists a customer's loans inside tx.
func (r *LoanRepository) ListByCustomerTx(ctx context.Context, tx usecase.Transaction, customerID int64) ([]*domain.Loan, error) {
	return listLoans(ctx, queriesFor(tx), customerID)
}

// BulkInsert inserts loans with their own IDs in one transaction, skipping
// IDs that already exist, then moves the ID sequence past them. Only loans
// that were actually inserted add to their customer's current debt, so a
// repeated load leaves debts unchanged. Debts are updated in customer ID
// order.
func (r *LoanRepository) BulkInsert(ctx context.Context, loans []*domain.Loan, updatedAt time.Time) (int, error) {
	if len(loans) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	queries := r.queries.WithTx(tx)

	var inserted int
	debts := make(map[int64]decimal.Decimal)
	for _, l := range loans {
		n, err := queries.InsertLoanWithID(ctx, generated.InsertLoanWithIDParams{
			ID:                 l.ID,
			CustomerID:         l.CustomerID,
			Amount:             decimalToNumeric(l.Amount),
			Tenure:             int32(l.Tenure),
			InterestRate:       decimalToNumeric(l.InterestRate),
			MonthlyInstallment: decimalToNumeric(l.MonthlyInstallment),
			EmisPaidOnTime:     int32(l.EMIsPaidOnTime),
			StartDate:          timeToPgDate(l.StartDate),
			EndDate:            timeToPgDate(l.EndDate),
			CreatedAt:          timeToPgTimestamptz(l.CreatedAt),
		})
		if err != nil {
			return 0, fmt.Errorf("insert loan %d: %w", l.ID, err)
		}
		if n == 0 {
			continue
		}
		inserted++
		debts[l.CustomerID] = debts[l.CustomerID].Add(l.Amount)
	}

	customerIDs := make([]int64, 0, len(debts))
	for id := range debts {
		customerIDs = append(customerIDs, id)
	}
	slices.Sort(customerIDs)

	for _, id := range customerIDs {
		err := queries.AddCustomerDebt(ctx, generated.AddCustomerDebtParams{
			ID:        id,
			Amount:    decimalToNumeric(debts[id]),
			UpdatedAt: timeToPgTimestamptz(updatedAt),
		})
		if err != nil {
			return 0, fmt.Errorf("add debt of customer %d: %w", id, err)
		}
	}

	if err := queries.ResetLoanIDSequence(ctx); err != nil {
		return 0, fmt.Errorf("reset loan sequence: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return inserted, nil
}

func listLoans(ctx context.Context, queries *generated.Queries, customerID int64) ([]*domain.Loan, error) {
	rows, err := queries.ListLoansByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, rowToLoan(row))
	}

	return loans, nil
}

func rowToLoan(row generated.Loan) *domain.Loan {
	return &domain.Loan{
		ID:                 row.ID,
		CustomerID:         row.CustomerID,
		Amount:             numericToDecimal(row.Amount),
		Tenure:             int(row.Tenure),
		InterestRate:       numericToDecimal(row.InterestRate),
		MonthlyInstallment: numericToDecimal(row.MonthlyInstallment),
		EMIsPaidOnTime:     int(row.EmisPaidOnTime),
		StartDate:          dateFromPg(row.StartDate),
		EndDate:            dateFromPg(row.EndDate),
		CreatedAt:          row.CreatedAt.Time,
	}
}

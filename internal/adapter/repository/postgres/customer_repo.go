package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/infrastructure/postgres/generated"
	"github.com/iho/creditapproval/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	pool    pgxPool
	queries *generated.Queries
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return newCustomerRepository(pool)
}

func newCustomerRepository(pool pgxPool) *CustomerRepository {
	return &CustomerRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a new customer and assigns its ID.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	id, err := r.queries.CreateCustomer(ctx, generated.CreateCustomerParams{
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		Age:           int32(customer.Age),
		PhoneNumber:   customer.PhoneNumber,
		MonthlySalary: decimalToNumeric(customer.MonthlySalary),
		ApprovedLimit: decimalToNumeric(customer.ApprovedLimit),
		CurrentDebt:   decimalToNumeric(customer.CurrentDebt),
		CreatedAt:     timeToPgTimestamptz(customer.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(customer.UpdatedAt),
	})
	if err != nil {
		return err
	}

	customer.ID = id

	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return rowToCustomer(row), nil
}

// GetByIDForUpdate retrieves a customer by ID with a FOR UPDATE lock.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Customer, error) {
	row, err := queriesFor(tx).GetCustomerByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return rowToCustomer(row), nil
}

// UpdateDebt sets the customer's outstanding debt.
func (r *CustomerRepository) UpdateDebt(ctx context.Context, tx usecase.Transaction, id int64, debt decimal.Decimal, updatedAt time.Time) error {
	return queriesFor(tx).UpdateCustomerDebt(ctx, generated.UpdateCustomerDebtParams{
		ID:          id,
		CurrentDebt: decimalToNumeric(debt),
		UpdatedAt:   timeToPgTimestamptz(updatedAt),
	})
}

// BulkInsert inserts customers with their own IDs in one transaction,
// skipping IDs that already exist, then moves the ID sequence past them.
func (r *CustomerRepository) BulkInsert(ctx context.Context, customers []*domain.Customer) (int, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	queries := r.queries.WithTx(tx)

	var inserted int64
	for _, c := range customers {
		n, err := queries.InsertCustomerWithID(ctx, generated.InsertCustomerWithIDParams{
			ID:            c.ID,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			Age:           int32(c.Age),
			PhoneNumber:   c.PhoneNumber,
			MonthlySalary: decimalToNumeric(c.MonthlySalary),
			ApprovedLimit: decimalToNumeric(c.ApprovedLimit),
			CurrentDebt:   decimalToNumeric(c.CurrentDebt),
			CreatedAt:     timeToPgTimestamptz(c.CreatedAt),
			UpdatedAt:     timeToPgTimestamptz(c.UpdatedAt),
		})
		if err != nil {
			return 0, fmt.Errorf("insert customer %d: %w", c.ID, err)
		}
		inserted += n
	}

	if err := queries.ResetCustomerIDSequence(ctx); err != nil {
		return 0, fmt.Errorf("reset customer sequence: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(inserted), nil
}

// ExistingIDs reports which of ids belong to stored customers.
func (r *CustomerRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool)
	if len(ids) == 0 {
		return existing, nil
	}

	found, err := r.queries.ListExistingCustomerIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = true
	}

	return existing, nil
}

func rowToCustomer(row generated.Customer) *domain.Customer {
	return &domain.Customer{
		ID:            row.ID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Age:           int(row.Age),
		PhoneNumber:   row.PhoneNumber,
		MonthlySalary: numericToDecimal(row.MonthlySalary),
		ApprovedLimit: numericToDecimal(row.ApprovedLimit),
		CurrentDebt:   numericToDecimal(row.CurrentDebt),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

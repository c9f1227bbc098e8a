package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
)

// CustomerUseCase handles customer registration and lookup.
type CustomerUseCase struct {
	customerRepo CustomerRepository
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(customerRepo CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
	}
}

// RegisterCustomerInput represents input for registering a customer.
type RegisterCustomerInput struct {
	FirstName     string
	LastName      string
	Age           int
	MonthlySalary decimal.Decimal
	PhoneNumber   string
}

// Validate checks registration fields.
func (in RegisterCustomerInput) Validate() error {
	if err := domain.ValidateName("first_name", in.FirstName); err != nil {
		return err
	}
	if err := domain.ValidateName("last_name", in.LastName); err != nil {
		return err
	}
	if err := domain.ValidateAge(in.Age); err != nil {
		return err
	}
	if err := domain.ValidateMonthlySalary(in.MonthlySalary); err != nil {
		return err
	}
	return domain.ValidatePhoneNumber(in.PhoneNumber)
}

// RegisterCustomer creates a customer with an approved limit derived from
// salary and no outstanding debt.
func (uc *CustomerUseCase) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*domain.Customer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	customer := &domain.Customer{
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Age:           input.Age,
		PhoneNumber:   strings.TrimSpace(input.PhoneNumber),
		MonthlySalary: input.MonthlySalary,
		ApprovedLimit: domain.ApprovedLimitFor(input.MonthlySalary),
		CurrentDebt:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IngestKind selects which spreadsheet a job loads.
type IngestKind string

const (
	IngestKindCustomers IngestKind = "customers"
	IngestKindLoans     IngestKind = "loans"
	// IngestKindAll loads customers first, then loans.
	IngestKindAll IngestKind = "all"
)

// IsValid reports whether k is a known kind.
func (k IngestKind) IsValid() bool {
	switch k {
	case IngestKindCustomers, IngestKindLoans, IngestKindAll:
		return true
	}
	return false
}

// JobStatus is the lifecycle state of an ingestion job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// IngestJob is a background bulk load request.
type IngestJob struct {
	ID        string     `json:"id"`
	Kind      IngestKind `json:"kind"`
	Status    JobStatus  `json:"status"`
	Customers int        `json:"customers"`
	Loans     int        `json:"loans"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CustomerRow is one row of the customer spreadsheet.
type CustomerRow struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
}

// ToCustomer converts the row to a customer with no outstanding debt.
func (r CustomerRow) ToCustomer(now time.Time) (*Customer, error) {
	if r.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}

	if r.MonthlySalary.IsNegative() || r.ApprovedLimit.IsNegative() {
		return nil, fmt.Errorf("%w: customer %d has negative salary or limit", ErrInvalidInput, r.CustomerID)
	}

	return &Customer{
		ID:            r.CustomerID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Age:           r.Age,
		PhoneNumber:   r.PhoneNumber,
		MonthlySalary: r.MonthlySalary,
		ApprovedLimit: r.ApprovedLimit,
		CurrentDebt:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// LoanRow is one row of the loan spreadsheet.
type LoanRow struct {
	CustomerID         int64
	LoanID             int64
	Amount             decimal.Decimal
	Tenure             int
	InterestRate       decimal.Decimal
	MonthlyInstallment decimal.Decimal
	EMIsPaidOnTime     int
	StartDate          time.Time
	EndDate            time.Time
}

// ToLoan converts the row to a loan.
func (r LoanRow) ToLoan(now time.Time) (*Loan, error) {
	if r.LoanID <= 0 || r.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: loan and customer ids must be positive", ErrInvalidInput)
	}

	if r.Tenure <= 0 {
		return nil, fmt.Errorf("%w: loan %d: %w", ErrInvalidInput, r.LoanID, ErrInvalidTenure)
	}

	if r.EMIsPaidOnTime < 0 || r.EMIsPaidOnTime > r.Tenure {
		return nil, fmt.Errorf("%w: loan %d: emis paid on time out of range", ErrInvalidInput, r.LoanID)
	}

	if err := ValidateAmount(r.Amount); err != nil {
		return nil, fmt.Errorf("loan %d: %w", r.LoanID, err)
	}

	if err := ValidateInterestRate(r.InterestRate); err != nil {
		return nil, fmt.Errorf("loan %d: %w", r.LoanID, err)
	}

	return &Loan{
		ID:                 r.LoanID,
		CustomerID:         r.CustomerID,
		Amount:             r.Amount,
		Tenure:             r.Tenure,
		InterestRate:       r.InterestRate,
		MonthlyInstallment: r.MonthlyInstallment,
		EMIsPaidOnTime:     r.EMIsPaidOnTime,
		StartDate:          Date(r.StartDate),
		EndDate:            Date(r.EndDate),
		CreatedAt:          now,
	}, nil
}

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
)

// RegisterCustomerRequest represents a request to register a customer.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	PhoneNumber   string          `json:"phone_number"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterCustomerRequest) ToUseCaseInput() usecase.RegisterCustomerInput {
	return usecase.RegisterCustomerInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Age:           r.Age,
		MonthlySalary: r.MonthlyIncome,
		PhoneNumber:   r.PhoneNumber,
	}
}

// LoanRequest is the body of both check-eligibility and create-loan.
type LoanRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int             `json:"tenure"`
}

// ToDomain converts to a domain loan request.
func (r *LoanRequest) ToDomain() domain.LoanRequest {
	return domain.LoanRequest{
		CustomerID:   r.CustomerID,
		Amount:       r.LoanAmount,
		InterestRate: r.InterestRate,
		Tenure:       r.Tenure,
	}
}

// IngestRequest asks for a background spreadsheet load. An empty kind
// means "all".
type IngestRequest struct {
	Kind string `json:"kind"`
}

// IngestKind returns the requested kind, defaulting to all.
func (r *IngestRequest) IngestKind() domain.IngestKind {
	if r.Kind == "" {
		return domain.IngestKindAll
	}
	return domain.IngestKind(r.Kind)
}

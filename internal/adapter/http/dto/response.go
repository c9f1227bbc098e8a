package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
)

// CustomerResponse represents a registered customer.
type CustomerResponse struct {
	CustomerID    int64           `json:"customer_id"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	PhoneNumber   string          `json:"phone_number"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		CustomerID:    c.ID,
		Name:          c.FullName(),
		Age:           c.Age,
		MonthlyIncome: c.MonthlySalary,
		ApprovedLimit: c.ApprovedLimit,
		PhoneNumber:   c.PhoneNumber,
	}
}

// EligibilityResponse is the outcome of check-eligibility.
type EligibilityResponse struct {
	CustomerID            int64            `json:"customer_id"`
	Approval              bool             `json:"approval"`
	InterestRate          decimal.Decimal  `json:"interest_rate"`
	CorrectedInterestRate *decimal.Decimal `json:"corrected_interest_rate"`
	Tenure                int              `json:"tenure"`
	MonthlyInstallment    decimal.Decimal  `json:"monthly_installment"`
	Message               string           `json:"message"`
}

// EligibilityFromDomain converts a decision to a response.
func EligibilityFromDomain(d *domain.EligibilityDecision) *EligibilityResponse {
	return &EligibilityResponse{
		CustomerID:            d.CustomerID,
		Approval:              d.Approved,
		InterestRate:          d.InterestRate,
		CorrectedInterestRate: d.CorrectedInterestRate,
		Tenure:                d.Tenure,
		MonthlyInstallment:    d.MonthlyInstallment,
		Message:               d.Reason,
	}
}

// CreateLoanResponse is the outcome of create-loan. LoanID is null when the
// loan was not approved; MonthlyInstallment then carries the installment the
// rejected request would have had.
type CreateLoanResponse struct {
	LoanID             *int64           `json:"loan_id"`
	CustomerID         int64            `json:"customer_id"`
	LoanApproved       bool             `json:"loan_approved"`
	Message            string           `json:"message"`
	MonthlyInstallment *decimal.Decimal `json:"monthly_installment"`
}

// LoanCreatedMessage is returned when a loan is booked.
const LoanCreatedMessage = "loan approved and created"

// CreateLoanFromResult converts a create-loan result to a response.
func CreateLoanFromResult(res *usecase.CreateLoanResult) *CreateLoanResponse {
	installment := res.Decision.MonthlyInstallment
	resp := &CreateLoanResponse{
		CustomerID:         res.Decision.CustomerID,
		LoanApproved:       res.Loan != nil,
		Message:            res.Decision.Reason,
		MonthlyInstallment: &installment,
	}

	if res.Loan != nil {
		id := res.Loan.ID
		booked := res.Loan.MonthlyInstallment
		resp.LoanID = &id
		resp.MonthlyInstallment = &booked
		resp.Message = LoanCreatedMessage
	}

	return resp
}

// LoanCustomer is the customer summary nested in a loan view.
type LoanCustomer struct {
	CustomerID  int64  `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

// LoanResponse represents a single loan with its borrower.
type LoanResponse struct {
	LoanID             int64           `json:"loan_id"`
	Customer           LoanCustomer    `json:"customer"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
}

// LoanFromDetails converts loan details to a response.
func LoanFromDetails(d *usecase.LoanDetails) *LoanResponse {
	return &LoanResponse{
		LoanID: d.Loan.ID,
		Customer: LoanCustomer{
			CustomerID:  d.Customer.ID,
			FirstName:   d.Customer.FirstName,
			LastName:    d.Customer.LastName,
			PhoneNumber: d.Customer.PhoneNumber,
			Age:         d.Customer.Age,
		},
		LoanAmount:         d.Loan.Amount,
		InterestRate:       d.Loan.InterestRate,
		MonthlyInstallment: d.Loan.MonthlyInstallment,
		Tenure:             d.Loan.Tenure,
	}
}

// CustomerLoanResponse is one entry of a customer's loan list.
type CustomerLoanResponse struct {
	LoanID             int64           `json:"loan_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	RepaymentsLeft     int             `json:"repayments_left"`
}

// CustomerLoansFromDomain converts loans to list entries.
func CustomerLoansFromDomain(loans []*domain.Loan) []*CustomerLoanResponse {
	result := make([]*CustomerLoanResponse, len(loans))
	for i, l := range loans {
		result[i] = &CustomerLoanResponse{
			LoanID:             l.ID,
			LoanAmount:         l.Amount,
			InterestRate:       l.InterestRate,
			MonthlyInstallment: l.MonthlyInstallment,
			RepaymentsLeft:     l.RepaymentsLeft(),
		}
	}
	return result
}

// CreditScoreResponse reports a customer's current score.
type CreditScoreResponse struct {
	CustomerID  int64 `json:"customer_id"`
	CreditScore int   `json:"credit_score"`
}

// JobResponse represents an ingestion job.
type JobResponse struct {
	JobID     string    `json:"job_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Customers int       `json:"customers"`
	Loans     int       `json:"loans"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobFromDomain converts a job to a response.
func JobFromDomain(j *domain.IngestJob) *JobResponse {
	return &JobResponse{
		JobID:     j.ID,
		Kind:      string(j.Kind),
		Status:    string(j.Status),
		Customers: j.Customers,
		Loans:     j.Loans,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

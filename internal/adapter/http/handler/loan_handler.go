package handler

import (
	"context"
	"net/http"

	"github.com/iho/creditapproval/internal/adapter/http/dto"
	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CheckEligibility(ctx context.Context, req domain.LoanRequest) (*domain.EligibilityDecision, error)
	CreateLoan(ctx context.Context, req domain.LoanRequest) (*usecase.CreateLoanResult, error)
	GetLoan(ctx context.Context, id int64) (*usecase.LoanDetails, error)
	ListCustomerLoans(ctx context.Context, customerID int64) ([]*domain.Loan, error)
	CreditScore(ctx context.Context, customerID int64) (int, error)
}

// LoanHandler handles eligibility and loan HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// CheckEligibility evaluates a request without booking a loan.
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	decision, err := h.loanUC.CheckEligibility(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check eligibility", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EligibilityFromDomain(decision))
}

// Create books a loan if the request is approved. Rejections are 200.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.loanUC.CreateLoan(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	status := http.StatusOK
	if result.Loan != nil {
		status = http.StatusCreated
	}

	writeJSON(w, status, dto.CreateLoanFromResult(result))
}

// Get returns a loan with its customer.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "loan_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	details, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDetails(details))
}

// ListByCustomer lists a customer's loans with repayments left.
func (h *LoanHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseIDParam(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID", err.Error())
		return
	}

	loans, err := h.loanUC.ListCustomerLoans(r.Context(), customerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerLoansFromDomain(loans))
}

// CreditScore reports a customer's current score.
func (h *LoanHandler) CreditScore(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseIDParam(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID", err.Error())
		return
	}

	score, err := h.loanUC.CreditScore(r.Context(), customerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute credit score", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditScoreResponse{CustomerID: customerID, CreditScore: score})
}

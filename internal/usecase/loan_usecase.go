package usecase

import (
	"context"
	"time"

	"github.com/iho/creditapproval/internal/domain"
)

// LoanUseCase handles eligibility checks and loan creation.
type LoanUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	loanRepo     LoanRepository
	retrier      Retrier
	recorder     DecisionRecorder
	now          func() time.Time
}

// NewLoanUseCase creates a new LoanUseCase. retrier and recorder may be nil.
func NewLoanUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	loanRepo LoanRepository,
	retrier Retrier,
	recorder DecisionRecorder,
) *LoanUseCase {
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &LoanUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		retrier:      retrier,
		recorder:     recorder,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for "today".
func (uc *LoanUseCase) WithClock(now func() time.Time) *LoanUseCase {
	uc.now = now
	return uc
}

// CheckEligibility evaluates a loan request without persisting anything.
func (uc *LoanUseCase) CheckEligibility(ctx context.Context, req domain.LoanRequest) (*domain.EligibilityDecision, error) {
	// Checked before any lookup. Evaluate repeats it for direct callers.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	history, err := uc.loanRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	decision, err := domain.Evaluate(customer, history, req, uc.now())
	if err != nil {
		return nil, err
	}

	uc.recorder.ObserveDecision(decision)

	return decision, nil
}

// CreateLoanResult is the outcome of CreateLoan. Loan is nil when the
// request was rejected.
type CreateLoanResult struct {
	Loan     *domain.Loan
	Decision *domain.EligibilityDecision
}

// CreateLoan evaluates the request and, if approved, books the loan and
// raises the customer's debt in one transaction.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, req domain.LoanRequest) (*CreateLoanResult, error) {
	// Checked before opening a transaction. Evaluate repeats it for callers
	// that use it directly.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *CreateLoanResult
	operation := func() error {
		var err error
		result, err = uc.approveAndPersist(ctx, req)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	uc.recorder.ObserveDecision(result.Decision)
	if result.Loan != nil {
		uc.recorder.LoanCreated(result.Loan)
	}

	return result, nil
}

func (uc *LoanUseCase) approveAndPersist(ctx context.Context, req domain.LoanRequest) (*CreateLoanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the customer so concurrent approvals see each other's debt.
	customer, err := uc.customerRepo.GetByIDForUpdate(ctx, tx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	history, err := uc.loanRepo.ListByCustomerTx(ctx, tx, customer.ID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	decision, err := domain.Evaluate(customer, history, req, now)
	if err != nil {
		return nil, err
	}

	if !decision.Approved {
		return &CreateLoanResult{Decision: decision}, nil
	}

	today := domain.Date(now)
	loan := &domain.Loan{
		CustomerID:         customer.ID,
		Amount:             req.Amount,
		Tenure:             req.Tenure,
		InterestRate:       decision.EffectiveRate(),
		MonthlyInstallment: decision.MonthlyInstallment,
		EMIsPaidOnTime:     0,
		StartDate:          today,
		EndDate:            domain.AddMonths(today, req.Tenure),
		CreatedAt:          now,
	}

	if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.UpdateDebt(ctx, tx, customer.ID, customer.AddDebt(req.Amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CreateLoanResult{Loan: loan, Decision: decision}, nil
}

// LoanDetails is a loan together with its borrower.
type LoanDetails struct {
	Loan     *domain.Loan
	Customer *domain.Customer
}

// GetLoan retrieves a loan and its customer.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id int64) (*LoanDetails, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, loan.CustomerID)
	if err != nil {
		return nil, err
	}

	return &LoanDetails{Loan: loan, Customer: customer}, nil
}

// ListCustomerLoans lists every loan of an existing customer.
func (uc *LoanUseCase) ListCustomerLoans(ctx context.Context, customerID int64) ([]*domain.Loan, error) {
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	return uc.loanRepo.ListByCustomer(ctx, customerID)
}

// CreditScore computes a customer's current score for diagnostics.
func (uc *LoanUseCase) CreditScore(ctx context.Context, customerID int64) (int, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return 0, err
	}

	history, err := uc.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}

	return domain.CreditScore(customer, history, uc.now()), nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decision messages.
const (
	ReasonAffordability = "exceeds affordability threshold"
	ReasonCreditScore   = "rejected on credit score"
	ReasonApproved      = "approved"
)

var (
	// affordabilityRatio caps total EMIs as a share of monthly salary.
	affordabilityRatio = decimal.RequireFromString("0.5")

	midTierRateFloor = decimal.NewFromInt(12)
	lowTierRateFloor = decimal.NewFromInt(16)
)

// Score tier boundaries, all exclusive lower bounds.
const (
	topTierScore = 50
	midTierScore = 30
	lowTierScore = 10
)

// EligibilityDecision is the outcome of evaluating a loan request.
// Rejections are decisions, not errors.
type EligibilityDecision struct {
	CustomerID   int64
	Approved     bool
	InterestRate decimal.Decimal
	// CorrectedInterestRate is set only when the engine replaced the
	// requested rate with a different one.
	CorrectedInterestRate *decimal.Decimal
	Tenure                int
	MonthlyInstallment    decimal.Decimal
	// CreditScore is nil when the request failed affordability before
	// the score was computed.
	CreditScore *int
	Reason      string
}

// EffectiveRate is the rate the loan would be booked at.
func (d *EligibilityDecision) EffectiveRate() decimal.Decimal {
	if d.CorrectedInterestRate != nil {
		return *d.CorrectedInterestRate
	}
	return d.InterestRate
}

// CurrentObligation sums the installments of loans still running on now.
func CurrentObligation(history []*Loan, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, loan := range history {
		if loan.IsActive(now) {
			total = total.Add(loan.MonthlyInstallment)
		}
	}
	return total
}

// Evaluate decides whether customer may borrow according to req.
//
// Affordability is checked first: if running EMIs plus the new EMI at the
// requested rate exceed half the monthly salary the request is rejected
// without scoring. Otherwise the credit score picks a tier:
//
//	score > 50       approve at the requested rate
//	30 < score <= 50 approve, rate raised to at least 12%
//	10 < score <= 30 approve, rate raised to at least 16%
//	score <= 10      reject
//
// Rejections report the installment at the requested rate.
func Evaluate(customer *Customer, history []*Loan, req LoanRequest, now time.Time) (*EligibilityDecision, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	potential, err := MonthlyInstallment(req.Amount, req.InterestRate, req.Tenure)
	if err != nil {
		return nil, err
	}

	decision := &EligibilityDecision{
		CustomerID:         customer.ID,
		InterestRate:       req.InterestRate,
		Tenure:             req.Tenure,
		MonthlyInstallment: potential,
	}

	obligation := CurrentObligation(history, now).Add(potential)
	if obligation.GreaterThan(customer.MonthlySalary.Mul(affordabilityRatio)) {
		decision.Reason = ReasonAffordability
		return decision, nil
	}

	score := CreditScore(customer, history, now)
	decision.CreditScore = &score

	floor, approved := rateFloor(score)
	if !approved {
		decision.Reason = ReasonCreditScore
		return decision, nil
	}

	effective := req.InterestRate
	if floor != nil && !req.InterestRate.GreaterThan(*floor) {
		effective = *floor
	}

	if !effective.Equal(req.InterestRate) {
		corrected := effective
		decision.CorrectedInterestRate = &corrected
	}

	installment, err := MonthlyInstallment(req.Amount, effective, req.Tenure)
	if err != nil {
		return nil, err
	}

	decision.Approved = true
	decision.MonthlyInstallment = installment
	decision.Reason = ReasonApproved

	return decision, nil
}

// rateFloor returns the minimum rate for the score's tier, nil when the
// requested rate is always kept, and false when the tier is rejected.
func rateFloor(score int) (*decimal.Decimal, bool) {
	switch {
	case score > topTierScore:
		return nil, true
	case score > midTierScore:
		return &midTierRateFloor, true
	case score > lowTierScore:
		return &lowTierRateFloor, true
	default:
		return nil, false
	}
}

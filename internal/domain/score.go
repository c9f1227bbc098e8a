package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit score weights. They sum to MaxCreditScore.
const (
	MaxCreditScore = 100

	onTimeWeight        = 30
	loanCountWeight     = 20
	loanCountPenalty    = 4
	currentYearWeight   = 20
	currentYearPenalty  = 5
	volumeWeight        = 30
	volumeLimitMultiple = 2
)

// CreditScore rates a customer from 0 to 100 using their whole loan history.
// now decides which loans count as current-year activity.
func CreditScore(customer *Customer, history []*Loan, now time.Time) int {
	var (
		paid        int64
		tenure      int64
		currentYear int
		volume      = decimal.Zero
	)

	for _, loan := range history {
		paid += int64(loan.EMIsPaidOnTime)
		tenure += int64(loan.Tenure)
		volume = volume.Add(loan.Amount)

		if loan.StartDate.Year() == now.Year() {
			currentYear++
		}
	}

	// Customers without history get the full on-time component. Every other
	// component is an integer, so flooring the ratio term floors the sum.
	onTime := int64(onTimeWeight)
	if tenure > 0 {
		onTime = onTimeWeight * paid / tenure
	}

	loanCount := max(0, loanCountWeight-loanCountPenalty*len(history))
	activity := max(0, currentYearWeight-currentYearPenalty*currentYear)

	volumeScore := volumeWeight
	if volume.GreaterThan(customer.ApprovedLimit.Mul(decimal.NewFromInt(volumeLimitMultiple))) {
		volumeScore = 0
	}

	if customer.OverLimit() {
		return 0
	}

	return min(MaxCreditScore, int(onTime)+loanCount+activity+volumeScore)
}

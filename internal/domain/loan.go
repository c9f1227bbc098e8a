package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a historical or newly approved loan of a customer.
type Loan struct {
	ID                 int64
	CustomerID         int64
	Amount             decimal.Decimal
	Tenure             int
	InterestRate       decimal.Decimal
	MonthlyInstallment decimal.Decimal
	EMIsPaidOnTime     int
	StartDate          time.Time
	EndDate            time.Time
	CreatedAt          time.Time
}

// IsActive reports whether the loan still runs on the given day.
func (l *Loan) IsActive(today time.Time) bool {
	return !Date(l.EndDate).Before(Date(today))
}

// RepaymentsLeft is the number of installments not yet paid on time.
func (l *Loan) RepaymentsLeft() int {
	left := l.Tenure - l.EMIsPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months to t, clamping the day to the end of the
// target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

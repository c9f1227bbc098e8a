package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the borrower profile the scoring core reads.
type Customer struct {
	ID            int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	CurrentDebt   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns "first last".
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// OverLimit reports whether outstanding debt exceeds the approved limit.
func (c *Customer) OverLimit() bool {
	return c.CurrentDebt.GreaterThan(c.ApprovedLimit)
}

// AddDebt returns the outstanding debt after borrowing amount.
func (c *Customer) AddDebt(amount decimal.Decimal) decimal.Decimal {
	return c.CurrentDebt.Add(amount)
}

var (
	approvedLimitMultiplier = decimal.NewFromInt(36)
	approvedLimitUnit       = decimal.NewFromInt(100000)
)

// ApprovedLimitFor derives the credit ceiling granted at registration:
// 36 months of salary rounded half-up to the nearest lakh.
func ApprovedLimitFor(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(approvedLimitMultiplier).
		DivRound(approvedLimitUnit, 0).
		Mul(approvedLimitUnit)
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// installmentPrecision is the number of fractional digits kept for the
// monthly rate and the compound growth factor. Only the final installment
// is rounded to cents.
const installmentPrecision = 28

var (
	one              = decimal.NewFromInt(1)
	monthsPercentDiv = decimal.NewFromInt(1200)
)

// MonthlyInstallment returns the equated monthly installment that repays
// principal with annualRate percent interest over tenure months, rounded
// half-up to 2 decimal places.
func MonthlyInstallment(principal, annualRate decimal.Decimal, tenure int) (decimal.Decimal, error) {
	if tenure <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidTenure)
	}

	if principal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: principal must not be negative", ErrInvalidInput)
	}

	if annualRate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidRate)
	}

	n := decimal.NewFromInt(int64(tenure))

	if annualRate.IsZero() {
		return principal.DivRound(n, 2), nil
	}

	// r = rate / 12 / 100
	r := annualRate.DivRound(monthsPercentDiv, installmentPrecision)
	growth := compound(one.Add(r), tenure)

	// P * r * (1+r)^n / ((1+r)^n - 1)
	return principal.Mul(r).Mul(growth).DivRound(growth.Sub(one), 2), nil
}

// compound raises base to a positive integer power by squaring, keeping
// installmentPrecision fractional digits at every step.
func compound(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(installmentPrecision)
		}
		base = base.Mul(base).Round(installmentPrecision)
		exp >>= 1
	}
	return result
}

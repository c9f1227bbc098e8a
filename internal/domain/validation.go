package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxNameLength   = 255
	MinCustomerAge  = 18
	MaxCustomerAge  = 120
	MaxTenureMonths = 600
	MaxLoanAmount   = "10000000000" // NUMERIC(12,2)
	MaxInterestRate = "999.99"      // NUMERIC(5,2)
	MaxPhoneDigits  = 20
	MinPhoneDigits  = 7
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 -]*$`)

// LoanRequest is a request to borrow Amount over Tenure months at InterestRate
// (annual, percent).
type LoanRequest struct {
	CustomerID   int64
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	Tenure       int
}

// Validate checks the request before any computation happens.
func (r LoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}

	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	if err := ValidateInterestRate(r.InterestRate); err != nil {
		return err
	}

	return ValidateTenure(r.Tenure)
}

// ValidateAmount validates a loan principal.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxLoanAmount)
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: amount must be below %s", ErrInvalidInput, MaxLoanAmount)
	}

	return nil
}

// ValidateInterestRate validates an annual interest rate in percent.
func ValidateInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidRate)
	}

	maxRate, _ := decimal.NewFromString(MaxInterestRate)
	if rate.GreaterThan(maxRate) {
		return fmt.Errorf("%w: interest rate exceeds %s", ErrInvalidInput, MaxInterestRate)
	}

	return nil
}

// ValidateTenure validates a loan term in months.
func ValidateTenure(tenure int) error {
	if tenure <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidTenure)
	}

	if tenure > MaxTenureMonths {
		return fmt.Errorf("%w: tenure exceeds %d months", ErrInvalidInput, MaxTenureMonths)
	}

	return nil
}

// ValidateName validates a first or last name.
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidInput, field)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, field, MaxNameLength)
	}

	return nil
}

// ValidateAge validates customer age.
func ValidateAge(age int) error {
	if age < MinCustomerAge || age > MaxCustomerAge {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, MinCustomerAge, MaxCustomerAge)
	}
	return nil
}

// ValidatePhoneNumber validates a phone number.
func ValidatePhoneNumber(phone string) error {
	phone = strings.TrimSpace(phone)

	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: malformed phone number", ErrInvalidInput)
	}

	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	if digits < MinPhoneDigits || digits > MaxPhoneDigits {
		return fmt.Errorf("%w: phone number must have %d-%d digits", ErrInvalidInput, MinPhoneDigits, MaxPhoneDigits)
	}

	return nil
}

// ValidateMonthlySalary validates declared monthly income.
func ValidateMonthlySalary(salary decimal.Decimal) error {
	if salary.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: monthly income must be positive", ErrInvalidInput)
	}
	return nil
}

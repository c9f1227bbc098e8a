package domain

import "errors"

var (
	// Lookup errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrJobNotFound      = errors.New("ingestion job not found")

	// Input errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidTenure = errors.New("tenure must be a positive number of months")
	ErrInvalidRate   = errors.New("interest rate must not be negative")
)

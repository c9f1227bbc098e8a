package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthlyInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		tenure    int
		want      string
	}{
		{name: "zero rate divides evenly", principal: "120000", rate: "0", tenure: 12, want: "10000.00"},
		{name: "zero rate rounds down", principal: "100000", rate: "0", tenure: 3, want: "33333.33"},
		{name: "zero rate rounds up", principal: "200000", rate: "0", tenure: 3, want: "66666.67"},
		{name: "zero rate half rounds up", principal: "1", rate: "0", tenure: 8, want: "0.13"},
		{name: "twelve percent one year", principal: "100000", rate: "12", tenure: 12, want: "8884.88"},
		{name: "fractional rate", principal: "500000", rate: "10.5", tenure: 36, want: "16251.22"},
		{name: "sixteen percent two years", principal: "250000", rate: "16", tenure: 24, want: "12240.78"},
		{name: "twelve percent two years", principal: "250000", rate: "12", tenure: 24, want: "11768.37"},
		{name: "fifteen percent one year", principal: "100000", rate: "15", tenure: 12, want: "9025.83"},
		{name: "five years", principal: "300000", rate: "12.5", tenure: 60, want: "6749.38"},
		{name: "zero principal", principal: "0", rate: "10", tenure: 12, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyInstallment(
				decimal.RequireFromString(tt.principal),
				decimal.RequireFromString(tt.rate),
				tt.tenure,
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.StringFixed(2) != tt.want {
				t.Errorf("MonthlyInstallment(%s, %s, %d) = %s, want %s",
					tt.principal, tt.rate, tt.tenure, got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestMonthlyInstallment_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		tenure    int
		wantErr   error
	}{
		{name: "zero tenure", principal: decimal.NewFromInt(1000), rate: decimal.NewFromInt(10), tenure: 0, wantErr: ErrInvalidTenure},
		{name: "negative tenure", principal: decimal.NewFromInt(1000), rate: decimal.Zero, tenure: -3, wantErr: ErrInvalidTenure},
		{name: "negative rate", principal: decimal.NewFromInt(1000), rate: decimal.NewFromInt(-1), tenure: 12, wantErr: ErrInvalidRate},
		{name: "negative principal", principal: decimal.NewFromInt(-1000), rate: decimal.NewFromInt(10), tenure: 12, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonthlyInstallment(tt.principal, tt.rate, tt.tenure)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected error to wrap ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestMonthlyInstallment_ZeroRateMatchesDivision(t *testing.T) {
	for tenure := 1; tenure <= 36; tenure++ {
		principal := decimal.NewFromInt(98765)

		got, err := MonthlyInstallment(principal, decimal.Zero, tenure)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := principal.DivRound(decimal.NewFromInt(int64(tenure)), 2)
		if !got.Equal(want) {
			t.Fatalf("tenure %d: expected %s, got %s", tenure, want, got)
		}
	}
}

func TestCompound(t *testing.T) {
	got := compound(decimal.RequireFromString("1.01"), 12)
	want := decimal.RequireFromString("1.126825030131969720661201")

	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if !compound(decimal.NewFromInt(7), 0).Equal(one) {
		t.Fatalf("expected x^0 to be 1")
	}
}

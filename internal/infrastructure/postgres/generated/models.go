package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Customer struct {
	ID            int64              `json:"id"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	Age           int32              `json:"age"`
	PhoneNumber   string             `json:"phone_number"`
	MonthlySalary pgtype.Numeric     `json:"monthly_salary"`
	ApprovedLimit pgtype.Numeric     `json:"approved_limit"`
	CurrentDebt   pgtype.Numeric     `json:"current_debt"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type Loan struct {
	ID                 int64              `json:"id"`
	CustomerID         int64              `json:"customer_id"`
	Amount             pgtype.Numeric     `json:"amount"`
	Tenure             int32              `json:"tenure"`
	InterestRate       pgtype.Numeric     `json:"interest_rate"`
	MonthlyInstallment pgtype.Numeric     `json:"monthly_installment"`
	EmisPaidOnTime     int32              `json:"emis_paid_on_time"`
	StartDate          pgtype.Date        `json:"start_date"`
	EndDate            pgtype.Date        `json:"end_date"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
}

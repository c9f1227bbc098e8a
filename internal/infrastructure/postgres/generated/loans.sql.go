package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLoan = `-- name: CreateLoan :one
INSERT INTO loans (customer_id, amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`

type CreateLoanParams struct {
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

func (q *Queries) CreateLoan(ctx context.Context, arg CreateLoanParams) (int64, error) {
	row := q.db.QueryRow(ctx, createLoan,
		arg.CustomerID,
		arg.Amount,
		arg.Tenure,
		arg.InterestRate,
		arg.MonthlyInstallment,
		arg.EmisPaidOnTime,
		arg.StartDate,
		arg.EndDate,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getLoanByID = `-- name: GetLoanByID :one
SELECT id, customer_id, amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at FROM loans WHERE id = $1
`

func (q *Queries) GetLoanByID(ctx context.Context, id int64) (Loan, error) {
	row := q.db.QueryRow(ctx, getLoanByID, id)
	var i Loan
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.Amount,
		&i.Tenure,
		&i.InterestRate,
		&i.MonthlyInstallment,
		&i.EmisPaidOnTime,
		&i.StartDate,
		&i.EndDate,
		&i.CreatedAt,
	)
	return i, err
}

const insertLoanWithID = `-- name: InsertLoanWithID :execrows
INSERT INTO loans (id, customer_id, amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING
`

type InsertLoanWithIDParams struct {
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

func (q *Queries) InsertLoanWithID(ctx context.Context, arg InsertLoanWithIDParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertLoanWithID,
		arg.ID,
		arg.CustomerID,
		arg.Amount,
		arg.Tenure,
		arg.InterestRate,
		arg.MonthlyInstallment,
		arg.EmisPaidOnTime,
		arg.StartDate,
		arg.EndDate,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listLoansByCustomer = `-- name: ListLoansByCustomer :many
SELECT id, customer_id, amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at FROM loans WHERE customer_id = $1 ORDER BY id
`

func (q *Queries) ListLoansByCustomer(ctx context.Context, customerID int64) ([]Loan, error) {
	rows, err := q.db.Query(ctx, listLoansByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Loan{}
	for rows.Next() {
		var i Loan
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.Amount,
			&i.Tenure,
			&i.InterestRate,
			&i.MonthlyInstallment,
			&i.EmisPaidOnTime,
			&i.StartDate,
			&i.EndDate,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const resetLoanIDSequence = `-- name: ResetLoanIDSequence :exec
SELECT setval(pg_get_serial_sequence('loans', 'id'), COALESCE((SELECT MAX(id) FROM loans), 1))
`

func (q *Queries) ResetLoanIDSequence(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetLoanIDSequence)
	return err
}

package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const addCustomerDebt = `-- name: AddCustomerDebt :exec
UPDATE customers
SET current_debt = current_debt + $2, updated_at = $3
WHERE id = $1
`

type AddCustomerDebtParams struct {
	ID        int64              `json:"id"`
	Amount    pgtype.Numeric     `json:"amount"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) AddCustomerDebt(ctx context.Context, arg AddCustomerDebtParams) error {
	_, err := q.db.Exec(ctx, addCustomerDebt, arg.ID, arg.Amount, arg.UpdatedAt)
	return err
}

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`

type CreateCustomerParams struct {
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

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (int64, error) {
	row := q.db.QueryRow(ctx, createCustomer,
		arg.FirstName,
		arg.LastName,
		arg.Age,
		arg.PhoneNumber,
		arg.MonthlySalary,
		arg.ApprovedLimit,
		arg.CurrentDebt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getCustomerByID = `-- name: GetCustomerByID :one
SELECT id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at FROM customers WHERE id = $1
`

func (q *Queries) GetCustomerByID(ctx context.Context, id int64) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByID, id)
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.FirstName,
		&i.LastName,
		&i.Age,
		&i.PhoneNumber,
		&i.MonthlySalary,
		&i.ApprovedLimit,
		&i.CurrentDebt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCustomerByIDForUpdate = `-- name: GetCustomerByIDForUpdate :one
SELECT id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at FROM customers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetCustomerByIDForUpdate(ctx context.Context, id int64) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByIDForUpdate, id)
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.FirstName,
		&i.LastName,
		&i.Age,
		&i.PhoneNumber,
		&i.MonthlySalary,
		&i.ApprovedLimit,
		&i.CurrentDebt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCustomerWithID = `-- name: InsertCustomerWithID :execrows
INSERT INTO customers (id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING
`

type InsertCustomerWithIDParams struct {
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

func (q *Queries) InsertCustomerWithID(ctx context.Context, arg InsertCustomerWithIDParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertCustomerWithID,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.Age,
		arg.PhoneNumber,
		arg.MonthlySalary,
		arg.ApprovedLimit,
		arg.CurrentDebt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listExistingCustomerIDs = `-- name: ListExistingCustomerIDs :many
SELECT id FROM customers WHERE id = ANY($1::bigint[])
`

func (q *Queries) ListExistingCustomerIDs(ctx context.Context, dollar_1 []int64) ([]int64, error) {
	rows, err := q.db.Query(ctx, listExistingCustomerIDs, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const resetCustomerIDSequence = `-- name: ResetCustomerIDSequence :exec
SELECT setval(pg_get_serial_sequence('customers', 'id'), COALESCE((SELECT MAX(id) FROM customers), 1))
`

func (q *Queries) ResetCustomerIDSequence(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetCustomerIDSequence)
	return err
}

const updateCustomerDebt = `-- name: UpdateCustomerDebt :exec
UPDATE customers
SET current_debt = $2, updated_at = $3
WHERE id = $1
`

type UpdateCustomerDebtParams struct {
	ID          int64              `json:"id"`
	CurrentDebt pgtype.Numeric     `json:"current_debt"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCustomerDebt(ctx context.Context, arg UpdateCustomerDebtParams) error {
	_, err := q.db.Exec(ctx, updateCustomerDebt, arg.ID, arg.CurrentDebt, arg.UpdatedAt)
	return err
}

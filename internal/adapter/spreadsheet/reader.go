// Package spreadsheet decodes the customer and loan workbooks used for
// bulk ingestion.
package spreadsheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/creditapproval/internal/domain"
)

// Default workbook names inside the data directory.
const (
	CustomersFile = "customer_data.xlsx"
	LoansFile     = "loan_data.xlsx"
)

// Customer sheet columns.
const (
	colCustomerID    = "customer id"
	colFirstName     = "first name"
	colLastName      = "last name"
	colAge           = "age"
	colPhoneNumber   = "phone number"
	colMonthlySalary = "monthly salary"
	colApprovedLimit = "approved limit"
)

// Loan sheet columns.
const (
	colLoanID         = "loan id"
	colLoanAmount     = "loan amount"
	colTenure         = "tenure"
	colInterestRate   = "interest rate"
	colMonthlyPayment = "monthly payment"
	colEMIsPaid       = "emis paid on time"
	colApprovalDate   = "date of approval"
	colEndDate        = "end date"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"02-01-2006",
}

// Reader implements usecase.SpreadsheetSource over two xlsx files.
type Reader struct {
	customersPath string
	loansPath     string
}

// NewReader reads the default workbooks from dataDir.
func NewReader(dataDir string) *Reader {
	return NewReaderWithPaths(
		filepath.Join(dataDir, CustomersFile),
		filepath.Join(dataDir, LoansFile),
	)
}

// NewReaderWithPaths reads workbooks from explicit paths.
func NewReaderWithPaths(customersPath, loansPath string) *Reader {
	return &Reader{customersPath: customersPath, loansPath: loansPath}
}

// ReadCustomers decodes every data row of the customer workbook.
func (r *Reader) ReadCustomers(ctx context.Context) ([]domain.CustomerRow, error) {
	sheet, err := openSheet(r.customersPath, colCustomerID, colFirstName, colMonthlySalary, colApprovedLimit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CustomerRow, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := sheet.record(row)
		if rec.blank() {
			continue
		}

		c := domain.CustomerRow{
			CustomerID:    rec.integer(colCustomerID),
			FirstName:     rec.text(colFirstName),
			LastName:      rec.text(colLastName),
			Age:           int(rec.integer(colAge)),
			PhoneNumber:   rec.text(colPhoneNumber),
			MonthlySalary: rec.number(colMonthlySalary),
			ApprovedLimit: rec.number(colApprovedLimit),
		}

		if rec.err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filepath.Base(r.customersPath), i+2, rec.err)
		}
		out = append(out, c)
	}

	return out, nil
}

// ReadLoans decodes every data row of the loan workbook.
func (r *Reader) ReadLoans(ctx context.Context) ([]domain.LoanRow, error) {
	sheet, err := openSheet(r.loansPath, colCustomerID, colLoanID, colLoanAmount, colTenure,
		colInterestRate, colMonthlyPayment, colEMIsPaid, colApprovalDate, colEndDate)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LoanRow, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := sheet.record(row)
		if rec.blank() {
			continue
		}

		l := domain.LoanRow{
			CustomerID:         rec.integer(colCustomerID),
			LoanID:             rec.integer(colLoanID),
			Amount:             rec.number(colLoanAmount),
			Tenure:             int(rec.integer(colTenure)),
			InterestRate:       rec.number(colInterestRate),
			MonthlyInstallment: rec.number(colMonthlyPayment),
			EMIsPaidOnTime:     int(rec.integer(colEMIsPaid)),
			StartDate:          rec.date(colApprovalDate),
			EndDate:            rec.date(colEndDate),
		}

		if rec.err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filepath.Base(r.loansPath), i+2, rec.err)
		}
		out = append(out, l)
	}

	return out, nil
}

type sheet struct {
	columns map[string]int
	rows    [][]string
}

// openSheet loads the first sheet of path and checks that the header row
// has every required column.
func openSheet(path string, required ...string) (*sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	rows, err := f.GetRows(names[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[normalizeHeader(name)] = i
	}

	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	return &sheet{columns: columns, rows: rows[1:]}, nil
}

func normalizeHeader(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func (s *sheet) record(row []string) *record {
	return &record{columns: s.columns, cells: row}
}

// record reads typed cells from one row and keeps the first parse error.
type record struct {
	columns map[string]int
	cells   []string
	err     error
}

func (r *record) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *record) text(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r *record) number(col string) decimal.Decimal {
	raw := r.text(col)
	if raw == "" || r.err != nil {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		r.err = fmt.Errorf("column %q: %q is not a number", col, raw)
		return decimal.Zero
	}
	return d
}

func (r *record) integer(col string) int64 {
	d := r.number(col)
	if r.err == nil && !d.Equal(d.Truncate(0)) {
		r.err = fmt.Errorf("column %q: %s is not a whole number", col, d)
	}
	return d.IntPart()
}

// date accepts an Excel serial date or one of dateLayouts.
func (r *record) date(col string) time.Time {
	raw := r.text(col)
	if raw == "" || r.err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("column %q is empty", col)
		}
		return time.Time{}
	}

	if serial, err := decimal.NewFromString(raw); err == nil {
		t, err := excelize.ExcelDateToTime(serial.InexactFloat64(), false)
		if err != nil {
			r.err = fmt.Errorf("column %q: %w", col, err)
			return time.Time{}
		}
		return domain.Date(t)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.Date(t)
		}
	}

	r.err = fmt.Errorf("column %q: unrecognised date %q", col, raw)
	return time.Time{}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func registerCmd(client *apiClient) *cobra.Command {
	var (
		firstName, lastName, phone, income string
		age                                int
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := decimal.NewFromString(income)
			if err != nil {
				return fmt.Errorf("invalid --income: %w", err)
			}

			raw, err := client.post("/register", map[string]any{
				"first_name":     firstName,
				"last_name":      lastName,
				"age":            age,
				"monthly_income": salary,
				"phone_number":   phone,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().IntVar(&age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&income, "income", "", "Monthly income")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	for _, name := range []string{"first-name", "last-name", "age", "income", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// loanRequestCmd builds check-eligibility and create-loan, which share a body.
func loanRequestCmd(client *apiClient, use, short, path string) *cobra.Command {
	var (
		customerID   int64
		amount, rate string
		tenure       int
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			loanAmount, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			interestRate, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid --rate: %w", err)
			}

			raw, err := client.post(path, map[string]any{
				"customer_id":   customerID,
				"loan_amount":   loanAmount,
				"interest_rate": interestRate,
				"tenure":        tenure,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().Int64Var(&customerID, "customer", 0, "Customer ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Loan amount")
	cmd.Flags().StringVar(&rate, "rate", "", "Annual interest rate in percent")
	cmd.Flags().IntVar(&tenure, "tenure", 0, "Tenure in months")
	for _, name := range []string{"customer", "amount", "rate", "tenure"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func viewLoanCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "view-loan <loan-id>",
		Short: "Show a loan and its customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client.get(fmt.Sprintf("/view-loan/%d", id))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func viewLoansCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "view-loans <customer-id>",
		Short: "List a customer's loans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := client.get(fmt.Sprintf("/view-loans/%d", id))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func ingestCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:       "ingest [customers|loans|all]",
		Short:     "Queue a spreadsheet ingestion job",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"customers", "loans", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "all"
			if len(args) == 1 {
				kind = args[0]
			}

			raw, err := client.post("/ingest", map[string]string{"kind": kind})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func jobCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show the status of an ingestion job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client.get("/ingest/" + args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "creditctl",
		Short:         "Credit approval CLI tool",
		Long:          `A command line interface for interacting with the credit approval API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.configure(baseURL, timeout)
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the credit approval API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		registerCmd(client),
		loanRequestCmd(client, "check-eligibility", "Check whether a loan would be approved", "/check-eligibility"),
		loanRequestCmd(client, "create-loan", "Request and book a loan", "/create-loan"),
		viewLoanCmd(client),
		viewLoansCmd(client),
		ingestCmd(client),
		jobCmd(client),
	)

	return rootCmd
}

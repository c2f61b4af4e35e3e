package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	baseURL string
	timeout time.Duration
	actor   string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "dairyledger-cli",
		Short:         "DairyLedger CLI tool",
		Long:          `A command line interface for the DairyLedger voucher and bank transfer API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("DAIRYLEDGER_URL", "http://localhost:8080"), "Base URL of the DairyLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.actor, "user", envOr("DAIRYLEDGER_USER", ""), "User recorded on vouchers and batches")

	client := func() *apiClient {
		return newAPIClient(opts.baseURL, opts.timeout, opts.actor)
	}

	rootCmd.AddCommand(
		ledgerCmd(client),
		voucherCmd(client),
		transferCmd(client),
		migrateCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

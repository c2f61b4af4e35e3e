package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dairycoop/dairyledger/internal/adapter/http/dto"
	"github.com/dairycoop/dairyledger/internal/infrastructure/config"
	"github.com/dairycoop/dairyledger/internal/infrastructure/logger"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres"
)

type clientFactory func() *apiClient

func ledgerCmd(client clientFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var status, classification string
	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List ledgers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "status", status)
			setIf(q, "classification", classification)
			setPage(q, limit, offset)
			return show(cmd)(client().get(cmd.Context(), "/api/v1/ledgers", q))
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&classification, "classification", "", "Filter by classification (asset, liability, party)")
	pageFlags(listCmd, &limit, &offset)

	getCmd := &cobra.Command{
		Use:   "get <ledger-id>",
		Short: "Show a ledger and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd)(client().get(cmd.Context(), "/api/v1/ledgers/"+url.PathEscape(args[0]), nil))
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <ledger-id>",
		Short: "Compare a ledger balance with its postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd)(client().get(cmd.Context(), "/api/v1/ledgers/"+url.PathEscape(args[0])+"/reconciliation", nil))
		},
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that debits equal credits across all vouchers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().get(cmd.Context(), "/api/v1/ledger/consistency", nil)
			var apiErr *apiError
			if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == 409) {
				return err
			}

			var report struct {
				Consistent bool `json:"consistent"`
			}
			if jerr := json.Unmarshal(raw, &report); jerr != nil {
				return fmt.Errorf("failed to parse response: %w", jerr)
			}
			if perr := printJSON(cmd.OutOrStdout(), raw); perr != nil {
				return perr
			}
			if !report.Consistent {
				return errors.New("consistency check FAILED")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "consistency check PASSED")
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, reconcileCmd, consistencyCmd)
	return cmd
}

func voucherCmd(client clientFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Voucher operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <voucher-id>",
		Short: "Show a voucher with its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd)(client().get(cmd.Context(), "/api/v1/vouchers/"+url.PathEscape(args[0]), nil))
		},
	}

	var voucherType, from, to, refType, refID string
	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vouchers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "type", voucherType)
			setIf(q, "from", from)
			setIf(q, "to", to)
			setIf(q, "reference_type", refType)
			setIf(q, "reference_id", refID)
			setPage(q, limit, offset)
			return show(cmd)(client().get(cmd.Context(), "/api/v1/vouchers", q))
		},
	}
	listCmd.Flags().StringVar(&voucherType, "type", "", "receipt, payment or journal")
	listCmd.Flags().StringVar(&from, "from", "", "First voucher date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "Last voucher date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&refType, "reference-type", "", "Reference type")
	listCmd.Flags().StringVar(&refID, "reference-id", "", "Reference id")
	pageFlags(listCmd, &limit, &offset)

	var req dto.ReverseVoucherRequest
	var key string
	reverseCmd := &cobra.Command{
		Use:   "reverse <voucher-id>",
		Short: "Post a reversing voucher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/vouchers/" + url.PathEscape(args[0]) + "/reverse"
			return show(cmd)(client().post(cmd.Context(), path, req, key))
		},
	}
	reverseCmd.Flags().StringVar(&req.Date, "date", "", "Reversal date (YYYY-MM-DD, defaults to today)")
	reverseCmd.Flags().StringVar(&req.Narration, "narration", "", "Narration for the reversal")
	keyFlag(reverseCmd, &key)

	cmd.AddCommand(getCmd, listCmd, reverseCmd)
	return cmd
}

func transferCmd(client clientFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Bank transfer batch operations",
	}

	var retrieve dto.RetrieveBalancesRequest
	retrieveCmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Compute producer balances for a draft batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd)(client().post(cmd.Context(), "/api/v1/bank-transfers/retrieve", retrieve, ""))
		},
	}
	retrieveCmd.Flags().StringVar(&retrieve.Basis, "basis", "as_on_date_balance", "as_on_date_balance or last_processed_period")
	retrieveCmd.Flags().StringVar(&retrieve.AsOnDate, "as-on", "", "Balance date (YYYY-MM-DD)")
	retrieveCmd.Flags().StringVar(&retrieve.CollectionCenterID, "center", "", "Collection center id")
	retrieveCmd.Flags().StringVar(&retrieve.BankID, "bank", "", "Producer bank id")
	retrieveCmd.Flags().Int64Var(&retrieve.RoundDownUnit, "round-down", 1, "Round transfer amounts down to this unit")
	retrieveCmd.Flags().BoolVar(&retrieve.DueByList, "due-by-list", false, "Only producers on the due list")
	_ = retrieveCmd.MarkFlagRequired("as-on")

	var file, applyKey string
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a batch read from a JSON file (- for stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.ApplyTransferRequest
			if err := readJSONFile(cmd, file, &req); err != nil {
				return err
			}
			return show(cmd)(client().post(cmd.Context(), "/api/v1/bank-transfers", req, applyKey))
		},
	}
	applyCmd.Flags().StringVarP(&file, "file", "f", "", "Batch request JSON")
	_ = applyCmd.MarkFlagRequired("file")
	keyFlag(applyCmd, &applyKey)

	var cancel dto.CancelTransferRequest
	var cancelKey string
	cancelCmd := &cobra.Command{
		Use:   "cancel <batch-id>",
		Short: "Cancel an applied batch and reverse its voucher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/bank-transfers/" + url.PathEscape(args[0]) + "/cancel"
			return show(cmd)(client().post(cmd.Context(), path, cancel, cancelKey))
		},
	}
	cancelCmd.Flags().StringVar(&cancel.Reason, "reason", "", "Cancellation reason")
	keyFlag(cancelCmd, &cancelKey)

	var completeKey string
	completeCmd := &cobra.Command{
		Use:   "complete <batch-id>",
		Short: "Mark an applied batch as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/bank-transfers/" + url.PathEscape(args[0]) + "/complete"
			return show(cmd)(client().post(cmd.Context(), path, nil, completeKey))
		},
	}
	keyFlag(completeCmd, &completeKey)

	getCmd := &cobra.Command{
		Use:   "get <batch-id>",
		Short: "Show a batch with its details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd)(client().get(cmd.Context(), "/api/v1/bank-transfers/"+url.PathEscape(args[0]), nil))
		},
	}

	var status string
	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "status", status)
			setPage(q, limit, offset)
			return show(cmd)(client().get(cmd.Context(), "/api/v1/bank-transfers", q))
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "applied, cancelled or completed")
	pageFlags(listCmd, &limit, &offset)

	var eventsLimit, eventsOffset int
	eventsCmd := &cobra.Command{
		Use:   "events <batch-id>",
		Short: "Show the lifecycle events of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setPage(q, eventsLimit, eventsOffset)
			path := "/api/v1/bank-transfers/" + url.PathEscape(args[0]) + "/events"
			return show(cmd)(client().get(cmd.Context(), path, q))
		},
	}
	pageFlags(eventsCmd, &eventsLimit, &eventsOffset)

	cmd.AddCommand(retrieveCmd, applyCmd, cancelCmd, completeCmd, getCmd, listCmd, eventsCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(fn func(databaseURL, source string, logger zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, cmd.ErrOrStderr())
			return fn(cfg.DatabaseURL, cfg.MigrationsPath, log)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", Args: cobra.NoArgs, RunE: run(postgres.RunMigrationsDown)},
	)
	return cmd
}

// show prints the result of an API call to the command's output.
func show(cmd *cobra.Command) func(json.RawMessage, error) error {
	return func(raw json.RawMessage, err error) error {
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), raw)
	}
}

func readJSONFile(cmd *cobra.Command, name string, dst any) error {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", name, err)
	}
	return nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setPage(q url.Values, limit, offset int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
}

func pageFlags(cmd *cobra.Command, limit, offset *int) {
	cmd.Flags().IntVar(limit, "limit", 0, "Maximum rows to return")
	cmd.Flags().IntVar(offset, "offset", 0, "Rows to skip")
}

func keyFlag(cmd *cobra.Command, key *string) {
	cmd.Flags().StringVar(key, "idempotency-key", "", "Idempotency key (random when empty)")
}

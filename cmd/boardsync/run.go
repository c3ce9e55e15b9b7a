package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardsync/internal/scheduler"
)

var (
	runCursor string
	runDryRun bool
	runAll    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one budgeted ingestion pass and print the summary",
	Long: "Processes companies from --cursor until the run budget is spent and prints a JSON summary. " +
		"Pass the summary's cursor back to resume. With --all, keeps going until no companies remain.",
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runCursor, "cursor", "", "resume position from a previous summary")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "read from the store but do not write to it")
	runCmd.Flags().BoolVar(&runAll, "all", false, "repeat until every company has been processed")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	a, err := buildApp(cfg, wireOptions{dryRun: runDryRun}, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	printSummary := func(s scheduler.Summary) {
		if err := enc.Encode(s); err != nil {
			logger.Error("writing summary", "error", err)
		}
	}

	if runAll {
		err = a.scheduler.RunAll(ctx, runCursor, printSummary)
	} else {
		var summary scheduler.Summary
		summary, err = a.scheduler.RunOnce(ctx, runCursor)
		if err == nil {
			printSummary(summary)
		}
	}
	if err != nil {
		return fmt.Errorf("ingestion run: %w", err)
	}

	if a.dryRun != nil {
		logger.Info("dry run complete",
			"would_create", len(a.dryRun.Created()),
			"would_update_companies", len(a.dryRun.Updates()),
		)
	}
	return nil
}

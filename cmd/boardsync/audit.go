package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardsync/internal/audit"
	"github.com/amishk599/boardsync/internal/poller"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Browse a dry run for one company (TUI)",
	Long:  "Shows the company picker, runs the pipeline for the chosen company without writing, then opens the split-pane audit view.",
	RunE:  runAuditCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	// Audit mode runs a TUI and any log output corrupts the display.
	silentLogger := newLogger(io.Discard, false, "text")
	a, err := buildApp(cfg, wireOptions{dryRun: true, audit: true}, silentLogger)
	if err != nil {
		return err
	}
	defer a.close()

	companies, err := listAllCompanies(cmd.Context(), a.store)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		fmt.Println("No companies in the store. Add some with `boardsync companies import`.")
		return nil
	}

	for {
		choice, err := audit.RunCompanyPicker(companies)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}
		company := companies[choice]

		report, err := audit.RunLoader(company.Name, func(ctx context.Context) poller.Report {
			return a.poller.Poll(ctx, company)
		})
		if err != nil {
			fmt.Printf("Error running pipeline: %v\n", err)
			continue
		}

		wantQuit, err := audit.RunAuditTUI(report)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}

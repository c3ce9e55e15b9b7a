package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardsync/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Sends a test notification using the configured notifier.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	n := setupNotifier(cfg, httpClient, logger)

	if err := notifier.SendTestMessage(n); err != nil {
		return err
	}
	logger.Info("test notification sent successfully")
	return nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/boardsync/internal/config"
)

var (
	cfgPath   string
	debug     bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "boardsync",
	Short: "Sync public ATS job boards into a record store",
	Long: "boardsync resolves each company's job board (Greenhouse, Lever, Ashby), " +
		"normalizes the postings and writes the new ones to the record store.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; real deployments set the environment directly.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: BOARDSYNC_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > BOARDSYNC_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("BOARDSYNC_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// setupLogger logs to stderr so stdout stays clean for JSON summaries.
func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stderr, dbg, logFormat)
}

func newLogger(w io.Writer, dbg bool, format string) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

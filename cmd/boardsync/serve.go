package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/boardsync/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP ingestion trigger",
	Long: "Serves POST|GET /ingest and GET /health. When run.interval is set, also runs a full " +
		"pass on that interval. Blocks until SIGINT/SIGTERM.",
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	// Missing credentials are reported per request rather than at startup.
	if err := cfg.CheckCredentials(); err != nil {
		logger.Warn("credentials incomplete, ingest requests will fail", "error", err)
	}

	a, err := buildApp(cfg, wireOptions{}, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.scheduler, server.Options{
		Secret:           cfg.Server.Secret,
		Mode:             cfg.Server.Mode,
		CheckCredentials: cfg.CheckCredentials,
	}, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	})
	if cfg.Run.Interval > 0 {
		g.Go(func() error {
			return a.scheduler.Loop(ctx, cfg.Run.Interval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("goodbye")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/amishk599/boardsync/internal/adapter"
	"github.com/amishk599/boardsync/internal/ai"
	"github.com/amishk599/boardsync/internal/config"
	"github.com/amishk599/boardsync/internal/dedup"
	"github.com/amishk599/boardsync/internal/enrich"
	"github.com/amishk599/boardsync/internal/filter"
	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/notifier"
	"github.com/amishk599/boardsync/internal/persist"
	"github.com/amishk599/boardsync/internal/poller"
	"github.com/amishk599/boardsync/internal/ratelimit"
	"github.com/amishk599/boardsync/internal/resolver"
	"github.com/amishk599/boardsync/internal/retry"
	"github.com/amishk599/boardsync/internal/scheduler"
	"github.com/amishk599/boardsync/internal/store"
)

// recordStore is the admin surface every backing store offers on top of
// model.Store.
type recordStore interface {
	GetCompany(ctx context.Context, id string) (model.Company, error)
	AddCompany(ctx context.Context, c model.Company) (model.Company, error)
	ListJobs(ctx context.Context, companyID string, limit int) ([]model.CanonicalJob, error)
	CountJobs(ctx context.Context, companyID string) (int, error)
}

var (
	_ recordStore = (*store.SQLiteStore)(nil)
	_ recordStore = (*store.AirtableStore)(nil)
)

type wireOptions struct {
	dryRun bool
	// audit disables notifications and enrichment; the audit view only
	// inspects what ingestion would do.
	audit bool
}

// app holds the wired pipeline. close releases the backing store.
type app struct {
	cfg       *config.Config
	store     model.Store
	backing   recordStore
	dryRun    *store.DryRunStore
	fetcher   model.Fetcher
	resolver  *resolver.Resolver
	poller    *poller.Poller
	scheduler *scheduler.Scheduler
	close     func() error
}

func buildApp(cfg *config.Config, opts wireOptions, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, close: func() error { return nil }}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}

	// One limiter for every outbound call; each host and the store get their own bucket.
	limiter := ratelimit.New(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	limiter.SetLimit(ratelimit.KeyStore, cfg.Store.RequestsPerSecond, cfg.Store.Burst)
	limiter.SetLimit(ratelimit.KeyAI, cfg.AI.RequestsPerSecond, 1)
	for host, rps := range cfg.Fetch.HostOverrides {
		limiter.SetLimit(host, rps, cfg.Fetch.Burst)
		logger.Debug("host rate override", "host", host, "rps", rps)
	}

	var backing model.Store
	switch cfg.Store.Type {
	case "airtable":
		at := cfg.Store.Airtable
		s := store.NewAirtableStore(store.AirtableOptions{
			BaseURL:        at.BaseURL,
			APIKey:         at.APIKey,
			BaseID:         at.BaseID,
			CompaniesTable: at.CompaniesTable,
			JobsTable:      at.JobsTable,
			CompanyFilter:  at.CompanyFilter,
			PageSize:       cfg.Store.PageSize,
		}, httpClient)
		backing, a.backing = s, s
	default:
		s, err := store.NewSQLiteStore(cfg.Store.SQLitePath, cfg.Store.PageSize)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		backing, a.backing = s, s
		a.close = s.Close
	}

	var st model.Store = ratelimit.NewRateLimitedStore(backing, limiter)
	if opts.dryRun {
		a.dryRun = store.NewDryRunStore(st, logger)
		st = a.dryRun
	}
	a.store = st

	var fetcher model.Fetcher = adapter.NewClient(httpClient, cfg.Fetch.Timeout)
	// Every attempt, retries included, takes a token from its host bucket.
	fetcher = ratelimit.NewRateLimitedFetcher(fetcher, limiter)
	fetcher = retry.NewRetryFetcher(fetcher, cfg.Fetch.MaxRetries, cfg.Fetch.RetryBaseDelay, cfg.Fetch.RetryMaxDelay, logger)
	a.fetcher = fetcher

	var completer model.Completer = ai.NewNopCompleter()
	if cfg.AI.Enabled && !opts.audit {
		aiClient := &http.Client{Timeout: cfg.AI.Timeout}
		completer = ratelimit.NewRateLimitedCompleter(
			ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, aiClient),
			limiter,
		)
		logger.Debug("ai enabled", "model", cfg.AI.Model)
	}

	a.resolver = resolver.New(st, fetcher, completer, logger)

	deps := poller.Deps{
		Resolver: a.resolver,
		Fetcher:  fetcher,
		Filter: filter.New(filter.Options{
			TitleKeywords:        cfg.Filters.TitleKeywords,
			TitleExcludeKeywords: cfg.Filters.TitleExcludeKeywords,
			Locations:            cfg.Filters.Locations,
			ExcludeLocations:     cfg.Filters.ExcludeLocations,
		}),
		Dedup:     dedup.New(st),
		Persister: persist.New(st, cfg.Store.BatchSize, logger),
	}
	if !opts.audit {
		deps.Notifier = setupNotifier(cfg, httpClient, logger)
		deps.Enricher = enrich.New(completer, st, logger)
	}
	a.poller = poller.New(deps, logger)

	a.scheduler = scheduler.New(st, a.poller, scheduler.Options{
		Budget:  cfg.Run.Budget,
		Workers: cfg.Run.Workers,
		Lock:    scheduler.NewRunLock(cfg.Run.LockFile),
	}, logger)

	return a, nil
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// listAllCompanies walks every page of the companies table.
func listAllCompanies(ctx context.Context, s model.Store) ([]model.Company, error) {
	var all []model.Company
	cursor := ""
	for {
		page, err := s.ListCompanies(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Companies...)
		if page.Cursor == "" {
			return all, nil
		}
		cursor = page.Cursor
	}
}

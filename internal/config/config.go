// Package config loads the boardsync YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/boardsync/internal/model"
)

// Config is the root configuration. It is built once at startup and passed
// by reference to every component.
type Config struct {
	Store        StoreConfig
	Fetch        FetchConfig
	AI           AIConfig
	Run          RunConfig
	Companies    []CompanyConfig
	Filters      FilterConfig
	Notification NotificationConfig
	Server       ServerConfig
}

// StoreConfig selects and tunes the record store.
type StoreConfig struct {
	Type              string // "sqlite" or "airtable"
	SQLitePath        string
	Airtable          AirtableConfig
	PageSize          int
	BatchSize         int     // clamped to 10 by the persister
	RequestsPerSecond float64 // shared across every store call, 0 = unlimited
	Burst             int
}

// AirtableConfig addresses an Airtable base.
type AirtableConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	BaseID         string `yaml:"base_id"`
	CompaniesTable string `yaml:"companies_table"`
	JobsTable      string `yaml:"jobs_table"`
	CompanyFilter  string `yaml:"company_filter"` // filterByFormula for eligible companies
}

// FetchConfig controls upstream ATS requests.
type FetchConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RequestsPerSecond float64            // per ATS host, 0 = unlimited
	Burst             int
	HostOverrides     map[string]float64 // requests per second, keyed by host
}

// RateFor returns the configured request rate for host, falling back to RequestsPerSecond.
func (f FetchConfig) RateFor(host string) float64 {
	if r, ok := f.HostOverrides[host]; ok {
		return r
	}
	return f.RequestsPerSecond
}

// AIConfig controls the optional LLM used for discovery and enrichment.
type AIConfig struct {
	Enabled           bool
	BaseURL           string        // defaults to https://api.openai.com/v1
	Model             string        // e.g. "gpt-4o-mini"
	APIKey            string        // expanded from env var by Load
	Timeout           time.Duration // per-request timeout
	RequestsPerSecond float64
}

// RunConfig controls one ingestion invocation.
type RunConfig struct {
	Budget   time.Duration // wall-clock budget per invocation, 0 = unlimited
	Workers  int
	LockFile string
	Interval time.Duration // serve re-runs a full pass on this interval, 0 = off
}

// CompanyConfig seeds a company into the store (see `companies import`).
type CompanyConfig struct {
	Name        string `yaml:"name"`
	Website     string `yaml:"website"`
	ATSEndpoint string `yaml:"ats_endpoint"`
}

// FilterConfig holds keyword and location filter settings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ServerConfig controls the HTTP trigger.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	Secret string `yaml:"secret"` // empty disables the check
	Mode   string `yaml:"mode"`   // gin mode: release, debug or test
}

const (
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultAirtableBaseURL = "https://api.airtable.com/v0"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Store        rawStoreConfig     `yaml:"store"`
	Fetch        rawFetchConfig     `yaml:"fetch"`
	AI           rawAIConfig        `yaml:"ai"`
	Run          rawRunConfig       `yaml:"run"`
	Companies    []CompanyConfig    `yaml:"companies"`
	Filters      FilterConfig       `yaml:"filters"`
	Notification NotificationConfig `yaml:"notification"`
	Server       ServerConfig       `yaml:"server"`
}

type rawStoreConfig struct {
	Type              string         `yaml:"type"`
	SQLitePath        string         `yaml:"sqlite_path"`
	Airtable          AirtableConfig `yaml:"airtable"`
	PageSize          int            `yaml:"page_size"`
	BatchSize         int            `yaml:"batch_size"`
	RequestsPerSecond *float64       `yaml:"requests_per_second"`
	Burst             int            `yaml:"burst"`
}

type rawFetchConfig struct {
	Timeout           string             `yaml:"timeout"`
	MaxRetries        *int               `yaml:"max_retries"`
	RetryBaseDelay    string             `yaml:"retry_base_delay"`
	RetryMaxDelay     string             `yaml:"retry_max_delay"`
	RequestsPerSecond *float64           `yaml:"requests_per_second"`
	Burst             int                `yaml:"burst"`
	HostOverrides     map[string]float64 `yaml:"host_overrides"`
}

type rawAIConfig struct {
	Enabled           bool    `yaml:"enabled"`
	BaseURL           string  `yaml:"base_url"`
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key"`
	Timeout           string  `yaml:"timeout"`
	RequestsPerSecond *float64 `yaml:"requests_per_second"`
}

type rawRunConfig struct {
	Budget   string `yaml:"budget"`
	Workers  int    `yaml:"workers"`
	LockFile string `yaml:"lock_file"`
	Interval string `yaml:"interval"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Credentials are checked separately by CheckCredentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, expanding environment variables first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			Type:              strings.ToLower(orDefault(raw.Store.Type, "sqlite")),
			SQLitePath:        orDefault(raw.Store.SQLitePath, "boardsync.db"),
			Airtable:          raw.Store.Airtable,
			PageSize:          intOrDefault(raw.Store.PageSize, 100),
			BatchSize:         intOrDefault(raw.Store.BatchSize, model.MaxBatchSize),
			RequestsPerSecond: rateOrDefault(raw.Store.RequestsPerSecond, 5),
			Burst:             intOrDefault(raw.Store.Burst, 1),
		},
		Fetch: FetchConfig{
			MaxRetries:        2,
			RequestsPerSecond: rateOrDefault(raw.Fetch.RequestsPerSecond, 2),
			Burst:             intOrDefault(raw.Fetch.Burst, 2),
			HostOverrides:     raw.Fetch.HostOverrides,
		},
		AI: AIConfig{
			Enabled:           raw.AI.Enabled,
			BaseURL:           orDefault(raw.AI.BaseURL, defaultOpenAIBaseURL),
			Model:             raw.AI.Model,
			APIKey:            raw.AI.APIKey,
			RequestsPerSecond: rateOrDefault(raw.AI.RequestsPerSecond, 1),
		},
		Run: RunConfig{
			Workers:  intOrDefault(raw.Run.Workers, 1),
			LockFile: orDefault(raw.Run.LockFile, filepath.Join(os.TempDir(), "boardsync.lock")),
		},
		Companies:    raw.Companies,
		Filters:      raw.Filters,
		Notification: raw.Notification,
		Server: ServerConfig{
			Addr:   orDefault(raw.Server.Addr, ":8080"),
			Secret: raw.Server.Secret,
			Mode:   orDefault(raw.Server.Mode, "release"),
		},
	}
	if cfg.Store.Airtable.BaseURL == "" {
		cfg.Store.Airtable.BaseURL = defaultAirtableBaseURL
	}
	if cfg.Store.Airtable.CompaniesTable == "" {
		cfg.Store.Airtable.CompaniesTable = "Companies"
	}
	if cfg.Store.Airtable.JobsTable == "" {
		cfg.Store.Airtable.JobsTable = "Jobs"
	}
	if raw.Fetch.MaxRetries != nil {
		cfg.Fetch.MaxRetries = *raw.Fetch.MaxRetries
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}

	for _, d := range []durationField{
		{"fetch.timeout", raw.Fetch.Timeout, 10 * time.Second, &cfg.Fetch.Timeout},
		{"fetch.retry_base_delay", raw.Fetch.RetryBaseDelay, time.Second, &cfg.Fetch.RetryBaseDelay},
		{"fetch.retry_max_delay", raw.Fetch.RetryMaxDelay, 30 * time.Second, &cfg.Fetch.RetryMaxDelay},
		{"ai.timeout", raw.AI.Timeout, 30 * time.Second, &cfg.AI.Timeout},
		{"run.budget", raw.Run.Budget, 50 * time.Second, &cfg.Run.Budget},
		{"run.interval", raw.Run.Interval, 0, &cfg.Run.Interval},
	} {
		if err := d.parse(); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type durationField struct {
	field string
	raw   string
	def   time.Duration
	dst   *time.Duration
}

func (d durationField) parse() error {
	if d.raw == "" {
		*d.dst = d.def
		return nil
	}
	v, err := time.ParseDuration(d.raw)
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", d.field, d.raw, err)
	}
	*d.dst = v
	return nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Type {
	case "sqlite":
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required when store.type is \"sqlite\"")
		}
	case "airtable":
		if cfg.Store.Airtable.CompaniesTable == "" || cfg.Store.Airtable.JobsTable == "" {
			return fmt.Errorf("store.airtable tables must not be empty")
		}
	default:
		return fmt.Errorf("store.type must be \"sqlite\" or \"airtable\", got %q", cfg.Store.Type)
	}
	if cfg.Store.PageSize < 0 || cfg.Store.BatchSize < 0 {
		return fmt.Errorf("store.page_size and store.batch_size must not be negative")
	}

	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative, got %d", cfg.Fetch.MaxRetries)
	}

	rates := map[string]float64{
		"store.requests_per_second": cfg.Store.RequestsPerSecond,
		"fetch.requests_per_second": cfg.Fetch.RequestsPerSecond,
		"ai.requests_per_second":    cfg.AI.RequestsPerSecond,
	}
	for host, r := range cfg.Fetch.HostOverrides {
		rates["fetch.host_overrides."+host] = r
	}
	for field, r := range rates {
		if r < 0 {
			return fmt.Errorf("%s must not be negative (0 = unlimited), got %v", field, r)
		}
	}

	if cfg.Run.Budget < 0 {
		return fmt.Errorf("run.budget must not be negative, got %v", cfg.Run.Budget)
	}
	if cfg.Run.Workers < 1 {
		return fmt.Errorf("run.workers must be at least 1, got %d", cfg.Run.Workers)
	}
	if cfg.Run.Interval < 0 {
		return fmt.Errorf("run.interval must not be negative, got %v", cfg.Run.Interval)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	if cfg.AI.Enabled {
		if cfg.AI.BaseURL == "" {
			return fmt.Errorf("ai.base_url is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}

	for i, c := range cfg.Companies {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("companies[%d].name is required", i)
		}
	}

	return nil
}

// CheckCredentials reports missing secrets as model.ErrConfiguration. It is
// separate from Load so a long-running server can start and report the
// problem per request.
func (c *Config) CheckCredentials() error {
	var missing []string
	if c.Store.Type == "airtable" {
		if c.Store.Airtable.APIKey == "" {
			missing = append(missing, "store.airtable.api_key")
		}
		if c.Store.Airtable.BaseID == "" {
			missing = append(missing, "store.airtable.base_id")
		}
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		missing = append(missing, "ai.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", model.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// rateOrDefault keeps an explicit rate, including 0 for unlimited.
func rateOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/boardsync/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
store:
  type: airtable
  airtable:
    api_key: pat123
    base_id: appXYZ
    company_filter: "{Active}"
  batch_size: 5
fetch:
  timeout: 5s
  max_retries: 0
  host_overrides:
    api.lever.co: 0.5
ai:
  enabled: true
  model: gpt-4o-mini
  api_key: sk-test
run:
  budget: 55s
  workers: 3
companies:
  - name: acme
    website: https://acme.com
filters:
  title_exclude_keywords:
    - intern
  locations:
    - Remote
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Type != "airtable" || cfg.Store.Airtable.BaseID != "appXYZ" || cfg.Store.Airtable.CompanyFilter != "{Active}" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.Airtable.CompaniesTable != "Companies" || cfg.Store.Airtable.BaseURL != "https://api.airtable.com/v0" {
		t.Errorf("airtable defaults not applied: %+v", cfg.Store.Airtable)
	}
	if cfg.Store.BatchSize != 5 || cfg.Store.PageSize != 100 {
		t.Errorf("BatchSize/PageSize = %d/%d", cfg.Store.BatchSize, cfg.Store.PageSize)
	}
	if cfg.Fetch.Timeout != 5*time.Second || cfg.Fetch.MaxRetries != 0 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.Fetch.RateFor("api.lever.co") != 0.5 || cfg.Fetch.RateFor("api.ashbyhq.com") != 2 {
		t.Errorf("RateFor returned unexpected rates")
	}
	if cfg.Run.Budget != 55*time.Second || cfg.Run.Workers != 3 || cfg.Run.Interval != 0 {
		t.Errorf("Run = %+v", cfg.Run)
	}
	if cfg.AI.BaseURL != "https://api.openai.com/v1" || cfg.AI.Timeout != 30*time.Second {
		t.Errorf("AI defaults not applied: %+v", cfg.AI)
	}
	if len(cfg.Companies) != 1 || cfg.Companies[0].Website != "https://acme.com" {
		t.Errorf("Companies = %+v", cfg.Companies)
	}
	if len(cfg.Filters.TitleExcludeKeywords) != 1 || cfg.Filters.Locations[0] != "Remote" {
		t.Errorf("Filters = %+v", cfg.Filters)
	}
	if err := cfg.CheckCredentials(); err != nil {
		t.Errorf("CheckCredentials: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.SQLitePath != "boardsync.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.BatchSize != model.MaxBatchSize {
		t.Errorf("BatchSize = %d", cfg.Store.BatchSize)
	}
	if cfg.Fetch.MaxRetries != 2 || cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.Run.Budget != 50*time.Second || cfg.Run.Workers != 1 || cfg.Run.LockFile == "" {
		t.Errorf("Run = %+v", cfg.Run)
	}
	if cfg.Notification.Type != "log" || cfg.Server.Addr != ":8080" || cfg.Server.Mode != "release" {
		t.Errorf("Notification/Server = %+v %+v", cfg.Notification, cfg.Server)
	}
}

func TestLoad_ZeroRateMeansUnlimited(t *testing.T) {
	cfg, err := Load(writeConfig(t, "store:\n  requests_per_second: 0\nfetch:\n  requests_per_second: 0\nai:\n  requests_per_second: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.RequestsPerSecond != 0 || cfg.Fetch.RequestsPerSecond != 0 || cfg.AI.RequestsPerSecond != 0 {
		t.Errorf("expected explicit zero rates to be kept, got store=%v fetch=%v ai=%v",
			cfg.Store.RequestsPerSecond, cfg.Fetch.RequestsPerSecond, cfg.AI.RequestsPerSecond)
	}

	defaults, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if defaults.Store.RequestsPerSecond != 5 || defaults.Fetch.RequestsPerSecond != 2 || defaults.AI.RequestsPerSecond != 1 {
		t.Errorf("unexpected default rates %v %v %v",
			defaults.Store.RequestsPerSecond, defaults.Fetch.RequestsPerSecond, defaults.AI.RequestsPerSecond)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("BOARDSYNC_TEST_SECRET", "s3cret")
	cfg, err := Load(writeConfig(t, "server:\n  secret: ${BOARDSYNC_TEST_SECRET}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Secret != "s3cret" {
		t.Errorf("Secret = %q", cfg.Server.Secret)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "run: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad duration", "run:\n  budget: soon\n", "run.budget"},
		{"negative budget", "run:\n  budget: -1s\n", "run.budget"},
		{"unknown store", "store:\n  type: postgres\n", "store.type"},
		{"negative workers", "run:\n  workers: -2\n", "run.workers"},
		{"slack without webhook", "notification:\n  type: slack\n", "webhook_url"},
		{"slack bad webhook", "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n", "hooks.slack.com"},
		{"unknown notifier", "notification:\n  type: email\n", "notification.type"},
		{"ai without model", "ai:\n  enabled: true\n", "ai.model"},
		{"company without name", "companies:\n  - website: https://acme.com\n", "companies[0].name"},
		{"negative store rate", "store:\n  requests_per_second: -1\n", "store.requests_per_second"},
		{"negative host override", "fetch:\n  host_overrides:\n    api.lever.co: -2\n", "fetch.host_overrides.api.lever.co"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg, err := Load(writeConfig(t, "store:\n  type: airtable\nai:\n  enabled: true\n  model: m\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	err = cfg.CheckCredentials()
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	for _, want := range []string{"store.airtable.api_key", "store.airtable.base_id", "ai.api_key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

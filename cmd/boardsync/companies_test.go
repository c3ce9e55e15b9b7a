package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/boardsync/internal/config"
	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/store"
)

func newTestApp(t *testing.T, opts wireOptions) *app {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Parse([]byte(fmt.Sprintf(`
store:
  type: sqlite
  sqlite_path: %s
run:
  lock_file: %s
companies:
  - name: Acme
    website: https://acme.io
  - name: Globex
    ats_endpoint: https://jobs.lever.co/globex
  - name: acme
`, filepath.Join(dir, "test.db"), filepath.Join(dir, "run.lock"))))
	if err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	a, err := buildApp(cfg, opts, newLogger(io.Discard, false, "text"))
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	t.Cleanup(func() { a.close() })
	return a
}

func TestImportCompanies(t *testing.T) {
	a := newTestApp(t, wireOptions{audit: true})
	ctx := context.Background()

	added, err := importCompanies(ctx, a)
	if err != nil {
		t.Fatalf("importCompanies: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 companies added (duplicate name skipped), got %d", added)
	}

	added, err = importCompanies(ctx, a)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if added != 0 {
		t.Errorf("expected second import to add nothing, got %d", added)
	}

	companies, err := listAllCompanies(ctx, a.store)
	if err != nil {
		t.Fatalf("listAllCompanies: %v", err)
	}
	if len(companies) != 2 || companies[1].ATSEndpoint != "https://jobs.lever.co/globex" {
		t.Errorf("unexpected companies %+v", companies)
	}
}

func TestBuildApp_DryRunWrapsStore(t *testing.T) {
	a := newTestApp(t, wireOptions{dryRun: true})
	if a.dryRun == nil || a.store != a.dryRun {
		t.Fatal("expected the dry-run store to front the pipeline")
	}

	summary, err := a.scheduler.RunOnce(context.Background(), "")
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !summary.Success || summary.CompaniesProcessed != 0 || summary.HasMore {
		t.Errorf("expected an empty successful run, got %+v", summary)
	}
}

func TestWriteCompanyTableAndJobList(t *testing.T) {
	a := newTestApp(t, wireOptions{audit: true})
	ctx := context.Background()
	if _, err := importCompanies(ctx, a); err != nil {
		t.Fatalf("importCompanies: %v", err)
	}
	companies, err := listAllCompanies(ctx, a.store)
	if err != nil {
		t.Fatalf("listAllCompanies: %v", err)
	}
	globex := companies[1]
	if _, err := a.store.CreateJobs(ctx, []model.CanonicalJob{
		{CompanyID: globex.ID, Title: "Platform Engineer", PostingURL: "https://jobs.lever.co/globex/1", Remote: true, FirstSeen: time.Now()},
	}); err != nil {
		t.Fatalf("CreateJobs: %v", err)
	}

	var table bytes.Buffer
	if err := writeCompanyTable(ctx, &table, a); err != nil {
		t.Fatalf("writeCompanyTable: %v", err)
	}
	if !strings.Contains(table.String(), "Total: 2 companies (1 unresolved), 1 jobs") {
		t.Errorf("unexpected table:\n%s", table.String())
	}

	var list bytes.Buffer
	if err := writeJobList(ctx, &list, a, globex.ID, 5); err != nil {
		t.Fatalf("writeJobList: %v", err)
	}
	if !strings.Contains(list.String(), "Platform Engineer") || !strings.Contains(list.String(), "(remote)") {
		t.Errorf("unexpected job list:\n%s", list.String())
	}

	if err := writeJobList(ctx, &list, a, "missing", 5); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown company, got %v", err)
	}
}

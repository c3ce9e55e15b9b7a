// Package poller runs the ingestion pipeline for one company:
// resolve → fetch → parse → canonicalize → filter → dedup → persist → notify → enrich.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/boardsync/internal/adapter"
	"github.com/amishk599/boardsync/internal/canonical"
	"github.com/amishk599/boardsync/internal/dedup"
	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/persist"
)

// Step names a stage of the per-company pipeline.
type Step string

const (
	StepResolve Step = "resolve"
	StepFetch   Step = "fetch"
	StepParse   Step = "parse"
	StepFilter  Step = "filter"
	StepDedup   Step = "dedup"
	StepPersist Step = "persist"
	StepNotify  Step = "notify"
	StepEnrich  Step = "enrich"
)

// StepOutcome is one entry of a company's step log.
type StepOutcome struct {
	Step   Step   `json:"step"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report is the outcome of polling one company.
type Report struct {
	CompanyID string         `json:"companyId"`
	Company   string         `json:"company"`
	Platform  model.Platform `json:"platform,omitempty"`
	Source    string         `json:"endpointSource,omitempty"`
	Fetched   int            `json:"fetched"`
	New       int            `json:"new"`
	Duplicate int            `json:"duplicate"`
	Created   int            `json:"created"`
	Filtered  int            `json:"filtered"`
	Errors    int            `json:"errors"`
	Error     string         `json:"error,omitempty"`
	Steps     []StepOutcome  `json:"steps"`

	// Classified jobs, kept for the audit view.
	NewJobs       []model.CanonicalJob `json:"-"`
	DuplicateJobs []model.CanonicalJob `json:"-"`
	FilteredJobs  []model.CanonicalJob `json:"-"`
}

func (r *Report) ok(step Step, detail string) {
	r.Steps = append(r.Steps, StepOutcome{Step: step, OK: true, Detail: detail})
}

// fail records a failed step and adds errs to the error count. Steps that
// count no errors (notify, enrich) never set the report error.
func (r *Report) fail(step Step, err error, errs int) {
	r.Steps = append(r.Steps, StepOutcome{Step: step, Error: err.Error()})
	if errs > 0 {
		r.Errors += errs
		if r.Error == "" {
			r.Error = fmt.Sprintf("%s: %v", step, err)
		}
	}
}

// Deps wires the collaborators of a Poller. Filter, Notifier and Enricher
// are optional.
type Deps struct {
	Resolver  EndpointResolver
	Fetcher   model.Fetcher
	Filter    model.JobFilter
	Dedup     *dedup.Deduplicator
	Persister *persist.Persister
	Notifier  model.Notifier
	Enricher  CompanyEnricher
	Now       func() time.Time
}

// Poller owns the full pipeline for a single company at a time. It is safe
// for concurrent use when its collaborators are.
type Poller struct {
	deps   Deps
	logger *slog.Logger
}

// New creates a poller wired with all its dependencies.
func New(deps Deps, logger *slog.Logger) *Poller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Poller{deps: deps, logger: logger}
}

// Poll runs one pass for c. Failures are recorded on the report rather than
// returned: a company's failure never affects the others.
func (p *Poller) Poll(ctx context.Context, c model.Company) Report {
	start := p.deps.Now()
	report := Report{CompanyID: c.ID, Company: c.Name}

	p.ingest(ctx, c, &report)
	p.enrich(ctx, c, &report)

	p.logger.Info("polled company",
		"company", c.Name,
		"platform", report.Platform,
		"fetched", report.Fetched,
		"new", report.New,
		"duplicate", report.Duplicate,
		"created", report.Created,
		"errors", report.Errors,
		"elapsed", p.deps.Now().Sub(start).String(),
	)
	return report
}

func (p *Poller) ingest(ctx context.Context, c model.Company, report *Report) {
	res, err := p.deps.Resolver.Resolve(ctx, c)
	if err != nil {
		p.logger.Warn("endpoint not resolved", "company", c.Name, "error", err)
		report.fail(StepResolve, err, 1)
		return
	}
	report.Platform = res.Endpoint.Platform
	report.Source = string(res.Source)
	report.ok(StepResolve, res.Endpoint.APIURL)

	body := res.Body
	if body == nil {
		body, err = p.deps.Fetcher.Fetch(ctx, res.Endpoint.APIURL)
		if err != nil {
			p.logger.Error("fetch failed", "company", c.Name, "url", res.Endpoint.APIURL, "error", err)
			report.fail(StepFetch, err, 1)
			return
		}
		report.ok(StepFetch, fmt.Sprintf("%d bytes", len(body)))
	} else {
		report.ok(StepFetch, "reused discovery fetch")
	}

	drafts := adapter.ForPlatform(res.Endpoint.Platform).Parse(body)
	jobs := canonical.CanonicalizeAll(c.ID, drafts, p.deps.Now())
	report.Fetched = len(jobs)
	report.ok(StepParse, fmt.Sprintf("%d jobs", len(jobs)))

	if p.deps.Filter != nil {
		var kept []model.CanonicalJob
		for _, j := range jobs {
			if p.deps.Filter.Match(j) {
				kept = append(kept, j)
			} else {
				report.FilteredJobs = append(report.FilteredJobs, j)
			}
		}
		report.Filtered = len(report.FilteredJobs)
		jobs = kept
		report.ok(StepFilter, fmt.Sprintf("%d filtered", report.Filtered))
	}

	parts, err := p.deps.Dedup.Partition(ctx, c.ID, jobs)
	if err != nil {
		p.logger.Error("dedup failed", "company", c.Name, "error", err)
		report.fail(StepDedup, err, 1)
		return
	}
	report.New = len(parts.New)
	report.Duplicate = len(parts.Duplicate)
	report.NewJobs = parts.New
	report.DuplicateJobs = parts.Duplicate
	report.ok(StepDedup, fmt.Sprintf("%d new, %d duplicate", report.New, report.Duplicate))

	if len(parts.New) == 0 {
		return
	}

	written := p.deps.Persister.Write(ctx, parts.New)
	report.Created = len(written.Created)
	if written.Errors > 0 {
		report.fail(StepPersist, fmt.Errorf("%d of %d jobs not written", written.Errors, len(parts.New)), written.Errors)
	} else {
		report.ok(StepPersist, fmt.Sprintf("%d created in %d batches", report.Created, written.Batches))
	}

	if p.deps.Notifier != nil && len(written.Created) > 0 {
		if err := p.deps.Notifier.Notify(c, written.Created); err != nil {
			p.logger.Warn("notification failed", "company", c.Name, "error", err)
			report.fail(StepNotify, err, 0)
		} else {
			report.ok(StepNotify, fmt.Sprintf("%d jobs", len(written.Created)))
		}
	}
}

// enrich runs regardless of how ingestion went; it only needs the company.
func (p *Poller) enrich(ctx context.Context, c model.Company, report *Report) {
	if p.deps.Enricher == nil || ctx.Err() != nil {
		return
	}
	upd, err := p.deps.Enricher.Enrich(ctx, c)
	if err != nil {
		p.logger.Debug("enrichment skipped", "company", c.Name, "error", err)
		report.fail(StepEnrich, err, 0)
		return
	}
	if upd.Empty() {
		return
	}
	detail := ""
	if upd.Stage != nil {
		detail = "stage=" + *upd.Stage
	}
	if upd.Size != nil {
		if detail != "" {
			detail += " "
		}
		detail += "size=" + *upd.Size
	}
	report.ok(StepEnrich, detail)
}

// Package scheduler drives budgeted, resumable ingestion runs over the
// companies in the record store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/poller"
)

// CompanyPoller runs the pipeline for one company.
type CompanyPoller interface {
	Poll(ctx context.Context, c model.Company) poller.Report
}

// Options tunes a Scheduler. A zero Budget means no time limit.
type Options struct {
	Budget  time.Duration
	Workers int
	Lock    *RunLock
	Now     func() time.Time
}

// Summary is the outcome of one invocation. Cursor resumes the next one.
type Summary struct {
	Success            bool            `json:"success"`
	RunID              string          `json:"runId"`
	CompaniesProcessed int             `json:"companiesProcessed"`
	JobsFetched        int             `json:"jobsFetched"`
	JobsNew            int             `json:"jobsNew"`
	JobsDuplicate      int             `json:"jobsDuplicate"`
	JobsCreated        int             `json:"jobsCreated"`
	JobsFiltered       int             `json:"jobsFiltered"`
	Errors             int             `json:"errors"`
	HasMore            bool            `json:"hasMore"`
	Cursor             string          `json:"cursor"`
	ElapsedMs          int64           `json:"elapsedMs"`
	Companies          []poller.Report `json:"companies"`
}

func (s *Summary) add(r poller.Report) {
	s.CompaniesProcessed++
	s.JobsFetched += r.Fetched
	s.JobsNew += r.New
	s.JobsDuplicate += r.Duplicate
	s.JobsCreated += r.Created
	s.JobsFiltered += r.Filtered
	s.Errors += r.Errors
	s.Companies = append(s.Companies, r)
}

// Scheduler owns the per-invocation loop: read one page of companies, poll
// them until the budget runs out, and report where to resume.
type Scheduler struct {
	store  model.Store
	poller CompanyPoller
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	claims map[string]bool
}

// New creates a scheduler. Workers below 1 run companies sequentially.
func New(store model.Store, p CompanyPoller, opts Options, logger *slog.Logger) *Scheduler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		store:  store,
		poller: p,
		opts:   opts,
		logger: logger,
		claims: make(map[string]bool),
	}
}

// RunOnce processes companies from the position encoded in cursor until the
// page is done or the budget is spent. Company failures are reported in the
// summary; only an invalid cursor, a held lock or an unreadable company page
// return an error.
func (s *Scheduler) RunOnce(ctx context.Context, cursor string) (Summary, error) {
	start := s.opts.Now()
	summary := Summary{RunID: uuid.NewString(), Companies: []poller.Report{}}

	pos, err := decodeCursor(cursor)
	if err != nil {
		return summary, err
	}

	release, err := s.opts.Lock.acquire()
	if err != nil {
		return summary, err
	}
	defer release()

	logger := s.logger.With("run_id", summary.RunID)

	page, err := s.store.ListCompanies(ctx, pos.Page)
	if err != nil {
		return summary, fmt.Errorf("reading companies: %w", err)
	}

	// Companies already processed from this page are skipped by id; the
	// ones still listed keep their store order.
	done := pos.doneSet()
	var (
		companies []model.Company
		kept      []string
	)
	for _, c := range page.Companies {
		if done[c.ID] {
			kept = append(kept, c.ID)
			continue
		}
		companies = append(companies, c)
	}
	logger.Info("starting run",
		"companies", len(companies),
		"skipped", len(kept),
		"budget", s.opts.Budget.String(),
		"workers", s.opts.Workers,
	)

	reports, claimed := s.process(ctx, logger, start, companies)
	for _, r := range reports {
		summary.add(r)
	}

	switch {
	case claimed < len(companies):
		summary.HasMore = true
		for _, c := range companies[:claimed] {
			kept = append(kept, c.ID)
		}
		summary.Cursor = position{Page: pos.Page, Done: kept}.encode()
	case page.Cursor != "":
		summary.HasMore = true
		summary.Cursor = position{Page: page.Cursor}.encode()
	}

	summary.Success = true
	summary.ElapsedMs = s.opts.Now().Sub(start).Milliseconds()
	logger.Info("run finished",
		"processed", summary.CompaniesProcessed,
		"created", summary.JobsCreated,
		"errors", summary.Errors,
		"has_more", summary.HasMore,
		"elapsed_ms", summary.ElapsedMs,
	)
	return summary, nil
}

// process polls companies in order with up to opts.Workers goroutines. It
// returns the reports in input order and how many companies were claimed;
// claims always form a prefix of companies.
func (s *Scheduler) process(ctx context.Context, logger *slog.Logger, start time.Time, companies []model.Company) ([]poller.Report, int) {
	results := make([]*poller.Report, len(companies))

	var (
		mu        sync.Mutex
		next      int
		stopped   bool
		completed int
		spent     time.Duration
	)

	claimNext := func() (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		if stopped || next >= len(companies) {
			return 0, false
		}
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "error", err)
			stopped = true
			return 0, false
		}
		if !s.fits(s.opts.Now().Sub(start), completed, spent) {
			logger.Info("budget exhausted", "processed", completed, "remaining", len(companies)-next)
			stopped = true
			return 0, false
		}
		i := next
		next++
		return i, true
	}

	var g errgroup.Group
	for w := 0; w < s.opts.Workers; w++ {
		g.Go(func() error {
			for {
				i, ok := claimNext()
				if !ok {
					return nil
				}
				c := companies[i]
				if !s.claim(c.ID) {
					logger.Warn("company already in progress, skipping", "company", c.Name)
					continue
				}

				began := s.opts.Now()
				report := s.poller.Poll(ctx, c)
				s.release(c.ID)

				mu.Lock()
				completed++
				spent += s.opts.Now().Sub(began)
				mu.Unlock()
				results[i] = &report
			}
		})
	}
	g.Wait()

	reports := make([]poller.Report, 0, len(companies))
	for _, r := range results {
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports, next
}

// fits reports whether another company can start: elapsed time is under the
// budget and, once a company has completed, the average time per company
// still fits in what remains.
func (s *Scheduler) fits(elapsed time.Duration, completed int, spent time.Duration) bool {
	if s.opts.Budget <= 0 {
		return true
	}
	if elapsed >= s.opts.Budget {
		return false
	}
	if completed == 0 {
		return true
	}
	avg := spent / time.Duration(completed)
	return elapsed+avg <= s.opts.Budget
}

func (s *Scheduler) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims[id] {
		return false
	}
	s.claims[id] = true
	return true
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, id)
}

// RunAll invokes RunOnce until no work remains, passing each summary to fn.
func (s *Scheduler) RunAll(ctx context.Context, cursor string, fn func(Summary)) error {
	for {
		summary, err := s.RunOnce(ctx, cursor)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(summary)
		}
		if !summary.HasMore {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cursor = summary.Cursor
	}
}

// Loop runs a full pass immediately, then one every interval. It returns nil
// when ctx is cancelled.
func (s *Scheduler) Loop(ctx context.Context, interval time.Duration) error {
	s.logger.Info("starting scheduler", "interval", interval.String())

	s.pass(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(interval):
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	err := s.RunAll(ctx, "", nil)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, ErrRunInProgress):
		s.logger.Info("skipping scheduled pass, run in progress")
	default:
		s.logger.Error("scheduled pass failed", "error", err)
	}
}

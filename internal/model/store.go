package model

import "context"

// MaxBatchSize is the bulk-write ceiling enforced by the backing store.
const MaxBatchSize = 10

// CompanyPage is one page of companies and the cursor for the next page.
// An empty Cursor means there are no further pages.
type CompanyPage struct {
	Companies []Company
	Cursor    string
}

// URLPage is one page of stored posting URLs for a company.
type URLPage struct {
	URLs   []string
	Cursor string
}

// Store is the paginated, rate-limited record store the pipeline reads from and writes to.
type Store interface {
	// ListCompanies returns the page of companies eligible for ingestion starting at cursor.
	ListCompanies(ctx context.Context, cursor string) (CompanyPage, error)
	// UpdateCompany applies the non-nil fields of upd to the company.
	UpdateCompany(ctx context.Context, id string, upd CompanyUpdate) error
	// ListJobURLs returns one page of posting URLs already stored for the company.
	ListJobURLs(ctx context.Context, companyID string, cursor string) (URLPage, error)
	// CreateJobs writes at most MaxBatchSize jobs atomically and returns their ids.
	CreateJobs(ctx context.Context, jobs []CanonicalJob) ([]string, error)
}

// Notifier sends notifications for newly created jobs.
type Notifier interface {
	Notify(company Company, jobs []CanonicalJob) error
}

// JobFilter decides whether a canonical job should be ingested.
type JobFilter interface {
	Match(job CanonicalJob) bool
}

// Completer sends a prompt to an LLM and returns its free-text answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Fetcher retrieves the raw body of an upstream job board document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

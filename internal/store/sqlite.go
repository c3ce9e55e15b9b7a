package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amishk599/boardsync/internal/model"
)

const defaultPageSize = 100

// SQLiteStore keeps companies and jobs in a local SQLite database. Pages are
// keyed by rowid, so cursors stay valid while rows are appended.
type SQLiteStore struct {
	db       *sql.DB
	pageSize int
}

var _ model.Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	website      TEXT NOT NULL DEFAULT '',
	ats_endpoint TEXT NOT NULL DEFAULT '',
	platform     TEXT NOT NULL DEFAULT '',
	stage        TEXT NOT NULL DEFAULT '',
	size         TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	company_id  TEXT NOT NULL REFERENCES companies(id),
	title       TEXT NOT NULL,
	posting_url TEXT NOT NULL DEFAULT '',
	apply_url   TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	remote      INTEGER NOT NULL DEFAULT 0,
	salary      TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	upstream_id TEXT NOT NULL DEFAULT '',
	platform    TEXT NOT NULL DEFAULT '',
	first_seen  TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS jobs_company_posting_url
	ON jobs(company_id, posting_url) WHERE posting_url <> '';
CREATE INDEX IF NOT EXISTS jobs_company ON jobs(company_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// schema exists. pageSize bounds every list call.
func NewSQLiteStore(dbPath string, pageSize int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &SQLiteStore{db: db, pageSize: pageSize}, nil
}

// ListCompanies returns every company in insertion order, one page at a time.
func (s *SQLiteStore) ListCompanies(ctx context.Context, cursor string) (model.CompanyPage, error) {
	after, err := parseRowCursor(cursor)
	if err != nil {
		return model.CompanyPage{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, id, name, website, ats_endpoint, platform, stage, size
		FROM companies WHERE rowid > ? ORDER BY rowid LIMIT ?`, after, s.pageSize+1)
	if err != nil {
		return model.CompanyPage{}, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var page model.CompanyPage
	var rowIDs []int64
	for rows.Next() {
		var rowID int64
		var c model.Company
		var platform string
		if err := rows.Scan(&rowID, &c.ID, &c.Name, &c.Website, &c.ATSEndpoint, &platform, &c.Stage, &c.Size); err != nil {
			return model.CompanyPage{}, fmt.Errorf("scanning company: %w", err)
		}
		c.Platform = model.Platform(platform)
		page.Companies = append(page.Companies, c)
		rowIDs = append(rowIDs, rowID)
	}
	if err := rows.Err(); err != nil {
		return model.CompanyPage{}, fmt.Errorf("listing companies: %w", err)
	}

	if len(page.Companies) > s.pageSize {
		page.Companies = page.Companies[:s.pageSize]
		page.Cursor = strconv.FormatInt(rowIDs[s.pageSize-1], 10)
	}
	return page, nil
}

// GetCompany returns the company with the given id.
func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (model.Company, error) {
	var c model.Company
	var platform string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, website, ats_endpoint, platform, stage, size
		FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Website, &c.ATSEndpoint, &platform, &c.Stage, &c.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Company{}, fmt.Errorf("loading company %s: %w", id, err)
	}
	c.Platform = model.Platform(platform)
	return c, nil
}

// AddCompany inserts c, assigning an id when c.ID is empty.
func (s *SQLiteStore) AddCompany(ctx context.Context, c model.Company) (model.Company, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.Company{}, fmt.Errorf("company name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, website, ats_endpoint, platform, stage, size)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Website, c.ATSEndpoint, string(c.Platform), c.Stage, c.Size)
	if err != nil {
		return model.Company{}, fmt.Errorf("adding company %s: %w", c.Name, err)
	}
	return c, nil
}

// UpdateCompany applies the non-nil fields of upd.
func (s *SQLiteStore) UpdateCompany(ctx context.Context, id string, upd model.CompanyUpdate) error {
	if upd.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if upd.ATSEndpoint != nil {
		sets = append(sets, "ats_endpoint = ?")
		args = append(args, *upd.ATSEndpoint)
	}
	if upd.Platform != nil {
		sets = append(sets, "platform = ?")
		args = append(args, string(*upd.Platform))
	}
	if upd.Stage != nil {
		sets = append(sets, "stage = ?")
		args = append(args, *upd.Stage)
	}
	if upd.Size != nil {
		sets = append(sets, "size = ?")
		args = append(args, *upd.Size)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE companies SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating company %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating company %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListJobURLs returns one page of the posting URLs stored for the company.
func (s *SQLiteStore) ListJobURLs(ctx context.Context, companyID string, cursor string) (model.URLPage, error) {
	after, err := parseRowCursor(cursor)
	if err != nil {
		return model.URLPage{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, posting_url FROM jobs
		WHERE company_id = ? AND rowid > ? ORDER BY rowid LIMIT ?`, companyID, after, s.pageSize+1)
	if err != nil {
		return model.URLPage{}, fmt.Errorf("listing job urls for %s: %w", companyID, err)
	}
	defer rows.Close()

	var page model.URLPage
	var rowIDs []int64
	for rows.Next() {
		var rowID int64
		var u string
		if err := rows.Scan(&rowID, &u); err != nil {
			return model.URLPage{}, fmt.Errorf("scanning job url: %w", err)
		}
		page.URLs = append(page.URLs, u)
		rowIDs = append(rowIDs, rowID)
	}
	if err := rows.Err(); err != nil {
		return model.URLPage{}, fmt.Errorf("listing job urls for %s: %w", companyID, err)
	}

	if len(page.URLs) > s.pageSize {
		page.URLs = page.URLs[:s.pageSize]
		page.Cursor = strconv.FormatInt(rowIDs[s.pageSize-1], 10)
	}
	return page, nil
}

// CreateJobs inserts up to model.MaxBatchSize jobs in one transaction. Any
// failure, including a duplicate posting URL, rolls back the whole batch.
func (s *SQLiteStore) CreateJobs(ctx context.Context, jobs []model.CanonicalJob) ([]string, error) {
	if len(jobs) > model.MaxBatchSize {
		return nil, fmt.Errorf("creating %d jobs: %w", len(jobs), model.ErrBatchTooLarge)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin job batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jobs (id, company_id, title, posting_url, apply_url, location, country,
			remote, salary, description, upstream_id, platform, first_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare job insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		id := uuid.NewString()
		firstSeen := j.FirstSeen
		if firstSeen.IsZero() {
			firstSeen = time.Now()
		}
		_, err := stmt.ExecContext(ctx,
			id, j.CompanyID, j.Title, j.PostingURL, j.ApplyURL, j.Location, j.Country,
			boolToInt(j.Remote), j.Salary, j.Description, j.UpstreamID, string(j.Platform),
			firstSeen.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return nil, fmt.Errorf("inserting job %q: %w", j.Title, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit job batch: %w", err)
	}
	return ids, nil
}

// ListJobs returns up to limit stored jobs of the company, newest first.
func (s *SQLiteStore) ListJobs(ctx context.Context, companyID string, limit int) ([]model.CanonicalJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, title, posting_url, apply_url, location, country, remote,
			salary, description, upstream_id, platform, first_seen
		FROM jobs WHERE company_id = ? ORDER BY rowid DESC LIMIT ?`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for %s: %w", companyID, err)
	}
	defer rows.Close()

	var jobs []model.CanonicalJob
	for rows.Next() {
		var j model.CanonicalJob
		var remote int
		var platform, firstSeen string
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.PostingURL, &j.ApplyURL, &j.Location,
			&j.Country, &remote, &j.Salary, &j.Description, &j.UpstreamID, &platform, &firstSeen); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.Remote = remote != 0
		j.Platform = model.Platform(platform)
		j.FirstSeen, _ = time.Parse(time.RFC3339Nano, firstSeen)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountJobs returns the number of jobs stored for the company.
func (s *SQLiteStore) CountJobs(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs WHERE company_id = ?", companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting jobs for %s: %w", companyID, err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func parseRowCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q: %w", cursor, ErrBadCursor)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

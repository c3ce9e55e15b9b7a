package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amishk599/boardsync/internal/model"
)

const (
	// DefaultAirtableURL is the public Airtable REST API root.
	DefaultAirtableURL = "https://api.airtable.com/v0"

	airtableMaxPageSize = 100
)

// Field names in the companies table.
const (
	fieldCompanyName     = "Name"
	fieldCompanyWebsite  = "Website"
	fieldCompanyEndpoint = "ATS Endpoint"
	fieldCompanyPlatform = "ATS Platform"
	fieldCompanyStage    = "Funding Stage"
	fieldCompanySize     = "Company Size"
)

// Field names in the jobs table.
const (
	fieldJobCompanyID   = "Company ID"
	fieldJobTitle       = "Title"
	fieldJobPostingURL  = "Posting URL"
	fieldJobApplyURL    = "Apply URL"
	fieldJobLocation    = "Location"
	fieldJobCountry     = "Country"
	fieldJobRemote      = "Remote"
	fieldJobSalary      = "Salary"
	fieldJobDescription = "Description"
	fieldJobUpstreamID  = "Upstream ID"
	fieldJobPlatform    = "Platform"
	fieldJobFirstSeen   = "First Seen"
)

// AirtableOptions configures an AirtableStore.
type AirtableOptions struct {
	BaseURL        string // API root, defaults to DefaultAirtableURL
	APIKey         string
	BaseID         string
	CompaniesTable string
	JobsTable      string
	CompanyFilter  string // filterByFormula applied to ListCompanies, optional
	PageSize       int    // capped at 100
}

// AirtableStore implements model.Store on an Airtable base with a companies
// table and a jobs table. Pagination uses Airtable's opaque offset token.
type AirtableStore struct {
	client   *resty.Client
	opts     AirtableOptions
	pageSize int
}

var _ model.Store = (*AirtableStore)(nil)

// NewAirtableStore creates a store. The timeout of httpClient bounds every call.
func NewAirtableStore(opts AirtableOptions, httpClient *http.Client) *AirtableStore {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAirtableURL
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > airtableMaxPageSize {
		pageSize = airtableMaxPageSize
	}

	client := resty.NewWithClient(httpClient)
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetHeader("Authorization", "Bearer "+opts.APIKey)
	client.SetHeader("Content-Type", "application/json")

	return &AirtableStore{client: client, opts: opts, pageSize: pageSize}
}

type airtableRecord struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset"`
}

type airtableCreate struct {
	Records  []airtableRecord `json:"records"`
	Typecast bool             `json:"typecast"`
}

func (s *AirtableStore) tablePath(table string) string {
	return "/" + url.PathEscape(s.opts.BaseID) + "/" + url.PathEscape(table)
}

// ListCompanies returns one page of the companies table, restricted by the
// configured formula.
func (s *AirtableStore) ListCompanies(ctx context.Context, cursor string) (model.CompanyPage, error) {
	req := s.client.R().SetContext(ctx).
		SetQueryParam("pageSize", strconv.Itoa(s.pageSize))
	if cursor != "" {
		req.SetQueryParam("offset", cursor)
	}
	if s.opts.CompanyFilter != "" {
		req.SetQueryParam("filterByFormula", s.opts.CompanyFilter)
	}

	var list airtableList
	if err := s.do(req.SetResult(&list), http.MethodGet, s.tablePath(s.opts.CompaniesTable)); err != nil {
		return model.CompanyPage{}, fmt.Errorf("listing companies: %w", err)
	}

	page := model.CompanyPage{Cursor: list.Offset}
	for _, r := range list.Records {
		page.Companies = append(page.Companies, companyFromRecord(r))
	}
	return page, nil
}

// GetCompany fetches one company record by id, whether or not it passes the
// eligibility formula.
func (s *AirtableStore) GetCompany(ctx context.Context, id string) (model.Company, error) {
	var rec airtableRecord
	req := s.client.R().SetContext(ctx).SetResult(&rec)
	err := s.do(req, http.MethodGet, s.tablePath(s.opts.CompaniesTable)+"/"+url.PathEscape(id))
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return model.Company{}, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Company{}, fmt.Errorf("loading company %s: %w", id, err)
	}
	return companyFromRecord(rec), nil
}

func companyFromRecord(r airtableRecord) model.Company {
	return model.Company{
		ID:          r.ID,
		Name:        stringField(r.Fields, fieldCompanyName),
		Website:     stringField(r.Fields, fieldCompanyWebsite),
		ATSEndpoint: stringField(r.Fields, fieldCompanyEndpoint),
		Platform:    model.Platform(stringField(r.Fields, fieldCompanyPlatform)),
		Stage:       stringField(r.Fields, fieldCompanyStage),
		Size:        stringField(r.Fields, fieldCompanySize),
	}
}

// AddCompany creates a company record and returns it with its record id.
func (s *AirtableStore) AddCompany(ctx context.Context, c model.Company) (model.Company, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.Company{}, fmt.Errorf("adding company: name is required")
	}
	fields := map[string]any{fieldCompanyName: c.Name}
	optional := map[string]string{
		fieldCompanyWebsite:  c.Website,
		fieldCompanyEndpoint: c.ATSEndpoint,
		fieldCompanyPlatform: string(c.Platform),
		fieldCompanyStage:    c.Stage,
		fieldCompanySize:     c.Size,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}

	var created airtableList
	body := airtableCreate{Records: []airtableRecord{{Fields: fields}}, Typecast: true}
	req := s.client.R().SetContext(ctx).SetBody(body).SetResult(&created)
	if err := s.do(req, http.MethodPost, s.tablePath(s.opts.CompaniesTable)); err != nil {
		return model.Company{}, fmt.Errorf("adding company %s: %w", c.Name, err)
	}
	if len(created.Records) == 0 {
		return model.Company{}, fmt.Errorf("adding company %s: %w", c.Name, model.ErrMalformedPayload)
	}
	c.ID = created.Records[0].ID
	return c, nil
}

// UpdateCompany patches the non-nil fields of upd onto the company record.
func (s *AirtableStore) UpdateCompany(ctx context.Context, id string, upd model.CompanyUpdate) error {
	if upd.Empty() {
		return nil
	}

	fields := make(map[string]any)
	if upd.ATSEndpoint != nil {
		fields[fieldCompanyEndpoint] = *upd.ATSEndpoint
	}
	if upd.Platform != nil {
		fields[fieldCompanyPlatform] = string(*upd.Platform)
	}
	if upd.Stage != nil {
		fields[fieldCompanyStage] = *upd.Stage
	}
	if upd.Size != nil {
		fields[fieldCompanySize] = *upd.Size
	}

	req := s.client.R().SetContext(ctx).
		SetBody(map[string]any{"fields": fields, "typecast": true})
	if err := s.do(req, http.MethodPatch, s.tablePath(s.opts.CompaniesTable)+"/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("updating company %s: %w", id, err)
	}
	return nil
}

// ListJobURLs returns one page of posting URLs stored for the company.
func (s *AirtableStore) ListJobURLs(ctx context.Context, companyID string, cursor string) (model.URLPage, error) {
	req := s.client.R().SetContext(ctx).
		SetQueryParam("pageSize", strconv.Itoa(s.pageSize)).
		SetQueryParam("filterByFormula", fmt.Sprintf("{%s} = %s", fieldJobCompanyID, formulaString(companyID))).
		SetQueryParam("fields[]", fieldJobPostingURL)
	if cursor != "" {
		req.SetQueryParam("offset", cursor)
	}

	var list airtableList
	if err := s.do(req.SetResult(&list), http.MethodGet, s.tablePath(s.opts.JobsTable)); err != nil {
		return model.URLPage{}, fmt.Errorf("listing job urls for %s: %w", companyID, err)
	}

	page := model.URLPage{Cursor: list.Offset}
	for _, r := range list.Records {
		page.URLs = append(page.URLs, stringField(r.Fields, fieldJobPostingURL))
	}
	return page, nil
}

// ListJobs returns up to limit stored jobs of the company, newest first.
func (s *AirtableStore) ListJobs(ctx context.Context, companyID string, limit int) ([]model.CanonicalJob, error) {
	req := s.client.R().SetContext(ctx).
		SetQueryParam("pageSize", strconv.Itoa(min(limit, airtableMaxPageSize))).
		SetQueryParam("maxRecords", strconv.Itoa(limit)).
		SetQueryParam("filterByFormula", fmt.Sprintf("{%s} = %s", fieldJobCompanyID, formulaString(companyID))).
		SetQueryParam("sort[0][field]", fieldJobFirstSeen).
		SetQueryParam("sort[0][direction]", "desc")

	var list airtableList
	if err := s.do(req.SetResult(&list), http.MethodGet, s.tablePath(s.opts.JobsTable)); err != nil {
		return nil, fmt.Errorf("listing jobs for %s: %w", companyID, err)
	}

	jobs := make([]model.CanonicalJob, 0, len(list.Records))
	for _, r := range list.Records {
		jobs = append(jobs, jobFromRecord(r))
	}
	return jobs, nil
}

// CountJobs counts the company's job records by paging through their
// posting URLs; Airtable has no count endpoint.
func (s *AirtableStore) CountJobs(ctx context.Context, companyID string) (int, error) {
	n := 0
	cursor := ""
	for {
		page, err := s.ListJobURLs(ctx, companyID, cursor)
		if err != nil {
			return 0, err
		}
		n += len(page.URLs)
		if page.Cursor == "" {
			return n, nil
		}
		cursor = page.Cursor
	}
}

func jobFromRecord(r airtableRecord) model.CanonicalJob {
	j := model.CanonicalJob{
		ID:          r.ID,
		CompanyID:   stringField(r.Fields, fieldJobCompanyID),
		Title:       stringField(r.Fields, fieldJobTitle),
		PostingURL:  stringField(r.Fields, fieldJobPostingURL),
		ApplyURL:    stringField(r.Fields, fieldJobApplyURL),
		Location:    stringField(r.Fields, fieldJobLocation),
		Country:     stringField(r.Fields, fieldJobCountry),
		Salary:      stringField(r.Fields, fieldJobSalary),
		Description: stringField(r.Fields, fieldJobDescription),
		UpstreamID:  stringField(r.Fields, fieldJobUpstreamID),
		Platform:    model.Platform(stringField(r.Fields, fieldJobPlatform)),
	}
	j.Remote, _ = r.Fields[fieldJobRemote].(bool)
	j.FirstSeen, _ = time.Parse(time.RFC3339, stringField(r.Fields, fieldJobFirstSeen))
	return j
}

// CreateJobs posts up to model.MaxBatchSize records in one request. Airtable
// rejects the whole request when any record is invalid.
func (s *AirtableStore) CreateJobs(ctx context.Context, jobs []model.CanonicalJob) ([]string, error) {
	if len(jobs) > model.MaxBatchSize {
		return nil, fmt.Errorf("creating %d jobs: %w", len(jobs), model.ErrBatchTooLarge)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	body := airtableCreate{Typecast: true}
	for _, j := range jobs {
		body.Records = append(body.Records, airtableRecord{Fields: jobFields(j)})
	}

	var created airtableList
	req := s.client.R().SetContext(ctx).SetBody(body).SetResult(&created)
	if err := s.do(req, http.MethodPost, s.tablePath(s.opts.JobsTable)); err != nil {
		return nil, fmt.Errorf("creating %d jobs: %w", len(jobs), err)
	}

	ids := make([]string, 0, len(created.Records))
	for _, r := range created.Records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// do executes req and converts non-2xx responses into *model.HTTPError.
func (s *AirtableStore) do(req *resty.Request, method, path string) error {
	resp, err := req.ForceContentType("application/json").Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}

	httpErr := &model.HTTPError{StatusCode: resp.StatusCode()}
	if secs, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
		httpErr.RetryAfter = time.Duration(secs) * time.Second
	}
	if msg := airtableErrorMessage(resp.Body()); msg != "" {
		httpErr.Err = fmt.Errorf("airtable: %s", msg)
	}
	return httpErr
}

// airtableErrorMessage extracts the error from either
// {"error":{"type":..,"message":..}} or {"error":"NOT_FOUND"}.
func airtableErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		if detail.Message != "" {
			return detail.Type + ": " + detail.Message
		}
		return detail.Type
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		return code
	}
	return ""
}

func jobFields(j model.CanonicalJob) map[string]any {
	fields := map[string]any{
		fieldJobCompanyID: j.CompanyID,
		fieldJobTitle:     j.Title,
		fieldJobRemote:    j.Remote,
		fieldJobPlatform:  string(j.Platform),
	}
	optional := map[string]string{
		fieldJobPostingURL:  j.PostingURL,
		fieldJobApplyURL:    j.ApplyURL,
		fieldJobLocation:    j.Location,
		fieldJobCountry:     j.Country,
		fieldJobSalary:      j.Salary,
		fieldJobDescription: j.Description,
		fieldJobUpstreamID:  j.UpstreamID,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	if !j.FirstSeen.IsZero() {
		fields[fieldJobFirstSeen] = j.FirstSeen.UTC().Format(time.RFC3339)
	}
	return fields
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return strings.TrimSpace(s)
}

// formulaString quotes s as an Airtable formula string literal.
func formulaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `'` + strings.ReplaceAll(s, `'`, `\'`) + `'`
}

package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amishk599/boardsync/internal/model"
)

// DryRunStore reads through to an underlying store and discards every write.
// Created jobs are kept in memory so callers can inspect what would have
// been written.
type DryRunStore struct {
	inner  model.Store
	logger *slog.Logger

	mu      sync.Mutex
	created []model.CanonicalJob
	updates map[string]model.CompanyUpdate
}

var _ model.Store = (*DryRunStore)(nil)

// NewDryRunStore wraps inner.
func NewDryRunStore(inner model.Store, logger *slog.Logger) *DryRunStore {
	return &DryRunStore{
		inner:   inner,
		logger:  logger,
		updates: make(map[string]model.CompanyUpdate),
	}
}

func (s *DryRunStore) ListCompanies(ctx context.Context, cursor string) (model.CompanyPage, error) {
	return s.inner.ListCompanies(ctx, cursor)
}

func (s *DryRunStore) ListJobURLs(ctx context.Context, companyID string, cursor string) (model.URLPage, error) {
	return s.inner.ListJobURLs(ctx, companyID, cursor)
}

// UpdateCompany records the update without applying it.
func (s *DryRunStore) UpdateCompany(_ context.Context, id string, upd model.CompanyUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = mergeUpdate(s.updates[id], upd)
	s.logger.Debug("dry run: skipped company update", "company_id", id)
	return nil
}

// CreateJobs enforces the batch limit like a real store and returns
// placeholder ids.
func (s *DryRunStore) CreateJobs(_ context.Context, jobs []model.CanonicalJob) ([]string, error) {
	if len(jobs) > model.MaxBatchSize {
		return nil, fmt.Errorf("creating %d jobs: %w", len(jobs), model.ErrBatchTooLarge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(jobs))
	for i := range jobs {
		ids[i] = fmt.Sprintf("dry-run-%d", len(s.created)+i+1)
	}
	s.created = append(s.created, jobs...)
	s.logger.Debug("dry run: skipped job batch", "jobs", len(jobs))
	return ids, nil
}

// Created returns the jobs that would have been written.
func (s *DryRunStore) Created() []model.CanonicalJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CanonicalJob, len(s.created))
	copy(out, s.created)
	return out
}

// Updates returns the company updates that would have been applied.
func (s *DryRunStore) Updates() map[string]model.CompanyUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.CompanyUpdate, len(s.updates))
	for k, v := range s.updates {
		out[k] = v
	}
	return out
}

func mergeUpdate(into, upd model.CompanyUpdate) model.CompanyUpdate {
	if upd.ATSEndpoint != nil {
		into.ATSEndpoint = upd.ATSEndpoint
	}
	if upd.Platform != nil {
		into.Platform = upd.Platform
	}
	if upd.Stage != nil {
		into.Stage = upd.Stage
	}
	if upd.Size != nil {
		into.Size = upd.Size
	}
	return into
}

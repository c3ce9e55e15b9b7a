package ratelimit

import (
	"context"

	"github.com/amishk599/boardsync/internal/model"
)

// RateLimitedFetcher waits on the target host's bucket before every fetch.
// All fetchers should share one Limiter so each ATS host has a single budget.
type RateLimitedFetcher struct {
	inner   model.Fetcher
	limiter *Limiter
}

// NewRateLimitedFetcher wraps inner with per-host rate limiting.
func NewRateLimitedFetcher(inner model.Fetcher, limiter *Limiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{inner: inner, limiter: limiter}
}

func (f *RateLimitedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.WaitURL(ctx, url); err != nil {
		return nil, err
	}
	return f.inner.Fetch(ctx, url)
}

// RateLimitedCompleter waits on the KeyAI bucket before every completion.
type RateLimitedCompleter struct {
	inner   model.Completer
	limiter *Limiter
}

func NewRateLimitedCompleter(inner model.Completer, limiter *Limiter) *RateLimitedCompleter {
	return &RateLimitedCompleter{inner: inner, limiter: limiter}
}

func (c *RateLimitedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx, KeyAI); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, prompt)
}

// RateLimitedStore takes a KeyStore token before every store request, so
// reads, company updates and batch writes share the store's request ceiling.
type RateLimitedStore struct {
	inner   model.Store
	limiter *Limiter
}

var _ model.Store = (*RateLimitedStore)(nil)

// NewRateLimitedStore wraps inner with the shared store bucket.
func NewRateLimitedStore(inner model.Store, limiter *Limiter) *RateLimitedStore {
	return &RateLimitedStore{inner: inner, limiter: limiter}
}

func (s *RateLimitedStore) ListCompanies(ctx context.Context, cursor string) (model.CompanyPage, error) {
	if err := s.limiter.Wait(ctx, KeyStore); err != nil {
		return model.CompanyPage{}, err
	}
	return s.inner.ListCompanies(ctx, cursor)
}

func (s *RateLimitedStore) UpdateCompany(ctx context.Context, id string, upd model.CompanyUpdate) error {
	if err := s.limiter.Wait(ctx, KeyStore); err != nil {
		return err
	}
	return s.inner.UpdateCompany(ctx, id, upd)
}

func (s *RateLimitedStore) ListJobURLs(ctx context.Context, companyID string, cursor string) (model.URLPage, error) {
	if err := s.limiter.Wait(ctx, KeyStore); err != nil {
		return model.URLPage{}, err
	}
	return s.inner.ListJobURLs(ctx, companyID, cursor)
}

func (s *RateLimitedStore) CreateJobs(ctx context.Context, jobs []model.CanonicalJob) ([]string, error) {
	if err := s.limiter.Wait(ctx, KeyStore); err != nil {
		return nil, err
	}
	return s.inner.CreateJobs(ctx, jobs)
}

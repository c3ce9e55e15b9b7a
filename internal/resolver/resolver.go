// Package resolver finds the ATS job board endpoint of a company.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/boardsync/internal/adapter"
	"github.com/amishk599/boardsync/internal/ai"
	"github.com/amishk599/boardsync/internal/model"
)

// Source records which resolution step produced an endpoint.
type Source string

const (
	SourceStored  Source = "stored"
	SourceWebsite Source = "website"
	SourceAI      Source = "ai"
)

// Result is a resolved endpoint. Body is set when resolution already had to
// fetch the board to validate it, so callers can skip a second fetch.
type Result struct {
	Endpoint model.EndpointInfo
	Source   Source
	Body     []byte
}

// Resolver resolves endpoints in order: stored endpoint, website, AI discovery.
type Resolver struct {
	store     model.Store
	fetcher   model.Fetcher
	completer model.Completer
	logger    *slog.Logger
}

// New creates a Resolver. completer may be an ai.NopCompleter, which disables
// the discovery step.
func New(store model.Store, fetcher model.Fetcher, completer model.Completer, logger *slog.Logger) *Resolver {
	if completer == nil {
		completer = ai.NewNopCompleter()
	}
	return &Resolver{
		store:     store,
		fetcher:   fetcher,
		completer: completer,
		logger:    logger,
	}
}

// Resolve returns the endpoint for c or an error wrapping model.ErrEndpointNotFound.
// Endpoints found from the website or by discovery are written back to the company.
func (r *Resolver) Resolve(ctx context.Context, c model.Company) (Result, error) {
	if stored := strings.TrimSpace(c.ATSEndpoint); stored != "" {
		if info, ok := Match(stored); ok {
			return Result{Endpoint: info, Source: SourceStored}, nil
		}
		// An explicit endpoint on an unidentified platform is the operator's choice.
		if isAbsoluteHTTP(stored) {
			return Result{
				Endpoint: model.EndpointInfo{Platform: model.PlatformUnknown, APIURL: stored},
				Source:   SourceStored,
			}, nil
		}
		r.logger.Warn("stored endpoint unusable", "company", c.Name, "endpoint", stored)
	}

	if info, ok := Match(c.Website); ok {
		res := Result{Endpoint: info, Source: SourceWebsite}
		r.writeBack(ctx, c, info)
		return res, nil
	}

	res, err := r.discover(ctx, c)
	if err != nil {
		return Result{}, err
	}
	r.writeBack(ctx, c, res.Endpoint)
	return res, nil
}

// discover asks the AI service for one open posting and validates the board
// it points at by fetching and parsing it.
func (r *Resolver) discover(ctx context.Context, c model.Company) (Result, error) {
	prompt, err := ai.DiscoveryPrompt(c)
	if err != nil {
		return Result{}, err
	}

	answer, err := r.completer.Complete(ctx, prompt)
	if errors.Is(err, ai.ErrDisabled) {
		return Result{}, fmt.Errorf("resolve %s: no stored endpoint or ATS website: %w", c.Name, model.ErrEndpointNotFound)
	}
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s: discovery: %v: %w", c.Name, err, model.ErrEndpointNotFound)
	}

	guess, ok := ai.ExtractURL(answer)
	if !ok {
		return Result{}, fmt.Errorf("resolve %s: no URL in discovery answer: %w", c.Name, model.ErrEndpointNotFound)
	}
	info, ok := Match(guess)
	if !ok {
		return Result{}, fmt.Errorf("resolve %s: discovered URL %s is not a known ATS: %w", c.Name, guess, model.ErrEndpointNotFound)
	}

	body, err := r.fetcher.Fetch(ctx, info.APIURL)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s: validate %s: %v: %w", c.Name, info.APIURL, err, model.ErrEndpointNotFound)
	}
	drafts := adapter.ForPlatform(info.Platform).Parse(body)
	r.logger.Info("endpoint discovered",
		"company", c.Name,
		"platform", info.Platform,
		"slug", info.Slug,
		"postings", len(drafts),
	)

	return Result{Endpoint: info, Source: SourceAI, Body: body}, nil
}

func (r *Resolver) writeBack(ctx context.Context, c model.Company, info model.EndpointInfo) {
	endpoint := info.APIURL
	platform := info.Platform
	err := r.store.UpdateCompany(ctx, c.ID, model.CompanyUpdate{
		ATSEndpoint: &endpoint,
		Platform:    &platform,
	})
	if err != nil {
		r.logger.Warn("failed to save resolved endpoint", "company", c.Name, "error", err)
	}
}

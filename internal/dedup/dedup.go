// Package dedup separates freshly fetched jobs from the ones already stored.
package dedup

import (
	"context"
	"fmt"

	"github.com/amishk599/boardsync/internal/model"
)

// Result partitions a fetch. Order within each slice follows the input.
type Result struct {
	New       []model.CanonicalJob
	Duplicate []model.CanonicalJob
}

// Deduplicator compares jobs against every posting URL stored for a company.
type Deduplicator struct {
	store model.Store
}

// New creates a Deduplicator reading from store.
func New(store model.Store) *Deduplicator {
	return &Deduplicator{store: store}
}

// Partition loads all stored URLs of the company and splits jobs into new and
// duplicate. A read failure on any page fails the whole partition: a partial
// URL set would let duplicates through.
func (d *Deduplicator) Partition(ctx context.Context, companyID string, jobs []model.CanonicalJob) (Result, error) {
	existing, err := d.ExistingURLs(ctx, companyID)
	if err != nil {
		return Result{}, err
	}
	return Split(existing, jobs), nil
}

// ExistingURLs reads every page of stored posting URLs for the company and
// returns them in canonical form.
func (d *Deduplicator) ExistingURLs(ctx context.Context, companyID string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	seenCursors := make(map[string]bool)
	cursor := ""
	for {
		page, err := d.store.ListJobURLs(ctx, companyID, cursor)
		if err != nil {
			return nil, fmt.Errorf("list stored urls for %s: %w", companyID, err)
		}
		for _, u := range page.URLs {
			if key := CanonicalURL(u); key != "" {
				existing[key] = struct{}{}
			}
		}

		if page.Cursor == "" {
			return existing, nil
		}
		if seenCursors[page.Cursor] {
			return nil, fmt.Errorf("list stored urls for %s: cursor %q repeated", companyID, page.Cursor)
		}
		seenCursors[page.Cursor] = true
		cursor = page.Cursor
	}
}

// Split partitions jobs against a set of canonical URLs. Jobs without a posting
// URL are always new. A URL repeated within jobs is new only the first time.
func Split(existing map[string]struct{}, jobs []model.CanonicalJob) Result {
	var res Result
	batch := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		key := CanonicalURL(job.PostingURL)
		if key == "" {
			res.New = append(res.New, job)
			continue
		}
		if _, ok := existing[key]; ok || batch[key] {
			res.Duplicate = append(res.Duplicate, job)
			continue
		}
		batch[key] = true
		res.New = append(res.New, job)
	}
	return res
}

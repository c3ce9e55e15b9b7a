// Package persist writes new jobs to the record store in bounded batches.
package persist

import (
	"context"
	"log/slog"

	"github.com/amishk599/boardsync/internal/model"
)

// Result counts the outcome of one Write.
type Result struct {
	Created []model.CanonicalJob // with store-assigned ids
	Errors  int                  // jobs in failed batches
	Batches int
}

// Persister chunks jobs into batches of at most model.MaxBatchSize. The store
// it writes to is expected to carry the shared rate limiter (see
// ratelimit.RateLimitedStore), so every batch call takes a token first.
type Persister struct {
	store     model.Store
	batchSize int
	logger    *slog.Logger
}

// New creates a Persister. batchSize is clamped to [1, model.MaxBatchSize].
func New(store model.Store, batchSize int, logger *slog.Logger) *Persister {
	if batchSize <= 0 || batchSize > model.MaxBatchSize {
		batchSize = model.MaxBatchSize
	}
	return &Persister{
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Write creates jobs batch by batch. A failed batch counts all of its jobs as
// errors and the remaining batches are still attempted; nothing is retried.
func (p *Persister) Write(ctx context.Context, jobs []model.CanonicalJob) Result {
	var res Result
	for start := 0; start < len(jobs); start += p.batchSize {
		end := min(start+p.batchSize, len(jobs))
		batch := jobs[start:end]
		res.Batches++

		if err := ctx.Err(); err != nil {
			p.logger.Warn("batch skipped", "size", len(batch), "error", err)
			res.Errors += len(batch)
			continue
		}

		ids, err := p.store.CreateJobs(ctx, batch)
		if err != nil {
			p.logger.Error("batch write failed", "size", len(batch), "error", err)
			res.Errors += len(batch)
			continue
		}

		for i, job := range batch {
			if i < len(ids) {
				job.ID = ids[i]
			}
			res.Created = append(res.Created, job)
		}
	}
	return res
}

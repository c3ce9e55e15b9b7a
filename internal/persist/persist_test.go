package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingStore records every batch and fails the ones listed in failBatches (1-based).
type recordingStore struct {
	model.Store
	batches     [][]model.CanonicalJob
	failBatches map[int]bool
	nextID      int
}

func (s *recordingStore) CreateJobs(_ context.Context, jobs []model.CanonicalJob) ([]string, error) {
	s.batches = append(s.batches, jobs)
	if len(jobs) > model.MaxBatchSize {
		return nil, model.ErrBatchTooLarge
	}
	if s.failBatches[len(s.batches)] {
		return nil, errors.New("write rejected")
	}
	ids := make([]string, len(jobs))
	for i := range jobs {
		s.nextID++
		ids[i] = fmt.Sprintf("job-%d", s.nextID)
	}
	return ids, nil
}

func makeJobs(n int) []model.CanonicalJob {
	jobs := make([]model.CanonicalJob, n)
	for i := range jobs {
		jobs[i] = model.CanonicalJob{Title: fmt.Sprintf("Job %d", i), PostingURL: fmt.Sprintf("https://x.test/%d", i)}
	}
	return jobs
}

func TestWrite_BatchSizeNeverExceedsLimit(t *testing.T) {
	for _, configured := range []int{0, 3, 10, 25, -1} {
		t.Run(fmt.Sprintf("configured=%d", configured), func(t *testing.T) {
			store := &recordingStore{}
			p := New(store, configured, discardLogger())

			res := p.Write(context.Background(), makeJobs(23))
			if len(res.Created) != 23 || res.Errors != 0 {
				t.Fatalf("expected 23 created / 0 errors, got %d / %d", len(res.Created), res.Errors)
			}
			for i, b := range store.batches {
				if len(b) > model.MaxBatchSize {
					t.Errorf("batch %d has %d records", i, len(b))
				}
			}
		})
	}
}

func TestWrite_AssignsIDs(t *testing.T) {
	store := &recordingStore{}
	res := New(store, 10, discardLogger()).Write(context.Background(), makeJobs(3))
	if res.Batches != 1 {
		t.Errorf("expected 1 batch, got %d", res.Batches)
	}
	for i, job := range res.Created {
		if job.ID != fmt.Sprintf("job-%d", i+1) {
			t.Errorf("job %d id = %q", i, job.ID)
		}
	}
}

func TestWrite_FailedBatchCountsFullSizeAndContinues(t *testing.T) {
	store := &recordingStore{failBatches: map[int]bool{2: true}}
	p := New(store, 10, discardLogger())

	res := p.Write(context.Background(), makeJobs(25))
	if len(store.batches) != 3 {
		t.Fatalf("expected all 3 batches attempted, got %d", len(store.batches))
	}
	if res.Errors != 10 {
		t.Errorf("expected 10 errors (the whole second batch), got %d", res.Errors)
	}
	if len(res.Created) != 15 {
		t.Errorf("expected 15 created, got %d", len(res.Created))
	}
}

func TestWrite_Empty(t *testing.T) {
	store := &recordingStore{}
	res := New(store, 10, discardLogger()).Write(context.Background(), nil)
	if res.Batches != 0 || len(store.batches) != 0 {
		t.Errorf("expected no store calls, got %d", len(store.batches))
	}
}

func TestWrite_TakesLimiterTokenPerBatch(t *testing.T) {
	inner := &recordingStore{}
	limiter := ratelimit.New(0.001, 1) // a single token, then effectively none
	p := New(ratelimit.NewRateLimitedStore(inner, limiter), 5, discardLogger())

	res := p.Write(context.Background(), makeJobs(5))
	if len(res.Created) != 5 || len(inner.batches) != 1 {
		t.Fatalf("first batch should pass, got created=%d batches=%d", len(res.Created), len(inner.batches))
	}

	// No token can arrive before the deadline, so both batches fail without
	// reaching the store.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res = p.Write(ctx, makeJobs(10))
	if res.Errors != 10 || len(inner.batches) != 1 {
		t.Errorf("expected errors=10 and no new store calls, got errors=%d store batches=%d", res.Errors, len(inner.batches))
	}
}

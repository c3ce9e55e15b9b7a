package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amishk599/boardsync/internal/ai"
	"github.com/amishk599/boardsync/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	answer string
	err    error
	calls  int
}

func (c *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	c.calls++
	return c.answer, c.err
}

type fakeStore struct {
	model.Store
	updates []model.CompanyUpdate
}

func (s *fakeStore) UpdateCompany(_ context.Context, _ string, upd model.CompanyUpdate) error {
	s.updates = append(s.updates, upd)
	return nil
}

func TestEnrich_FillsMissingFields(t *testing.T) {
	completer := &fakeCompleter{answer: "```json\n{\"stage\": \"Series B\", \"size\": \"about 150 employees\"}\n```"}
	store := &fakeStore{}
	e := New(completer, store, discardLogger())

	upd, err := e.Enrich(context.Background(), model.Company{ID: "c1", Name: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Stage == nil || *upd.Stage != StageMid {
		t.Errorf("expected stage %q, got %v", StageMid, upd.Stage)
	}
	if upd.Size == nil || *upd.Size != Size51to200 {
		t.Errorf("expected size %q, got %v", Size51to200, upd.Size)
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected 1 store update, got %d", len(store.updates))
	}
}

func TestEnrich_NeverOverwrites(t *testing.T) {
	completer := &fakeCompleter{answer: `{"stage": "Public", "size": "10,000 employees"}`}
	store := &fakeStore{}
	e := New(completer, store, discardLogger())

	upd, err := e.Enrich(context.Background(), model.Company{ID: "c1", Name: "Acme", Stage: StageEarly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Stage != nil {
		t.Errorf("stage must not be overwritten, got %q", *upd.Stage)
	}
	if upd.Size == nil || *upd.Size != Size1000Plus {
		t.Errorf("expected size to be filled, got %v", upd.Size)
	}
}

func TestEnrich_SkipsCompleteCompany(t *testing.T) {
	completer := &fakeCompleter{}
	e := New(completer, &fakeStore{}, discardLogger())

	if _, err := e.Enrich(context.Background(), model.Company{Stage: StagePublic, Size: Size1000Plus}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completer.calls != 0 {
		t.Errorf("expected no AI call, got %d", completer.calls)
	}
}

func TestEnrich_UnmappableAnswerLeavesCompanyUntouched(t *testing.T) {
	store := &fakeStore{}
	e := New(&fakeCompleter{answer: `{"stage": "unknown", "size": "unknown"}`}, store, discardLogger())

	upd, err := e.Enrich(context.Background(), model.Company{ID: "c1", Name: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upd.Empty() || len(store.updates) != 0 {
		t.Errorf("expected no update, got %+v", upd)
	}
}

func TestEnrich_PlainTextAnswer(t *testing.T) {
	e := New(&fakeCompleter{answer: "Seed"}, &fakeStore{}, discardLogger())
	upd, err := e.Enrich(context.Background(), model.Company{ID: "c1", Size: Size1to50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Stage == nil || *upd.Stage != StageEarly {
		t.Errorf("expected stage from plain text answer, got %v", upd.Stage)
	}
}

func TestEnrich_Disabled(t *testing.T) {
	store := &fakeStore{}
	e := New(ai.NewNopCompleter(), store, discardLogger())
	upd, err := e.Enrich(context.Background(), model.Company{ID: "c1"})
	if err != nil || !upd.Empty() || len(store.updates) != 0 {
		t.Errorf("disabled enrichment should be a silent no-op, got upd=%+v err=%v", upd, err)
	}
}

func TestEnrich_AIErrorReturned(t *testing.T) {
	e := New(&fakeCompleter{err: errors.New("timeout")}, &fakeStore{}, discardLogger())
	if _, err := e.Enrich(context.Background(), model.Company{ID: "c1"}); err == nil {
		t.Fatal("expected error to be returned for logging")
	}
}

// Package enrich fills missing company metadata (funding stage, headcount)
// from the AI service.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/boardsync/internal/ai"
	"github.com/amishk599/boardsync/internal/model"
)

// Enricher asks the AI service about companies missing stage or size.
type Enricher struct {
	completer model.Completer
	store     model.Store
	logger    *slog.Logger
}

// New creates an Enricher. With an ai.NopCompleter every call is a no-op.
func New(completer model.Completer, store model.Store, logger *slog.Logger) *Enricher {
	return &Enricher{
		completer: completer,
		store:     store,
		logger:    logger,
	}
}

type enrichmentAnswer struct {
	Stage string `json:"stage"`
	Size  string `json:"size"`
}

// Enrich fills c's empty stage and size when the answer maps to a bucket and
// returns the update that was applied. Non-empty fields are never touched.
// Unmappable answers leave the company unchanged without an error.
func (e *Enricher) Enrich(ctx context.Context, c model.Company) (model.CompanyUpdate, error) {
	if c.Stage != "" && c.Size != "" {
		return model.CompanyUpdate{}, nil
	}

	prompt, err := ai.EnrichmentPrompt(c)
	if err != nil {
		return model.CompanyUpdate{}, err
	}
	answer, err := e.completer.Complete(ctx, prompt)
	if errors.Is(err, ai.ErrDisabled) {
		return model.CompanyUpdate{}, nil
	}
	if err != nil {
		return model.CompanyUpdate{}, fmt.Errorf("enrich %s: %w", c.Name, err)
	}

	stageText, sizeText := splitAnswer(answer)

	var upd model.CompanyUpdate
	if c.Stage == "" {
		if stage, ok := MapStage(stageText); ok {
			upd.Stage = &stage
		}
	}
	if c.Size == "" {
		if size, ok := MapSize(sizeText); ok {
			upd.Size = &size
		}
	}
	if upd.Empty() {
		e.logger.Debug("enrichment answer not mappable", "company", c.Name, "answer", answer)
		return upd, nil
	}

	if err := e.store.UpdateCompany(ctx, c.ID, upd); err != nil {
		return model.CompanyUpdate{}, fmt.Errorf("enrich %s: save: %w", c.Name, err)
	}
	return upd, nil
}

// splitAnswer pulls the stage and size parts from the answer. Without a JSON
// object the whole cleaned answer is used for both.
func splitAnswer(answer string) (stage, size string) {
	if raw, ok := ai.ExtractJSON(answer); ok {
		var a enrichmentAnswer
		if err := json.Unmarshal(raw, &a); err == nil {
			return strings.TrimSpace(a.Stage), strings.TrimSpace(a.Size)
		}
	}
	text := ai.CleanAnswer(answer)
	return text, text
}

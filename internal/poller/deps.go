package poller

import (
	"context"

	"github.com/amishk599/boardsync/internal/model"
	"github.com/amishk599/boardsync/internal/resolver"
)

// EndpointResolver finds the job board endpoint of a company.
type EndpointResolver interface {
	Resolve(ctx context.Context, c model.Company) (resolver.Result, error)
}

// CompanyEnricher fills missing company metadata.
// Returns an empty update when there is nothing to change or enrichment is disabled.
type CompanyEnricher interface {
	Enrich(ctx context.Context, c model.Company) (model.CompanyUpdate, error)
}

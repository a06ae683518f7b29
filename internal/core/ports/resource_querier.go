package ports

import (
	"context"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// ResourceQuerier is the contract every resource adapter exposes to the
// gateway. Adapters that only support synchronous aggregate queries reject
// the remaining operations with domain.ErrNotImplemented.
type ResourceQuerier interface {
	Info(ctx context.Context, req *domain.QueryRequest) (map[string]any, error)
	Search(ctx context.Context, req *domain.QueryRequest) (map[string]any, error)
	Query(ctx context.Context, req *domain.QueryRequest) error
	QueryStatus(ctx context.Context, queryID string, req *domain.QueryRequest) error
	QueryResult(ctx context.Context, queryID string, req *domain.QueryRequest) error
	QuerySync(ctx context.Context, req *domain.QueryRequest) (*domain.QueryResult, error)
}

package database

import (
	"context"

	"github.com/tieubaoca/mxp-gateway/types"
)

// DocumentStore defines the interface for ship document storage and search.
type DocumentStore interface {
	UpsertDocument(ctx context.Context, doc *types.Document) error
	DeleteDocument(ctx context.Context, id string) error
	SearchSimilar(ctx context.Context, queries []string, tags []string, limit int) ([]types.Document, []float32, error)
}

// QueryStore defines the interface for the read-only SQL passthrough.
type QueryStore interface {
	ExecuteReadOnlyQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	Close() error
}

// Package dataloader provides per-call DataLoaders that batch user lookups
// made while rendering lineage chains and conversion histories into single
// SQL calls. Loaders call the user repository directly.
package dataloader

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type userRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

// Loaders contains the DataLoaders used while rendering one call's results.
// Loaders cache results, so a set must not outlive the call (or CLI command)
// it was created for.
type Loaders struct {
	UsersByID *dataloader.Loader[int64, *domain.User]
}

// NewLoaders creates a new set of DataLoaders backed by the user repository.
func NewLoaders(users userRepo) *Loaders {
	return &Loaders{
		UsersByID: newLoader(newUsersBatchFn(users)),
	}
}

// newLoader creates a dataloader.Loader with standard batch parameters.
func newLoader[V any](batchFn dataloader.BatchFunc[int64, V]) *dataloader.Loader[int64, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[int64, V](wait),
		dataloader.WithBatchCapacity[int64, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		return nil, false
	}
	return l, true
}

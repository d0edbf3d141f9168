package dataloader

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// ---------------------------------------------------------------------------
// Users by ID
// ---------------------------------------------------------------------------

func newUsersBatchFn(repo userRepo) dataloader.BatchFunc[int64, *domain.User] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*domain.User] {
		users, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.User](len(keys), err)
		}

		byID := make(map[int64]*domain.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}

		return mapResults(keys, byID, nilValue[*domain.User])
	}
}

// UserDirectory renders user ids as display names. It reuses the Loaders
// found in the context and otherwise creates a fresh set per call.
type UserDirectory struct {
	users userRepo
}

// NewUserDirectory creates a UserDirectory over the user repository.
func NewUserDirectory(users userRepo) *UserDirectory {
	return &UserDirectory{users: users}
}

// DisplayNames resolves every id to the user's display name. Ids with no
// matching user map to domain.UserReference. The lookup is a single batch.
func (d *UserDirectory) DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	loaders, ok := FromContext(ctx)
	if !ok {
		loaders = NewLoaders(d.users)
	}

	users, errs := loaders.UsersByID.LoadMany(ctx, ids)()
	for i, id := range ids {
		if i < len(errs) && errs[i] != nil {
			return nil, fmt.Errorf("load user %d: %w", id, errs[i])
		}
		if u := users[i]; u != nil {
			names[id] = u.DisplayName()
		} else {
			names[id] = domain.UserReference(id)
		}
	}

	return names, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults creates n Results all containing the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []int64, grouped map[int64]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// nilValue returns the zero value of V.
func nilValue[V any]() V {
	var zero V
	return zero
}

package lineage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// Kind is one registered entity kind: its repository and how its entities
// are named.
type Kind struct {
	Type  domain.EntityType
	Repo  entityRepo
	Names domain.DisplayNameRule
}

// Registry maps entity type tags to their repositories. It is filled once at
// startup and read concurrently afterwards.
type Registry struct {
	mu    sync.RWMutex
	kinds map[domain.EntityType]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[domain.EntityType]Kind)}
}

// Register adds a kind. The type tag is normalized; registering the same tag
// twice is an error. A rule with no fields gets the CRM default.
func (r *Registry) Register(t domain.EntityType, repo entityRepo, names domain.DisplayNameRule) error {
	t = t.Normalize()
	if t == "" {
		return errors.New("register entity kind: empty type")
	}
	if repo == nil {
		return fmt.Errorf("register entity kind %q: nil repository", t)
	}
	if len(names.Fields) == 0 && names.FirstNameField == "" && names.LastNameField == "" {
		names = domain.DefaultDisplayNameRule()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.kinds[t]; dup {
		return fmt.Errorf("register entity kind %q: already registered", t)
	}
	r.kinds[t] = Kind{Type: t, Repo: repo, Names: names}
	return nil
}

// Lookup returns the kind registered under t.
// Returns *domain.UnknownTypeError (domain.ErrInvalidArgument) for unknown tags.
func (r *Registry) Lookup(t domain.EntityType) (Kind, error) {
	r.mu.RLock()
	k, ok := r.kinds[t.Normalize()]
	r.mu.RUnlock()

	if !ok {
		return Kind{}, &domain.UnknownTypeError{Type: t}
	}
	return k, nil
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []domain.EntityType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.EntityType, 0, len(r.kinds))
	for t := range r.kinds {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// resolve loads the entity behind ref through its kind's repository and
// fills its display name.
func (k Kind) resolve(ctx context.Context, id int64) (*domain.Entity, error) {
	e, err := k.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Ref.Type == "" {
		e.Ref = domain.EntityRef{Type: k.Type, ID: id}
	}
	e.DisplayName = k.Names.DisplayName(e)
	return e, nil
}

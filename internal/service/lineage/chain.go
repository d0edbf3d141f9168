package lineage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// GetLineageChain reconstructs the ancestry of entity by repeatedly following
// the most recent incoming conversion. Nodes are returned oldest first; every
// node except the first carries the conversion that produced it.
//
// The walk stops at a root, at a source that no longer exists, at an entity
// already visited, or after MaxHops edges. The last three are reported in
// LineageChain.Truncated and are not errors. The whole walk reads from one
// snapshot.
func (s *Service) GetLineageChain(ctx context.Context, entity domain.EntityRef) (domain.LineageChain, error) {
	return s.chain(ctx, entity, domain.Incoming)
}

// GetDescendantChain follows the most recent outgoing conversion from entity
// forward until an entity with no successor. Nodes are returned in
// chronological order, starting with entity. Termination rules match
// GetLineageChain.
func (s *Service) GetDescendantChain(ctx context.Context, entity domain.EntityRef) (domain.LineageChain, error) {
	return s.chain(ctx, entity, domain.Outgoing)
}

func (s *Service) chain(ctx context.Context, entity domain.EntityRef, dir domain.Direction) (domain.LineageChain, error) {
	kind, err := s.registry.Lookup(entity.Type)
	if err != nil {
		return domain.LineageChain{}, err
	}

	var chain domain.LineageChain
	err = s.tx.RunReadOnly(ctx, func(ctx context.Context) error {
		var walkErr error
		chain, walkErr = s.walk(ctx, kind, entity.ID, dir)
		return walkErr
	})
	if err != nil {
		return domain.LineageChain{}, err
	}

	hops := len(chain.Nodes) - 1
	s.metrics.chainWalked(dir, hops, chain.Truncated)

	if chain.Truncated != domain.TruncateNone {
		s.log.WarnContext(ctx, "lineage chain truncated",
			slog.String("start", domain.EntityRef{Type: kind.Type, ID: entity.ID}.String()),
			slog.String("direction", dir.String()),
			slog.String("reason", string(chain.Truncated)),
			slog.Int("hops", hops),
		)
	}

	return chain, nil
}

// walk collects nodes in discovery order, then puts them in chronological
// order. edges[i] links nodes[i] and nodes[i+1] in discovery order.
func (s *Service) walk(ctx context.Context, kind Kind, id int64, dir domain.Direction) (domain.LineageChain, error) {
	start, err := kind.resolve(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.LineageChain{}, &domain.NotFoundError{
			Reason: domain.NotFoundEntity,
			Ref:    domain.EntityRef{Type: kind.Type, ID: id},
		}
	}
	if err != nil {
		return domain.LineageChain{}, fmt.Errorf("resolve %s#%d: %w", kind.Type, id, err)
	}

	current := domain.EntityRef{Type: kind.Type, ID: id}
	entities := []*domain.Entity{start}
	var edges []domain.ConversionRecord
	visited := map[domain.EntityRef]struct{}{current: {}}
	truncated := domain.TruncateNone

	for {
		rec, err := s.conversions.Latest(ctx, domain.ConversionFilter{Direction: dir, Entity: current})
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return domain.LineageChain{}, fmt.Errorf("latest %s conversion of %s: %w", dir, current, err)
		}

		if len(edges) >= s.maxHops {
			truncated = domain.TruncateDepth
			break
		}

		next := otherEnd(rec, dir)
		if _, seen := visited[next]; seen {
			truncated = domain.TruncateCycle
			break
		}

		nextKind, err := s.registry.Lookup(next.Type)
		if err != nil {
			// A record naming a kind this deployment does not register cannot
			// be resolved; treat it like a deleted entity.
			truncated = domain.TruncateDanglingReference
			break
		}

		e, err := nextKind.resolve(ctx, next.ID)
		if errors.Is(err, domain.ErrNotFound) {
			truncated = domain.TruncateDanglingReference
			break
		}
		if err != nil {
			return domain.LineageChain{}, fmt.Errorf("resolve %s: %w", next, err)
		}

		visited[next] = struct{}{}
		entities = append(entities, e)
		edges = append(edges, rec)
		current = next
	}

	names, err := s.userNames(ctx, edges)
	if err != nil {
		return domain.LineageChain{}, err
	}

	nodes := make([]domain.LineageNode, len(entities))
	for i, e := range entities {
		nodes[i] = nodeOf(e)
	}
	// In discovery order the edge producing nodes[i] is edges[i] for a
	// backward walk and edges[i-1] for a forward one.
	for i := range edges {
		target := i + 1
		if dir == domain.Incoming {
			target = i
		}
		at := edges[i].CreatedAt
		nodes[target].ConvertedAt = &at
		nodes[target].ConvertedBy = nameOf(names, edges[i].ConvertedBy)
	}

	if dir == domain.Incoming {
		slices.Reverse(nodes)
	}

	return domain.LineageChain{Nodes: nodes, Truncated: truncated}, nil
}

func nodeOf(e *domain.Entity) domain.LineageNode {
	return domain.LineageNode{
		Type:        e.Ref.Type,
		ID:          e.Ref.ID,
		DisplayName: e.DisplayName,
		CreatedAt:   e.CreatedAt,
	}
}

// userNames resolves the acting users of records in one batch.
func (s *Service) userNames(ctx context.Context, records []domain.ConversionRecord) (map[int64]string, error) {
	var ids []int64
	seen := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		if rec.ConvertedBy == nil {
			continue
		}
		if _, ok := seen[*rec.ConvertedBy]; ok {
			continue
		}
		seen[*rec.ConvertedBy] = struct{}{}
		ids = append(ids, *rec.ConvertedBy)
	}
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	names, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve converting users: %w", err)
	}
	return names, nil
}

// nameOf returns the display name for id, falling back to a plain reference.
func nameOf(names map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok || name == "" {
		name = domain.UserReference(*id)
	}
	return &name
}

package lineage

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// HasConvertedTo reports whether entity was ever converted into an entity of
// targetType.
func (s *Service) HasConvertedTo(ctx context.Context, entity domain.EntityRef, targetType domain.EntityType) (bool, error) {
	return s.exists(ctx, domain.Outgoing, entity, targetType)
}

// WasConvertedFrom reports whether entity was ever produced from an entity of
// sourceType.
func (s *Service) WasConvertedFrom(ctx context.Context, entity domain.EntityRef, sourceType domain.EntityType) (bool, error) {
	return s.exists(ctx, domain.Incoming, entity, sourceType)
}

func (s *Service) exists(ctx context.Context, dir domain.Direction, entity domain.EntityRef, other domain.EntityType) (bool, error) {
	f, _, err := s.filter(dir, entity, other)
	if err != nil {
		return false, err
	}

	ok, err := s.conversions.Exists(ctx, f)
	if err != nil {
		return false, fmt.Errorf("check %s conversion of %s: %w", dir, entity, err)
	}
	return ok, nil
}

// GetConvertedTarget returns the entity of targetType that entity was most
// recently converted into.
//
// Returns a *domain.NotFoundError with reason NotFoundNoEdge when no such
// conversion exists, or NotFoundDanglingReference when the target was deleted.
func (s *Service) GetConvertedTarget(ctx context.Context, entity domain.EntityRef, targetType domain.EntityType) (*domain.Entity, error) {
	return s.converted(ctx, domain.Outgoing, entity, targetType)
}

// GetConvertedSource returns the entity of sourceType that entity was most
// recently produced from. Errors mirror GetConvertedTarget.
func (s *Service) GetConvertedSource(ctx context.Context, entity domain.EntityRef, sourceType domain.EntityType) (*domain.Entity, error) {
	return s.converted(ctx, domain.Incoming, entity, sourceType)
}

func (s *Service) converted(ctx context.Context, dir domain.Direction, entity domain.EntityRef, other domain.EntityType) (*domain.Entity, error) {
	f, kind, err := s.filter(dir, entity, other)
	if err != nil {
		return nil, err
	}

	rec, err := s.conversions.Latest(ctx, f)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{Reason: domain.NotFoundNoEdge, Ref: f.Entity}
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s conversion of %s: %w", dir, f.Entity, err)
	}

	ref := otherEnd(rec, dir)
	e, err := kind.resolve(ctx, ref.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{Reason: domain.NotFoundDanglingReference, Ref: ref}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	return e, nil
}

// ListConversions returns the conversion history of an entity, newest first,
// with acting users rendered as display names.
func (s *Service) ListConversions(ctx context.Context, input ListConversionsInput) ([]HistoryEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var (
		records []domain.ConversionRecord
		err     error
	)
	if input.Direction != nil {
		f, ferr := s.sideFilter(*input.Direction, input.Entity)
		if ferr != nil {
			return nil, ferr
		}
		if input.OtherType != "" {
			k, lerr := s.registry.Lookup(input.OtherType)
			if lerr != nil {
				return nil, lerr
			}
			f.OtherType = k.Type
		}
		records, err = s.conversions.List(ctx, f, input.Limit)
	} else {
		kind, lerr := s.registry.Lookup(input.Entity.Type)
		if lerr != nil {
			return nil, lerr
		}
		records, err = s.conversions.ListByEntity(ctx, domain.EntityRef{Type: kind.Type, ID: input.Entity.ID}, input.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list conversions of %s: %w", input.Entity, err)
	}

	names, err := s.userNames(ctx, records)
	if err != nil {
		return nil, err
	}

	entity := domain.EntityRef{Type: input.Entity.Type.Normalize(), ID: input.Entity.ID}
	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		dir := domain.Outgoing
		if rec.Target() == entity {
			dir = domain.Incoming
		}
		entries[i] = HistoryEntry{
			Record:      rec,
			Direction:   dir,
			ConvertedBy: nameOf(names, rec.ConvertedBy),
		}
	}

	return entries, nil
}

// filter validates both type tags against the registry and builds a
// normalized ConversionFilter. An empty other is an unknown type.
func (s *Service) filter(dir domain.Direction, entity domain.EntityRef, other domain.EntityType) (domain.ConversionFilter, Kind, error) {
	f, err := s.sideFilter(dir, entity)
	if err != nil {
		return domain.ConversionFilter{}, Kind{}, err
	}
	k, err := s.registry.Lookup(other)
	if err != nil {
		return domain.ConversionFilter{}, Kind{}, err
	}
	f.OtherType = k.Type
	return f, k, nil
}

// sideFilter builds a filter matching any conversion on one side of entity.
func (s *Service) sideFilter(dir domain.Direction, entity domain.EntityRef) (domain.ConversionFilter, error) {
	self, err := s.registry.Lookup(entity.Type)
	if err != nil {
		return domain.ConversionFilter{}, err
	}
	return domain.ConversionFilter{
		Direction: dir,
		Entity:    domain.EntityRef{Type: self.Type, ID: entity.ID},
	}, nil
}

// otherEnd returns the endpoint of rec opposite to the side dir matched on.
func otherEnd(rec domain.ConversionRecord, dir domain.Direction) domain.EntityRef {
	if dir == domain.Incoming {
		return rec.Source()
	}
	return rec.Target()
}

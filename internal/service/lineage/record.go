package lineage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/pkg/ctxutil"
)

// RecordConversion appends a conversion record stamped with the current time.
// Repeated conversions of the same pair are allowed. When the caller's context
// carries a transaction the record joins it.
func (s *Service) RecordConversion(ctx context.Context, input RecordConversionInput) (domain.ConversionRecord, error) {
	rec, err := s.prepare(ctx, input)
	if err != nil {
		return domain.ConversionRecord{}, err
	}

	created, err := s.conversions.Create(ctx, rec)
	if err != nil {
		return domain.ConversionRecord{}, fmt.Errorf("record conversion: %w", err)
	}

	s.recorded(ctx, created)
	return created, nil
}

// RecordConversions appends several records atomically: either all of them
// are stored or none is. Inputs are validated before anything is written.
func (s *Service) RecordConversions(ctx context.Context, inputs []RecordConversionInput) ([]domain.ConversionRecord, error) {
	pending := make([]domain.ConversionRecord, len(inputs))
	for i, input := range inputs {
		rec, err := s.prepare(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("conversion %d: %w", i, err)
		}
		pending[i] = rec
	}

	created := make([]domain.ConversionRecord, 0, len(pending))
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created = created[:0]
		for i, rec := range pending {
			c, err := s.conversions.Create(txCtx, rec)
			if err != nil {
				return fmt.Errorf("record conversion %d: %w", i, err)
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range created {
		s.recorded(ctx, rec)
	}
	return created, nil
}

// prepare validates input, checks both type tags and fills the acting user.
func (s *Service) prepare(ctx context.Context, input RecordConversionInput) (domain.ConversionRecord, error) {
	if err := input.Validate(); err != nil {
		return domain.ConversionRecord{}, err
	}

	source, err := s.registry.Lookup(input.SourceType)
	if err != nil {
		return domain.ConversionRecord{}, err
	}
	target, err := s.registry.Lookup(input.TargetType)
	if err != nil {
		return domain.ConversionRecord{}, err
	}

	convertedBy := input.ConvertedBy
	if convertedBy == nil {
		if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
			convertedBy = &userID
		}
	}

	return domain.ConversionRecord{
		SourceType:  source.Type,
		SourceID:    input.SourceID,
		TargetType:  target.Type,
		TargetID:    input.TargetID,
		ConvertedBy: convertedBy,
	}, nil
}

// recorded runs the side effects of a stored conversion. A failed event
// publication is logged; the record itself is already stored.
func (s *Service) recorded(ctx context.Context, rec domain.ConversionRecord) {
	s.metrics.conversionRecorded(rec.SourceType, rec.TargetType)

	s.log.InfoContext(ctx, "conversion recorded",
		slog.String("conversion_id", rec.ID.String()),
		slog.String("source", rec.Source().String()),
		slog.String("target", rec.Target().String()),
	)

	if s.events == nil {
		return
	}
	if err := s.events.PublishConversion(ctx, rec); err != nil {
		s.log.WarnContext(ctx, "publish conversion event failed",
			slog.String("conversion_id", rec.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

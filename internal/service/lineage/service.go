// Package lineage records conversions between CRM pipeline entities and
// reconstructs the lineage of an entity from those records.
package lineage

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

type conversionRepo interface {
	Create(ctx context.Context, rec domain.ConversionRecord) (domain.ConversionRecord, error)
	Exists(ctx context.Context, f domain.ConversionFilter) (bool, error)
	Latest(ctx context.Context, f domain.ConversionFilter) (domain.ConversionRecord, error)
	List(ctx context.Context, f domain.ConversionFilter, limit int) ([]domain.ConversionRecord, error)
	ListByEntity(ctx context.Context, ref domain.EntityRef, limit int) ([]domain.ConversionRecord, error)
}

type entityRepo interface {
	FindByID(ctx context.Context, id int64) (*domain.Entity, error)
}

type userDirectory interface {
	DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type eventPublisher interface {
	PublishConversion(ctx context.Context, rec domain.ConversionRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// DefaultMaxHops bounds a chain walk when no limit is configured.
const DefaultMaxHops = 50

// Options tunes a Service.
type Options struct {
	// MaxHops is the number of conversion edges a chain walk may follow.
	MaxHops int
	// Events receives every recorded conversion. Nil disables publishing.
	Events eventPublisher
	// Metrics is optional.
	Metrics *Metrics
}

// Service is the lineage tracker.
type Service struct {
	conversions conversionRepo
	registry    *Registry
	users       userDirectory
	tx          txManager
	events      eventPublisher
	metrics     *Metrics
	maxHops     int
	log         *slog.Logger
}

// NewService creates a new lineage Service.
func NewService(
	log *slog.Logger,
	conversions conversionRepo,
	registry *Registry,
	users userDirectory,
	tx txManager,
	opts Options,
) *Service {
	maxHops := opts.MaxHops
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	return &Service{
		conversions: conversions,
		registry:    registry,
		users:       users,
		tx:          tx,
		events:      opts.Events,
		metrics:     opts.Metrics,
		maxHops:     maxHops,
		log:         log.With("service", "lineage"),
	}
}

// KnownTypes returns the registered entity type tags in sorted order.
func (s *Service) KnownTypes() []domain.EntityType {
	return s.registry.Types()
}

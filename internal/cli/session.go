package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/crm-lineage/internal/app"
	"github.com/heartmarshall/crm-lineage/internal/config"
	"github.com/heartmarshall/crm-lineage/internal/dataloader"
	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/internal/service/lineage"
)

// Tracker is the lineage surface the commands drive.
type Tracker interface {
	RecordConversion(ctx context.Context, input lineage.RecordConversionInput) (domain.ConversionRecord, error)
	RecordConversions(ctx context.Context, inputs []lineage.RecordConversionInput) ([]domain.ConversionRecord, error)
	HasConvertedTo(ctx context.Context, entity domain.EntityRef, targetType domain.EntityType) (bool, error)
	WasConvertedFrom(ctx context.Context, entity domain.EntityRef, sourceType domain.EntityType) (bool, error)
	GetConvertedTarget(ctx context.Context, entity domain.EntityRef, targetType domain.EntityType) (*domain.Entity, error)
	GetConvertedSource(ctx context.Context, entity domain.EntityRef, sourceType domain.EntityType) (*domain.Entity, error)
	GetLineageChain(ctx context.Context, entity domain.EntityRef) (domain.LineageChain, error)
	GetDescendantChain(ctx context.Context, entity domain.EntityRef) (domain.LineageChain, error)
	ListConversions(ctx context.Context, input lineage.ListConversionsInput) ([]lineage.HistoryEntry, error)
	KnownTypes() []domain.EntityType
}

// Session is what one command invocation runs against.
type Session struct {
	Tracker      Tracker
	QueryTimeout time.Duration
	// Metrics is gathered into --metrics-file when set. May be nil.
	Metrics prometheus.Gatherer
	// Loaders builds the per-command dataloaders. May be nil.
	Loaders func() *dataloader.Loaders
	Close   func()
}

// Opener builds a Session from the --config path.
type Opener func(ctx context.Context, configPath string) (*Session, error)

// Open loads the configuration and wires the tracker against PostgreSQL.
func Open(ctx context.Context, configPath string) (*Session, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	log := app.NewLogger(cfg.Log)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Session{
		Tracker:      a.Lineage,
		QueryTimeout: cfg.Lineage.QueryTimeout,
		Metrics:      a.Metrics,
		Loaders:      a.NewLoaders,
		Close:        a.Close,
	}, nil
}

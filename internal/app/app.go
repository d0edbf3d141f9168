package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/crm-lineage/internal/adapter/events"
	"github.com/heartmarshall/crm-lineage/internal/adapter/postgres"
	"github.com/heartmarshall/crm-lineage/internal/adapter/postgres/conversion"
	"github.com/heartmarshall/crm-lineage/internal/adapter/postgres/entity"
	"github.com/heartmarshall/crm-lineage/internal/adapter/postgres/user"
	"github.com/heartmarshall/crm-lineage/internal/config"
	"github.com/heartmarshall/crm-lineage/internal/dataloader"
	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/internal/service/lineage"
)

// App holds the wired lineage tracker and the resources it owns.
type App struct {
	Lineage *lineage.Service
	Metrics *prometheus.Registry

	pool   *pgxpool.Pool
	users  *user.Repo
	events *events.Publisher
}

// New connects to the database (and NATS when configured) and wires the
// lineage service from cfg. Close releases everything New opened.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{pool: pool}

	registry, err := NewRegistry(pool, cfg.Entities)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Metrics = prometheus.NewRegistry()
	metrics, err := lineage.NewMetrics(a.Metrics)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a.users = user.New(pool, cfg.Users.Table)

	opts := lineage.Options{
		MaxHops: cfg.Lineage.MaxHops,
		Metrics: metrics,
	}

	if cfg.Events.Enabled() {
		a.events, err = events.Connect(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts.Events = a.events
	}

	a.Lineage = lineage.NewService(
		log,
		conversion.New(pool),
		registry,
		dataloader.NewUserDirectory(a.users),
		postgres.NewTxManager(pool),
		opts,
	)

	log.Debug("lineage tracker ready",
		slog.Any("types", registry.Types()),
		slog.Int("max_hops", cfg.Lineage.MaxHops),
		slog.Bool("events", cfg.Events.Enabled()),
	)

	return a, nil
}

// NewRegistry registers one table-backed repository per configured entity kind.
func NewRegistry(pool *pgxpool.Pool, kinds []config.EntityKindConfig) (*lineage.Registry, error) {
	registry := lineage.NewRegistry()
	for _, k := range kinds {
		rule := domain.DisplayNameRule{
			Fields:         k.NameFields,
			FirstNameField: k.FirstNameField,
			LastNameField:  k.LastNameField,
		}
		if len(rule.Columns()) == 0 {
			rule = domain.DefaultDisplayNameRule()
		}
		t := domain.EntityType(k.Type)
		repo := entity.New(pool, t, k.Table, rule.Columns())
		if err := registry.Register(t, repo, rule); err != nil {
			return nil, fmt.Errorf("register %s: %w", k.Type, err)
		}
	}
	return registry, nil
}

// NewLoaders returns a fresh set of request-scoped dataloaders.
func (a *App) NewLoaders() *dataloader.Loaders {
	return dataloader.NewLoaders(a.users)
}

// Close drains the event connection and closes the database pool.
func (a *App) Close() {
	if a.events != nil {
		a.events.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Package entity implements a read-only repository over one CRM pipeline
// table (invites, leads, investisseurs, projets, ...). One Repo is created
// per registered entity kind; the lineage tracker only ever loads rows by id.
package entity

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/crm-lineage/internal/adapter/postgres"
	"github.com/heartmarshall/crm-lineage/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo loads entities of a single kind from a table.
// The table must have bigint "id" and timestamptz "created_at" columns.
type Repo struct {
	pool       *pgxpool.Pool
	kind       domain.EntityType
	table      string
	attributes []string
}

// New creates a repository for kind backed by table. attributes lists the
// columns to load alongside id and created_at (typically the display-name
// candidates). Names must already be validated identifiers; they are quoted
// regardless.
func New(pool *pgxpool.Pool, kind domain.EntityType, table string, attributes []string) *Repo {
	return &Repo{
		pool:       pool,
		kind:       kind,
		table:      table,
		attributes: attributes,
	}
}

// FindByID returns the entity with the given id.
// Returns domain.ErrNotFound if the row does not exist (e.g. it was deleted).
func (r *Repo) FindByID(ctx context.Context, id int64) (*domain.Entity, error) {
	query, args, err := r.selectByID(id)
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", r.table, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, string(r.kind), id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, postgres.MapError(err, string(r.kind), id)
	}

	return r.toDomain(id, row), nil
}

func (r *Repo) selectByID(id int64) (string, []any, error) {
	cols := make([]string, 0, len(r.attributes)+1)
	cols = append(cols, quote("created_at"))
	for _, a := range r.attributes {
		if a == "id" || a == "created_at" {
			continue
		}
		cols = append(cols, quote(a))
	}

	return psql.Select(cols...).
		From(quote(r.table)).
		Where(sq.Eq{quote("id"): id}).
		ToSql()
}

func (r *Repo) toDomain(id int64, row map[string]any) *domain.Entity {
	e := &domain.Entity{
		Ref:        domain.EntityRef{Type: r.kind, ID: id},
		Attributes: make(map[string]any, len(row)),
	}

	for k, v := range row {
		if k == "created_at" {
			if ts, ok := v.(time.Time); ok {
				e.CreatedAt = &ts
			}
			continue
		}
		e.Attributes[k] = v
	}

	return e
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

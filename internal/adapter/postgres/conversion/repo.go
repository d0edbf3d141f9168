// Package conversion implements the append-only Conversion repository using
// PostgreSQL. Every read is ordered newest first (created_at DESC, seq DESC),
// which is what gives repeated conversions their "latest wins" meaning.
package conversion

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/crm-lineage/internal/adapter/postgres"
	"github.com/heartmarshall/crm-lineage/internal/domain"
)

const table = "conversions"

var columns = []string{
	"id", "source_type", "source_id", "target_type", "target_id", "converted_by", "created_at",
}

var newestFirst = []string{"created_at DESC", "seq DESC"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides conversion record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new conversion repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends a conversion record and returns it as persisted. A nil ID is
// generated here; a zero CreatedAt takes the database clock.
func (r *Repo) Create(ctx context.Context, rec domain.ConversionRecord) (domain.ConversionRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	var createdAt any = sq.Expr("now()")
	if !rec.CreatedAt.IsZero() {
		createdAt = rec.CreatedAt
	}

	query, args, err := psql.Insert(table).
		Columns(columns...).
		Values(
			rec.ID,
			string(rec.SourceType),
			rec.SourceID,
			string(rec.TargetType),
			rec.TargetID,
			rec.ConvertedBy,
			createdAt,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.ConversionRecord{}, fmt.Errorf("build insert conversion: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...)
	created, err := scanRecord(row)
	if err != nil {
		return domain.ConversionRecord{}, postgres.MapError(err, "conversion", rec.ID)
	}

	return created, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Exists reports whether at least one record matches the filter.
func (r *Repo) Exists(ctx context.Context, f domain.ConversionFilter) (bool, error) {
	sub, args, err := psql.Select("1").From(table).Where(filterWhere(f)).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists conversion: %w", err)
	}

	var exists bool
	err = postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).
		Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "conversion", f.Entity)
	}

	return exists, nil
}

// Latest returns the most recent record matching the filter.
// Returns domain.ErrNotFound when nothing matches.
func (r *Repo) Latest(ctx context.Context, f domain.ConversionFilter) (domain.ConversionRecord, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		Where(filterWhere(f)).
		OrderBy(newestFirst...).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.ConversionRecord{}, fmt.Errorf("build latest conversion: %w", err)
	}

	rec, err := scanRecord(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.ConversionRecord{}, postgres.MapError(err, "conversion", f.Entity)
	}

	return rec, nil
}

// List returns up to limit records matching the filter, newest first.
// A limit <= 0 means no limit.
func (r *Repo) List(ctx context.Context, f domain.ConversionFilter, limit int) ([]domain.ConversionRecord, error) {
	return r.list(ctx, filterWhere(f), limit, f.Entity)
}

// ListByEntity returns records where ref is either the source or the target,
// newest first. A limit <= 0 means no limit.
func (r *Repo) ListByEntity(ctx context.Context, ref domain.EntityRef, limit int) ([]domain.ConversionRecord, error) {
	where := sq.Or{
		filterWhere(domain.ConversionFilter{Direction: domain.Outgoing, Entity: ref}),
		filterWhere(domain.ConversionFilter{Direction: domain.Incoming, Entity: ref}),
	}
	return r.list(ctx, where, limit, ref)
}

func (r *Repo) list(ctx context.Context, where sq.Sqlizer, limit int, ref domain.EntityRef) ([]domain.ConversionRecord, error) {
	b := psql.Select(columns...).From(table).Where(where).OrderBy(newestFirst...)
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list conversions: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "conversions of", ref)
	}
	defer rows.Close()

	result, err := scanRecords(rows)
	if err != nil {
		return nil, postgres.MapError(err, "conversions of", ref)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Query building
// ---------------------------------------------------------------------------

// filterWhere turns a ConversionFilter into a WHERE clause. The entity is
// matched on the side named by Direction, OtherType on the opposite side.
func filterWhere(f domain.ConversionFilter) sq.Eq {
	self, other := "source", "target"
	if f.Direction == domain.Incoming {
		self, other = "target", "source"
	}

	eq := sq.Eq{
		self + "_type": string(f.Entity.Type),
		self + "_id":   f.Entity.ID,
	}
	if f.OtherType != "" {
		eq[other+"_type"] = string(f.OtherType)
	}

	return eq
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func scanRecord(row pgx.Row) (domain.ConversionRecord, error) {
	var (
		id          uuid.UUID
		sourceType  string
		sourceID    int64
		targetType  string
		targetID    int64
		convertedBy *int64
		createdAt   time.Time
	)

	if err := row.Scan(&id, &sourceType, &sourceID, &targetType, &targetID, &convertedBy, &createdAt); err != nil {
		return domain.ConversionRecord{}, err
	}

	return domain.ConversionRecord{
		ID:          id,
		SourceType:  domain.EntityType(sourceType),
		SourceID:    sourceID,
		TargetType:  domain.EntityType(targetType),
		TargetID:    targetID,
		ConvertedBy: convertedBy,
		CreatedAt:   createdAt,
	}, nil
}

func scanRecords(rows pgx.Rows) ([]domain.ConversionRecord, error) {
	var result []domain.ConversionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.ConversionRecord{}
	}
	return result, nil
}

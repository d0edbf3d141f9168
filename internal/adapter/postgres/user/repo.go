// Package user implements read access to CRM operators using PostgreSQL.
package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/crm-lineage/internal/adapter/postgres"
	"github.com/heartmarshall/crm-lineage/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{"id", "first_name", "last_name", "email"}

// Repo provides user lookups backed by PostgreSQL.
type Repo struct {
	pool  *pgxpool.Pool
	table string
}

// New creates a new user repository reading from table.
func New(pool *pgxpool.Pool, table string) *Repo {
	return &Repo{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// GetByIDs returns the users matching ids in ascending id order.
// Missing ids are silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	query, args, err := psql.Select(columns...).
		From(r.table).
		Where("id = ANY(?)", ids).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select users: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "users", ids)
	}
	defer rows.Close()

	users := make([]domain.User, 0, len(ids))
	for rows.Next() {
		row, err := scanUser(rows)
		if err != nil {
			return nil, postgres.MapError(err, "users", ids)
		}
		users = append(users, toDomainUser(row))
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "users", ids)
	}

	return users, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type userRow struct {
	ID        int64
	FirstName pgtype.Text
	LastName  pgtype.Text
	Email     pgtype.Text
}

func scanUser(row pgx.Row) (userRow, error) {
	var u userRow
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email)
	return u, err
}

func toDomainUser(row userRow) domain.User {
	return domain.User{
		ID:        row.ID,
		FirstName: pgTextToString(row.FirstName),
		LastName:  pgTextToString(row.LastName),
		Email:     pgTextToString(row.Email),
	}
}

func pgTextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

package testhelper

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueID returns a random positive id for tests that reference entities
// without seeding their rows.
func UniqueID() int64 {
	return rand.Int63n(1<<40) + 1
}

// SeedUser creates a CRM operator with a unique email. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, firstName, lastName string) domain.User {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     "operator-" + uniqueSuffix() + "@example.com",
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email) VALUES ($1, $2, $3) RETURNING id`,
		user.FirstName, user.LastName, user.Email,
	).Scan(&user.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedEntity inserts a row into one of the pipeline tables (invites, leads,
// investisseurs, projets) with the given text attributes and returns its id.
func SeedEntity(t *testing.T, pool *pgxpool.Pool, table string, attrs map[string]string) int64 {
	t.Helper()
	ctx := context.Background()

	cols := make([]string, 0, len(attrs))
	for c := range attrs {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = attrs[c]
	}

	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING id`, table)
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
			table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	}

	var id int64
	if err := pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		t.Fatalf("testhelper: SeedEntity insert into %s: %v", table, err)
	}

	return id
}

// DeleteEntity removes a pipeline row, leaving any conversion records that
// point at it dangling.
func DeleteEntity(t *testing.T, pool *pgxpool.Pool, table string, id int64) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id); err != nil {
		t.Fatalf("testhelper: DeleteEntity %s %d: %v", table, id, err)
	}
}

// SeedConversion inserts a conversion record directly, bypassing the
// repository, with an explicit timestamp.
func SeedConversion(t *testing.T, pool *pgxpool.Pool, source, target domain.EntityRef, convertedBy *int64, at time.Time) domain.ConversionRecord {
	t.Helper()

	rec := domain.ConversionRecord{
		ID:          uuid.New(),
		SourceType:  source.Type,
		SourceID:    source.ID,
		TargetType:  target.Type,
		TargetID:    target.ID,
		ConvertedBy: convertedBy,
		CreatedAt:   at.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO conversions (id, source_type, source_id, target_type, target_id, converted_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, string(rec.SourceType), rec.SourceID, string(rec.TargetType), rec.TargetID, rec.ConvertedBy, rec.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedConversion insert: %v", err)
	}

	return rec
}

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	user := SeedUser(t, pool, "Smoke", "Test")

	var email string
	err := pool.QueryRow(
		context.Background(),
		`SELECT email FROM users WHERE id = $1`,
		user.ID,
	).Scan(&email)
	if err != nil {
		t.Fatalf("expected user in DB, got error: %v", err)
	}

	if email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, email)
	}
}

func TestConversions_AppendOnly(t *testing.T) {
	pool := SetupTestDB(t)
	ctx := context.Background()

	invite := SeedEntity(t, pool, "invites", map[string]string{"nom": "Durand"})
	lead := SeedEntity(t, pool, "leads", map[string]string{"name": "Durand SARL"})
	rec := SeedConversion(t, pool,
		domain.EntityRef{Type: domain.EntityTypeInvite, ID: invite},
		domain.EntityRef{Type: domain.EntityTypeLead, ID: lead},
		nil, time.Now(),
	)

	if _, err := pool.Exec(ctx, `UPDATE conversions SET target_id = target_id + 1 WHERE id = $1`, rec.ID); err == nil {
		t.Fatal("expected UPDATE on conversions to be rejected")
	}
	if _, err := pool.Exec(ctx, `DELETE FROM conversions WHERE id = $1`, rec.ID); err == nil {
		t.Fatal("expected DELETE on conversions to be rejected")
	}
}

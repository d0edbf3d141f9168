package conversion

import (
	"testing"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

func TestFilterWhere(t *testing.T) {
	t.Parallel()

	lead := domain.EntityRef{Type: domain.EntityTypeLead, ID: 55}

	tests := []struct {
		name     string
		filter   domain.ConversionFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "outgoing any type",
			filter:   domain.ConversionFilter{Direction: domain.Outgoing, Entity: lead},
			wantSQL:  "source_id = ? AND source_type = ?",
			wantArgs: []any{int64(55), "lead"},
		},
		{
			name:     "outgoing with target type",
			filter:   domain.ConversionFilter{Direction: domain.Outgoing, Entity: lead, OtherType: domain.EntityTypeProjet},
			wantSQL:  "source_id = ? AND source_type = ? AND target_type = ?",
			wantArgs: []any{int64(55), "lead", "projet"},
		},
		{
			name:     "incoming with source type",
			filter:   domain.ConversionFilter{Direction: domain.Incoming, Entity: lead, OtherType: domain.EntityTypeInvite},
			wantSQL:  "source_type = ? AND target_id = ? AND target_type = ?",
			wantArgs: []any{"invite", int64(55), "lead"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sql, args, err := filterWhere(tt.filter).ToSql()
			if err != nil {
				t.Fatalf("ToSql: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestLatestQuery_OrdersNewestFirst(t *testing.T) {
	t.Parallel()

	sql, _, err := psql.Select(columns...).
		From(table).
		Where(filterWhere(domain.ConversionFilter{Direction: domain.Incoming, Entity: domain.EntityRef{Type: "projet", ID: 1}})).
		OrderBy(newestFirst...).
		Limit(1).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}

	want := "SELECT id, source_type, source_id, target_type, target_id, converted_by, created_at FROM conversions " +
		"WHERE target_id = $1 AND target_type = $2 ORDER BY created_at DESC, seq DESC LIMIT 1"
	if sql != want {
		t.Errorf("sql =\n%q\nwant\n%q", sql, want)
	}
}

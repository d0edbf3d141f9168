package domain

import "testing"

func TestDisplayNameRule_DisplayName(t *testing.T) {
	t.Parallel()

	title := "Salon de Lyon"

	tests := []struct {
		name   string
		rule   DisplayNameRule
		attrs  map[string]any
		expect string
	}{
		{
			name:   "name wins over nom and title",
			rule:   DefaultDisplayNameRule(),
			attrs:  map[string]any{"name": "Acme", "nom": "Acme SA", "title": "T"},
			expect: "Acme",
		},
		{
			name:   "blank name falls through to nom",
			rule:   DefaultDisplayNameRule(),
			attrs:  map[string]any{"name": "   ", "nom": "Dupont"},
			expect: "Dupont",
		},
		{
			name:   "pointer title",
			rule:   DefaultDisplayNameRule(),
			attrs:  map[string]any{"name": nil, "title": &title},
			expect: "Salon de Lyon",
		},
		{
			name: "full name after candidates",
			rule: DisplayNameRule{
				Fields:         []string{"company"},
				FirstNameField: "prenom",
				LastNameField:  "nom",
			},
			attrs:  map[string]any{"prenom": "Marie", "nom": "Curie"},
			expect: "Marie Curie",
		},
		{
			name:   "last name only",
			rule:   DisplayNameRule{FirstNameField: "first_name", LastNameField: "last_name"},
			attrs:  map[string]any{"last_name": "Martin"},
			expect: "Martin",
		},
		{
			name:   "no usable attribute",
			rule:   DefaultDisplayNameRule(),
			attrs:  map[string]any{"email": "x@example.com"},
			expect: "ID: 42",
		},
		{
			name:   "nil attributes",
			rule:   DefaultDisplayNameRule(),
			attrs:  nil,
			expect: "ID: 42",
		},
		{
			name:   "non-string attribute",
			rule:   DisplayNameRule{Fields: []string{"code"}},
			attrs:  map[string]any{"code": int64(7)},
			expect: "7",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := &Entity{Ref: EntityRef{Type: EntityTypeLead, ID: 42}, Attributes: tt.attrs}
			if got := tt.rule.DisplayName(e); got != tt.expect {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestDisplayNameRule_Columns(t *testing.T) {
	t.Parallel()

	rule := DisplayNameRule{
		Fields:         []string{"name", "nom"},
		FirstNameField: "prenom",
		LastNameField:  "nom",
	}

	got := rule.Columns()
	want := []string{"name", "nom", "prenom"}
	if len(got) != len(want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntityType_Normalize(t *testing.T) {
	t.Parallel()

	if got := EntityType("  Lead ").Normalize(); got != EntityTypeLead {
		t.Errorf("Normalize() = %q, want %q", got, EntityTypeLead)
	}
}

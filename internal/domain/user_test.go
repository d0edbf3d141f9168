package domain

import "testing"

func TestUser_DisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		user   User
		expect string
	}{
		{"full name", User{ID: 3, FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", User{ID: 3, FirstName: "Ada "}, "Ada"},
		{"email fallback", User{ID: 3, Email: "ada@example.com"}, "ada@example.com"},
		{"reference fallback", User{ID: 3}, "User #3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.user.DisplayName(); got != tt.expect {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expect)
			}
		})
	}
}

package models

import "testing"

func TestFallbackTeamName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		registrant string
		want       string
	}{
		{registrant: "Ada Lovelace", want: "Team-Ada"},
		{registrant: "  Grace   Brewster Hopper ", want: "Team-Grace"},
		{registrant: "Cher", want: "Team-Cher"},
		{registrant: "", want: "Team-"},
	}
	for _, tt := range tests {
		if got := FallbackTeamName(tt.registrant); got != tt.want {
			t.Fatalf("FallbackTeamName(%q) = %q, want %q", tt.registrant, got, tt.want)
		}
	}
}

func TestValidInviteCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{code: "AB12CD", want: true},
		{code: "000000", want: true},
		{code: "ab12cd", want: false},
		{code: "AB12C", want: false},
		{code: "AB12CDE", want: false},
		{code: "AB-2CD", want: false},
		{code: "", want: false},
	}
	for _, tt := range tests {
		if got := ValidInviteCode(tt.code); got != tt.want {
			t.Fatalf("ValidInviteCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestUserFirstName(t *testing.T) {
	t.Parallel()

	user := User{Name: "Ada Lovelace"}
	if got := user.FirstName(); got != "Ada" {
		t.Fatalf("FirstName() = %q, want %q", got, "Ada")
	}
}

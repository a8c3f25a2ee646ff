package user

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Alice@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "alice@example.com" {
		t.Errorf("got %q", got)
	}

	for _, bad := range []string{"", "not-an-email", "Alice <alice@example.com>"} {
		if _, err := NormalizeEmail(bad); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("NormalizeEmail(%q): expected ErrValidation, got %v", bad, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		pw string
		ok bool
	}{
		{"secret12", true},
		{"short1", false},
		{"onlyletters", false},
		{"12345678", false},
		{"pässwört9", true},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.pw)
		if tt.ok && err != nil {
			t.Errorf("ValidatePassword(%q): unexpected error %v", tt.pw, err)
		}
		if !tt.ok && !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ValidatePassword(%q): expected ErrValidation, got %v", tt.pw, err)
		}
	}
}

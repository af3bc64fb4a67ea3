package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"ADMINISTRATOR", "CUSTOMER", " CUSTOMER "} {
		if _, err := ParseRole(in); err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", in, err)
		}
	}
	for _, in := range []string{"", "admin", "customer", "ROOT"} {
		_, err := ParseRole(in)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseRole(%q): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{Username: "alice", PasswordHash: "$2a$10$secret", Role: RoleCustomer})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret") || strings.Contains(string(b), "password") {
		t.Fatalf("password hash leaked: %s", b)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("username is required", "password is required")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is ErrValidation")
	}
	if err.Error() != "username is required; password is required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

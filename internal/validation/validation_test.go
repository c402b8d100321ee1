package validation

import (
	"testing"

	apperr "github.com/ratewise/platform/internal/errors"
)

func TestPasswordRules(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Valid@pass1", true},
		{"too short", "Ab@1", false},
		{"too long", "Abcdefgh@1234567890", false},
		{"no uppercase", "lowercase@123", false},
		{"no special", "NoSpecial123", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Errors{}
			e.Password("password", tc.password)
			if got := len(e) == 0; got != tc.ok {
				t.Fatalf("password %q: valid=%v, want %v (%v)", tc.password, got, tc.ok, e)
			}
		})
	}
}

func TestNameLength(t *testing.T) {
	e := Errors{}
	e.Length("name", "Too Short", NameMinLength, NameMaxLength)
	if len(e) == 0 {
		t.Fatal("short name should fail")
	}

	e = Errors{}
	e.Length("name", "A Perfectly Reasonable Full Name", NameMinLength, NameMaxLength)
	if len(e) != 0 {
		t.Fatalf("valid name rejected: %v", e)
	}
}

func TestEmailShape(t *testing.T) {
	e := Errors{}
	e.Email("email", "user@example.com")
	if len(e) != 0 {
		t.Fatalf("valid email rejected: %v", e)
	}

	for _, bad := range []string{"", "plain", "a@b", "a b@example.com", "@example.com"} {
		e := Errors{}
		e.Email("email", bad)
		if len(e) == 0 {
			t.Fatalf("email %q should fail", bad)
		}
	}
}

func TestCollectsMultipleFields(t *testing.T) {
	e := Errors{}
	e.Required("name", "")
	e.Email("email", "nope")
	e.IntRange("rating", 9, 1, 5)

	err := e.Err()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error type, got %v", err)
	}
	if len(e) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(e), e)
	}
}

func TestFirstMessageWins(t *testing.T) {
	e := Errors{}
	e.Required("name", "")
	e.Length("name", "", NameMinLength, NameMaxLength)
	if e["name"] != "name is required" {
		t.Fatalf("unexpected message: %q", e["name"])
	}
}

func TestOneOf(t *testing.T) {
	e := Errors{}
	e.OneOf("role", "USER", "ADMIN", "USER", "STORE_OWNER")
	if len(e) != 0 {
		t.Fatalf("valid role rejected: %v", e)
	}

	e = Errors{}
	e.OneOf("role", "SUPERUSER", "ADMIN", "USER", "STORE_OWNER")
	if len(e) == 0 {
		t.Fatal("invalid role accepted")
	}
}

package identity

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestIdentityForFullClaims(t *testing.T) {
	p := NewJWTProvider()
	token := signToken(t, jwt.MapClaims{
		"sub":                "abc-123",
		"preferred_username": "ADM2021001",
		"admission_number":   "ADM2021001",
		"realm_access": map[string]any{
			"roles": []any{"student", "offline_access"},
		},
	})

	id, err := p.IdentityFor(token)
	if err != nil {
		t.Fatalf("IdentityFor failed: %v", err)
	}
	if id.SubjectID != "ADM2021001" {
		t.Errorf("SubjectID = %q, want %q", id.SubjectID, "ADM2021001")
	}
	if len(id.Roles) != 2 || id.Roles[0] != "student" {
		t.Errorf("Roles = %v", id.Roles)
	}
}

func TestIdentityForSubjectFallback(t *testing.T) {
	p := NewJWTProvider()

	// admission_numberなし → preferred_username
	token := signToken(t, jwt.MapClaims{"preferred_username": "jdoe", "sub": "abc"})
	id, err := p.IdentityFor(token)
	if err != nil {
		t.Fatalf("IdentityFor failed: %v", err)
	}
	if id.SubjectID != "jdoe" {
		t.Errorf("SubjectID = %q, want %q", id.SubjectID, "jdoe")
	}

	// preferred_usernameもなし → sub
	token = signToken(t, jwt.MapClaims{"sub": "abc-123"})
	id, err = p.IdentityFor(token)
	if err != nil {
		t.Fatalf("IdentityFor failed: %v", err)
	}
	if id.SubjectID != "abc-123" {
		t.Errorf("SubjectID = %q, want %q", id.SubjectID, "abc-123")
	}
}

func TestIdentityForDegradesToEmptyRoles(t *testing.T) {
	p := NewJWTProvider()

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"no realm_access", jwt.MapClaims{"sub": "abc"}},
		{"realm_access wrong shape", jwt.MapClaims{"sub": "abc", "realm_access": "oops"}},
		{"roles wrong shape", jwt.MapClaims{"sub": "abc", "realm_access": map[string]any{"roles": "student"}}},
		{"non-string role entries", jwt.MapClaims{"sub": "abc", "realm_access": map[string]any{"roles": []any{42}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := p.IdentityFor(signToken(t, tt.claims))
			if err != nil {
				t.Fatalf("IdentityFor failed: %v", err)
			}
			if len(id.Roles) != 0 {
				t.Errorf("Roles = %v, want empty", id.Roles)
			}
		})
	}
}

func TestIdentityForErrors(t *testing.T) {
	p := NewJWTProvider()

	if _, err := p.IdentityFor(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty token: err = %v, want ErrNoToken", err)
	}
	if _, err := p.IdentityFor("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want ErrInvalidToken", err)
	}

	token := signToken(t, jwt.MapClaims{"realm_access": map[string]any{"roles": []any{"student"}}})
	if _, err := p.IdentityFor(token); !errors.Is(err, ErrSubjectMissing) {
		t.Errorf("no subject: err = %v, want ErrSubjectMissing", err)
	}
}

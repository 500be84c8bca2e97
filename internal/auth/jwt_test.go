package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	token, exp, err := Issue("a1", "admin", "MegaMess", "messapp", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry not in the future")
	}

	claims, err := Parse(token, "secret", "messapp")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AdminID != "a1" || claims.Role != "admin" || claims.MessName != "MegaMess" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := Issue("a1", "admin", "MegaMess", "messapp", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(token, "other-secret", "messapp"); err == nil {
		t.Fatal("expected error for wrong signing key")
	}
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, _, err := Issue("a1", "admin", "MegaMess", "someone-else", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(token, "secret", "messapp"); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue("a1", "admin", "MegaMess", "messapp", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(token, "secret", "messapp"); err == nil {
		t.Fatal("expected expiry error")
	}
}

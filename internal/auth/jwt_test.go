package auth

import (
	"testing"
	"time"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.GenerateAccessToken(42, "ada@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != 42 || claims.Email != "ada@example.com" || claims.Subject != "42" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestManager_RejectsOtherSecret(t *testing.T) {
	raw, _ := NewManager("secret-a", time.Hour).GenerateAccessToken(1, "a@example.com")

	if _, err := NewManager("secret-b", time.Hour).VerifyAccessToken(raw); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, _ := m.GenerateAccessToken(1, "a@example.com")

	if _, err := m.VerifyAccessToken(raw); err == nil {
		t.Fatal("expected expiry error")
	}
}
